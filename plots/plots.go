// Package plots renders the evolution of a training metric over epochs.
package plots

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	trainColor  = color.RGBA{B: 255, A: 255}
	valColor    = color.RGBA{R: 255, A: 255}
	markerColor = color.Black
)

// Settings controls TrainVal. The zero value of each field selects the default
// documented with it.
type Settings struct {
	Period int     // epochs between two samples of a curve. If 0, defaults to 25.
	Step   float64 // if positive, a vertical line is drawn every Step epochs.
	Metric string  // name of the metric. If empty, defaults to "IoU".

	Dir    string // output directory. If empty, the working directory.
	Format string // image encoding, any format of plot.Save. If empty, "png".

	Width, Height vg.Length // If 0, defaults to 6 by 4 inches.

	// Show, if non-nil, is called with the path of the written file, for
	// instance to open it in a viewer.
	Show func(path string) error
}

func (s *Settings) fill() {
	if s.Period == 0 {
		s.Period = 25
	}
	if s.Metric == "" {
		s.Metric = "IoU"
	}
	if s.Format == "" {
		s.Format = "png"
	}
	if s.Width == 0 {
		s.Width = 6 * vg.Inch
	}
	if s.Height == 0 {
		s.Height = 4 * vg.Inch
	}
}

// FileName returns the name of the file TrainVal writes for metric.
func FileName(metric string) string {
	return "evol_" + metric
}

// TrainVal plots the training and validation values of a metric sampled every
// Period epochs and writes the chart to the file evol_<metric> in s.Dir. The
// returned path is that of the written file. The two curves are drawn
// independently, so sequences of different lengths are drawn point by point.
func TrainVal(train, val []float64, settings *Settings) (string, error) {
	var s Settings
	if settings != nil {
		s = *settings
	}
	s.fill()

	p := plot.New()
	p.Title.Text = "Evolution of the " + s.Metric + " with respect to the number of epochs"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Number of Epochs"
	p.Y.Label.Text = s.Metric

	if s.Step > 0 {
		for _, x := range Markers(len(train), s.Period, s.Step) {
			p.Add(vline{X: x, LineStyle: draw.LineStyle{Color: markerColor, Width: vg.Points(1)}})
		}
	}

	for _, c := range []struct {
		vals  []float64
		label string
		color color.Color
	}{
		{vals: train, label: s.Metric + " train", color: trainColor},
		{vals: val, label: s.Metric + " val", color: valColor},
	} {
		l, sc, err := plotter.NewLinePoints(Points(c.vals, s.Period))
		if err != nil {
			return "", errors.Wrapf(err, "plots: %s", c.label)
		}
		l.Color = c.color
		l.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
		sc.Shape = draw.CircleGlyph{}
		sc.Color = c.color
		sc.Radius = vg.Points(3)
		p.Add(l, sc)
		p.Legend.Add(c.label, l, sc)
	}
	p.Legend.Top = true
	p.Legend.Left = false

	path := filepath.Join(s.Dir, FileName(s.Metric))
	if err := save(p, s, path); err != nil {
		return "", err
	}
	if s.Show != nil {
		if err := s.Show(path); err != nil {
			return path, errors.Wrap(err, "plots: showing chart")
		}
	}
	return path, nil
}

func save(p *plot.Plot, s Settings, path string) error {
	// plot.Save picks the format from the extension; the file name has none.
	w, err := p.WriterTo(s.Width, s.Height, s.Format)
	if err != nil {
		return errors.Wrap(err, "plots: encoding chart")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "plots: creating chart file")
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrap(err, "plots: writing chart")
	}
	return errors.Wrap(f.Close(), "plots: closing chart file")
}

// Points places vals at the epochs period, 2*period, ...
func Points(vals []float64, period int) plotter.XYs {
	xys := make(plotter.XYs, len(vals))
	for i, v := range vals {
		xys[i].X = float64((i + 1) * period)
		xys[i].Y = v
	}
	return xys
}

// Markers returns the epochs step, 2*step, ... that lie within the n samples
// of a curve sampled every period epochs.
func Markers(n, period int, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	count := int(math.Floor(float64(n*period) / step))
	xs := make([]float64, count)
	for i := range xs {
		xs[i] = float64(i+1) * step
	}
	return xs
}

// vline is a vertical line across the whole data area.
type vline struct {
	X float64
	draw.LineStyle
}

func (v vline) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)
	x := trX(v.X)
	c.StrokeLine2(v.LineStyle, x, c.Min.Y, x, c.Max.Y)
}

// DataRange includes v.X and leaves the y range to the curves.
func (v vline) DataRange() (xmin, xmax, ymin, ymax float64) {
	return v.X, v.X, math.Inf(1), math.Inf(-1)
}
