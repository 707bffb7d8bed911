package plots

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestTrainVal(t *testing.T) {
	dir := t.TempDir()
	path, err := TrainVal([]float64{0.5, 0.6, 0.7}, []float64{0.4, 0.5, 0.55}, &Settings{Period: 10, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "evol_IoU"); path != want {
		t.Errorf("wrong path. Want %v, got %v", want, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Errorf("chart is not a png")
	}
}

func TestFileName(t *testing.T) {
	dir := t.TempDir()
	for _, metric := range []string{"IoU", "Accuracy", "loss", "dice score"} {
		var shown string
		s := &Settings{
			Metric: metric,
			Dir:    dir,
			Step:   30,
			Format: "svg",
			Show: func(p string) error {
				shown = p
				return nil
			},
		}
		path, err := TrainVal([]float64{1, 2, 3, 4}, []float64{1, 1.5}, s)
		if err != nil {
			t.Errorf("Case %s: %v", metric, err)
			continue
		}
		if filepath.Base(path) != "evol_"+metric {
			t.Errorf("Case %s: wrong file name %v", metric, filepath.Base(path))
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Case %s: %v", metric, err)
		}
		if shown != path {
			t.Errorf("Case %s: Show called with %q, want %q", metric, shown, path)
		}
	}
}

func TestPoints(t *testing.T) {
	xys := Points([]float64{0.5, 0.6, 0.7}, 10)
	var xs []float64
	for _, xy := range xys {
		xs = append(xs, xy.X)
	}
	if want := []float64{10, 20, 30}; !floats.Equal(xs, want) {
		t.Errorf("x values mismatch. Want %v, got %v", want, xs)
	}
	if xys[2].Y != 0.7 {
		t.Errorf("y value mismatch. Want 0.7, got %v", xys[2].Y)
	}
}

func TestMarkers(t *testing.T) {
	for _, test := range []struct {
		Name   string
		n      int
		period int
		step   float64
		want   []float64
	}{
		{Name: "Exact", n: 3, period: 10, step: 15, want: []float64{15, 30}},
		{Name: "Floor", n: 3, period: 10, step: 7, want: []float64{7, 14, 21, 28}},
		{Name: "TooLarge", n: 2, period: 25, step: 100, want: []float64{}},
		{Name: "Disabled", n: 2, period: 25, step: 0, want: nil},
	} {
		got := Markers(test.n, test.period, test.step)
		if len(got) != len(test.want) || !floats.Equal(got, test.want) {
			t.Errorf("Case %s: markers mismatch. Want %v, got %v", test.Name, test.want, got)
		}
	}
}
