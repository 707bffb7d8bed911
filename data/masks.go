package data

import (
	"math"
	"math/rand"

	"github.com/btracey/cvselect"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaskSettings describes a synthetic segmentation problem. Every sample is a
// Side×Side image holding one bright disc plus Gaussian noise; its label is
// the binary mask of the disc. Images and masks are flattened row by row.
type MaskSettings struct {
	Side  int     // image width and height in pixels. If 0, defaults to 4.
	Noise float64 // standard deviation of the pixel noise
	// MinRadius and MaxRadius bound the disc radius in pixels. If MaxRadius
	// is 0, they default to Side/4 and Side/2.
	MinRadius, MaxRadius float64
}

// Masks generates n image and mask pairs.
func Masks(n int, s MaskSettings, rnd *rand.Rand) *cvselect.Dataset {
	if n <= 0 {
		panic("data: non-positive number of samples")
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	side := s.Side
	if side == 0 {
		side = 4
	}
	minR, maxR := s.MinRadius, s.MaxRadius
	if maxR == 0 {
		minR, maxR = float64(side)/4, float64(side)/2
	}
	radius := distuv.Uniform{Min: minR, Max: maxR, Src: exprand.NewSource(uint64(rnd.Int63()))}
	center := distuv.Uniform{Min: 0, Max: float64(side), Src: exprand.NewSource(uint64(rnd.Int63()))}
	var noise distuv.Normal
	if s.Noise > 0 {
		noise = distuv.Normal{Mu: 0, Sigma: s.Noise, Src: exprand.NewSource(uint64(rnd.Int63()))}
	}

	pix := side * side
	x := mat.NewDense(n, pix, nil)
	y := mat.NewDense(n, pix, nil)
	for i := 0; i < n; i++ {
		r := radius.Rand()
		cx, cy := center.Rand(), center.Rand()
		img := x.RawRowView(i)
		mask := y.RawRowView(i)
		for p := range img {
			// Pixel centers sit at half-integer coordinates.
			px := float64(p%side) + 0.5
			py := float64(p/side) + 0.5
			d := math.Hypot(px-cx, py-cy)
			img[p] = math.Exp(-d * d / (2 * r * r))
			if s.Noise > 0 {
				img[p] += noise.Rand()
			}
			if d <= r {
				mask[p] = 1
			}
		}
	}
	return cvselect.NewDataset(x, y)
}
