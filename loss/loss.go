// Package loss implements differentiable costs between a prediction and its
// target. Every type satisfies cvselect.Loss.
package loss

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const eps = 1e-7

func checkLen(dst, pred, target []float64) {
	if len(pred) != len(target) {
		panic("loss: length mismatch")
	}
	if dst != nil && len(dst) != len(pred) {
		panic("loss: length mismatch")
	}
}

// MSE is the mean squared error.
type MSE struct{}

func (MSE) Loss(pred, target []float64) float64 {
	checkLen(nil, pred, target)
	var sum float64
	for i, p := range pred {
		d := p - target[i]
		sum += d * d
	}
	return sum / float64(len(pred))
}

func (MSE) Gradient(dst, pred, target []float64) {
	checkLen(dst, pred, target)
	n := float64(len(pred))
	for i, p := range pred {
		dst[i] = 2 * (p - target[i]) / n
	}
}

// BinaryCrossEntropy is the mean cross entropy between predicted probabilities
// and binary targets. Predictions are clamped to [1e-7, 1-1e-7].
type BinaryCrossEntropy struct{}

func clamp(p float64) float64 {
	return math.Max(eps, math.Min(1-eps, p))
}

func (BinaryCrossEntropy) Loss(pred, target []float64) float64 {
	checkLen(nil, pred, target)
	var sum float64
	for i, p := range pred {
		p = clamp(p)
		t := target[i]
		sum -= t*math.Log(p) + (1-t)*math.Log(1-p)
	}
	return sum / float64(len(pred))
}

func (BinaryCrossEntropy) Gradient(dst, pred, target []float64) {
	checkLen(dst, pred, target)
	n := float64(len(pred))
	for i, p := range pred {
		p = clamp(p)
		t := target[i]
		dst[i] = (p - t) / (p * (1 - p)) / n
	}
}

// SoftJaccard is one minus the soft intersection over union,
//
//	1 - Σ p t / (Σ p + Σ t - Σ p t)
//
// a differentiable surrogate of the IoU metric.
type SoftJaccard struct{}

func (SoftJaccard) parts(pred, target []float64) (inter, union float64) {
	inter = floats.Dot(pred, target)
	union = floats.Sum(pred) + floats.Sum(target) - inter
	return inter, union + eps
}

func (j SoftJaccard) Loss(pred, target []float64) float64 {
	checkLen(nil, pred, target)
	inter, union := j.parts(pred, target)
	return 1 - inter/union
}

func (j SoftJaccard) Gradient(dst, pred, target []float64) {
	checkLen(dst, pred, target)
	inter, union := j.parts(pred, target)
	// d(inter/union)/dp_i = (t_i*union - inter*(1 - t_i)) / union²
	u2 := union * union
	for i, t := range target {
		dst[i] = -(t*union - inter*(1-t)) / u2
	}
}
