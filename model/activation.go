package model

import "math"

// Activation is an elementwise output function of a model.
type Activation interface {
	Sigma(x float64) float64
	SigmaPrime(x float64) float64
}

type Identity struct{}

func (Identity) Sigma(x float64) float64      { return x }
func (Identity) SigmaPrime(x float64) float64 { return 1 }

// Sigmoid maps to (0, 1), so the output of the model can be read as the
// probability of a pixel being in the mask.
type Sigmoid struct{}

func (Sigmoid) Sigma(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func (s Sigmoid) SigmaPrime(x float64) float64 {
	y := s.Sigma(x)
	return y * (1 - y)
}

// ActivationByName returns the activation called name ("identity" or
// "sigmoid").
func ActivationByName(name string) (Activation, bool) {
	switch name {
	case "identity", "linear", "":
		return Identity{}, true
	case "sigmoid":
		return Sigmoid{}, true
	}
	return nil, false
}
