// Package optim implements first-order optimizers over a flat parameter slice
// and the gradient slice accumulated alongside it.
package optim

import "math"

const (
	Beta1   = 0.9
	Beta2   = 0.999
	Epsilon = 1e-8
)

func checkLen(params, grads []float64) {
	if len(params) != len(grads) {
		panic("optim: length mismatch")
	}
}

// SGD is stochastic gradient descent with optional momentum.
type SGD struct {
	LearningRate float64
	Momentum     float64

	params   []float64
	grads    []float64
	velocity []float64
}

// NewSGD returns an SGD optimizer bound to params and grads. Both slices are
// kept; Step writes into params.
func NewSGD(params, grads []float64, learningRate, momentum float64) *SGD {
	checkLen(params, grads)
	s := &SGD{
		LearningRate: learningRate,
		Momentum:     momentum,
		params:       params,
		grads:        grads,
	}
	if momentum != 0 {
		s.velocity = make([]float64, len(params))
	}
	return s
}

func (s *SGD) ZeroGrad() { zero(s.grads) }

func (s *SGD) Step() {
	if s.velocity == nil {
		for i, g := range s.grads {
			s.params[i] -= s.LearningRate * g
		}
		return
	}
	for i, g := range s.grads {
		s.velocity[i] = s.Momentum*s.velocity[i] + g
		s.params[i] -= s.LearningRate * s.velocity[i]
	}
}

// Adam is the adaptive moment estimation optimizer of Kingma and Ba.
type Adam struct {
	LearningRate float64

	params []float64
	grads  []float64
	m1     []float64
	m2     []float64
	t      int
}

func NewAdam(params, grads []float64, learningRate float64) *Adam {
	checkLen(params, grads)
	return &Adam{
		LearningRate: learningRate,
		params:       params,
		grads:        grads,
		m1:           make([]float64, len(params)),
		m2:           make([]float64, len(params)),
	}
}

func (a *Adam) ZeroGrad() { zero(a.grads) }

func (a *Adam) Step() {
	a.t++
	c1 := 1 - math.Pow(Beta1, float64(a.t))
	c2 := 1 - math.Pow(Beta2, float64(a.t))
	for i, g := range a.grads {
		a.m1[i] = a.m1[i]*Beta1 + g*(1-Beta1)
		a.m2[i] = a.m2[i]*Beta2 + g*g*(1-Beta2)
		a.params[i] -= a.LearningRate * (a.m1[i] / c1) / (math.Sqrt(a.m2[i]/c2) + Epsilon)
	}
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
