// Package model implements small differentiable models that satisfy
// cvselect.Model.
package model

import (
	"math"
	"math/rand"

	"github.com/btracey/cvselect"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linear is the affine model σ(x W + b) applied to every row x of the input.
// The parameters are stored as W in row-major order followed by b.
type Linear struct {
	In, Out int
	Act     Activation

	params []float64
	grads  []float64
}

var _ cvselect.Model = &Linear{}

// NewLinear returns a model with In inputs and Out outputs. The weights are
// drawn uniformly with variance 1/in and the biases are zero. If act is nil,
// Identity is used. If rnd is nil, the global source is used.
func NewLinear(in, out int, act Activation, rnd *rand.Rand) *Linear {
	if in <= 0 || out <= 0 {
		panic("model: non-positive dimension")
	}
	if act == nil {
		act = Identity{}
	}
	l := &Linear{
		In:     in,
		Out:    out,
		Act:    act,
		params: make([]float64, in*out+out),
		grads:  make([]float64, in*out+out),
	}
	// A uniform on [-a, a] has variance a²/3.
	a := math.Sqrt(3 / float64(in))
	w := l.params[:in*out]
	for i := range w {
		var u float64
		if rnd == nil {
			u = rand.Float64()
		} else {
			u = rnd.Float64()
		}
		w[i] = (2*u - 1) * a
	}
	return l
}

func (l *Linear) weights(p []float64) *mat.Dense {
	return mat.NewDense(l.In, l.Out, p[:l.In*l.Out])
}

func (l *Linear) bias(p []float64) []float64 {
	return p[l.In*l.Out:]
}

// affine returns x W + b.
func (l *Linear) affine(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	if c != l.In {
		panic("model: input dimension mismatch")
	}
	z := mat.NewDense(r, l.Out, nil)
	z.Mul(x, l.weights(l.params))
	b := l.bias(l.params)
	for i := 0; i < r; i++ {
		floats.Add(z.RawRowView(i), b)
	}
	return z
}

func (l *Linear) Forward(x mat.Matrix) *mat.Dense {
	z := l.affine(x)
	z.Apply(func(_, _ int, v float64) float64 { return l.Act.Sigma(v) }, z)
	return z
}

func (l *Linear) Backward(x mat.Matrix, dOut mat.Matrix) {
	z := l.affine(x)
	r, c := z.Dims()
	if rd, cd := dOut.Dims(); rd != r || cd != c {
		panic("model: gradient dimension mismatch")
	}
	// dz = dOut ⊙ σ'(z)
	z.Apply(func(i, j int, v float64) float64 {
		return dOut.At(i, j) * l.Act.SigmaPrime(v)
	}, z)

	var dw mat.Dense
	dw.Mul(x.T(), z)
	gw := l.weights(l.grads)
	gw.Add(gw, &dw)

	gb := l.bias(l.grads)
	for i := 0; i < r; i++ {
		floats.Add(gb, z.RawRowView(i))
	}
}

func (l *Linear) Params() []float64 { return l.params }
func (l *Linear) Grads() []float64  { return l.grads }

func (l *Linear) Clone() cvselect.Model {
	c := &Linear{
		In:     l.In,
		Out:    l.Out,
		Act:    l.Act,
		params: make([]float64, len(l.params)),
		grads:  make([]float64, len(l.grads)),
	}
	copy(c.params, l.params)
	return c
}

// Solve sets the parameters to the least-squares fit of y from x. It is only
// defined for the Identity activation, and needs more rows than In.
func (l *Linear) Solve(x, y mat.Matrix) error {
	if _, ok := l.Act.(Identity); !ok {
		return errors.New("model: least squares needs the identity activation")
	}
	r, c := x.Dims()
	if c != l.In {
		panic("model: input dimension mismatch")
	}
	ry, cy := y.Dims()
	if ry != r || cy != l.Out {
		panic("model: label dimension mismatch")
	}

	// Augment the inputs with a column of ones for the bias term.
	a := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		row := a.RawRowView(i)
		mat.Row(row[:c], i, x)
		row[c] = 1
	}
	var beta mat.Dense
	if err := beta.Solve(a, y); err != nil {
		return errors.Wrap(err, "model: least squares")
	}
	l.weights(l.params).Copy(beta.Slice(0, c, 0, l.Out))
	mat.Row(l.bias(l.params), c, &beta)
	return nil
}
