package cvselect

import (
	"context"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Step applies one gradient update of opt to m using the batch b, and returns
// the loss of the batch before the update. The prediction and the label are
// flattened before the loss is computed, so a (n×1) prediction matches a
// (1×n) label. The parameters of m are modified in place.
func Step(m Model, opt Optimizer, l Loss, b Batch) float64 {
	opt.ZeroGrad()
	out := m.Forward(b.X)
	pred := squeeze(out)
	label := squeeze(b.Y)
	if len(pred) != len(label) {
		panic(errShape)
	}
	loss := l.Loss(pred, label)

	grad := make([]float64, len(pred))
	l.Gradient(grad, pred, label)
	r, c := out.Dims()
	m.Backward(b.X, mat.NewDense(r, c, grad))
	opt.Step()
	return loss
}

// Train runs epochs full passes of src through m, updating it with opt, and
// returns m. If epochs is not positive it defaults to 10. The loss of the last
// batch of every epoch is logged.
func Train(ctx context.Context, src BatchSource, l Loss, opt Optimizer, m Model, epochs int, settings *Settings) (Model, error) {
	s := resolve(settings)
	return train(ctx, src, l, opt, m, epochs, s)
}

func train(ctx context.Context, src BatchSource, l Loss, opt Optimizer, m Model, epochs int, s *Settings) (Model, error) {
	if epochs <= 0 {
		epochs = defaultEpochs
	}
	dev := s.Env.Device
	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		var loss float64
		for _, b := range src.Batches() {
			loss = Step(m, opt, l, dev.Transfer(b))
		}
		s.Logger.Println("Epoch n.", epoch, "Loss", scalar.RoundEven(loss, 4))
	}
	return m, nil
}

// squeeze returns the elements of a in row-major order. Dense matrices with
// contiguous rows are returned without a copy.
func squeeze(a mat.Matrix) []float64 {
	r, c := a.Dims()
	if d, ok := a.(*mat.Dense); ok {
		raw := d.RawMatrix()
		if raw.Stride == c {
			return raw.Data[:r*c]
		}
	}
	v := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v = append(v, a.At(i, j))
		}
	}
	return v
}
