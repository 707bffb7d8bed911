package cvselect

import (
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

// Evaluate scores m on every batch of src and returns the mean IoU and the mean
// accuracy over the batches. Predictions are rounded half to even before they
// are compared with the label. The result is NaN if src has no batches.
// Evaluate does not modify m.
func Evaluate(src BatchSource, m Model, settings *Settings) (iou, acc float64) {
	s := resolve(settings)
	return evaluate(src, m, s)
}

func evaluate(src BatchSource, m Model, s *Settings) (iou, acc float64) {
	dev := s.Env.Device
	var ious, accs []float64
	for _, b := range src.Batches() {
		b = dev.Transfer(b)
		out := squeeze(m.Forward(b.X))
		label := squeeze(b.Y)
		if len(out) != len(label) {
			panic(errShape)
		}
		// Forward may return storage owned by the model.
		pred := make([]float64, len(out))
		for i, v := range out {
			pred[i] = scalar.RoundEven(v, 0)
		}
		ious = append(ious, s.Metrics.IoU(pred, label))
		accs = append(accs, s.Metrics.Accuracy(pred, label))
	}
	return stat.Mean(ious, nil), stat.Mean(accs, nil)
}
