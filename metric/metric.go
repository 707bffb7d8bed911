// Package metric implements scores for binary segmentation masks.
package metric

const threshold = 0.5

// IoU returns the intersection over union of the masks pred > 0.5 and
// label > 0.5. Two empty masks agree perfectly and have an IoU of 1.
func IoU(pred, label []float64) float64 {
	if len(pred) != len(label) {
		panic("metric: length mismatch")
	}
	var inter, union int
	for i, p := range pred {
		a := p > threshold
		b := label[i] > threshold
		if a && b {
			inter++
		}
		if a || b {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

// Accuracy returns the fraction of elements where pred and label fall on the
// same side of 0.5.
func Accuracy(pred, label []float64) float64 {
	if len(pred) != len(label) {
		panic("metric: length mismatch")
	}
	var hit int
	for i, p := range pred {
		if (p > threshold) == (label[i] > threshold) {
			hit++
		}
	}
	return float64(hit) / float64(len(pred))
}
