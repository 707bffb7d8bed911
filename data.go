package cvselect

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const defaultBatchSize = 2

// Dataset is an ordered collection of (input, label) pairs. Row i of X is the
// input of sample i and row i of Y is its label. A Dataset is only read during
// selection.
type Dataset struct {
	X *mat.Dense
	Y *mat.Dense
}

// NewDataset returns a Dataset over x and y, panicking if the number of rows
// differ.
func NewDataset(x, y *mat.Dense) *Dataset {
	rx, _ := x.Dims()
	ry, _ := y.Dims()
	if rx != ry {
		panic(errLen)
	}
	return &Dataset{X: x, Y: y}
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	r, _ := d.X.Dims()
	return r
}

// Rows copies the listed samples into a new input and label matrix.
func (d *Dataset) Rows(inds []int) (x, y *mat.Dense) {
	_, cx := d.X.Dims()
	_, cy := d.Y.Dims()
	x = mat.NewDense(len(inds), cx, nil)
	y = mat.NewDense(len(inds), cy, nil)
	for i, idx := range inds {
		x.SetRow(i, d.X.RawRowView(idx))
		y.SetRow(i, d.Y.RawRowView(idx))
	}
	return x, y
}

// Batch is a set of inputs and the matching labels.
type Batch struct {
	X *mat.Dense
	Y *mat.Dense
}

// BatchSource is a finite, restartable stream of batches. Each call to Batches
// is one full pass over the underlying data.
type BatchSource interface {
	Batches() []Batch
}

// Loader serves a subset of a Dataset in fixed-size batches.
type Loader struct {
	Data    *Dataset
	Indices []int // rows of Data to serve. If nil, all rows are used.

	// BatchSize is the number of samples per batch. The final batch may be
	// smaller. If 0, defaults to 2.
	BatchSize int
	// Shuffle reorders the samples on every pass.
	Shuffle bool
	Rand    *rand.Rand
}

// Batches implements BatchSource.
func (l *Loader) Batches() []Batch {
	inds := l.Indices
	if inds == nil {
		inds = make([]int, l.Data.Len())
		for i := range inds {
			inds[i] = i
		}
	}
	order := make([]int, len(inds))
	copy(order, inds)
	if l.Shuffle {
		swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
		if l.Rand == nil {
			rand.Shuffle(len(order), swap)
		} else {
			l.Rand.Shuffle(len(order), swap)
		}
	}

	size := l.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}
	batches := make([]Batch, 0, (len(order)+size-1)/size)
	for start := 0; start < len(order); start += size {
		end := start + size
		if end > len(order) {
			end = len(order)
		}
		x, y := l.Data.Rows(order[start:end])
		batches = append(batches, Batch{X: x, Y: y})
	}
	return batches
}
