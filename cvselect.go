// Package cvselect selects the learning rate of a segmentation-style model by
// k-fold cross-validation.
//
// The main routine in the package is Select. For every candidate learning rate
// it runs CrossValidate, which partitions a Dataset into folds with KFold and,
// for every fold, fits the model with Train and scores it on the held-out rows
// with Evaluate. The candidate with the highest mean intersection-over-union
// wins; ties go to the candidate listed first.
//
// The model, loss, optimizer and metrics are supplied by the caller through
// the Model, Loss, Optimizer and Metrics types. Concrete implementations live
// in the model, loss, optim and metric packages.
package cvselect

import (
	"gonum.org/v1/gonum/mat"
)

var (
	errLen   = "cvselect: length mismatch"
	errShape = "cvselect: prediction and label sizes differ"
)

// A Model is a parameterized function of the rows of its input.
type Model interface {
	// Forward computes the output for every row of x. The result may be
	// storage owned by the model and must not be modified by the caller.
	Forward(x mat.Matrix) *mat.Dense
	// Backward adds to Grads the gradient of the loss with respect to the
	// parameters, given the input x and the gradient of the loss with respect
	// to Forward(x).
	Backward(x mat.Matrix, dOut mat.Matrix)
	// Params returns the parameters of the model. The returned slice aliases
	// the model storage and is updated in place by an Optimizer.
	Params() []float64
	// Grads returns the accumulated gradient, in the same layout as Params.
	Grads() []float64
	// Clone returns an independent copy of the model.
	Clone() Model
}

// Loss maps a prediction and its target to a scalar cost. Both slices hold the
// squeezed (flattened) batch.
type Loss interface {
	Loss(pred, target []float64) float64
	// Gradient stores the derivative of Loss with respect to pred into dst.
	Gradient(dst, pred, target []float64)
}

// Optimizer updates the parameters of the model it is bound to.
type Optimizer interface {
	// ZeroGrad clears the accumulated gradient.
	ZeroGrad()
	// Step applies one update using the accumulated gradient.
	Step()
}

// OptimizerFunc builds an optimizer bound to the current parameters of m.
type OptimizerFunc func(m Model, learningRate float64) Optimizer

// MetricFunc scores a prediction against a label of the same length.
type MetricFunc func(pred, label []float64) float64

// Metrics are the scores computed by Evaluate.
type Metrics struct {
	IoU      MetricFunc
	Accuracy MetricFunc
}
