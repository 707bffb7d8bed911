package cvselect

import (
	"context"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CVResult is the outcome of cross-validating one learning rate.
type CVResult struct {
	IoU         float64 // mean held-out IoU over the folds
	Accuracy    float64 // mean held-out accuracy over the folds
	IoUVar      float64 // population variance of the fold IoUs
	AccuracyVar float64 // population variance of the fold accuracies

	FoldIoU      []float64
	FoldAccuracy []float64

	// Model is the model after the last fold was trained.
	Model Model
}

// CrossValidate estimates how well m trains with the given learning rate.
// The rows of d are split into folds with KFold; for each fold a fresh
// optimizer is bound to the model, the model is trained for epochs on the
// training rows and scored on the test rows. Whether the folds share one model
// is set by settings.Policy.
func CrossValidate(ctx context.Context, d *Dataset, l Loss, m Model, epochs int, learningRate float64, settings *Settings) (CVResult, error) {
	s := resolve(settings)
	return crossValidate(ctx, d, l, m, epochs, learningRate, s)
}

func crossValidate(ctx context.Context, d *Dataset, l Loss, m Model, epochs int, learningRate float64, s *Settings) (CVResult, error) {
	if s.Folds < 2 {
		panic("cvselect: need at least two folds")
	}
	folds := KFold(d.Len(), s.Folds, s.Env.Rand)

	var r CVResult
	model := m
	for k, fold := range folds {
		if s.Policy == CloneOnFold {
			model = m.Clone()
		}
		opt := s.Optimizer(model, learningRate)
		var err error
		model, err = train(ctx, s.loader(d, fold.Train), l, opt, model, epochs, s)
		if err != nil {
			return r, err
		}
		iou, acc := evaluate(s.loader(d, fold.Test), model, s)
		s.Logger.Printf("Iter %d: IoU = %s /  Accuracy = %s\n", k, short(iou), short(acc))
		r.FoldIoU = append(r.FoldIoU, iou)
		r.FoldAccuracy = append(r.FoldAccuracy, acc)
	}

	r.IoU, r.IoUVar = stat.PopMeanVariance(r.FoldIoU, nil)
	r.Accuracy, r.AccuracyVar = stat.PopMeanVariance(r.FoldAccuracy, nil)
	r.Model = model

	s.Logger.Printf("\nAverage test IoU: %f\n", r.IoU)
	s.Logger.Printf("Variance test IoU: %f\n", r.IoUVar)
	s.Logger.Printf("\nAverage test accuracy: %f\n", r.Accuracy)
	s.Logger.Printf("Variance test accuracy: %f\n", r.AccuracyVar)
	return r, nil
}

// short formats v with four significant digits. Numbers from 1e-4 up to 1e3
// are written in fixed point with at least one decimal, so a perfect fold
// reads 1.0; others use an exponent, as in 1.234e+04.
func short(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(v, 'e', 3, 64)
	mant, exp, _ := strings.Cut(sci, "e")
	e, _ := strconv.Atoi(exp)
	if e < -4 || e >= 3 {
		mant = strings.TrimRight(mant, "0")
		mant = strings.TrimSuffix(mant, ".")
		return mant + "e" + exp
	}
	str := strconv.FormatFloat(v, 'g', 4, 64)
	if !strings.Contains(str, ".") {
		str += ".0"
	}
	return str
}
