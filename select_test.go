package cvselect_test

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/btracey/cvselect"
	"github.com/btracey/cvselect/data"
	"github.com/btracey/cvselect/loss"
	"github.com/btracey/cvselect/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func TestCrossValidate(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	d := data.Masks(10, data.MaskSettings{Side: 3}, rnd)
	m := model.NewLinear(9, 9, model.Sigmoid{}, rnd)
	s, buf := quietSettings(1)
	r, err := cvselect.CrossValidate(context.Background(), d, loss.BinaryCrossEntropy{}, m, 2, 0.1, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.FoldIoU) != 2 || len(r.FoldAccuracy) != 2 {
		t.Fatalf("wrong number of fold results: %v, %v", r.FoldIoU, r.FoldAccuracy)
	}
	if want := stat.Mean(r.FoldIoU, nil); math.Abs(r.IoU-want) > 1e-14 {
		t.Errorf("mean IoU mismatch. Want %v, got %v", want, r.IoU)
	}
	diff := r.FoldAccuracy[0] - r.FoldAccuracy[1]
	if want := diff * diff / 4; math.Abs(r.AccuracyVar-want) > 1e-14 {
		t.Errorf("accuracy variance is not the population variance. Want %v, got %v", want, r.AccuracyVar)
	}
	if r.Model != cvselect.Model(m) {
		t.Errorf("shared policy returned a different model")
	}
	out := buf.String()
	for _, want := range []string{"Iter 0: IoU = ", "Iter 1: IoU = ", "Average test IoU: ", "Variance test IoU: ", "Average test accuracy: ", "Variance test accuracy: "} {
		if !strings.Contains(out, want) {
			t.Errorf("report does not contain %q", want)
		}
	}
	if n := strings.Count(out, "Epoch n."); n != 4 {
		t.Errorf("logged %d epochs, want 4", n)
	}
}

func TestPolicy(t *testing.T) {
	for _, test := range []struct {
		policy     cvselect.ModelPolicy
		inputMoves bool
	}{
		{policy: cvselect.Shared, inputMoves: true},
		{policy: cvselect.CloneOnCandidate, inputMoves: false},
		{policy: cvselect.CloneOnFold, inputMoves: false},
	} {
		rnd := rand.New(rand.NewSource(6))
		d := linearData(10, rnd)
		m := model.NewLinear(2, 1, nil, rnd)
		before := make([]float64, len(m.Params()))
		copy(before, m.Params())

		s, _ := quietSettings(1)
		s.Policy = test.policy
		sel, err := cvselect.Select(context.Background(), d, loss.MSE{}, m, 1, []float64{0.01, 0.1}, s)
		if err != nil {
			t.Fatal(err)
		}
		moved := !floats.Equal(before, m.Params())
		if moved != test.inputMoves {
			t.Errorf("Case %s: input model changed = %v, want %v", test.policy, moved, test.inputMoves)
		}
		if test.policy == cvselect.Shared {
			for _, c := range sel.Candidates {
				if c.Model != cvselect.Model(m) {
					t.Errorf("Case %s: candidate does not hold the shared model", test.policy)
				}
			}
			continue
		}
		if sel.Candidates[0].Model == sel.Candidates[1].Model {
			t.Errorf("Case %s: candidates share a model", test.policy)
		}
	}
}

func TestSelectEndToEnd(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	d := linearData(10, rnd)
	m := model.NewLinear(2, 1, nil, rnd)
	s, buf := quietSettings(1)
	lrs := []float64{0.01, 0.1}
	sel, err := cvselect.Select(context.Background(), d, loss.MSE{}, m, 1, lrs, s)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if n := strings.Count(out, "Learning Rate = "); n != 2 {
		t.Errorf("ran %d cross-validations, want 2", n)
	}
	if n := strings.Count(out, "Iter "); n != 4 {
		t.Errorf("reported %d folds, want 4", n)
	}
	if n := strings.Count(out, strings.Repeat("-", 69)+"\n"); n != 2 {
		t.Errorf("printed %d separators, want 2", n)
	}
	if sel.LearningRate != 0.01 && sel.LearningRate != 0.1 {
		t.Errorf("selected learning rate %v is not a candidate", sel.LearningRate)
	}
	if sel.Model == nil {
		t.Errorf("no model returned")
	}
	if len(sel.Candidates) != 2 || sel.Candidates[sel.Best].LearningRate != sel.LearningRate {
		t.Errorf("candidates inconsistent with selection: %+v", sel)
	}
}

// lrTracker records the learning rate of the most recent optimizer so a metric
// can depend on it.
type lrTracker struct {
	lr float64
}

func (l *lrTracker) optimizer(m cvselect.Model, lr float64) cvselect.Optimizer {
	l.lr = lr
	return cvselect.SGD(m, lr)
}

func TestSelectArgMax(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	d := linearData(8, rnd)
	for _, test := range []struct {
		Name string
		lrs  []float64
		iou  func(lr float64) float64
		want int
	}{
		{
			Name: "Peak",
			lrs:  []float64{0.001, 0.01, 0.1, 1},
			iou:  func(lr float64) float64 { return -math.Abs(math.Log10(lr) + 2) },
			want: 1,
		},
		{
			Name: "Tie",
			lrs:  []float64{0.3, 0.2, 0.1},
			iou:  func(lr float64) float64 { return 0.5 },
			want: 0,
		},
		{
			Name: "LaterTie",
			lrs:  []float64{0.3, 0.2, 0.1},
			iou: func(lr float64) float64 {
				if lr < 0.25 {
					return 0.9
				}
				return 0.1
			},
			want: 1,
		},
	} {
		tr := &lrTracker{}
		s, _ := quietSettings(1)
		s.Optimizer = tr.optimizer
		s.Metrics.IoU = func(pred, label []float64) float64 { return test.iou(tr.lr) }
		m := model.NewLinear(2, 1, nil, rnd)
		sel, err := cvselect.Select(context.Background(), d, loss.MSE{}, m, 1, test.lrs, s)
		if err != nil {
			t.Fatal(err)
		}
		if sel.Best != test.want || sel.LearningRate != test.lrs[test.want] {
			t.Errorf("Case %s: selected %d (%v), want %d", test.Name, sel.Best, sel.LearningRate, test.want)
		}
	}
}

func TestSelectConcurrent(t *testing.T) {
	run := func(concurrent int) (cvselect.Selection, string) {
		rnd := rand.New(rand.NewSource(9))
		d := data.Masks(12, data.MaskSettings{Side: 3, Noise: 0.1}, rnd)
		m := model.NewLinear(9, 9, model.Sigmoid{}, rnd)
		s, buf := quietSettings(3)
		s.Policy = cvselect.CloneOnCandidate
		s.Concurrent = concurrent
		sel, err := cvselect.Select(context.Background(), d, loss.SoftJaccard{}, m, 2, []float64{0.05, 0.5, 5}, s)
		if err != nil {
			t.Fatal(err)
		}
		return sel, buf.String()
	}
	seq, seqOut := run(1)
	par, parOut := run(3)
	if seqOut != parOut {
		t.Errorf("concurrent report differs from sequential report")
	}
	if seq.Best != par.Best {
		t.Errorf("concurrent selection %d differs from sequential %d", par.Best, seq.Best)
	}
	for i := range seq.Candidates {
		a, b := seq.Candidates[i], par.Candidates[i]
		if !sameFloat(a.IoU, b.IoU) || !sameFloat(a.Accuracy, b.Accuracy) {
			t.Errorf("candidate %d: scores differ: %+v vs %+v", i, a, b)
		}
		if !floats.Equal(a.Model.Params(), b.Model.Params()) {
			t.Errorf("candidate %d: models differ", i)
		}
	}
}

// sameFloat is equality that treats two NaNs as equal.
func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func TestSelectCancel(t *testing.T) {
	rnd := rand.New(rand.NewSource(10))
	d := linearData(6, rnd)
	m := model.NewLinear(2, 1, nil, rnd)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, concurrent := range []int{0, 2} {
		s, _ := quietSettings(1)
		s.Policy = cvselect.CloneOnFold
		s.Concurrent = concurrent
		if _, err := cvselect.Select(ctx, d, loss.MSE{}, m, 1, []float64{0.1, 0.2}, s); err != context.Canceled {
			t.Errorf("concurrent %d: want context.Canceled, got %v", concurrent, err)
		}
	}
}

func TestSelectNoCandidates(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("no panic without candidates")
		}
	}()
	rnd := rand.New(rand.NewSource(11))
	cvselect.Select(context.Background(), linearData(4, rnd), loss.MSE{}, model.NewLinear(2, 1, nil, rnd), 1, nil, nil)
}

// brokenWriter fails every write.
type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestSelectReportError(t *testing.T) {
	rnd := rand.New(rand.NewSource(12))
	d := linearData(6, rnd)
	m := model.NewLinear(2, 1, nil, rnd)
	s, _ := quietSettings(1)
	s.Policy = cvselect.CloneOnCandidate
	s.Concurrent = 2
	s.Logger = log.New(brokenWriter{}, "", 0)
	_, err := cvselect.Select(context.Background(), d, loss.MSE{}, m, 1, []float64{0.1, 0.2}, s)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("want the report write error, got %v", err)
	}
}
