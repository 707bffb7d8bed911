package cvselect

import (
	"bytes"
	"context"
	"log"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

var separator = strings.Repeat("-", 69)

// Candidate is the cross-validated score of one learning rate.
type Candidate struct {
	LearningRate float64
	IoU          float64
	Accuracy     float64
	Model        Model
}

// Selection is the result of Select.
type Selection struct {
	LearningRate float64 // best learning rate
	Model        Model   // model trained with the best learning rate
	Best         int     // index of the best candidate
	Candidates   []Candidate
}

// Select cross-validates m with every learning rate in learningRates, in order,
// and returns the one with the highest mean IoU. If several candidates share
// the highest score the first of them is returned. Select panics if
// learningRates is empty.
//
// Each candidate draws its own random source from settings.Env.Rand before any
// candidate is run, so a seeded Env gives the same selection whether or not the
// candidates are run concurrently.
func Select(ctx context.Context, d *Dataset, l Loss, m Model, epochs int, learningRates []float64, settings *Settings) (Selection, error) {
	if len(learningRates) == 0 {
		panic("cvselect: no learning rate candidates")
	}
	s := resolve(settings)

	candidates := make([]Candidate, len(learningRates))
	runs := make([]*Settings, len(learningRates))
	for i := range runs {
		c := *s
		c.Env.Rand = rand.New(rand.NewSource(s.Env.Rand.Int63()))
		runs[i] = &c
	}

	run := func(ctx context.Context, i int, model Model) error {
		lr := learningRates[i]
		rs := runs[i]
		rs.Logger.Println(separator)
		rs.Logger.Println()
		rs.Logger.Printf("Learning Rate = %v\n\n", lr)
		r, err := crossValidate(ctx, d, l, model, epochs, lr, rs)
		if err != nil {
			return err
		}
		candidates[i] = Candidate{
			LearningRate: lr,
			IoU:          r.IoU,
			Accuracy:     r.Accuracy,
			Model:        r.Model,
		}
		return nil
	}

	if s.Concurrent < 2 || s.Policy == Shared {
		for i := range learningRates {
			model := m
			if s.Policy == CloneOnCandidate {
				model = m.Clone()
			}
			if err := run(ctx, i, model); err != nil {
				return Selection{}, err
			}
		}
	} else {
		// Buffer each candidate's report and write them out in order.
		bufs := make([]bytes.Buffer, len(learningRates))
		for i := range runs {
			runs[i].Logger = log.New(&bufs[i], s.Logger.Prefix(), s.Logger.Flags())
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.Concurrent)
		for i := range learningRates {
			i := i
			// m is only read by Clone; the candidates never share a model.
			model := m.Clone()
			g.Go(func() error {
				return run(gctx, i, model)
			})
		}
		err := g.Wait()
		for i := range bufs {
			if _, werr := s.Logger.Writer().Write(bufs[i].Bytes()); werr != nil && err == nil {
				err = errors.Wrap(werr, "cvselect: writing report")
			}
		}
		if err != nil {
			return Selection{}, err
		}
	}

	ious := make([]float64, len(candidates))
	for i, c := range candidates {
		ious[i] = c.IoU
	}
	best := floats.MaxIdx(ious)
	return Selection{
		LearningRate: candidates[best].LearningRate,
		Model:        candidates[best].Model,
		Best:         best,
		Candidates:   candidates,
	}, nil
}
