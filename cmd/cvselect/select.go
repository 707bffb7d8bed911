package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/btracey/cvselect"
	"github.com/btracey/cvselect/config"
	"github.com/btracey/cvselect/data"
	"github.com/btracey/cvselect/loss"
	"github.com/btracey/cvselect/model"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

func selectCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runSelect,
		UsageLine: "select -c <config file>",
		Short:     "select a learning rate by cross-validation",
		Long: `
select trains the model of the configuration once per learning rate with
k-fold cross-validation and reports the rate with the best mean IoU.

	$ cvselect select -c run.yaml

Without -c the built-in synthetic problem is used.
`,
		Flag: *flag.NewFlagSet("select", flag.ExitOnError),
	}
	cmd.Flag.String("c", "", "YAML configuration file")
	return cmd
}

func runSelect(cmd *commander.Command, args []string) error {
	c := config.Default()
	if path := cmd.Flag.Lookup("c").Value.Get().(string); path != "" {
		var err error
		c, err = config.Load(path)
		if err != nil {
			return err
		}
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	env := cvselect.NewEnv(seed)
	log.Printf("Device: %s", env.Device.Name())

	d, err := dataset(c, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	m, err := newModel(c, d, rand.New(rand.NewSource(seed+1)))
	if err != nil {
		return err
	}
	l, err := lossByName(c.Loss)
	if err != nil {
		return err
	}
	settings := &cvselect.Settings{
		Folds:      c.Folds,
		BatchSize:  c.BatchSize,
		Concurrent: c.Concurrent,
		Env:        env,
		Logger:     log.New(os.Stdout, "", 0),
	}
	if settings.Policy, err = policyByName(c.Policy); err != nil {
		return err
	}
	if settings.Optimizer, err = optimizerByName(c.Optimizer); err != nil {
		return err
	}

	sel, err := cvselect.Select(context.Background(), d, l, m, c.Epochs, c.LearningRates, settings)
	if err != nil {
		return err
	}
	fmt.Printf("\nBest learning rate: %v (IoU %.4g, accuracy %.4g)\n",
		sel.LearningRate, sel.Candidates[sel.Best].IoU, sel.Candidates[sel.Best].Accuracy)
	return nil
}

func dataset(c *config.Config, rnd *rand.Rand) (*cvselect.Dataset, error) {
	if c.Data.Path == "" {
		s := c.Data.Synthetic
		return data.Masks(s.N, data.MaskSettings{Side: s.Side, Noise: s.Noise}, rnd), nil
	}
	f, err := os.Open(c.Data.Path)
	if err != nil {
		return nil, errors.Wrap(err, "cvselect: opening data")
	}
	defer f.Close()
	return data.ReadCSV(f, c.Data.Labels)
}

func newModel(c *config.Config, d *cvselect.Dataset, rnd *rand.Rand) (*model.Linear, error) {
	act, ok := model.ActivationByName(c.Model.Activation)
	if !ok {
		return nil, errors.Errorf("cvselect: unknown activation %q", c.Model.Activation)
	}
	_, in := d.X.Dims()
	_, out := d.Y.Dims()
	m := model.NewLinear(in, out, act, rnd)
	if c.Model.LeastSquares {
		if err := m.Solve(d.X, d.Y); err != nil {
			return nil, errors.Wrap(err, "cvselect: warm start")
		}
	}
	return m, nil
}

func lossByName(name string) (cvselect.Loss, error) {
	switch name {
	case "mse":
		return loss.MSE{}, nil
	case "bce":
		return loss.BinaryCrossEntropy{}, nil
	case "jaccard":
		return loss.SoftJaccard{}, nil
	}
	return nil, errors.Errorf("cvselect: unknown loss %q", name)
}

func optimizerByName(name string) (cvselect.OptimizerFunc, error) {
	switch name {
	case "sgd":
		return cvselect.SGD, nil
	case "adam":
		return cvselect.Adam, nil
	}
	return nil, errors.Errorf("cvselect: unknown optimizer %q", name)
}

func policyByName(name string) (cvselect.ModelPolicy, error) {
	for _, p := range []cvselect.ModelPolicy{cvselect.Shared, cvselect.CloneOnCandidate, cvselect.CloneOnFold} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, errors.Errorf("cvselect: unknown policy %q", name)
}
