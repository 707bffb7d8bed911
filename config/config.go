// Package config reads the YAML description of a selection run.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is a selection run as read from a file.
//
//	data:
//	  path: samples.csv   # or a synthetic problem
//	  labels: 16
//	  synthetic: {n: 40, side: 4, noise: 0.05}
//	model: {activation: sigmoid, leastsquares: false}
//	loss: bce
//	optimizer: sgd
//	folds: 2
//	epochs: 10
//	batchsize: 2
//	policy: shared
//	concurrent: 1
//	seed: 0
//	learningrates: [0.001, 0.01, 0.1]
type Config struct {
	Data          Data      `yaml:"data"`
	Model         Model     `yaml:"model"`
	Loss          string    `yaml:"loss"`
	Optimizer     string    `yaml:"optimizer"`
	Folds         int       `yaml:"folds"`
	Epochs        int       `yaml:"epochs"`
	BatchSize     int       `yaml:"batchsize"`
	Policy        string    `yaml:"policy"`
	Concurrent    int       `yaml:"concurrent"`
	Seed          int64     `yaml:"seed"` // 0 seeds from the clock
	LearningRates []float64 `yaml:"learningrates"`
}

// Data selects where the samples come from. Path takes precedence over
// Synthetic.
type Data struct {
	Path      string    `yaml:"path"`
	Labels    int       `yaml:"labels"`
	Synthetic Synthetic `yaml:"synthetic"`
}

type Synthetic struct {
	N     int     `yaml:"n"`
	Side  int     `yaml:"side"`
	Noise float64 `yaml:"noise"`
}

type Model struct {
	Activation string `yaml:"activation"`
	// LeastSquares starts an identity model from the least-squares fit to
	// all of the data.
	LeastSquares bool `yaml:"leastsquares"`
}

// Default returns the reference configuration: two folds,
// ten epochs, batches of two and a synthetic problem.
func Default() *Config {
	return &Config{
		Data: Data{
			Synthetic: Synthetic{N: 40, Side: 4, Noise: 0.05},
		},
		Model:         Model{Activation: "sigmoid"},
		Loss:          "bce",
		Optimizer:     "sgd",
		Folds:         2,
		Epochs:        10,
		BatchSize:     2,
		Policy:        "shared",
		Concurrent:    1,
		LearningRates: []float64{0.001, 0.01, 0.1},
	}
}

// Load reads the file at path on top of Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: reading file")
	}
	return Parse(b)
}

// Parse decodes b on top of Default and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "config: decoding yaml")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch {
	case len(c.LearningRates) == 0:
		return errors.New("config: no learning rates")
	case c.Folds < 2:
		return errors.Errorf("config: need at least two folds, have %d", c.Folds)
	case c.Epochs < 1:
		return errors.Errorf("config: need at least one epoch, have %d", c.Epochs)
	case c.BatchSize < 1:
		return errors.Errorf("config: need a positive batch size, have %d", c.BatchSize)
	case c.Data.Path != "" && c.Data.Labels < 1:
		return errors.New("config: data file needs the number of label columns")
	case c.Data.Path == "" && c.Data.Synthetic.N < c.Folds:
		return errors.Errorf("config: %d synthetic samples for %d folds", c.Data.Synthetic.N, c.Folds)
	}
	for _, lr := range c.LearningRates {
		if lr <= 0 {
			return errors.Errorf("config: non-positive learning rate %v", lr)
		}
	}
	switch c.Loss {
	case "mse", "bce", "jaccard":
	default:
		return errors.Errorf("config: unknown loss %q", c.Loss)
	}
	switch c.Optimizer {
	case "sgd", "adam":
	default:
		return errors.Errorf("config: unknown optimizer %q", c.Optimizer)
	}
	switch c.Policy {
	case "shared", "clone-on-candidate", "clone-on-fold":
	default:
		return errors.Errorf("config: unknown policy %q", c.Policy)
	}
	return nil
}
