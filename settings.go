package cvselect

import (
	"log"
	"os"

	"github.com/btracey/cvselect/metric"
	"github.com/btracey/cvselect/optim"
)

const (
	defaultFolds  = 2
	defaultEpochs = 10
)

// ModelPolicy sets who owns the model state between folds and candidates.
type ModelPolicy int

const (
	// Shared trains the model passed in throughout. Every fold and every
	// candidate continues from the parameters left by the previous one.
	Shared ModelPolicy = iota
	// CloneOnCandidate starts each learning rate from a copy of the model
	// passed in. Folds of a candidate still continue one another.
	CloneOnCandidate
	// CloneOnFold starts each fold from a copy of the model passed in.
	CloneOnFold
)

func (p ModelPolicy) String() string {
	switch p {
	case Shared:
		return "shared"
	case CloneOnCandidate:
		return "clone-on-candidate"
	case CloneOnFold:
		return "clone-on-fold"
	default:
		return "unknown"
	}
}

// Settings controls a selection run. The zero value of each field selects the
// default documented with it.
type Settings struct {
	Folds     int // Number of cross-validation folds. If 0, defaults to 2.
	BatchSize int // Samples per batch. If 0, defaults to 2.
	// NoShuffle serves batches in index order instead of reshuffling them on
	// every pass.
	NoShuffle bool

	Policy ModelPolicy
	// Concurrent is the number of learning rates evaluated at the same time.
	// Values below 2, or the Shared policy, run candidates one after another.
	Concurrent int

	// Optimizer builds the optimizer for every fold. If nil, plain SGD.
	Optimizer OptimizerFunc
	// Metrics scores the held-out data. Nil fields default to metric.IoU and
	// metric.Accuracy.
	Metrics Metrics

	// Env is the execution context. If Env.Device is nil, the host CPU is used.
	// If Env.Rand is nil, a time-seeded source is used.
	Env Env

	// Logger receives the progress report. If nil, writes to standard output.
	Logger *log.Logger
}

// DefaultSettings returns the settings used when nil is passed.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.fill()
	return s
}

// SGD is the default OptimizerFunc.
func SGD(m Model, learningRate float64) Optimizer {
	return optim.NewSGD(m.Params(), m.Grads(), learningRate, 0)
}

// Adam is an OptimizerFunc using the Adam update rule.
func Adam(m Model, learningRate float64) Optimizer {
	return optim.NewAdam(m.Params(), m.Grads(), learningRate)
}

// fill replaces zero fields with their defaults.
func (s *Settings) fill() {
	if s.Folds == 0 {
		s.Folds = defaultFolds
	}
	if s.BatchSize == 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.Optimizer == nil {
		s.Optimizer = SGD
	}
	if s.Metrics.IoU == nil {
		s.Metrics.IoU = metric.IoU
	}
	if s.Metrics.Accuracy == nil {
		s.Metrics.Accuracy = metric.Accuracy
	}
	if s.Env.Device == nil || s.Env.Rand == nil {
		def := defaultEnv()
		if s.Env.Device == nil {
			s.Env.Device = def.Device
		}
		if s.Env.Rand == nil {
			s.Env.Rand = def.Rand
		}
	}
	if s.Logger == nil {
		s.Logger = log.New(os.Stdout, "", 0)
	}
}

// resolve returns a filled copy of s so the caller's value is never modified.
func resolve(s *Settings) *Settings {
	var c Settings
	if s != nil {
		c = *s
	}
	c.fill()
	return &c
}

func (s *Settings) loader(d *Dataset, inds []int) *Loader {
	return &Loader{
		Data:      d,
		Indices:   inds,
		BatchSize: s.BatchSize,
		Shuffle:   !s.NoShuffle,
		Rand:      s.Env.Rand,
	}
}
