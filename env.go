package cvselect

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/klauspost/cpuid/v2"
)

// Device is where batches are evaluated. Transfer must not change the values
// of a batch, only where its storage lives.
type Device interface {
	Name() string
	Accelerated() bool
	Transfer(b Batch) Batch
}

// CPU is the host device. Transfer is the identity.
type CPU struct {
	Brand    string
	Features []string
}

// DetectDevice inspects the host processor.
func DetectDevice() Device {
	c := CPU{Brand: cpuid.CPU.BrandName}
	for _, f := range []struct {
		name string
		id   cpuid.FeatureID
	}{
		{"avx2", cpuid.AVX2},
		{"fma3", cpuid.FMA3},
		{"avx512f", cpuid.AVX512F},
		{"asimd", cpuid.ASIMD},
	} {
		if cpuid.CPU.Supports(f.id) {
			c.Features = append(c.Features, f.name)
		}
	}
	return c
}

func (c CPU) Name() string {
	if c.Brand == "" {
		return "cpu"
	}
	if len(c.Features) == 0 {
		return "cpu (" + c.Brand + ")"
	}
	return fmt.Sprintf("cpu (%s; %s)", c.Brand, strings.Join(c.Features, ","))
}

func (CPU) Accelerated() bool { return false }

func (CPU) Transfer(b Batch) Batch { return b }

// Env is the execution context of a selection run: the device batches are
// moved to and the source of randomness for fold partitioning and batch
// shuffling. Substituting a seeded Env makes a run reproducible.
type Env struct {
	Device Device
	Rand   *rand.Rand
}

// NewEnv returns an environment on the detected host CPU with a source seeded
// by seed.
func NewEnv(seed int64) Env {
	return Env{
		Device: DetectDevice(),
		Rand:   rand.New(rand.NewSource(seed)),
	}
}

func defaultEnv() Env {
	return Env{
		Device: DetectDevice(),
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}
