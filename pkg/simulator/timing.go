package simulator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

// ErrInvalidRate is returned when a sampler is built with a non-positive rate or unit.
var ErrInvalidRate = errors.New("invalid rate")

// DurationSampler yields successive inter-arrival or service durations.
// Samplers are not safe for concurrent use.
type DurationSampler interface {
	Next() time.Duration
}

// DeterministicSampler always yields unit/rate.
type DeterministicSampler struct {
	d time.Duration
}

func NewDeterministicSampler(unit time.Duration, rate float64) (*DeterministicSampler, error) {
	if unit <= 0 || rate <= 0 {
		return nil, fmt.Errorf("%w: unit=%v, rate=%v", ErrInvalidRate, unit, rate)
	}
	return &DeterministicSampler{d: time.Duration(float64(unit) / rate)}, nil
}

func (s *DeterministicSampler) Next() time.Duration {
	return s.d
}

// ExponentialSampler yields exponentially distributed durations with mean unit/rate.
type ExponentialSampler struct {
	unit time.Duration
	dist distuv.Exponential
}

// NewExponentialSampler builds a seeded sampler; a zero seed draws from the global source.
func NewExponentialSampler(unit time.Duration, rate float64, seed uint64) (*ExponentialSampler, error) {
	if unit <= 0 || rate <= 0 {
		return nil, fmt.Errorf("%w: unit=%v, rate=%v", ErrInvalidRate, unit, rate)
	}
	dist := distuv.Exponential{Rate: rate}
	if seed != 0 {
		dist.Src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
	return &ExponentialSampler{unit: unit, dist: dist}, nil
}

func (s *ExponentialSampler) Next() time.Duration {
	return time.Duration(s.dist.Rand() * float64(s.unit))
}

// Mean is the expected duration of a sample.
func (s *ExponentialSampler) Mean() time.Duration {
	return time.Duration(s.dist.Mean() * float64(s.unit))
}

// NewSampler builds the sampler selected by the timing mode. The stream index
// separates arrival and service streams that share one configured seed.
func NewSampler(spec config.TimingSpec, rate float64, stream uint64) (DurationSampler, error) {
	switch spec.Mode {
	case config.TimingDeterministic, "":
		return NewDeterministicSampler(spec.Unit, rate)
	case config.TimingExponential:
		seed := spec.Seed
		if seed != 0 {
			seed += stream
		}
		return NewExponentialSampler(spec.Unit, rate, seed)
	default:
		return nil, fmt.Errorf("unknown timing mode %q", spec.Mode)
	}
}
