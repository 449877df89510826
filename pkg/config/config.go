package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadConfig reads a YAML file on top of the default configuration and validates the result.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML data on top of the default configuration and validates the result.
func ParseConfig(data []byte) (*SimulationConfig, error) {
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section of the configuration.
func (c *SimulationConfig) Validate() error {
	if err := c.System.check(); err != nil {
		return err
	}
	if err := c.Load.check(); err != nil {
		return err
	}
	if err := c.Sweep.check(); err != nil {
		return err
	}
	if err := c.Timing.check(); err != nil {
		return err
	}
	return c.Drain.check()
}

// Trial derives the parameters of one trial at the given arrival rate.
func (c *SimulationConfig) Trial(arrivalRate float64) TrialSpec {
	return TrialSpec{
		ArrivalRate: arrivalRate,
		ServiceRate: c.System.ServiceRate,
		Channels:    c.System.Channels,
		Requests:    c.Load.Requests,
		Timing:      c.Timing,
	}
}

// ArrivalRates lists the arrival rates of the sweep, from min to max inclusive,
// each rounded to ArrivalRateDecimals; rates that round to the same value appear once.
func (s SweepSpec) ArrivalRates() []float64 {
	scale := math.Pow(10, ArrivalRateDecimals)
	var rates []float64
	for i := 0; ; i++ {
		r := s.MinArrivalRate + float64(i)*s.ArrivalRateStep
		if r > s.MaxArrivalRate+1e-9 {
			break
		}
		r = math.Round(r*scale) / scale
		if n := len(rates); n > 0 && rates[n-1] == r {
			continue
		}
		rates = append(rates, r)
	}
	return rates
}

// check validity of the service facility
func (s SystemSpec) check() error {
	if s.Channels <= 0 {
		return fmt.Errorf("%w: channels must be > 0, got %d", ErrInvalidConfig, s.Channels)
	}
	if s.ServiceRate <= 0 {
		return fmt.Errorf("%w: service rate must be > 0, got %v", ErrInvalidConfig, s.ServiceRate)
	}
	return nil
}

// check validity of the offered load
func (l LoadSpec) check() error {
	if l.Requests <= 0 {
		return fmt.Errorf("%w: requests must be > 0, got %d", ErrInvalidConfig, l.Requests)
	}
	if l.ArrivalRate <= 0 {
		return fmt.Errorf("%w: arrival rate must be > 0, got %v", ErrInvalidConfig, l.ArrivalRate)
	}
	return nil
}

// check validity of the sweep range
func (s SweepSpec) check() error {
	if s.MinArrivalRate <= 0 || s.MaxArrivalRate < s.MinArrivalRate {
		return fmt.Errorf("%w: arrival rate range [%v, %v]", ErrInvalidConfig, s.MinArrivalRate, s.MaxArrivalRate)
	}
	if s.ArrivalRateStep <= 0 {
		return fmt.Errorf("%w: arrival rate step must be > 0, got %v", ErrInvalidConfig, s.ArrivalRateStep)
	}
	return nil
}

// check validity of the timing model
func (t TimingSpec) check() error {
	switch t.Mode {
	case TimingDeterministic, TimingExponential:
	default:
		return fmt.Errorf("%w: unknown timing mode %q", ErrInvalidConfig, t.Mode)
	}
	if t.Unit <= 0 {
		return fmt.Errorf("%w: time unit must be > 0, got %v", ErrInvalidConfig, t.Unit)
	}
	return nil
}

// check validity of drain detection
func (d DrainSpec) check() error {
	if d.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be > 0, got %v", ErrInvalidConfig, d.PollInterval)
	}
	if d.SettlePeriod < 0 {
		return fmt.Errorf("%w: settle period must be >= 0, got %v", ErrInvalidConfig, d.SettlePeriod)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("%w: drain timeout must be > 0, got %v", ErrInvalidConfig, d.Timeout)
	}
	return nil
}
