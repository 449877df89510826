package config

import "time"

/**
 * Parameters
 */

// timing modes
const (
	TimingDeterministic = "deterministic"
	TimingExponential   = "exponential"
)

// service facility of the reference experiment
var DefaultServiceRate = 1.0
var DefaultChannels = 5

// requests emitted per trial
var DefaultRequests = 25

// arrival rate sweep
var DefaultMinArrivalRate = 0.2
var DefaultMaxArrivalRate = 10.0
var DefaultArrivalRateStep = 0.2

// wall-clock length of one model time unit; spacing between arrivals is unit/lambda
var DefaultTimeUnit = 500 * time.Millisecond

// drain detection
var DefaultPollInterval = 100 * time.Millisecond
var DefaultSettlePeriod = 100 * time.Millisecond
var DefaultDrainTimeout = 5 * time.Minute

// report file written by a sweep
const DefaultReportPath = "simulation_results.txt"

// number of decimals the arrival rates of a sweep are rounded to
const ArrivalRateDecimals = 1

// NewDefaultConfig returns the configuration of the reference experiment.
func NewDefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		System: SystemSpec{
			ServiceRate: DefaultServiceRate,
			Channels:    DefaultChannels,
		},
		Load: LoadSpec{
			ArrivalRate: DefaultMaxArrivalRate,
			Requests:    DefaultRequests,
		},
		Sweep: SweepSpec{
			MinArrivalRate:  DefaultMinArrivalRate,
			MaxArrivalRate:  DefaultMaxArrivalRate,
			ArrivalRateStep: DefaultArrivalRateStep,
		},
		Timing: TimingSpec{
			Mode: TimingDeterministic,
			Unit: DefaultTimeUnit,
		},
		Drain: DrainSpec{
			PollInterval: DefaultPollInterval,
			SettlePeriod: DefaultSettlePeriod,
			Timeout:      DefaultDrainTimeout,
		},
		Output: OutputSpec{
			ReportPath: DefaultReportPath,
		},
	}
}
