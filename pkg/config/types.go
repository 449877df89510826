package config

import "time"

// Complete configuration of a simulation run (single trial or sweep)
type SimulationConfig struct {
	System SystemSpec `json:"system" yaml:"system"` // service facility
	Load   LoadSpec   `json:"load" yaml:"load"`     // offered load of a single trial
	Sweep  SweepSpec  `json:"sweep" yaml:"sweep"`   // arrival rate sweep
	Timing TimingSpec `json:"timing" yaml:"timing"` // arrival and service timing model
	Drain  DrainSpec  `json:"drain" yaml:"drain"`   // drain detection
	Output OutputSpec `json:"output" yaml:"output"` // persistence of results
}

// Specifications of the service facility
type SystemSpec struct {
	ServiceRate float64 `json:"serviceRate" yaml:"serviceRate"` // service rate of one channel (mu)
	Channels    int     `json:"channels" yaml:"channels"`       // number of channels (c)
}

// Specifications of the offered load
type LoadSpec struct {
	ArrivalRate float64 `json:"arrivalRate" yaml:"arrivalRate"` // arrival rate (lambda) of a single trial
	Requests    int     `json:"requests" yaml:"requests"`       // number of requests emitted per trial
}

// Specifications of an arrival rate sweep
type SweepSpec struct {
	MinArrivalRate  float64 `json:"minArrivalRate" yaml:"minArrivalRate"`   // first arrival rate
	MaxArrivalRate  float64 `json:"maxArrivalRate" yaml:"maxArrivalRate"`   // last arrival rate (inclusive)
	ArrivalRateStep float64 `json:"arrivalRateStep" yaml:"arrivalRateStep"` // increment between trials
}

// Specifications of the timing model
type TimingSpec struct {
	Mode string        `json:"mode" yaml:"mode"` // deterministic or exponential
	Unit time.Duration `json:"unit" yaml:"unit"` // wall-clock length of one model time unit
	Seed uint64        `json:"seed" yaml:"seed"` // seed of the exponential sampler (0 = time based)
}

// Specifications of drain detection
type DrainSpec struct {
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"` // interval between busy channel polls
	SettlePeriod time.Duration `json:"settlePeriod" yaml:"settlePeriod"` // quiet period confirmed before sampling
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`           // upper bound on waiting for drain
}

// Specifications of result persistence
type OutputSpec struct {
	ReportPath string `json:"reportPath" yaml:"reportPath"` // whitespace separated report file
	DBPath     string `json:"dbPath" yaml:"dbPath"`         // optional SQLite result store
}

// Parameters of one trial, derived from a SimulationConfig
type TrialSpec struct {
	ArrivalRate float64    `json:"arrivalRate"`
	ServiceRate float64    `json:"serviceRate"`
	Channels    int        `json:"channels"`
	Requests    int        `json:"requests"`
	Timing      TimingSpec `json:"timing"`
}
