// Package constants provides centralized constant definitions for the simulator.
package constants

// Simulator Output Metrics
// These metric names are used to emit simulator metrics to Prometheus.
// They expose admission outcomes and channel occupancy while a sweep runs, and
// the analytic and empirical results of each finished trial.
const (
	// LossSimRequestsTotal is a counter that tracks admission decisions.
	// Labels: outcome (accepted/rejected)
	LossSimRequestsTotal = "losssim_requests_total"

	// LossSimBusyChannels is a gauge that tracks the number of busy channels of the running trial.
	LossSimBusyChannels = "losssim_busy_channels"

	// LossSimServiceDurationSeconds is a histogram of channel occupation times.
	LossSimServiceDurationSeconds = "losssim_service_duration_seconds"

	// LossSimTrialMetric is a gauge that holds the latest trial results.
	// Labels: source (analytic/empirical), metric (p0/pn/q/a/k)
	LossSimTrialMetric = "losssim_trial_metric"

	// LossSimTrialsTotal is a counter that tracks completed trials.
	LossSimTrialsTotal = "losssim_trials_total"

	// LossSimPersistErrorsTotal is a counter that tracks failed writes of trial results.
	// Labels: sink (report/store)
	LossSimPersistErrorsTotal = "losssim_persist_errors_total"
)

// Metric Label Names
// Common label names used across metrics for consistency.
const (
	LabelOutcome = "outcome"
	LabelSource  = "source"
	LabelMetric  = "metric"
	LabelSink    = "sink"
)

// Metric Label Values
const (
	SourceAnalytic  = "analytic"
	SourceEmpirical = "empirical"

	MetricIdleProb      = "p0"
	MetricRejectProb    = "pn"
	MetricRelThroughput = "q"
	MetricAbsThroughput = "a"
	MetricAvgBusy       = "k"

	SinkReport = "report"
	SinkStore  = "store"
)
