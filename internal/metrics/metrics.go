package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/llm-d-incubation/loss-simulator/internal/constants"
	"github.com/llm-d-incubation/loss-simulator/pkg/analyzer"
	"github.com/llm-d-incubation/loss-simulator/pkg/simulator"
)

var (
	requestsTotal   *prometheus.CounterVec
	busyChannels    prometheus.Gauge
	serviceDuration prometheus.Histogram
	trialMetric     *prometheus.GaugeVec
	trialsTotal     prometheus.Counter
	persistErrors   *prometheus.CounterVec
)

// InitMetrics registers all custom metrics with the provided registry
func InitMetrics(registry prometheus.Registerer) {
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: constants.LossSimRequestsTotal,
			Help: "Total number of admission decisions",
		},
		[]string{constants.LabelOutcome},
	)
	busyChannels = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: constants.LossSimBusyChannels,
			Help: "Number of busy channels in the running trial",
		},
	)
	serviceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    constants.LossSimServiceDurationSeconds,
			Help:    "Channel occupation time per processed request",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
	)
	trialMetric = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: constants.LossSimTrialMetric,
			Help: "Analytic and empirical performance measures of the latest trial",
		},
		[]string{constants.LabelSource, constants.LabelMetric},
	)
	trialsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: constants.LossSimTrialsTotal,
			Help: "Total number of completed trials",
		},
	)
	persistErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: constants.LossSimPersistErrorsTotal,
			Help: "Total number of failed trial result writes",
		},
		[]string{constants.LabelSink},
	)

	registry.MustRegister(requestsTotal)
	registry.MustRegister(busyChannels)
	registry.MustRegister(serviceDuration)
	registry.MustRegister(trialMetric)
	registry.MustRegister(trialsTotal)
	registry.MustRegister(persistErrors)
}

// InitMetricsAndEmitter registers metrics with Prometheus and creates a metrics emitter
// This is a convenience function that handles both registration and emitter creation
func InitMetricsAndEmitter(registry prometheus.Registerer) *MetricsEmitter {
	InitMetrics(registry)
	return NewMetricsEmitter()
}

// MetricsEmitter handles emission of custom metrics. It is a simulator.Observer.
// Metrics must be registered with InitMetrics before any emission.
type MetricsEmitter struct{}

var _ simulator.Observer = (*MetricsEmitter)(nil)

// NewMetricsEmitter creates a new metrics emitter
func NewMetricsEmitter() *MetricsEmitter {
	return &MetricsEmitter{}
}

// ObserveDecision counts an admission decision
func (m *MetricsEmitter) ObserveDecision(d simulator.Decision) {
	if d == simulator.DecisionIgnored {
		return
	}
	requestsTotal.With(prometheus.Labels{constants.LabelOutcome: d.String()}).Inc()
}

// ObserveBusyChannels tracks channel occupancy
func (m *MetricsEmitter) ObserveBusyChannels(n int) {
	busyChannels.Set(float64(n))
}

// ObserveServiceTime records one channel occupation
func (m *MetricsEmitter) ObserveServiceTime(d time.Duration) {
	serviceDuration.Observe(d.Seconds())
}

// EmitTrialMetrics publishes the analytic and empirical measures of a finished trial
func (m *MetricsEmitter) EmitTrialMetrics(ctx context.Context, analytic, empirical analyzer.Metrics) {
	setTrialMetrics(constants.SourceAnalytic, analytic)
	setTrialMetrics(constants.SourceEmpirical, empirical)
	trialsTotal.Inc()
}

// EmitPersistError counts a failed write to a result sink
func (m *MetricsEmitter) EmitPersistError(ctx context.Context, sink string) {
	persistErrors.With(prometheus.Labels{constants.LabelSink: sink}).Inc()
}

func setTrialMetrics(source string, mt analyzer.Metrics) {
	values := map[string]float64{
		constants.MetricIdleProb:      mt.IdleProb,
		constants.MetricRejectProb:    mt.RejectProb,
		constants.MetricRelThroughput: mt.RelThroughput,
		constants.MetricAbsThroughput: mt.AbsThroughput,
		constants.MetricAvgBusy:       mt.AvgBusy,
	}
	for name, v := range values {
		trialMetric.With(prometheus.Labels{
			constants.LabelSource: source,
			constants.LabelMetric: name,
		}).Set(v)
	}
}
