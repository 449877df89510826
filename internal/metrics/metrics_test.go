package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d-incubation/loss-simulator/internal/constants"
	"github.com/llm-d-incubation/loss-simulator/pkg/analyzer"
	"github.com/llm-d-incubation/loss-simulator/pkg/simulator"
)

func TestMetricsEmitter_Observer(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := InitMetricsAndEmitter(registry)

	m.ObserveDecision(simulator.DecisionAccepted)
	m.ObserveDecision(simulator.DecisionAccepted)
	m.ObserveDecision(simulator.DecisionRejected)
	m.ObserveDecision(simulator.DecisionIgnored)
	m.ObserveBusyChannels(3)
	m.ObserveServiceTime(250 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(requestsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(requestsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 2, testutil.CollectAndCount(requestsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(busyChannels))
	assert.Equal(t, 1, testutil.CollectAndCount(serviceDuration))
}

func TestMetricsEmitter_TrialMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := InitMetricsAndEmitter(registry)
	ctx := context.Background()

	analytic := analyzer.Evaluate(2, 1, 3)
	empirical := analyzer.Metrics{IdleProb: 0.1, RejectProb: 0.2, RelThroughput: 0.8, AbsThroughput: 1.6, AvgBusy: 1.5}
	m.EmitTrialMetrics(ctx, analytic, empirical)

	assert.InDelta(t, analytic.RejectProb,
		testutil.ToFloat64(trialMetric.WithLabelValues(constants.SourceAnalytic, constants.MetricRejectProb)), 1e-12)
	assert.Equal(t, 1.5,
		testutil.ToFloat64(trialMetric.WithLabelValues(constants.SourceEmpirical, constants.MetricAvgBusy)))
	assert.Equal(t, 10, testutil.CollectAndCount(trialMetric))
	assert.Equal(t, 1.0, testutil.ToFloat64(trialsTotal))

	m.EmitPersistError(ctx, constants.SinkStore)
	m.EmitPersistError(ctx, constants.SinkStore)
	assert.Equal(t, 2.0, testutil.ToFloat64(persistErrors.WithLabelValues(constants.SinkStore)))
}

func TestInitMetrics_Registers(t *testing.T) {
	registry := prometheus.NewRegistry()
	InitMetrics(registry)
	NewMetricsEmitter().ObserveBusyChannels(1)

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, constants.LossSimBusyChannels)
}
