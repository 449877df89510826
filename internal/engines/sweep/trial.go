/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/llm-d-incubation/loss-simulator/internal/logger"
	"github.com/llm-d-incubation/loss-simulator/internal/report"
	"github.com/llm-d-incubation/loss-simulator/internal/store"
	"github.com/llm-d-incubation/loss-simulator/pkg/analyzer"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
	"github.com/llm-d-incubation/loss-simulator/pkg/simulator"
	"github.com/llm-d-incubation/loss-simulator/pkg/utils"
)

// sampler streams sharing one configured seed
const (
	arrivalStream uint64 = iota
	serviceStream
)

// ErrInvalidModel is returned when the loss model cannot be solved for a trial.
var ErrInvalidModel = errors.New("loss model has no solution")

// TrialResult holds the outcome of one trial.
type TrialResult struct {
	ID        string                `json:"id"`
	SweepID   string                `json:"sweepId,omitempty"`
	Spec      config.TrialSpec      `json:"spec"`
	Source    simulator.SourceStats `json:"source"`
	Snapshot  simulator.Snapshot    `json:"snapshot"`
	Analytic  analyzer.Metrics      `json:"analytic"`
	Empirical analyzer.Metrics      `json:"empirical"`
	Elapsed   time.Duration         `json:"elapsed"`
}

// Row is the report row of the trial.
func (t *TrialResult) Row() report.Row {
	return report.Row{
		ArrivalRate: t.Spec.ArrivalRate,
		ServiceRate: t.Spec.ServiceRate,
		Analytic:    t.Analytic,
		Empirical:   t.Empirical,
	}
}

// Record converts the trial into its persisted form.
func (t *TrialResult) Record() store.Trial {
	return store.Trial{
		ID:                t.ID,
		SweepID:           t.SweepID,
		ArrivalRate:       t.Spec.ArrivalRate,
		ServiceRate:       t.Spec.ServiceRate,
		Channels:          t.Spec.Channels,
		Requests:          t.Spec.Requests,
		TotalRequests:     t.Snapshot.TotalRequests,
		ProcessedRequests: t.Snapshot.ProcessedRequests,
		RejectedRequests:  t.Snapshot.RejectedRequests,
		BusyTime:          t.Snapshot.BusyTime,
		IdleTime:          t.Snapshot.IdleTime,
		OperationTime:     t.Snapshot.TotalOperationTime,
		Row:               t.Row(),
	}
}

// RunTrial simulates one arrival rate on a fresh service system and solves
// the loss model for the same parameters.
func (e *Engine) RunTrial(ctx context.Context, arrivalRate float64) (*TrialResult, error) {
	spec := e.config.Trial(arrivalRate)
	started := time.Now()

	arrivals, err := simulator.NewSampler(spec.Timing, spec.ArrivalRate, arrivalStream)
	if err != nil {
		return nil, fmt.Errorf("failed to build arrival sampler: %w", err)
	}
	service, err := simulator.NewSampler(spec.Timing, spec.ServiceRate, serviceStream)
	if err != nil {
		return nil, fmt.Errorf("failed to build service sampler: %w", err)
	}

	opts := []simulator.Option{simulator.WithClock(e.clock)}
	if e.emitter != nil {
		opts = append(opts, simulator.WithObserver(e.emitter))
	}
	sys, err := simulator.NewServiceSystem(spec.Channels, service, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create service system: %w", err)
	}
	source, err := simulator.NewRequestSource(sys, arrivals, e.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create request source: %w", err)
	}

	result := &TrialResult{ID: xid.New().String(), Spec: spec}
	logger.Log.Infow("Starting trial", "trial", result.ID, "arrivalRate", spec.ArrivalRate,
		"serviceRate", spec.ServiceRate, "channels", spec.Channels, "requests", spec.Requests)

	result.Source, err = source.Run(ctx, spec.Requests)
	if err != nil {
		return nil, fmt.Errorf("trial %s interrupted after %d requests: %w", result.ID, result.Source.Emitted, err)
	}
	if err := waitForDrain(ctx, sys, e.config.Drain); err != nil {
		return nil, fmt.Errorf("trial %s: %w", result.ID, err)
	}

	result.Snapshot = sys.Snapshot()
	if !result.Snapshot.Consistent() {
		logger.Log.Warnw("Inconsistent trial statistics", "trial", result.ID, "snapshot", result.Snapshot.String())
	}

	model := analyzer.NewErlangLossModel(spec.Channels)
	model.Solve(spec.ArrivalRate, spec.ServiceRate)
	if !model.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, model)
	}
	result.Analytic = model.GetMetrics()
	a := result.Analytic
	if !utils.CheckValues(a.IdleProb, a.RejectProb, a.RelThroughput, a.AbsThroughput, a.AvgBusy) {
		return nil, fmt.Errorf("%w: non-finite measures %s", ErrInvalidModel, a)
	}
	result.Empirical = result.Snapshot.Empirical(spec.ArrivalRate)
	result.Elapsed = time.Since(started)

	logger.Log.Infow("Trial completed", "trial", result.ID, "arrivalRate", spec.ArrivalRate,
		"processed", result.Snapshot.ProcessedRequests, "rejected", result.Snapshot.RejectedRequests,
		"analytic", result.Analytic.String(), "empirical", result.Empirical.String(), "elapsed", result.Elapsed)

	logger.Log.Debugw("Trial result", "result", utils.MarshalStructToJsonString(result))

	if e.emitter != nil {
		e.emitter.EmitTrialMetrics(ctx, result.Analytic, result.Empirical)
	}
	return result, nil
}
