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
	"fmt"
	"time"

	"github.com/rs/xid"
	"k8s.io/utils/clock"

	"github.com/llm-d-incubation/loss-simulator/internal/constants"
	"github.com/llm-d-incubation/loss-simulator/internal/engines/executor"
	"github.com/llm-d-incubation/loss-simulator/internal/logger"
	"github.com/llm-d-incubation/loss-simulator/internal/metrics"
	"github.com/llm-d-incubation/loss-simulator/internal/report"
	"github.com/llm-d-incubation/loss-simulator/internal/store"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

// TrialStore persists finished trials.
type TrialStore interface {
	SaveTrial(t store.Trial) error
}

// Engine runs trials and sweeps for one configuration.
type Engine struct {
	config  *config.SimulationConfig
	store   TrialStore
	emitter *metrics.MetricsEmitter
	clock   clock.Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore keeps every trial of a sweep in s.
func WithStore(s TrialStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithEmitter exports admission and trial metrics through m.
func WithEmitter(m *metrics.MetricsEmitter) Option {
	return func(e *Engine) {
		e.emitter = m
	}
}

// WithClock replaces the clock that paces arrivals and times services.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// NewEngine creates a new instance of the sweep engine.
func NewEngine(cfg *config.SimulationConfig, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	engine := &Engine{
		config: cfg,
		clock:  clock.RealClock{},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// SweepResult holds the trials of one sweep in arrival rate order.
type SweepResult struct {
	ID            string         `json:"id"`
	Trials        []*TrialResult `json:"trials"`
	PersistErrors int            `json:"persistErrors"`
	Elapsed       time.Duration  `json:"elapsed"`
}

// Rows lists the report rows of the sweep.
func (r *SweepResult) Rows() []report.Row {
	rows := make([]report.Row, 0, len(r.Trials))
	for _, t := range r.Trials {
		rows = append(rows, t.Row())
	}
	return rows
}

// Summary compares model and simulation over the whole sweep.
func (r *SweepResult) Summary() report.Summary {
	return report.Summarize(r.Rows())
}

// RunSweep runs one trial per configured arrival rate. A cancelled context
// stops the sweep between trials; the trials finished so far are returned
// with the error.
func (e *Engine) RunSweep(ctx context.Context) (*SweepResult, error) {
	rates := e.config.Sweep.ArrivalRates()
	result := &SweepResult{ID: xid.New().String()}
	started := time.Now()

	logger.Log.Infow("Starting sweep", "sweep", result.ID, "trials", len(rates),
		"minArrivalRate", e.config.Sweep.MinArrivalRate, "maxArrivalRate", e.config.Sweep.MaxArrivalRate)

	for i, rate := range rates {
		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(started)
			return result, err
		}
		trial, err := e.RunTrial(ctx, rate)
		if err != nil {
			result.Elapsed = time.Since(started)
			return result, fmt.Errorf("sweep %s at arrival rate %.1f: %w", result.ID, rate, err)
		}
		trial.SweepID = result.ID
		result.Trials = append(result.Trials, trial)

		mode := report.ModeAppend
		if i == 0 {
			mode = report.ModeCreate
		}
		result.PersistErrors += e.persist(ctx, trial, mode)
	}

	result.Elapsed = time.Since(started)
	logger.Log.Infow("Sweep completed", "sweep", result.ID, "trials", len(result.Trials),
		"persistErrors", result.PersistErrors, "elapsed", result.Elapsed)
	return result, nil
}

// persist writes the trial to every configured sink and returns the number of
// failed writes.
func (e *Engine) persist(ctx context.Context, trial *TrialResult, mode report.Mode) int {
	failures := 0
	if path := e.config.Output.ReportPath; path != "" {
		if err := report.WriteRow(path, trial.Row(), mode); err != nil {
			logger.Log.Errorw("Failed to write report row", "trial", trial.ID, "path", path, "error", err)
			e.persistFailed(ctx, constants.SinkReport)
			failures++
		} else {
			logger.Log.Debugw("Report row written", "trial", trial.ID, "path", path, "mode", mode.String())
		}
	}
	if e.store != nil {
		if err := e.store.SaveTrial(trial.Record()); err != nil {
			logger.Log.Errorw("Failed to store trial", "trial", trial.ID, "error", err)
			e.persistFailed(ctx, constants.SinkStore)
			failures++
		}
	}
	return failures
}

func (e *Engine) persistFailed(ctx context.Context, sink string) {
	if e.emitter != nil {
		e.emitter.EmitPersistError(ctx, sink)
	}
}

// StartSweepLoop reruns the sweep every interval until the context is
// cancelled. A failed sweep is retried with backoff.
func (e *Engine) StartSweepLoop(ctx context.Context, interval time.Duration) {
	executor.NewPollingExecutor(executor.PollingConfig{
		Config: executor.Config{
			Name: "sweep",
			TaskFunc: func(ctx context.Context) error {
				_, err := e.RunSweep(ctx)
				return err
			},
		},
		Interval:     interval,
		RetryBackoff: 100 * time.Millisecond,
		MaxRetries:   3,
	}).Start(ctx)
}
