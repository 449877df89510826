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

package executor

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/llm-d-incubation/loss-simulator/internal/logger"
)

// MaxRetryBackoff caps the delay between retries of a failing run.
const MaxRetryBackoff = 4 * time.Second

// PollingExecutor reruns its task every interval. A failed run is retried with
// a doubling delay, capped at MaxRetryBackoff, before the next interval starts.
type PollingExecutor struct {
	config     Config
	interval   time.Duration
	backoff    wait.Backoff
	maxRetries int // retries per interval, 0 for unlimited

	runs     atomic.Int64
	failures atomic.Int64
}

var _ Executor = (*PollingExecutor)(nil)

// PollingConfig holds polling-specific configuration.
type PollingConfig struct {
	Config
	Interval     time.Duration
	RetryBackoff time.Duration // first retry delay
	MaxRetries   int
}

func NewPollingExecutor(config PollingConfig) *PollingExecutor {
	return &PollingExecutor{
		config:   config.Config,
		interval: config.Interval,
		backoff: wait.Backoff{
			Duration: config.RetryBackoff,
			Factor:   2,
			Cap:      MaxRetryBackoff,
			Steps:    math.MaxInt32,
		},
		maxRetries: config.MaxRetries,
	}
}

// Start runs the task immediately and then once per interval. The interval is
// measured from the end of a run, retries included.
func (e *PollingExecutor) Start(ctx context.Context) {
	name := e.config.name()
	logger.Log.Infow("Starting polling executor", "task", name, "interval", e.interval, "maxRetries", e.maxRetries)
	wait.UntilWithContext(ctx, e.runOnce, e.interval)
	logger.Log.Infow("Polling executor stopped", "task", name, "runs", e.Runs(), "failures", e.Failures())
}

// runOnce executes the task until it succeeds, the retries are spent or ctx ends.
func (e *PollingExecutor) runOnce(ctx context.Context) {
	name := e.config.name()
	nextDelay := e.backoff.DelayFunc()
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return
		}
		e.runs.Add(1)
		err := e.config.TaskFunc(ctx)
		if err == nil {
			return
		}
		e.failures.Add(1)
		if ctx.Err() != nil {
			logger.Log.Debugw("Task interrupted", "task", name, "error", err)
			return
		}

		logger.Log.Errorw("Task failed", "task", name, "attempt", attempt, "error", err)
		if e.maxRetries > 0 && attempt > e.maxRetries {
			logger.Log.Warnw("Retries exhausted, waiting for next interval", "task", name, "retries", e.maxRetries)
			return
		}

		t := time.NewTimer(nextDelay())
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// Runs counts task executions, retries included.
func (e *PollingExecutor) Runs() int64 {
	return e.runs.Load()
}

// Failures counts task executions that returned an error.
func (e *PollingExecutor) Failures() int64 {
	return e.failures.Load()
}
