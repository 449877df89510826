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

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/llm-d-incubation/loss-simulator/internal/logger"
	"github.com/llm-d-incubation/loss-simulator/pkg/config"
)

// drainable exposes the advisory busy channel count of a running system.
type drainable interface {
	BusyChannels() int
}

// waitForDrain polls until no channel is busy, then holds the settle period
// and polls again if a channel became busy meanwhile.
func waitForDrain(ctx context.Context, sys drainable, spec config.DrainSpec) error {
	deadline := time.Now().Add(spec.Timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("channels did not drain within %v: %w", spec.Timeout, context.DeadlineExceeded)
		}
		err := wait.PollUntilContextTimeout(ctx, spec.PollInterval, remaining, true,
			func(ctx context.Context) (bool, error) {
				return sys.BusyChannels() == 0, nil
			})
		if err != nil {
			return fmt.Errorf("channels did not drain within %v: %w", spec.Timeout, err)
		}
		if spec.SettlePeriod <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(spec.SettlePeriod):
		}
		if sys.BusyChannels() == 0 {
			return nil
		}
		logger.Log.Debugw("Channels busy again after settle period", "busyChannels", sys.BusyChannels())
	}
}
