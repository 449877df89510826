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

import "context"

// Executor runs a task until its context is cancelled.
type Executor interface {
	// Start blocks until ctx is cancelled.
	Start(ctx context.Context)
}

// TaskFunc is one unit of repeated work, e.g. a full arrival rate sweep.
type TaskFunc func(ctx context.Context) error

// Config holds common executor configuration.
type Config struct {
	Name     string // task name used in logs
	TaskFunc TaskFunc
}

func (c Config) name() string {
	if c.Name == "" {
		return "task"
	}
	return c.Name
}
