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

/*
Package executor reruns a task on a schedule.

[PollingExecutor] runs a [TaskFunc] right away and then once per interval until
its context is cancelled. A failed run is retried after a delay that starts at
the configured retry backoff and doubles up to [MaxRetryBackoff]; with a
retry limit set, the executor gives up on that run and waits for the next
interval.

Run and failure counters are safe to read while the executor is running.
*/
package executor
