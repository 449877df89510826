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
Package sweep drives simulation trials and compares them with the loss model.

# Overview

A trial builds a fresh [simulator.ServiceSystem], emits the configured number
of requests into it, waits until every channel has drained and turns the final
statistics into a [report.Row] next to the Erlang loss model prediction.

A sweep runs one trial per arrival rate of the configured range. The first row
truncates the report file and later rows are appended. Rows can also be kept
in a SQLite store. A failed write is logged and counted; it never aborts the
sweep.

# Thread Safety

An [Engine] runs one trial at a time. [Engine.StartSweepLoop] must not be
combined with concurrent calls to [Engine.RunSweep].
*/
package sweep
