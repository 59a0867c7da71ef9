// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package poll waits for asynchronous engine state transitions such as a
// stack finishing its teardown or a registry container accepting requests.
//
// A Poller evaluates a predicate immediately and then once per interval until
// the predicate reports false:
//
//	p := poll.New(defaults.PollTimeout)
//	err := p.Await(ctx, func(ctx context.Context) bool {
//		return probe.StackRunning(ctx, id)
//	}, "waiting for stack to stop")
//
// Budgets are optional. When either the timeout or the attempt limit is hit,
// Await returns a TIMEOUT StructuredError for which errors.Is(err, ErrTimeout)
// is true.
package poll
