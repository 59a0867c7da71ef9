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

// Package shelltest provides a scripted shell.Runner for tests.
//
// Responses are keyed by a command-line prefix such as "docker images -q".
// The longest matching prefix wins. A rule with several responses returns
// them in order and repeats the last one. Unmatched commands succeed with
// empty output. Every call is recorded.
package shelltest

import (
	"context"
	"strings"
	"sync"

	"github.com/NVIDIA/stackctl/pkg/shell"
)

// Response is a canned process outcome.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err, when set, is returned as-is instead of applying the failure policy.
	Err error
}

// OK returns a successful response printing stdout.
func OK(stdout string) Response {
	return Response{Stdout: stdout}
}

// Fail returns a response that printed stderr and exited 1.
func Fail(stderr string) Response {
	return Response{Stderr: stderr, ExitCode: 1}
}

type rule struct {
	prefix    string
	responses []Response
	fn        func(shell.Command) Response
	served    int
}

// Runner is a concurrency-safe scripted shell.Runner.
type Runner struct {
	mu    sync.Mutex
	rules []*rule
	calls []shell.Command
}

// New returns an empty Runner.
func New() *Runner {
	return &Runner{}
}

// On registers responses for commands starting with prefix.
func (r *Runner) On(prefix string, responses ...Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, &rule{prefix: prefix, responses: responses})
	return r
}

// OnFunc registers a dynamic responder for commands starting with prefix.
func (r *Runner) OnFunc(prefix string, fn func(shell.Command) Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, &rule{prefix: prefix, fn: fn})
	return r
}

// Run records the command and serves the matching response.
func (r *Runner) Run(ctx context.Context, c shell.Command) (shell.Result, error) {
	if err := ctx.Err(); err != nil {
		return shell.Result{}, err
	}

	r.mu.Lock()
	r.calls = append(r.calls, c)
	resp := r.match(c)
	r.mu.Unlock()

	if resp.Err != nil {
		return shell.Result{}, resp.Err
	}
	res := shell.Result{Stdout: resp.Stdout, Stderr: resp.Stderr, ExitCode: resp.ExitCode}
	return res, shell.Check(c, res)
}

func (r *Runner) match(c shell.Command) Response {
	line := c.String()
	var best *rule
	for _, rl := range r.rules {
		if !strings.HasPrefix(line, rl.prefix) {
			continue
		}
		if best == nil || len(rl.prefix) >= len(best.prefix) {
			best = rl
		}
	}
	if best == nil {
		return Response{}
	}
	if best.fn != nil {
		return best.fn(c)
	}
	if len(best.responses) == 0 {
		return Response{}
	}
	i := best.served
	if i >= len(best.responses) {
		i = len(best.responses) - 1
	}
	best.served++
	return best.responses[i]
}

// Calls returns a copy of every recorded command.
func (r *Runner) Calls() []shell.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shell.Command, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the recorded command lines in call order.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.String())
	}
	return out
}

// Count returns how many recorded commands start with prefix.
func (r *Runner) Count(prefix string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

// Index returns the position of the first recorded command starting with
// prefix, or -1.
func (r *Runner) Index(prefix string) int {
	for i, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}
