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

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
)

// Command describes a single external process invocation.
type Command struct {
	// Name is the executable, resolved on PATH.
	Name string
	// Args are passed verbatim; no shell is involved.
	Args []string
	// Env is appended to the inherited environment of this process only.
	Env map[string]string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// SuppressFailure turns error output and non-zero exits into a plain
	// Result instead of an ExternalCommandError.
	SuppressFailure bool
	// Stream tees stdout and stderr to the terminal while still capturing
	// them. Streamed commands fail on non-zero exit only.
	Stream bool
}

// String returns the command line for logs and error messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds what a finished process produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands. Every state probe and engine action goes
// through a Runner so tests can substitute a scripted one.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// CommandError is the cause carried by an EXTERNAL_COMMAND StructuredError.
type CommandError struct {
	Command  string
	Stderr   string
	ExitCode int
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("%s: %s", e.Command, msg)
}

// AsCommandError extracts the CommandError from an error chain.
func AsCommandError(err error) (*CommandError, bool) {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner returns a Runner that spawns real processes and streams to the
// process stdout/stderr when a Command asks for it.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{stdout: os.Stdout, stderr: os.Stderr}
}

// Run spawns exactly one process and waits for it.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	slog.Debug("running command", "command", c.String(), "dir", c.Dir, "env_keys", envKeys(c.Env))

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), c.Env)
	}

	var outBuf, errBuf bytes.Buffer
	if c.Stream {
		cmd.Stdout = io.MultiWriter(r.stdout, &outBuf)
		cmd.Stderr = io.MultiWriter(r.stderr, &errBuf)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	runErr := cmd.Run()
	res := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}

	if runErr != nil {
		var ee *exec.ExitError
		if !errors.As(runErr, &ee) {
			commandsTotal.WithLabelValues(outcomeSpawnError).Inc()
			return res, apperrors.WrapWithContext(apperrors.ErrCodeExternalCommand,
				"failed to start command", runErr, map[string]any{"command": c.String()})
		}
		res.ExitCode = ee.ExitCode()
	}

	return res, Check(c, res)
}

// Check applies the failure policy to a finished command. It is exported so
// alternative Runner implementations share the exact same semantics.
func Check(c Command, res Result) error {
	failed := res.ExitCode != 0
	if !c.Stream {
		// Streamed commands report progress on stderr; only the exit code counts.
		failed = failed || strings.TrimSpace(res.Stderr) != ""
	}
	switch {
	case !failed:
		commandsTotal.WithLabelValues(outcomeOK).Inc()
		return nil
	case c.SuppressFailure:
		commandsTotal.WithLabelValues(outcomeSuppressed).Inc()
		return nil
	}

	commandsTotal.WithLabelValues(outcomeFailed).Inc()
	return apperrors.WrapWithContext(apperrors.ErrCodeExternalCommand, "external command failed",
		&CommandError{Command: c.String(), Stderr: res.Stderr, ExitCode: res.ExitCode},
		map[string]any{"command": c.String(), "exitCode": res.ExitCode})
}

func mergeEnv(base []string, extra map[string]string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[k]; overridden {
			continue
		}
		out = append(out, kv)
	}
	for _, k := range envKeys(extra) {
		out = append(out, k+"="+extra[k])
	}
	return out
}

func envKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
