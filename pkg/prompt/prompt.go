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

package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
)

// ErrOperatorRequired is matched by errors.Is when a policy cannot let the
// run proceed without a human.
var ErrOperatorRequired = errors.New("operator action required")

// Confirmer asks before mutating actions and pauses for manual fixes.
type Confirmer interface {
	// Confirm asks a yes/no question. The default answer is yes.
	Confirm(ctx context.Context, question string) (bool, error)
	// WaitForOperator blocks until the operator signals that message has
	// been acted upon.
	WaitForOperator(ctx context.Context, message string) error
}

// Policy selects how confirmations are answered.
type Policy string

const (
	// PolicyAsk prompts on the terminal.
	PolicyAsk Policy = "ask"
	// PolicyYes accepts every confirmation and fails when manual action is needed.
	PolicyYes Policy = "yes"
	// PolicyNo declines every confirmation and keeps re-checking.
	PolicyNo Policy = "no"
	// PolicyFail declines and fails as soon as manual action is needed.
	PolicyFail Policy = "fail"
)

// Policies lists the accepted --confirm values.
func Policies() []string {
	return []string{string(PolicyAsk), string(PolicyYes), string(PolicyNo), string(PolicyFail)}
}

// ParsePolicy validates s as a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAsk, PolicyYes, PolicyNo, PolicyFail:
		return p, nil
	}
	return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown confirmation policy %q, expected one of %s", s, strings.Join(Policies(), ", ")),
		map[string]any{"policy": s})
}

// New returns the Confirmer for policy. in and out are only used by PolicyAsk.
func New(policy Policy, in io.Reader, out io.Writer) Confirmer {
	switch policy {
	case PolicyYes:
		return AlwaysYes{}
	case PolicyNo:
		return AlwaysNo{Recheck: defaults.OperatorRecheckInterval}
	case PolicyFail:
		return FailFast{}
	default:
		return NewTerminal(in, out)
	}
}

var titleCaser = cases.Title(language.English)

// Title capitalizes every word of s for operator-facing messages.
func Title(s string) string {
	return titleCaser.String(s)
}

func operatorRequired(message string) error {
	return apperrors.WrapWithContext(apperrors.ErrCodeOperatorRequired, message, ErrOperatorRequired,
		map[string]any{"action": message})
}

// Terminal prompts on an interactive terminal. A single goroutine reads the
// input for the life of the Terminal, so a read abandoned on cancellation
// hands its line to the next question.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	once  sync.Once
	lines chan string
	err   error
}

// NewTerminal returns a Terminal reading answers from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm accepts an empty answer, y or yes as consent and n or no as refusal.
// Anything else repeats the question. End of input is treated as refusal.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		fmt.Fprintf(t.out, "%s [Y/n]: ", question)
		line, err := t.readLine(ctx)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(t.out)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// WaitForOperator prints message and waits for Enter.
func (t *Terminal) WaitForOperator(ctx context.Context, message string) error {
	fmt.Fprintf(t.out, "%s. Press Enter to continue...", message)
	_, err := t.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return operatorRequired(message)
	}
	return err
}

// readLine returns the next trimmed line, or ctx.Err() if ctx ends first.
// After the input ends every call returns the terminal read error.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.once.Do(t.startReader)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			return "", t.err
		}
		return line, nil
	}
}

func (t *Terminal) startReader() {
	t.lines = make(chan string)
	go func() {
		defer close(t.lines)
		for {
			line, err := t.in.ReadString('\n')
			if line != "" && (err == nil || errors.Is(err, io.EOF)) {
				t.lines <- strings.TrimSpace(line)
			}
			if err != nil {
				t.err = err
				return
			}
		}
	}()
}

// AlwaysYes accepts every confirmation.
type AlwaysYes struct{}

func (AlwaysYes) Confirm(_ context.Context, question string) (bool, error) {
	slog.Info("confirmation accepted by policy", "question", question)
	return true, nil
}

// WaitForOperator fails: nothing can be done unattended.
func (AlwaysYes) WaitForOperator(_ context.Context, message string) error {
	return operatorRequired(message)
}

// AlwaysNo declines every confirmation and waits for someone else to fix the
// dependency, re-checking every Recheck.
type AlwaysNo struct {
	Recheck time.Duration
}

func (AlwaysNo) Confirm(_ context.Context, question string) (bool, error) {
	slog.Info("confirmation declined by policy", "question", question)
	return false, nil
}

func (n AlwaysNo) WaitForOperator(ctx context.Context, message string) error {
	slog.Warn("waiting for operator", "action", message, "recheck", n.Recheck.String())
	timer := time.NewTimer(n.Recheck)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FailFast declines every confirmation and fails when manual action is needed.
type FailFast struct{}

func (FailFast) Confirm(_ context.Context, question string) (bool, error) {
	slog.Info("confirmation declined by policy", "question", question)
	return false, nil
}

func (FailFast) WaitForOperator(_ context.Context, message string) error {
	return operatorRequired(message)
}
