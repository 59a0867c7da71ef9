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

package poll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
)

// ErrTimeout is matched by errors.Is on every error returned when a wait
// exceeds its time or attempt budget.
var ErrTimeout = errors.New("wait budget exhausted")

// Predicate reports whether the awaited condition still holds.
type Predicate func(ctx context.Context) bool

// Poller waits for a condition to stop holding. Zero Timeout and zero
// MaxAttempts mean no bound.
type Poller struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxAttempts int
}

// New returns a Poller using the default interval and the given timeout.
func New(timeout time.Duration) Poller {
	return Poller{Interval: defaults.PollInterval, Timeout: timeout}
}

// Await evaluates pending immediately and then once per Interval, returning
// as soon as it reports false. pending is never evaluated after Await returns.
// Exceeding a budget returns a TIMEOUT error wrapping ErrTimeout; cancelling
// ctx returns ctx.Err().
func (p Poller) Await(ctx context.Context, pending Predicate, activity string) error {
	interval := p.Interval
	if interval <= 0 {
		interval = defaults.PollInterval
	}

	waitCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	attempts := 0
	exhausted := false
	progress := rate.Sometimes{Interval: defaults.PollProgressInterval}

	err := wait.PollUntilContextCancel(waitCtx, interval, true, func(ctx context.Context) (bool, error) {
		attempts++
		if !pending(ctx) {
			return true, nil
		}
		if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
			exhausted = true
			return false, ErrTimeout
		}
		progress.Do(func() {
			slog.Info(activity, "attempts", attempts, "elapsed", time.Since(start).Round(time.Second).String())
		})
		return false, nil
	})

	pollAttempts.Observe(float64(attempts))

	switch {
	case err == nil:
		pollResults.WithLabelValues(resultSatisfied).Inc()
		slog.Debug("wait finished", "activity", activity, "attempts", attempts)
		return nil
	case ctx.Err() != nil:
		pollResults.WithLabelValues(resultCanceled).Inc()
		return ctx.Err()
	case exhausted || errors.Is(err, context.DeadlineExceeded) || wait.Interrupted(err):
		pollResults.WithLabelValues(resultTimeout).Inc()
		return apperrors.WrapWithContext(apperrors.ErrCodeTimeout, "timed out "+activity, ErrTimeout,
			map[string]any{
				"activity": activity,
				"attempts": attempts,
				"elapsed":  time.Since(start).String(),
			})
	default:
		return apperrors.Wrap(apperrors.ErrCodeInternal, "wait failed", err)
	}
}
