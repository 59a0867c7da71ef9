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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
)

// pendingFor returns a predicate that holds for the first n evaluations.
func pendingFor(n int32, calls *atomic.Int32) Predicate {
	return func(context.Context) bool {
		return calls.Add(1) <= n
	}
}

func TestAwaitEvaluationCount(t *testing.T) {
	tests := []struct {
		name    string
		pending int32
		want    int32
	}{
		{"false immediately", 0, 1},
		{"true once", 1, 2},
		{"true three times", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			p := Poller{Interval: time.Millisecond}

			require.NoError(t, p.Await(context.Background(), pendingFor(tt.pending, &calls), "testing"))
			assert.Equal(t, tt.want, calls.Load())

			time.Sleep(10 * time.Millisecond)
			assert.Equal(t, tt.want, calls.Load(), "predicate evaluated after return")
		})
	}
}

func TestAwaitMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	p := Poller{Interval: time.Millisecond, MaxAttempts: 3}

	err := p.Await(context.Background(), pendingFor(100, &calls), "waiting forever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTimeout))
	assert.Equal(t, int32(3), calls.Load())

	var se *apperrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "waiting forever", se.Context["activity"])
	assert.Equal(t, 3, se.Context["attempts"])
}

func TestAwaitTimeout(t *testing.T) {
	var calls atomic.Int32
	p := Poller{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}

	err := p.Await(context.Background(), pendingFor(1<<30, &calls), "never settles")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestAwaitParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	p := Poller{Interval: time.Millisecond}

	err := p.Await(ctx, func(context.Context) bool {
		if calls.Add(1) == 2 {
			cancel()
		}
		return true
	}, "cancelled")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestNew(t *testing.T) {
	p := New(time.Minute)
	assert.Equal(t, time.Minute, p.Timeout)
	assert.Positive(t, p.Interval)
	assert.Zero(t, p.MaxAttempts)
}
