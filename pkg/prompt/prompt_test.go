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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
)

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies() {
		got, err := ParsePolicy(p)
		require.NoError(t, err)
		assert.Equal(t, Policy(p), got)
	}

	got, err := ParsePolicy(" YES ")
	require.NoError(t, err)
	assert.Equal(t, PolicyYes, got)

	_, err = ParsePolicy("maybe")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}

func TestNew(t *testing.T) {
	assert.IsType(t, AlwaysYes{}, New(PolicyYes, nil, nil))
	assert.IsType(t, AlwaysNo{}, New(PolicyNo, nil, nil))
	assert.IsType(t, FailFast{}, New(PolicyFail, nil, nil))
	assert.IsType(t, &Terminal{}, New(PolicyAsk, strings.NewReader(""), io.Discard))
}

func TestTerminalConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"enter defaults to yes", "\n", true},
		{"y", "y\n", true},
		{"YES", "YES\n", true},
		{"n", "n\n", false},
		{"no", "no\n", false},
		{"retries until valid", "what\nperhaps\nn\n", false},
		{"eof declines", "", false},
		{"answer without newline", "y", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)
			got, err := term.Confirm(context.Background(), "Start Docker?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Start Docker? [Y/n]: ")
		})
	}
}

func TestTerminalWaitForOperator(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("\n"), &out)
	require.NoError(t, term.WaitForOperator(context.Background(), "Install docker, then continue"))
	assert.Contains(t, out.String(), "Install docker, then continue. Press Enter")

	err := NewTerminal(strings.NewReader(""), io.Discard).WaitForOperator(context.Background(), "fix it")
	assert.ErrorIs(t, err, ErrOperatorRequired)
}

func TestTerminalHonoursContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTerminal(r, io.Discard).Confirm(ctx, "Proceed?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTerminalReusableAfterCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	term := NewTerminal(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := term.Confirm(ctx, "Proceed?")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = w.Write([]byte("n\nyes\n")) }()

	ok, err := term.Confirm(context.Background(), "Proceed?")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = term.Confirm(context.Background(), "Proceed again?")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, w.Close())
	ok, err = term.Confirm(context.Background(), "Still there?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNonInteractivePolicies(t *testing.T) {
	ctx := context.Background()

	ok, err := AlwaysYes{}.Confirm(ctx, "q")
	require.NoError(t, err)
	assert.True(t, ok)
	err = AlwaysYes{}.WaitForOperator(ctx, "install docker")
	assert.True(t, errors.Is(err, ErrOperatorRequired))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeOperatorRequired))

	ok, err = FailFast{}.Confirm(ctx, "q")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, FailFast{}.WaitForOperator(ctx, "x"), ErrOperatorRequired)

	no := AlwaysNo{Recheck: time.Millisecond}
	ok, err = no.Confirm(ctx, "q")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, no.WaitForOperator(ctx, "x"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, AlwaysNo{Recheck: time.Hour}.WaitForOperator(cancelled, "x"), context.Canceled)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Docker", Title("docker"))
	assert.Equal(t, "Local Registry", Title("local registry"))
}
