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

package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/swarm"
	"github.com/docker/docker/api/types/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/stackctl/pkg/shell/shelltest"
	"github.com/NVIDIA/stackctl/pkg/stack"
)

type staticDetector struct {
	up  bool
	err error
}

func (d staticDetector) Detect(context.Context) (bool, error) { return d.up, d.err }

type staticInspector struct {
	on    bool
	err   error
	calls int
}

func (s *staticInspector) InClusterMode(context.Context) (bool, error) {
	s.calls++
	return s.on, s.err
}

type fakeInfo struct {
	state swarm.LocalNodeState
	err   error
}

func (f fakeInfo) Info(context.Context) (system.Info, error) {
	return system.Info{Swarm: swarm.Info{LocalNodeState: f.state}}, f.err
}

func found(string) (string, error)   { return "/usr/bin/docker", nil }
func missing(string) (string, error) { return "", errors.New("not found") }

var widget = stack.NewIdentity("my.app", "acme")

func TestEngineInstalled(t *testing.T) {
	ctx := context.Background()
	assert.True(t, New(shelltest.New(), WithLookPath(found)).EngineInstalled(ctx))
	assert.False(t, New(shelltest.New(), WithLookPath(missing)).EngineInstalled(ctx))
}

func TestEngineRunning(t *testing.T) {
	tests := []struct {
		name     string
		detector staticDetector
		ps       shelltest.Response
		want     bool
	}{
		{"process and listing", staticDetector{up: true}, shelltest.OK("CONTAINER ID\n"), true},
		{"no process", staticDetector{up: false}, shelltest.OK(""), false},
		{"daemon not answering", staticDetector{up: true}, shelltest.Fail("Cannot connect to the Docker daemon"), false},
		{"error output with zero exit", staticDetector{up: true}, shelltest.Response{Stderr: "permission denied"}, false},
		{"detector unavailable, listing decides", staticDetector{err: errors.New("no bus")}, shelltest.OK(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := shelltest.New().On("docker ps", tt.ps)
			p := New(runner, WithProcessDetector(tt.detector))
			assert.Equal(t, tt.want, p.EngineRunning(context.Background()))
		})
	}
}

func TestEngineVersion(t *testing.T) {
	ctx := context.Background()

	runner := shelltest.New().On("docker version", shelltest.OK("27.5.1\n"))
	p := New(runner)
	assert.Equal(t, "27.5.1", p.EngineVersion(ctx))
	v, ok := p.EngineSupported(ctx)
	assert.Equal(t, "27.5.1", v)
	assert.True(t, ok)

	old := New(shelltest.New().On("docker version", shelltest.OK("1.12.6")))
	_, ok = old.EngineSupported(ctx)
	assert.False(t, ok)

	broken := New(shelltest.New().On("docker version", shelltest.Fail("daemon down")))
	assert.Empty(t, broken.EngineVersion(ctx))
	_, ok = broken.EngineSupported(ctx)
	assert.True(t, ok)
}

func TestStackRunning(t *testing.T) {
	ctx := context.Background()

	runner := shelltest.New().On("docker ps -q --filter label=com.docker.stack.namespace=my-app", shelltest.OK("abc\ndef\n"))
	assert.True(t, New(runner).StackRunning(ctx, widget))
	assert.Equal(t, []string{"docker ps -q --filter label=com.docker.stack.namespace=my-app"}, runner.Lines())

	assert.False(t, New(shelltest.New()).StackRunning(ctx, widget))
}

func TestInClusterModeSwallowsErrors(t *testing.T) {
	insp := &staticInspector{err: errors.New("boom")}
	assert.False(t, New(shelltest.New(), WithClusterInspector(insp)).InClusterMode(context.Background()))
	assert.Equal(t, 1, insp.calls)
}

func TestEngineAPIInspector(t *testing.T) {
	tests := []struct {
		state swarm.LocalNodeState
		want  bool
	}{
		{swarm.LocalNodeStateActive, true},
		{swarm.LocalNodeStatePending, true},
		{swarm.LocalNodeStateLocked, true},
		{swarm.LocalNodeStateInactive, false},
		{swarm.LocalNodeStateError, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			on, err := (&EngineAPIInspector{Client: fakeInfo{state: tt.state}}).InClusterMode(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, on)
		})
	}

	_, err := (&EngineAPIInspector{Client: fakeInfo{err: errors.New("dial unix")}}).InClusterMode(context.Background())
	assert.Error(t, err)
}

func TestInitLeaveInspector(t *testing.T) {
	ctx := context.Background()

	t.Run("init succeeds means not in cluster", func(t *testing.T) {
		runner := shelltest.New().On("docker swarm init", shelltest.OK("Swarm initialized"))
		on, err := (&InitLeaveInspector{Runner: runner, AdvertiseAddr: "127.0.0.1:2377"}).InClusterMode(ctx)
		require.NoError(t, err)
		assert.False(t, on)
		assert.Equal(t, []string{
			"docker swarm init --advertise-addr 127.0.0.1:2377",
			"docker swarm leave --force",
		}, runner.Lines())
	})

	t.Run("init error means in cluster", func(t *testing.T) {
		runner := shelltest.New().On("docker swarm init",
			shelltest.Fail("Error response from daemon: This node is already part of a swarm."))
		on, err := (&InitLeaveInspector{Runner: runner, AdvertiseAddr: "127.0.0.1:2377"}).InClusterMode(ctx)
		require.NoError(t, err)
		assert.True(t, on)
		assert.Equal(t, 0, runner.Count("docker swarm leave"))
	})

	t.Run("leave failure surfaces", func(t *testing.T) {
		runner := shelltest.New().On("docker swarm leave", shelltest.Fail("cannot leave"))
		_, err := (&InitLeaveInspector{Runner: runner, AdvertiseAddr: "127.0.0.1:2377"}).InClusterMode(ctx)
		assert.Error(t, err)
	})
}

func TestFallbackInspector(t *testing.T) {
	ctx := context.Background()

	primary := &staticInspector{on: true}
	secondary := &staticInspector{on: false}
	on, err := FallbackInspector{Primary: primary, Secondary: secondary}.InClusterMode(ctx)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, 0, secondary.calls)

	primary = &staticInspector{err: errors.New("unreachable")}
	secondary = &staticInspector{on: true}
	on, err = FallbackInspector{Primary: primary, Secondary: secondary}.InClusterMode(ctx)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, 1, secondary.calls)

	_, err = FallbackInspector{Primary: primary}.InClusterMode(ctx)
	assert.Error(t, err)
}

func TestDetectors(t *testing.T) {
	ctx := context.Background()

	runner := shelltest.New().On("pgrep -x com.docker.backend", shelltest.OK("4242\n"))
	up, err := PgrepDetector{Runner: runner, Names: []string{"dockerd", "com.docker.backend"}}.Detect(ctx)
	require.NoError(t, err)
	assert.True(t, up)
	assert.Equal(t, []string{"pgrep -x dockerd", "pgrep -x com.docker.backend"}, runner.Lines())

	up, err = PgrepDetector{Runner: shelltest.New(), Names: []string{"dockerd"}}.Detect(ctx)
	require.NoError(t, err)
	assert.False(t, up)

	up, err = AnyDetector{staticDetector{err: errors.New("no bus")}, staticDetector{up: true}}.Detect(ctx)
	require.NoError(t, err)
	assert.True(t, up)

	up, err = AnyDetector{staticDetector{err: errors.New("no bus")}, staticDetector{}}.Detect(ctx)
	require.NoError(t, err)
	assert.False(t, up)

	_, err = AnyDetector{staticDetector{err: errors.New("no bus")}}.Detect(ctx)
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	addr := stack.RegistryAddress{Name: "registry", Hostname: "localhost", Port: "5000"}

	t.Run("engine missing", func(t *testing.T) {
		runner := shelltest.New()
		s := New(runner, WithLookPath(missing)).Snapshot(ctx, widget, &addr, nil)
		assert.False(t, s.EngineInstalled)
		assert.True(t, s.RegistryConfigured)
		assert.Empty(t, runner.Calls())
	})

	t.Run("everything up", func(t *testing.T) {
		runner := shelltest.New().
			On("docker version", shelltest.OK("27.5.1")).
			On("docker ps -q --filter label=", shelltest.OK("abc")).
			On("docker images -q acme/my.app", shelltest.OK("0123456789ab")).
			On("docker images -q localhost:5000/acme/my.app", shelltest.OK("0123456789ab"))
		insp := &staticInspector{on: true}
		p := New(runner,
			WithLookPath(found),
			WithProcessDetector(staticDetector{up: true}),
			WithClusterInspector(insp),
			WithRegistryChecker(func(context.Context, stack.RegistryAddress) bool { return true }),
		)
		s := p.Snapshot(ctx, widget, &addr, func(context.Context, stack.RegistryAddress, string, string) string {
			return "sha256:abc"
		})

		assert.Equal(t, RuntimeState{
			Stack:              "my-app",
			Package:            "acme/my.app",
			EngineInstalled:    true,
			EngineRunning:      true,
			EngineVersion:      "27.5.1",
			EngineSupported:    true,
			InClusterMode:      true,
			StackRunning:       true,
			RegistryConfigured: true,
			RegistryRunning:    true,
			LocalImage:         "0123456789ab",
			RegistryImage:      "0123456789ab",
			RegistryDigest:     "sha256:abc",
		}, s)
	})
}
