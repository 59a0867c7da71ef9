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
	"log/slog"
	"strings"

	"github.com/docker/docker/api/types/swarm"
	"github.com/docker/docker/api/types/system"
	"github.com/docker/docker/client"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/engine"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/shell"
)

// ClusterInspector reports whether the engine is part of a swarm. An error
// means the inspector could not find out.
type ClusterInspector interface {
	InClusterMode(ctx context.Context) (bool, error)
}

// InfoClient is the part of the Engine API client used for the swarm query.
type InfoClient interface {
	Info(ctx context.Context) (system.Info, error)
}

// EngineAPIInspector reads the node's swarm state from the Engine API. It has
// no side effects.
type EngineAPIInspector struct {
	Client InfoClient
}

// NewEngineAPIInspector connects using the DOCKER_HOST family of environment
// variables and negotiates the API version.
func NewEngineAPIInspector() (*EngineAPIInspector, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to create engine API client", err)
	}
	return &EngineAPIInspector{Client: cli}, nil
}

// InClusterMode is true when the local node state is active, pending or locked.
func (i *EngineAPIInspector) InClusterMode(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.EngineAPITimeout)
	defer cancel()

	info, err := i.Client.Info(ctx)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrCodeUnavailable, "engine API unreachable", err)
	}
	state := info.Swarm.LocalNodeState
	slog.Debug("swarm node state", "state", state)
	switch state {
	case swarm.LocalNodeStateActive, swarm.LocalNodeStatePending, swarm.LocalNodeStateLocked:
		return true, nil
	default:
		return false, nil
	}
}

// InitLeaveInspector finds out by trying to initialise a swarm. If the init
// succeeds the node was not in one, so it leaves again and reports false.
// Any init error output is taken as "already part of a swarm".
type InitLeaveInspector struct {
	Runner        shell.Runner
	AdvertiseAddr string
}

func (i *InitLeaveInspector) InClusterMode(ctx context.Context) (bool, error) {
	cmd := engine.SwarmInit(i.AdvertiseAddr)
	cmd.SuppressFailure = true
	res, err := i.Runner.Run(ctx, cmd)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(res.Stderr) != "" || res.ExitCode != 0 {
		return true, nil
	}

	slog.Debug("swarm init succeeded during probe, leaving again")
	if _, err := i.Runner.Run(ctx, engine.SwarmLeave()); err != nil {
		return false, err
	}
	return false, nil
}

// FallbackInspector asks Primary and uses Secondary only when Primary fails.
type FallbackInspector struct {
	Primary   ClusterInspector
	Secondary ClusterInspector
}

func (f FallbackInspector) InClusterMode(ctx context.Context) (bool, error) {
	if f.Primary != nil {
		ok, err := f.Primary.InClusterMode(ctx)
		if err == nil {
			return ok, nil
		}
		slog.Debug("primary cluster inspector failed, falling back", "error", err)
	}
	if f.Secondary == nil {
		return false, apperrors.New(apperrors.ErrCodeUnavailable, "no cluster inspector available")
	}
	return f.Secondary.InClusterMode(ctx)
}
