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
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/engine"
	"github.com/NVIDIA/stackctl/pkg/shell"
)

// ProcessDetector reports whether the engine's management process is up.
// An error means the detector could not tell, not that the process is down.
type ProcessDetector interface {
	Detect(ctx context.Context) (bool, error)
}

// SystemdDetector checks the ActiveState of a systemd unit over D-Bus.
type SystemdDetector struct {
	Unit string
}

// Detect reports true when the unit is active or activating.
func (d SystemdDetector) Detect(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	prop, err := conn.GetUnitPropertyContext(ctx, d.Unit, "ActiveState")
	if err != nil {
		return false, fmt.Errorf("failed to get %s state: %w", d.Unit, err)
	}
	state, _ := prop.Value.Value().(string)
	slog.Debug("engine unit state", "unit", d.Unit, "state", state)
	return state == "active" || state == "activating", nil
}

// PgrepDetector looks for processes by exact name.
type PgrepDetector struct {
	Runner shell.Runner
	Names  []string
}

// Detect reports true when any of the names has a running process.
func (d PgrepDetector) Detect(ctx context.Context) (bool, error) {
	for _, name := range d.Names {
		res, err := d.Runner.Run(ctx, engine.ProcessIDs(name))
		if err != nil {
			return false, err
		}
		if strings.TrimSpace(res.Stdout) != "" {
			return true, nil
		}
	}
	return false, nil
}

// AnyDetector reports true as soon as one detector does. Detector errors are
// logged and skipped; the error is returned only when every detector failed.
type AnyDetector []ProcessDetector

func (a AnyDetector) Detect(ctx context.Context) (bool, error) {
	var lastErr error
	failed := 0
	for _, d := range a {
		ok, err := d.Detect(ctx)
		if err != nil {
			slog.Debug("process detector unavailable", "detector", fmt.Sprintf("%T", d), "error", err)
			lastErr = err
			failed++
			continue
		}
		if ok {
			return true, nil
		}
	}
	if failed > 0 && failed == len(a) {
		return false, lastErr
	}
	return false, nil
}

// DefaultDetector checks the systemd unit first and falls back to pgrep for
// dockerd and the Docker Desktop backend.
func DefaultDetector(runner shell.Runner) ProcessDetector {
	return AnyDetector{
		SystemdDetector{Unit: defaults.EngineSystemdUnit},
		PgrepDetector{Runner: runner, Names: []string{"dockerd", "com.docker.backend"}},
	}
}
