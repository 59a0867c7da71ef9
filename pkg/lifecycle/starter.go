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

package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/engine"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/shell"
)

// Installer installs the container engine.
type Installer interface {
	Install(ctx context.Context) error
}

// Starter starts an installed container engine.
type Starter interface {
	Start(ctx context.Context) error
}

// ScriptInstaller runs the engine's convenience install script.
type ScriptInstaller struct {
	Runner shell.Runner
	URL    string
}

func (i ScriptInstaller) Install(ctx context.Context) error {
	url := i.URL
	if url == "" {
		url = defaults.InstallScriptURL
	}
	slog.Info("installing container engine", "script", url)
	_, err := i.Runner.Run(ctx, engine.RunInstallScript(url))
	return err
}

// SystemdStarter starts a systemd unit over D-Bus and waits for the job.
type SystemdStarter struct {
	Unit string
}

func (s SystemdStarter) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to connect to systemd", err)
	}
	defer conn.Close()

	slog.Info("starting systemd unit", "unit", s.Unit)
	done := make(chan string, 1)
	if _, err := conn.StartUnitContext(ctx, s.Unit, "replace", done); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to start unit", err,
			map[string]any{"unit": s.Unit})
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-done:
		if result != "done" {
			return apperrors.NewWithContext(apperrors.ErrCodeUnavailable,
				fmt.Sprintf("start job for %s finished with %q", s.Unit, result),
				map[string]any{"unit": s.Unit, "result": result})
		}
		return nil
	}
}

// DesktopStarter launches Docker Desktop on macOS.
type DesktopStarter struct {
	Runner shell.Runner
}

func (d DesktopStarter) Start(ctx context.Context) error {
	slog.Info("launching Docker Desktop")
	_, err := d.Runner.Run(ctx, engine.OpenDesktop())
	return err
}

type unsupportedStarter struct {
	goos string
}

func (u unsupportedStarter) Start(context.Context) error {
	return apperrors.NewWithContext(apperrors.ErrCodeUnavailable,
		"starting the engine automatically is not supported on this platform",
		map[string]any{"os": u.goos})
}

// DefaultStarter picks the Starter for the running platform.
func DefaultStarter(runner shell.Runner) Starter {
	return starterFor(runtime.GOOS, runner)
}

func starterFor(goos string, runner shell.Runner) Starter {
	switch goos {
	case "linux":
		return SystemdStarter{Unit: defaults.EngineSystemdUnit}
	case "darwin":
		return DesktopStarter{Runner: runner}
	default:
		return unsupportedStarter{goos: goos}
	}
}
