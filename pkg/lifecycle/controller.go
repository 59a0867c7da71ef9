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
	"regexp"
	"strings"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/engine"
	"github.com/NVIDIA/stackctl/pkg/poll"
	"github.com/NVIDIA/stackctl/pkg/prompt"
	"github.com/NVIDIA/stackctl/pkg/shell"
	"github.com/NVIDIA/stackctl/pkg/stack"
)

// containerIDPattern is the short container ID printed by "docker ps -q".
var containerIDPattern = regexp.MustCompile(`^[a-z0-9]{12}$`)

// Prober is the subset of runtime probes the controller needs.
type Prober interface {
	EngineInstalled(ctx context.Context) bool
	EngineRunning(ctx context.Context) bool
	RegistryRunning(ctx context.Context, addr stack.RegistryAddress) bool
}

// Controller drives the engine and the registry to Running.
type Controller struct {
	runner    shell.Runner
	probe     Prober
	confirm   prompt.Confirmer
	poller    poll.Poller
	installer Installer
	starter   Starter
	offline   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithInstaller replaces the install script runner.
func WithInstaller(i Installer) Option {
	return func(c *Controller) { c.installer = i }
}

// WithStarter replaces the platform starter.
func WithStarter(s Starter) Option {
	return func(c *Controller) { c.starter = s }
}

// WithOffline disables installation.
func WithOffline(offline bool) Option {
	return func(c *Controller) { c.offline = offline }
}

// New returns a Controller.
func New(runner shell.Runner, probe Prober, confirm prompt.Confirmer, poller poll.Poller, opts ...Option) *Controller {
	c := &Controller{
		runner:    runner,
		probe:     probe,
		confirm:   confirm,
		poller:    poller,
		installer: ScriptInstaller{Runner: runner},
		starter:   DefaultStarter(runner),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EngineState probes the container engine.
func (c *Controller) EngineState(ctx context.Context) State {
	switch {
	case !c.probe.EngineInstalled(ctx):
		return NotInstalled
	case !c.probe.EngineRunning(ctx):
		return InstalledNotRunning
	default:
		return Running
	}
}

// EnsureEngine returns once the engine is running. It asks before installing
// or starting it and otherwise waits for the operator, re-checking each time.
func (c *Controller) EnsureEngine(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := c.EngineState(ctx)
		slog.Debug("engine state", "state", state)
		switch state {
		case Running:
			return nil

		case NotInstalled:
			if !c.offline {
				ok, err := c.confirm.Confirm(ctx, prompt.Title("docker")+" is not installed. Install it?")
				if err != nil {
					return err
				}
				if ok {
					err := c.installer.Install(ctx)
					switch {
					case err != nil:
						slog.Warn("engine installation failed", "error", err)
					case c.probe.EngineInstalled(ctx):
						continue
					default:
						slog.Warn("engine still not found after installation", "binary", defaults.EngineBinary)
					}
				}
			}
			if err := c.confirm.WaitForOperator(ctx, "Install docker, then continue"); err != nil {
				return err
			}

		case InstalledNotRunning:
			ok, err := c.confirm.Confirm(ctx, prompt.Title("docker")+" is not running. Start it?")
			if err != nil {
				return err
			}
			if ok {
				err := c.starter.Start(ctx)
				if err == nil {
					if err := c.poller.Await(ctx, func(ctx context.Context) bool {
						return !c.probe.EngineRunning(ctx)
					}, "waiting for docker to start"); err != nil {
						return err
					}
					continue
				}
				slog.Warn("engine start failed", "error", err)
			}
			if err := c.confirm.WaitForOperator(ctx, "Start docker, then continue"); err != nil {
				return err
			}
		}
	}
}

// RegistryState probes the registry and its container. The container ID is
// returned when the registry is installed but not running.
func (c *Controller) RegistryState(ctx context.Context, addr stack.RegistryAddress) (State, string) {
	if c.probe.RegistryRunning(ctx, addr) {
		return Running, ""
	}
	if id := c.registryContainer(ctx, addr.Name); id != "" {
		return InstalledNotRunning, id
	}
	return NotInstalled, ""
}

// registryContainer returns the ID of the container named exactly name, or ""
// when there is none or the output is not a container ID.
func (c *Controller) registryContainer(ctx context.Context, name string) string {
	res, err := c.runner.Run(ctx, engine.FindContainer(name))
	if err != nil {
		return ""
	}
	fields := strings.Fields(res.Stdout)
	if len(fields) == 0 || !containerIDPattern.MatchString(fields[0]) {
		return ""
	}
	return fields[0]
}

// EnsureRegistry returns once the registry at addr answers. A stopped
// registry container is started; a missing one is created from the registry
// image. A declined or failed action waits for the operator.
func (c *Controller) EnsureRegistry(ctx context.Context, addr stack.RegistryAddress) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state, id := c.RegistryState(ctx, addr)
		slog.Debug("registry state", "state", state, "address", addr.Address(), "container", id)

		var question string
		var action shell.Command
		switch state {
		case Running:
			return nil
		case InstalledNotRunning:
			question = fmt.Sprintf("%s %q is stopped. Start it?", prompt.Title("registry"), addr.Name)
			action = engine.StartContainer(id)
		case NotInstalled:
			question = fmt.Sprintf("%s %q does not exist. Create it on port %s?", prompt.Title("registry"), addr.Name, addr.Port)
			action = engine.RunRegistry(addr.Name, addr.Port)
		}

		ok, err := c.confirm.Confirm(ctx, question)
		if err != nil {
			return err
		}
		if ok {
			_, err := c.runner.Run(ctx, action)
			if err == nil {
				if err := c.poller.Await(ctx, func(ctx context.Context) bool {
					return !c.probe.RegistryRunning(ctx, addr)
				}, "waiting for registry to start"); err != nil {
					return err
				}
				continue
			}
			slog.Warn("registry action failed", "command", action.String(), "error", err)
		}

		msg := fmt.Sprintf("Start the registry at %s, then continue", addr.Address())
		if err := c.confirm.WaitForOperator(ctx, msg); err != nil {
			return err
		}
	}
}
