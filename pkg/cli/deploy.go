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

package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/stackctl/pkg/config"
	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/deployer"
	"github.com/NVIDIA/stackctl/pkg/image"
	"github.com/NVIDIA/stackctl/pkg/lifecycle"
	"github.com/NVIDIA/stackctl/pkg/poll"
	"github.com/NVIDIA/stackctl/pkg/probe"
	"github.com/NVIDIA/stackctl/pkg/prompt"
	"github.com/NVIDIA/stackctl/pkg/serializer"
	"github.com/NVIDIA/stackctl/pkg/shell"
)

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:      "deploy",
		Usage:     "Build, publish and deploy the stack in the project directory",
		ArgsUsage: "<project-path>",
		Description: `Run one full reconcile pass against the local container engine.

The project directory holds the Dockerfile used as the build context, the
stack configuration (stack.json, optionally overridden by stack.local.json),
an optional .env file and an optional secrets directory.

A report of every step is written in the selected format when the run ends,
including runs that fail.

# Examples

Deploy, reusing images that already exist:
  stackctl deploy -i ./my-service

Unattended run that never installs anything:
  stackctl deploy --offline --confirm=fail ./my-service`,
		Action: runDeploy,
	}
}

func runDeploy(ctx context.Context, cmd *cli.Command) error {
	proj, err := resolveProject(cmd)
	if err != nil {
		return err
	}
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	policy, err := prompt.ParsePolicy(cmd.String("confirm"))
	if err != nil {
		return err
	}

	cfg, err := config.Load(proj.ConfigFiles...)
	if err != nil {
		return err
	}

	advertise := cmd.String("advertise-addr")
	if advertise == "" {
		advertise = cfg.AdvertiseAddr
	}
	if advertise == "" {
		advertise = defaults.AdvertiseAddr
	}

	runner := shell.NewExecRunner()
	p := probe.New(runner, probe.WithClusterInspector(deployInspector(runner, advertise)))
	poller := poll.Poller{
		Interval: cmd.Duration("poll-interval"),
		Timeout:  cmd.Duration("wait-timeout"),
	}
	controller := lifecycle.New(runner, p, prompt.New(policy, os.Stdin, os.Stderr), poller,
		lifecycle.WithOffline(cmd.Bool("offline")))

	d := deployer.New(cfg,
		deployer.Options{
			ProjectPath:   proj.Path,
			KeepManifest:  cmd.Bool("keep-manifest"),
			KeepImages:    cmd.Bool("keep-images"),
			EnvFile:       proj.EnvFile,
			SecretsDir:    proj.SecretsDir,
			AdvertiseAddr: advertise,
		},
		deployer.Dependencies{
			Runner:    runner,
			Probe:     p,
			Lifecycle: controller,
			Resolver:  image.NewResolver(runner),
			Builder:   image.NewBuilder(runner, image.OCILabels{Title: cfg.Identity().Package()}),
			Poller:    poller,
			Version:   version,
		})

	report, runErr := d.Run(ctx)
	if report != nil {
		if err := writeReport(ctx, outFormat, cmd.String("output"), report); err != nil {
			slog.Error("failed to write report", "error", err)
		}
	}
	return runErr
}

// deployInspector asks the Engine API and falls back to the init/leave probe
// when the API cannot be reached.
func deployInspector(runner shell.Runner, advertise string) probe.ClusterInspector {
	fallback := &probe.InitLeaveInspector{Runner: runner, AdvertiseAddr: advertise}
	api, err := probe.NewEngineAPIInspector()
	if err != nil {
		slog.Debug("engine API client unavailable, probing cluster mode with swarm init", "error", err)
		return fallback
	}
	return probe.FallbackInspector{Primary: api, Secondary: fallback}
}

func writeReport(ctx context.Context, format serializer.Format, path string, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, path)
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()
	return ser.Serialize(ctx, v)
}
