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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/logging"
)

const (
	name           = "stackctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the command tree with the process arguments and exits non-zero
// on any error. SIGINT and SIGTERM cancel the running command; a second
// signal, or the shutdown grace period elapsing, exits immediately.
func Execute() {
	// LOG_LEVEL applies until the flags are parsed.
	logging.SetDefaultStructuredLogger(name, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
		select {
		case <-sigCh:
		case <-time.After(defaults.CLIShutdownGrace):
		}
		os.Exit(130)
	}()

	if err := NewCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCommand returns the root command. Invoked without a subcommand it deploys
// the project at the given path.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Build, publish and deploy a container stack to a single-node swarm",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		ArgsUsage:             "<project-path>",
		EnableShellCompletion: true,
		Description: `stackctl reconciles the local container engine with a project directory:

  1. writes the compose manifest from the stack configuration
  2. installs or starts docker and the image registry when needed
  3. removes the running stack and waits for it to stop
  4. rebuilds and publishes the stack image
  5. registers secrets and deploys the stack

Running it again is always safe; every run starts by probing the engine.`,
		// Flags are inherited by the subcommands.
		Flags: globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			return writeMetrics(cmd.String("metrics-file"))
		},
		Commands: []*cli.Command{
			deployCmd(),
			statusCmd(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.ShowAppHelp(cmd)
			}
			return runDeploy(ctx, cmd)
		},
	}
}

// writeMetrics dumps the default registry in the node exporter textfile format.
func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}
