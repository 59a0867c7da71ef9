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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/stackctl/pkg/config"
	"github.com/NVIDIA/stackctl/pkg/defaults"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/prompt"
	"github.com/NVIDIA/stackctl/pkg/serializer"
)

// globalFlags returns fresh flag definitions; urfave flags keep parse state.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "keep-manifest",
			Aliases: []string{"m"},
			Usage:   "Reuse an existing compose manifest instead of rewriting it",
		},
		&cli.BoolFlag{
			Name:    "keep-images",
			Aliases: []string{"i"},
			Usage:   "Skip the image rebuild when the local (and registry) image already exist",
		},
		&cli.BoolFlag{
			Name:    "offline",
			Aliases: []string{"o"},
			Usage:   "Never download or install the container engine",
			Sources: cli.EnvVars("STACKCTL_OFFLINE"),
		},
		&cli.StringSliceFlag{
			Name: "config",
			Usage: fmt.Sprintf("Stack configuration file, can be repeated up to %d times; later files win (default: <project-path>/%s and <project-path>/%s)",
				config.MaxSources, defaults.ConfigFileName, defaults.LocalConfigFileName),
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: fmt.Sprintf("KEY=VALUE overrides passed to the deploy command (default: <project-path>/%s)", defaults.EnvFileName),
		},
		&cli.StringFlag{
			Name:  "secrets-dir",
			Usage: fmt.Sprintf("Directory with one file per secret (default: <project-path>/%s)", defaults.SecretsDirName),
		},
		&cli.StringFlag{
			Name:  "advertise-addr",
			Usage: fmt.Sprintf("Swarm advertise address (default: from configuration or %s)", defaults.AdvertiseAddr),
		},
		&cli.StringFlag{
			Name:    "confirm",
			Value:   string(prompt.PolicyAsk),
			Usage:   fmt.Sprintf("How to answer install and start confirmations (supported values: %s)", strings.Join(prompt.Policies(), ", ")),
			Sources: cli.EnvVars("STACKCTL_CONFIRM"),
		},
		&cli.DurationFlag{
			Name:  "wait-timeout",
			Value: defaults.PollTimeout,
			Usage: "Give up waiting for the engine, registry or stack teardown after this long (0 waits forever)",
		},
		&cli.DurationFlag{
			Name:  "poll-interval",
			Value: defaults.PollInterval,
			Usage: "Delay between state checks while waiting",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Write the report to this file instead of stdout",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: string(serializer.FormatYAML),
			Usage: fmt.Sprintf("Report format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics in text exposition format to this file on exit",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

// project holds the paths derived from the positional project path and the
// path flags.
type project struct {
	Path        string
	ConfigFiles []string
	EnvFile     string
	SecretsDir  string
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// resolveProject applies the per-project defaults to unset path flags.
func resolveProject(cmd *cli.Command) (*project, error) {
	arg := strings.TrimSpace(cmd.Args().First())
	if arg == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "project path argument is required")
	}
	if cmd.Args().Len() > 1 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"expected a single project path argument", map[string]any{"args": cmd.Args().Slice()})
	}
	path, err := filepath.Abs(arg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid project path", err)
	}

	p := &project{
		Path:        path,
		ConfigFiles: cmd.StringSlice("config"),
		EnvFile:     cmd.String("env-file"),
		SecretsDir:  cmd.String("secrets-dir"),
	}
	if len(p.ConfigFiles) == 0 {
		p.ConfigFiles = []string{
			filepath.Join(path, defaults.ConfigFileName),
			filepath.Join(path, defaults.LocalConfigFileName),
		}
	}
	if p.EnvFile == "" {
		p.EnvFile = filepath.Join(path, defaults.EnvFileName)
	}
	if p.SecretsDir == "" {
		p.SecretsDir = filepath.Join(path, defaults.SecretsDirName)
	}
	return p, nil
}
