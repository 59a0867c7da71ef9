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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/stackctl/pkg/config"
	"github.com/NVIDIA/stackctl/pkg/header"
	"github.com/NVIDIA/stackctl/pkg/oci"
	"github.com/NVIDIA/stackctl/pkg/probe"
	"github.com/NVIDIA/stackctl/pkg/shell"
)

// Status is the document printed by the status command.
type Status struct {
	header.Header `json:",inline" yaml:",inline"`

	State probe.RuntimeState `json:"state" yaml:"state"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the engine, registry, image and stack state for the project",
		ArgsUsage: "<project-path>",
		Description: `Probe the local container engine without changing anything.

Cluster mode is read from the Engine API only, so the command never joins or
leaves a swarm. The registry digest of the latest tag is resolved when a
registry is configured and reachable.`,
		Action: runStatus,
	}
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	proj, err := resolveProject(cmd)
	if err != nil {
		return err
	}
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(proj.ConfigFiles...)
	if err != nil {
		return err
	}

	inspector, err := probe.NewEngineAPIInspector()
	if err != nil {
		return err
	}
	p := probe.New(shell.NewExecRunner(), probe.WithClusterInspector(inspector))

	doc := Status{
		Header: header.New(header.KindRuntimeStatus, version),
		State:  p.Snapshot(ctx, cfg.Identity(), cfg.RegistryAddress, oci.ResolveDigest),
	}
	return writeReport(ctx, outFormat, cmd.String("output"), doc)
}
