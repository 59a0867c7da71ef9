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

package image

import (
	"context"
	"log/slog"
	"strings"

	"github.com/NVIDIA/stackctl/pkg/engine"
	"github.com/NVIDIA/stackctl/pkg/shell"
	"github.com/NVIDIA/stackctl/pkg/stack"
)

// Resolver looks up image IDs on the local engine.
type Resolver struct {
	runner shell.Runner
}

// NewResolver returns a Resolver issuing commands through runner.
func NewResolver(runner shell.Runner) *Resolver {
	return &Resolver{runner: runner}
}

// ResolveLocal returns the ID of the image tagged pkg, or "" when absent.
func (r *Resolver) ResolveLocal(ctx context.Context, pkg string) string {
	return r.resolve(ctx, pkg)
}

// ResolveRegistry returns the ID of the local image tagged with the registry
// reference of pkg, or "" when absent.
func (r *Resolver) ResolveRegistry(ctx context.Context, addr stack.RegistryAddress, pkg string) string {
	return r.resolve(ctx, addr.Tag(pkg))
}

func (r *Resolver) resolve(ctx context.Context, ref string) string {
	res, err := r.runner.Run(ctx, engine.ImageIDs(ref))
	if err != nil {
		slog.Debug("image lookup failed", "reference", ref, "error", err)
		return ""
	}
	id := NormalizeID(res.Stdout)
	slog.Debug("image resolved", "reference", ref, "id", id)
	return id
}

// NormalizeID reduces "docker images -q" output to one identifier. The engine
// prints one line per matching tag; duplicates are dropped and the first ID is
// returned. Empty output yields "".
func NormalizeID(out string) string {
	ids := UniqueIDs(out)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// UniqueIDs returns the distinct identifiers of out in order of appearance.
func UniqueIDs(out string) []string {
	fields := strings.Fields(out)
	seen := make(map[string]struct{}, len(fields))
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		ids = append(ids, f)
	}
	return ids
}
