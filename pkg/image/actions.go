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

	"github.com/NVIDIA/stackctl/pkg/engine"
	"github.com/NVIDIA/stackctl/pkg/shell"
	"github.com/NVIDIA/stackctl/pkg/stack"
)

// Builder performs the mutating image operations. Failures are never
// suppressed.
type Builder struct {
	runner shell.Runner
	labels LabelSource
}

// NewBuilder returns a Builder. A nil labels source adds no labels.
func NewBuilder(runner shell.Runner, labels LabelSource) *Builder {
	return &Builder{runner: runner, labels: labels}
}

// Remove force-removes the image with the given ID.
func (b *Builder) Remove(ctx context.Context, id string) error {
	slog.Info("removing image", "id", id)
	_, err := b.runner.Run(ctx, engine.RemoveImage(id))
	return err
}

// Build builds contextDir into an image tagged pkg.
func (b *Builder) Build(ctx context.Context, pkg, contextDir string) error {
	var labels map[string]string
	if b.labels != nil {
		labels = b.labels.Labels(contextDir)
	}
	slog.Info("building image", "package", pkg, "context", contextDir)
	_, err := b.runner.Run(ctx, engine.BuildImage(pkg, contextDir, labels))
	return err
}

// Publish tags pkg with its registry reference and pushes it.
func (b *Builder) Publish(ctx context.Context, addr stack.RegistryAddress, pkg string) error {
	target := addr.Tag(pkg)
	slog.Info("publishing image", "package", pkg, "target", target)
	if _, err := b.runner.Run(ctx, engine.TagImage(pkg, target)); err != nil {
		return err
	}
	_, err := b.runner.Run(ctx, engine.PushImage(target))
	return err
}
