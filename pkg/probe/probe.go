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
	"os/exec"
	"strings"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/engine"
	"github.com/NVIDIA/stackctl/pkg/image"
	"github.com/NVIDIA/stackctl/pkg/oci"
	"github.com/NVIDIA/stackctl/pkg/shell"
	"github.com/NVIDIA/stackctl/pkg/stack"
	"github.com/NVIDIA/stackctl/pkg/version"
)

// RegistryChecker reports whether the registry at addr answers.
type RegistryChecker func(ctx context.Context, addr stack.RegistryAddress) bool

// Probe answers read-only questions about the engine, the cluster, the
// registry and the stack. Every probe swallows failures and answers false or
// "".
type Probe struct {
	runner   shell.Runner
	lookPath func(string) (string, error)
	detector ProcessDetector
	cluster  ClusterInspector
	registry RegistryChecker
}

// Option configures a Probe.
type Option func(*Probe)

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(p *Probe) { p.lookPath = fn }
}

// WithProcessDetector replaces the engine process detector.
func WithProcessDetector(d ProcessDetector) Option {
	return func(p *Probe) { p.detector = d }
}

// WithClusterInspector replaces the cluster-mode inspector.
func WithClusterInspector(c ClusterInspector) Option {
	return func(p *Probe) { p.cluster = c }
}

// WithRegistryChecker replaces the registry catalog check.
func WithRegistryChecker(fn RegistryChecker) Option {
	return func(p *Probe) { p.registry = fn }
}

// New returns a Probe. Without options it uses the host PATH, the systemd and
// pgrep detectors, the init/leave cluster inspector and the catalog check.
func New(runner shell.Runner, opts ...Option) *Probe {
	p := &Probe{
		runner:   runner,
		lookPath: exec.LookPath,
		detector: DefaultDetector(runner),
		cluster:  &InitLeaveInspector{Runner: runner, AdvertiseAddr: defaults.AdvertiseAddr},
		registry: oci.CatalogReachable,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run executes a diagnostic command under the probe timeout.
func (p *Probe) run(ctx context.Context, c shell.Command) (shell.Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeCommandTimeout)
	defer cancel()
	res, err := p.runner.Run(ctx, c)
	if err != nil {
		slog.Debug("probe command failed", "command", c.String(), "error", err)
		return res, false
	}
	return res, true
}

// EngineInstalled reports whether the engine CLI is on PATH.
func (p *Probe) EngineInstalled(_ context.Context) bool {
	_, err := p.lookPath(defaults.EngineBinary)
	return err == nil
}

// EngineRunning requires the management process to be detected and "docker
// ps" to answer without error output. When no detector can tell, the listing
// alone decides.
func (p *Probe) EngineRunning(ctx context.Context) bool {
	detected, err := p.detector.Detect(ctx)
	if err != nil {
		slog.Debug("engine process detection unavailable", "error", err)
	} else if !detected {
		return false
	}

	res, ok := p.run(ctx, engine.ListContainers())
	return ok && res.ExitCode == 0 && strings.TrimSpace(res.Stderr) == ""
}

// EngineVersion returns the daemon version, or "" when it cannot be read.
func (p *Probe) EngineVersion(ctx context.Context) string {
	res, ok := p.run(ctx, engine.ServerVersion())
	if !ok || res.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}

// EngineSupported reports whether the daemon is at least the minimum version
// supporting stack deployments. An unreadable version counts as supported.
func (p *Probe) EngineSupported(ctx context.Context) (string, bool) {
	v := p.EngineVersion(ctx)
	if v == "" {
		return "", true
	}
	ok, err := version.AtLeast(v, defaults.MinEngineVersion)
	if err != nil {
		slog.Debug("unparseable engine version", "version", v, "error", err)
		return v, true
	}
	return v, ok
}

// InClusterMode reports whether the engine is part of a swarm.
func (p *Probe) InClusterMode(ctx context.Context) bool {
	ok, err := p.cluster.InClusterMode(ctx)
	if err != nil {
		slog.Warn("failed to determine cluster mode", "error", err)
		return false
	}
	return ok
}

// RegistryRunning reports whether the registry catalog endpoint answers.
func (p *Probe) RegistryRunning(ctx context.Context, addr stack.RegistryAddress) bool {
	return p.registry(ctx, addr)
}

// StackRunning reports whether any container carries the stack's namespace
// label.
func (p *Probe) StackRunning(ctx context.Context, id stack.Identity) bool {
	res, ok := p.run(ctx, engine.StackContainers(id.DNSName()))
	return ok && strings.TrimSpace(res.Stdout) != ""
}

// RuntimeState is a point-in-time view of everything a run depends on. It is
// computed fresh and never cached.
type RuntimeState struct {
	Stack              string `json:"stack" yaml:"stack"`
	Package            string `json:"package" yaml:"package"`
	EngineInstalled    bool   `json:"engineInstalled" yaml:"engineInstalled"`
	EngineRunning      bool   `json:"engineRunning" yaml:"engineRunning"`
	EngineVersion      string `json:"engineVersion,omitempty" yaml:"engineVersion,omitempty"`
	EngineSupported    bool   `json:"engineSupported" yaml:"engineSupported"`
	InClusterMode      bool   `json:"inClusterMode" yaml:"inClusterMode"`
	StackRunning       bool   `json:"stackRunning" yaml:"stackRunning"`
	RegistryConfigured bool   `json:"registryConfigured" yaml:"registryConfigured"`
	RegistryRunning    bool   `json:"registryRunning" yaml:"registryRunning"`
	LocalImage         string `json:"localImage,omitempty" yaml:"localImage,omitempty"`
	RegistryImage      string `json:"registryImage,omitempty" yaml:"registryImage,omitempty"`
	RegistryDigest     string `json:"registryDigest,omitempty" yaml:"registryDigest,omitempty"`
}

// DigestResolver returns the registry manifest digest of pkg:tag.
type DigestResolver func(ctx context.Context, addr stack.RegistryAddress, pkg, tag string) string

// Snapshot collects the full RuntimeState. Engine-side questions are skipped
// when the engine is not running. digest may be nil.
func (p *Probe) Snapshot(ctx context.Context, id stack.Identity, addr *stack.RegistryAddress, digest DigestResolver) RuntimeState {
	s := RuntimeState{
		Stack:              id.DNSName(),
		Package:            id.Package(),
		EngineInstalled:    p.EngineInstalled(ctx),
		RegistryConfigured: addr != nil,
	}
	if s.EngineInstalled {
		s.EngineRunning = p.EngineRunning(ctx)
	}
	if !s.EngineRunning {
		return s
	}

	s.EngineVersion, s.EngineSupported = p.EngineSupported(ctx)
	s.InClusterMode = p.InClusterMode(ctx)
	s.StackRunning = p.StackRunning(ctx, id)

	images := image.NewResolver(p.runner)
	s.LocalImage = images.ResolveLocal(ctx, id.Package())
	if addr != nil {
		s.RegistryRunning = p.RegistryRunning(ctx, *addr)
		s.RegistryImage = images.ResolveRegistry(ctx, *addr, id.Package())
		if s.RegistryRunning && digest != nil {
			s.RegistryDigest = digest(ctx, *addr, id.Package(), "latest")
		}
	}
	return s
}
