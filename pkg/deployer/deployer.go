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

package deployer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/stackctl/pkg/config"
	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/engine"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/header"
	"github.com/NVIDIA/stackctl/pkg/manifest"
	"github.com/NVIDIA/stackctl/pkg/poll"
	"github.com/NVIDIA/stackctl/pkg/shell"
	"github.com/NVIDIA/stackctl/pkg/stack"
)

// Options are the per-invocation switches of a run.
type Options struct {
	// ProjectPath is the build context and the manifest directory.
	ProjectPath string
	// KeepManifest reuses an existing manifest instead of rewriting it.
	KeepManifest bool
	// KeepImages skips the rebuild when the required images already exist.
	KeepImages bool
	// EnvFile holds KEY=VALUE overrides passed to the deploy command.
	EnvFile string
	// SecretsDir holds one file per secret.
	SecretsDir string
	// AdvertiseAddr overrides the configured swarm advertise address.
	AdvertiseAddr string
}

// RuntimeProbe answers the state questions asked during a run.
type RuntimeProbe interface {
	InClusterMode(ctx context.Context) bool
	StackRunning(ctx context.Context, id stack.Identity) bool
	EngineSupported(ctx context.Context) (string, bool)
}

// Lifecycle brings dependencies to running.
type Lifecycle interface {
	EnsureEngine(ctx context.Context) error
	EnsureRegistry(ctx context.Context, addr stack.RegistryAddress) error
}

// ImageResolver looks up image IDs.
type ImageResolver interface {
	ResolveLocal(ctx context.Context, pkg string) string
	ResolveRegistry(ctx context.Context, addr stack.RegistryAddress, pkg string) string
}

// ImageBuilder performs image mutations.
type ImageBuilder interface {
	Remove(ctx context.Context, id string) error
	Build(ctx context.Context, pkg, contextDir string) error
	Publish(ctx context.Context, addr stack.RegistryAddress, pkg string) error
}

// Dependencies are the collaborators of a Deployer.
type Dependencies struct {
	Runner    shell.Runner
	Probe     RuntimeProbe
	Lifecycle Lifecycle
	Resolver  ImageResolver
	Builder   ImageBuilder
	Poller    poll.Poller
	// Version is the stackctl version recorded in reports.
	Version string
}

// Deployer reconciles the engine with the configured stack.
type Deployer struct {
	cfg  *config.Config
	opts Options
	deps Dependencies
}

// New returns a Deployer for cfg.
func New(cfg *config.Config, opts Options, deps Dependencies) *Deployer {
	return &Deployer{cfg: cfg, opts: opts, deps: deps}
}

// run holds the state threaded through the steps of one Run.
type run struct {
	log         *slog.Logger
	id          stack.Identity
	registry    *stack.RegistryAddress
	advertise   string
	manifest    string
	env         map[string]string
	report      *Report
	inCluster   bool
	localImage  string
	remoteImage string
}

// Run performs one full reconcile pass. Steps run strictly in order and the
// first failing step ends the run. The report covers every step started.
func (d *Deployer) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	id := d.cfg.Identity()

	r := &run{
		log:       slog.Default().With("run_id", runID, "stack", id.DNSName()),
		id:        id,
		registry:  d.cfg.RegistryAddress,
		advertise: firstNonEmpty(d.opts.AdvertiseAddr, d.cfg.AdvertiseAddr, defaults.AdvertiseAddr),
		report: &Report{
			Header:  header.New(header.KindDeploymentReport, d.deps.Version),
			RunID:   runID,
			Stack:   id.DNSName(),
			Package: id.Package(),
		},
	}
	r.report.Set("run-id", runID)

	steps := []struct {
		name string
		fn   func(context.Context, *run, *StepResult) error
	}{
		{StepConfiguration, d.validate},
		{StepManifest, d.writeManifest},
		{StepEngine, d.ensureEngine},
		{StepProbe, d.probe},
		{StepTeardown, d.teardown},
		{StepImage, d.rebuild},
		{StepPrepare, d.prepare},
		{StepDeploy, d.deploy},
	}

	r.log.Info("deployment started", "package", id.Package())
	start := time.Now()
	for _, s := range steps {
		if err := d.step(ctx, r, s.name, s.fn); err != nil {
			runsTotal.WithLabelValues("error").Inc()
			r.log.Error("deployment failed", "step", s.name, "error", err)
			return r.report, err
		}
	}

	runsTotal.WithLabelValues("success").Inc()
	r.log.Info("deployment finished", "duration", formatDuration(time.Since(start)))
	return r.report, nil
}

func (d *Deployer) step(ctx context.Context, r *run, name string, fn func(context.Context, *run, *StepResult) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := StepResult{Name: name}
	r.log.Debug("step started", "step", name)
	start := time.Now()
	err := fn(ctx, r, &res)
	elapsed := time.Since(start)

	stepDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	res.Duration = formatDuration(elapsed)
	if err != nil {
		res.Error = err.Error()
	}
	r.report.Steps = append(r.report.Steps, res)

	if err == nil {
		r.log.Info("step completed", "step", name, "skipped", res.Skipped, "duration", res.Duration)
	}
	return err
}

func (d *Deployer) validate(context.Context, *run, *StepResult) error {
	if d.opts.ProjectPath == "" {
		return apperrors.New(apperrors.ErrCodeConfiguration, "project path is required")
	}
	return d.cfg.Validate()
}

func (d *Deployer) writeManifest(_ context.Context, r *run, res *StepResult) error {
	path, written, err := manifest.Ensure(d.opts.ProjectPath, d.cfg.ComposeFile, d.opts.KeepManifest)
	if err != nil {
		return err
	}
	r.manifest = path
	r.report.Outcome.ManifestPath = path
	if !written {
		res.Skipped, res.Reason = true, "keeping existing manifest"
		return nil
	}
	res.Actions = append(res.Actions, "wrote "+path)
	return nil
}

func (d *Deployer) ensureEngine(ctx context.Context, r *run, res *StepResult) error {
	if err := d.deps.Lifecycle.EnsureEngine(ctx); err != nil {
		return err
	}
	if v, ok := d.deps.Probe.EngineSupported(ctx); !ok {
		r.log.Warn("engine is older than the minimum supporting stack deployments",
			"version", v, "minimum", defaults.MinEngineVersion)
		res.Actions = append(res.Actions, fmt.Sprintf("engine %s is older than %s", v, defaults.MinEngineVersion))
	}
	return nil
}

func (d *Deployer) probe(ctx context.Context, r *run, res *StepResult) error {
	r.inCluster = d.deps.Probe.InClusterMode(ctx)
	r.localImage = d.deps.Resolver.ResolveLocal(ctx, r.id.Package())

	if r.registry != nil {
		if err := d.deps.Lifecycle.EnsureRegistry(ctx, *r.registry); err != nil {
			return err
		}
		r.remoteImage = d.deps.Resolver.ResolveRegistry(ctx, *r.registry, r.id.Package())
	}

	r.log.Info("runtime probed",
		"in_cluster_mode", r.inCluster,
		"local_image", r.localImage,
		"registry_image", r.remoteImage)
	res.Actions = append(res.Actions,
		fmt.Sprintf("cluster mode %t", r.inCluster),
		"local image "+orAbsent(r.localImage))
	if r.registry != nil {
		res.Actions = append(res.Actions, "registry image "+orAbsent(r.remoteImage))
	}
	return nil
}

func (d *Deployer) teardown(ctx context.Context, r *run, res *StepResult) error {
	if !d.deps.Probe.StackRunning(ctx, r.id) {
		res.Skipped, res.Reason = true, "stack not running"
		return nil
	}
	r.report.Outcome.StackWasUp = true

	dns := r.id.DNSName()
	if _, err := d.deps.Runner.Run(ctx, engine.RemoveStack(dns)); err != nil {
		return err
	}
	res.Actions = append(res.Actions, "removed stack "+dns)

	return d.deps.Poller.Await(ctx, func(ctx context.Context) bool {
		return d.deps.Probe.StackRunning(ctx, r.id)
	}, "waiting for stack "+dns+" to stop")
}

// needsRebuild is false only when images are kept and every required image
// already exists.
func (d *Deployer) needsRebuild(r *run) bool {
	if !d.opts.KeepImages || r.localImage == "" {
		return true
	}
	return r.registry != nil && r.remoteImage == ""
}

func (d *Deployer) rebuild(ctx context.Context, r *run, res *StepResult) error {
	if !d.needsRebuild(r) {
		res.Skipped, res.Reason = true, "keeping existing images"
		r.report.Outcome.LocalImage = r.localImage
		r.report.Outcome.RegistryImage = r.remoteImage
		return nil
	}

	pkg := r.id.Package()
	if r.localImage != "" {
		if err := d.deps.Builder.Remove(ctx, r.localImage); err != nil {
			return err
		}
		res.Actions = append(res.Actions, "removed local image "+r.localImage)
	}
	if r.remoteImage != "" && r.remoteImage != r.localImage {
		if err := d.deps.Builder.Remove(ctx, r.remoteImage); err != nil {
			return err
		}
		res.Actions = append(res.Actions, "removed registry image "+r.remoteImage)
	}

	if err := d.deps.Builder.Build(ctx, pkg, d.opts.ProjectPath); err != nil {
		return err
	}
	imageRebuildsTotal.Inc()
	res.Actions = append(res.Actions, "built "+pkg)
	r.report.Outcome.Rebuilt = true

	if r.registry != nil {
		if err := d.deps.Builder.Publish(ctx, *r.registry, pkg); err != nil {
			return err
		}
		res.Actions = append(res.Actions, "published "+r.registry.Tag(pkg))
	}

	if !r.inCluster {
		if _, err := d.deps.Runner.Run(ctx, engine.SwarmInit(r.advertise)); err != nil {
			return err
		}
		r.inCluster = true
		res.Actions = append(res.Actions, "initialised cluster mode")
	}

	r.report.Outcome.LocalImage = d.deps.Resolver.ResolveLocal(ctx, pkg)
	if r.registry != nil {
		r.report.Outcome.RegistryImage = d.deps.Resolver.ResolveRegistry(ctx, *r.registry, pkg)
	}
	return nil
}

// prepare re-checks cluster mode, which secrets and deploy require, reads the
// environment overrides and registers secrets.
func (d *Deployer) prepare(ctx context.Context, r *run, res *StepResult) error {
	r.inCluster = d.deps.Probe.InClusterMode(ctx)
	if !r.inCluster {
		if _, err := d.deps.Runner.Run(ctx, engine.SwarmInit(r.advertise)); err != nil {
			return err
		}
		r.inCluster = true
		res.Actions = append(res.Actions, "initialised cluster mode")
	}
	r.report.Outcome.InClusterMode = r.inCluster

	env, err := config.ReadEnvFile(d.opts.EnvFile)
	if err != nil {
		return err
	}
	r.env = env
	r.report.Outcome.EnvOverrides = len(env)

	secrets, err := config.ListSecrets(d.opts.SecretsDir)
	if err != nil {
		return err
	}
	for _, s := range secrets {
		if _, err := d.deps.Runner.Run(ctx, engine.RemoveSecret(s.Name)); err != nil {
			return err
		}
		if _, err := d.deps.Runner.Run(ctx, engine.CreateSecret(s.Name, s.Path)); err != nil {
			return err
		}
		r.log.Debug("secret registered", "secret", s.Name)
	}
	r.report.Outcome.SecretsCreated = len(secrets)
	if len(secrets) > 0 {
		res.Actions = append(res.Actions, fmt.Sprintf("registered %d secrets", len(secrets)))
	}
	return nil
}

func (d *Deployer) deploy(ctx context.Context, r *run, res *StepResult) error {
	dns := r.id.DNSName()
	if _, err := d.deps.Runner.Run(ctx, engine.DeployStack(r.manifest, dns, r.env)); err != nil {
		return err
	}
	r.report.Outcome.Deployed = true
	res.Actions = append(res.Actions, fmt.Sprintf("deployed stack %s with %d overrides", dns, len(r.env)))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orAbsent(id string) string {
	if id == "" {
		return "absent"
	}
	return id
}
