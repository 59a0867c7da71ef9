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
	"strings"
	"time"

	"github.com/NVIDIA/stackctl/pkg/header"
)

// Step names in execution order.
const (
	StepConfiguration = "configuration"
	StepManifest      = "manifest"
	StepEngine        = "engine"
	StepProbe         = "probe"
	StepTeardown      = "teardown"
	StepImage         = "image"
	StepPrepare       = "prepare"
	StepDeploy        = "deploy"
)

// StepResult records what one step did.
type StepResult struct {
	Name     string   `json:"name" yaml:"name"`
	Actions  []string `json:"actions,omitempty" yaml:"actions,omitempty"`
	Skipped  bool     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Duration string   `json:"duration" yaml:"duration"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Outcome is the state observed and produced by a run.
type Outcome struct {
	InClusterMode  bool   `json:"inClusterMode" yaml:"inClusterMode"`
	StackWasUp     bool   `json:"stackWasUp" yaml:"stackWasUp"`
	LocalImage     string `json:"localImage,omitempty" yaml:"localImage,omitempty"`
	RegistryImage  string `json:"registryImage,omitempty" yaml:"registryImage,omitempty"`
	Rebuilt        bool   `json:"rebuilt" yaml:"rebuilt"`
	ManifestPath   string `json:"manifestPath,omitempty" yaml:"manifestPath,omitempty"`
	SecretsCreated int    `json:"secretsCreated" yaml:"secretsCreated"`
	EnvOverrides   int    `json:"envOverrides" yaml:"envOverrides"`
	Deployed       bool   `json:"deployed" yaml:"deployed"`
}

// Report describes one deployment run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID   string       `json:"runId" yaml:"runId"`
	Stack   string       `json:"stack" yaml:"stack"`
	Package string       `json:"package" yaml:"package"`
	Steps   []StepResult `json:"steps" yaml:"steps"`
	Outcome Outcome      `json:"outcome" yaml:"outcome"`
}

// Step returns the result recorded for name, or nil.
func (r *Report) Step(name string) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}

// TableHeader implements serializer.Tabular.
func (r *Report) TableHeader() []string {
	return []string{"STEP", "STATUS", "DURATION", "DETAIL"}
}

// TableRows implements serializer.Tabular.
func (r *Report) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		status, detail := "done", strings.Join(s.Actions, "; ")
		switch {
		case s.Error != "":
			status, detail = "failed", s.Error
		case s.Skipped:
			status, detail = "skipped", s.Reason
		}
		rows = append(rows, []string{s.Name, status, s.Duration, detail})
	}
	return rows
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
