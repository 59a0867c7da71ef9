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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{name: "valid yaml format", format: "yaml", wantFormat: serializer.FormatYAML},
		{name: "valid json format", format: "json", wantFormat: serializer.FormatJSON},
		{name: "valid table format", format: "table", wantFormat: serializer.FormatTable},
		{name: "invalid format xml", format: "xml", wantErr: true},
		{name: "empty format", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.wantFormat, got)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

// runWithProject runs a command carrying the global flags and captures the
// resolved project.
func runWithProject(t *testing.T, args ...string) (*project, error) {
	t.Helper()
	var (
		got    *project
		gotErr error
	)
	cmd := &cli.Command{
		Name:  "test",
		Flags: globalFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			got, gotErr = resolveProject(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return got, gotErr
}

func TestResolveProjectDefaults(t *testing.T) {
	dir := t.TempDir()

	p, err := runWithProject(t, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Path)
	assert.Equal(t, []string{
		filepath.Join(dir, defaults.ConfigFileName),
		filepath.Join(dir, defaults.LocalConfigFileName),
	}, p.ConfigFiles)
	assert.Equal(t, filepath.Join(dir, ".env"), p.EnvFile)
	assert.Equal(t, filepath.Join(dir, "secrets"), p.SecretsDir)
}

func TestResolveProjectOverrides(t *testing.T) {
	dir := t.TempDir()

	p, err := runWithProject(t,
		"--config", "/etc/a.json",
		"--config", "/etc/b.json",
		"--env-file", "/run/deploy.env",
		"--secrets-dir", "/run/secrets",
		dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"/etc/a.json", "/etc/b.json"}, p.ConfigFiles)
	assert.Equal(t, "/run/deploy.env", p.EnvFile)
	assert.Equal(t, "/run/secrets", p.SecretsDir)
}

func TestResolveProjectRequiresSinglePath(t *testing.T) {
	_, err := runWithProject(t)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))

	_, err = runWithProject(t, "a", "b")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}

func TestNewCommandTree(t *testing.T) {
	root := NewCommand()
	assert.Equal(t, name, root.Name)
	require.NotNil(t, root.Action)

	names := make([]string, 0, len(root.Commands))
	for _, c := range root.Commands {
		names = append(names, c.Name)
		assert.NotNil(t, c.Action, c.Name)
	}
	assert.Equal(t, []string{"deploy", "status"}, names)

	for _, flagName := range []string{
		"keep-manifest", "m", "keep-images", "i", "offline", "o",
		"config", "env-file", "secrets-dir", "advertise-addr", "confirm",
		"wait-timeout", "poll-interval", "format", "output", "metrics-file", "log-level",
	} {
		found := false
		for _, f := range root.Flags {
			for _, n := range f.Names() {
				if n == flagName {
					found = true
				}
			}
		}
		assert.True(t, found, "flag %q not found", flagName)
	}
}

func TestDeployFailsBeforeEngineWithoutConfiguration(t *testing.T) {
	dir := t.TempDir()

	err := NewCommand().Run(context.Background(), []string{name, "--confirm", "fail", dir})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))
}

func TestDeployRejectsUnknownPolicy(t *testing.T) {
	dir := t.TempDir()

	err := NewCommand().Run(context.Background(), []string{name, "deploy", "--confirm", "maybe", dir})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}

func TestDeployRejectsTooManyConfigFiles(t *testing.T) {
	dir := t.TempDir()
	args := []string{name, "--confirm", "fail"}
	for _, n := range []string{"a.json", "b.json", "c.json"} {
		path := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","composeFile":{"name":"c.yml"}}`), 0o600))
		args = append(args, "--config", path)
	}

	err := NewCommand().Run(context.Background(), append(args, dir))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))
}

func TestWriteMetrics(t *testing.T) {
	require.NoError(t, writeMetrics(""))

	path := filepath.Join(t.TempDir(), "stackctl.prom")
	require.NoError(t, writeMetrics(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
