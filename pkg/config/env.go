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

package config

import (
	"bufio"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
)

// envLinePattern is the only accepted shape of an override line.
var envLinePattern = regexp.MustCompile(`^[A-Z_]+=.+$`)

// ReadEnvFile parses KEY=VALUE overrides. Lines not matching ^[A-Z_]+=.+$ are
// ignored. A missing file yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	env := map[string]string{}
	if path == "" {
		return env, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no environment file", "path", path)
		return env, nil
	}
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"failed to open environment file", err, map[string]any{"path": path})
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !envLinePattern.MatchString(line) {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		env[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"failed to read environment file", err, map[string]any{"path": path})
	}

	slog.Debug("loaded environment overrides", "path", path, "count", len(env))
	return env, nil
}

// Secret is a file to register in the engine's secret store.
type Secret struct {
	// Name is the file name, used as the secret name.
	Name string
	Path string
}

// ListSecrets returns the regular, non-hidden files of dir sorted by name.
// A missing directory yields no secrets.
func ListSecrets(dir string) ([]Secret, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no secrets directory", "path", dir)
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"failed to read secrets directory", err, map[string]any{"path": dir})
	}

	secrets := make([]Secret, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		secrets = append(secrets, Secret{Name: e.Name(), Path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(secrets, func(i, j int) bool { return secrets[i].Name < secrets[j].Name })
	return secrets, nil
}
