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

package manifest

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NVIDIA/stackctl/pkg/config"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/serializer"
)

// Path returns where the manifest described by cf lives inside projectPath.
func Path(projectPath string, cf config.ComposeFile) (string, error) {
	if cf.Name == "" || !filepath.IsLocal(cf.Name) {
		return "", apperrors.NewWithContext(apperrors.ErrCodeConfiguration,
			"composeFile.name must be a relative path inside the project",
			map[string]any{"name": cf.Name})
	}
	return filepath.Join(projectPath, cf.Name), nil
}

// Ensure writes cf.Content as YAML to the manifest path and returns it.
// With keep set, an existing manifest is left untouched and written is false.
func Ensure(projectPath string, cf config.ComposeFile, keep bool) (path string, written bool, err error) {
	path, err = Path(projectPath, cf)
	if err != nil {
		return "", false, err
	}

	if keep {
		_, statErr := os.Stat(path)
		if statErr == nil {
			slog.Info("keeping existing manifest", "path", path)
			return path, false, nil
		}
		if !errors.Is(statErr, fs.ErrNotExist) {
			return "", false, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
				"failed to inspect manifest", statErr, map[string]any{"path": path})
		}
	}

	content := cf.Content
	if content == nil {
		content = map[string]any{}
	}
	if err := serializer.WriteFile(path, serializer.FormatYAML, content); err != nil {
		return "", false, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to write manifest", err, map[string]any{"path": path})
	}

	slog.Info("manifest written", "path", path)
	return path, true, nil
}
