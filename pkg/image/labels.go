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
	"errors"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// LabelSource supplies the labels applied to a built image.
type LabelSource interface {
	Labels(contextDir string) map[string]string
}

// OCILabels sets the OCI pre-defined annotation keys on built images. When
// contextDir is inside a git repository the revision and creation time come from
// the HEAD commit, so an unchanged source yields identical labels.
type OCILabels struct {
	Title  string
	Source string
}

func (l OCILabels) Labels(contextDir string) map[string]string {
	labels := map[string]string{}
	if l.Title != "" {
		labels[ocispec.AnnotationTitle] = l.Title
	}
	if l.Source != "" {
		labels[ocispec.AnnotationSource] = l.Source
	}
	if commit := headCommit(contextDir); commit != nil {
		labels[ocispec.AnnotationRevision] = commit.Hash.String()
		labels[ocispec.AnnotationCreated] = commit.Committer.When.UTC().Format(time.RFC3339)
	}
	return labels
}

// Revision returns the HEAD commit hash of the repository containing dir, or
// "" when dir is not in a repository or HEAD is unborn.
func Revision(dir string) string {
	if commit := headCommit(dir); commit != nil {
		return commit.Hash.String()
	}
	return ""
}

func headCommit(dir string) *object.Commit {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			slog.Debug("failed to open git repository", "dir", dir, "error", err)
		}
		return nil
	}
	head, err := repo.Head()
	if err != nil {
		slog.Debug("failed to resolve git HEAD", "dir", dir, "error", err)
		return nil
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		slog.Debug("failed to read HEAD commit", "dir", dir, "error", err)
		return nil
	}
	return commit
}
