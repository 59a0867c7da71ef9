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

// Package image resolves, removes, builds and publishes the stack's image.
//
// Resolution runs "docker images -q <ref>" and reduces its output to a single
// ID. An empty result means the image is absent; lookups never fail.
//
// Builds are labelled with OCI annotation keys:
//
//	org.opencontainers.image.created   build time, RFC 3339
//	org.opencontainers.image.title     stack package
//	org.opencontainers.image.revision  git HEAD of the project, when available
package image
