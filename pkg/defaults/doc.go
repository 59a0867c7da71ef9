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

// Package defaults provides centralized configuration constants for stackctl.
//
// This package defines poll intervals and budgets, probe timeouts, engine
// names and project layout defaults used across the codebase. Centralizing
// these values ensures consistency and makes tuning easier.
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.RegistryProbeTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Poll waits: 1s interval, 10m budget unless the operator disables it
//   - Probes: 5s for HTTP and Engine API, 30s for docker commands
//   - Mutating commands (build, push, deploy) are not time-bounded
package defaults
