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

// Package probe determines the state of everything a deployment depends on.
//
// Probes never fail: a command that errors, times out or cannot be spawned
// makes the probe answer false or "". Probes are re-run on every invocation
// and their answers are never cached.
//
// # Engine
//
// The engine is running when its management process is detected (systemd
// unit docker.service, or a dockerd / com.docker.backend process) and
// "docker ps" answers without error output.
//
// # Cluster mode
//
// Cluster mode is answered by a ClusterInspector:
//
//   - EngineAPIInspector reads Swarm.LocalNodeState from the Engine API.
//   - InitLeaveInspector runs "docker swarm init" and, if that succeeds,
//     immediately "docker swarm leave --force". It mutates engine state and
//     is only used when the Engine API cannot be reached.
//   - FallbackInspector combines the two.
//
// # Registry
//
// A registry is running when GET /v2/_catalog returns a page.
package probe
