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

// Package lifecycle brings the container engine and the image registry to a
// running state before a deployment.
//
// Each dependency is in one of three states:
//
//	NotInstalled          -> install (engine) or docker run (registry)
//	InstalledNotRunning   -> start the service or the stopped container
//	Running               -> done
//
// Every action is confirmed first. A declined confirmation waits for the
// operator and then re-checks, so a dependency fixed by hand is picked up on
// the next pass. Offline mode never installs the engine.
package lifecycle
