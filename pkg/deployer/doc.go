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

// Package deployer runs the build-publish-deploy reconcile pass for one stack.
//
// A run executes these steps strictly in order, stopping at the first error:
//
//  1. configuration  validate the resolved stack identity and registry
//  2. manifest       write the compose manifest unless kept
//  3. engine         bring the container engine to running
//  4. probe          cluster mode, local image, registry (ensured) and its image
//  5. teardown       remove a running stack and wait until its containers stop
//  6. image          remove stale images, build, publish, initialise cluster mode
//  7. prepare        re-check cluster mode, read env overrides, recreate secrets
//  8. deploy         docker stack deploy with the overrides
//
// Every run re-probes the engine, so a run interrupted at any point is
// recovered by the next one. The returned Report lists what each step did and
// how long it took; step timings are also exported as Prometheus metrics.
package deployer
