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

// Package cli implements the stackctl command-line interface.
//
// # Commands
//
// deploy - Reconcile the engine with a project (also the root action):
//
//	stackctl [flags] <project-path>
//	stackctl deploy [flags] <project-path>
//
// Writes the compose manifest, makes sure docker and the image registry are
// running, tears down the running stack, rebuilds and publishes the image,
// registers secrets and deploys the stack. A report of the steps is written
// when the run ends.
//
// status - Show the runtime state without changing it:
//
//	stackctl status [flags] <project-path>
//
// # Flags
//
//	--keep-manifest, -m  Reuse the existing compose manifest
//	--keep-images, -i    Skip the rebuild when the images already exist
//	--offline, -o        Never install the container engine
//	--config             Configuration file, repeatable up to twice
//	--env-file           Deploy-time environment overrides (default: <path>/.env)
//	--secrets-dir        Secret files (default: <path>/secrets)
//	--advertise-addr     Swarm advertise address
//	--confirm            ask, yes, no or fail (default: ask)
//	--wait-timeout       Bound on every wait, 0 waits forever (default: 10m)
//	--poll-interval      Delay between checks while waiting (default: 1s)
//	--format             yaml, json or table (default: yaml)
//	--output             Report file (default: stdout)
//	--metrics-file       Prometheus textfile written on exit
//	--log-level          debug, info, warn or error
//
// # Environment Variables
//
//	LOG_LEVEL          Set logging verbosity (debug, info, warn, error)
//	STACKCTL_CONFIRM   Default for --confirm
//	STACKCTL_OFFLINE   Default for --offline
//	DOCKER_HOST        Engine API endpoint used for the cluster-mode query
//
// # Exit Codes
//
//	0    Success
//	1    Any error, including a refused confirmation under --confirm=fail
//	130  Interrupted
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/stackctl/pkg/cli.version=1.0.0'"
package cli
