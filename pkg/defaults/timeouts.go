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

package defaults

import "time"

// Poll timing for waits on asynchronous engine state transitions.
const (
	// PollInterval is the delay between two predicate evaluations.
	PollInterval = 1 * time.Second

	// PollTimeout bounds every wait when the operator does not override it.
	// A value of zero on the command line restores waiting forever.
	PollTimeout = 10 * time.Minute

	// PollProgressInterval is the minimum spacing between "still waiting" logs.
	PollProgressInterval = 15 * time.Second

	// OperatorRecheckInterval is how often a declined non-interactive policy
	// re-checks a dependency that someone else is expected to fix.
	OperatorRecheckInterval = 5 * time.Second
)

// Probe timeouts for read-only state queries.
const (
	// ProbeCommandTimeout bounds a single diagnostic docker command.
	ProbeCommandTimeout = 30 * time.Second

	// RegistryProbeTimeout bounds the GET /v2/_catalog health request.
	RegistryProbeTimeout = 5 * time.Second

	// EngineAPITimeout bounds Engine API calls such as the swarm status query.
	EngineAPITimeout = 5 * time.Second

	// SystemdTimeout bounds systemd bus calls used to detect or start the engine.
	SystemdTimeout = 10 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIShutdownGrace is how long the CLI waits after an interrupt before exiting.
	CLIShutdownGrace = 5 * time.Second
)
