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

// Engine and registry defaults.
const (
	// EngineBinary is the container engine command-line entry point.
	EngineBinary = "docker"

	// EngineSystemdUnit is the systemd unit that manages the engine daemon.
	EngineSystemdUnit = "docker.service"

	// MinEngineVersion is the first engine release that ships "stack deploy".
	MinEngineVersion = "1.13.0"

	// AdvertiseAddr is passed to "swarm init" when configuration sets none.
	AdvertiseAddr = "127.0.0.1:2377"

	// RegistryImage is the image used to create a local registry container.
	RegistryImage = "registry:2"

	// RegistryContainerPort is the port the registry listens on inside its container.
	RegistryContainerPort = "5000"

	// InstallScriptURL is the engine convenience install script.
	InstallScriptURL = "https://get.docker.com"
)

// Project layout defaults, relative to the project path.
const (
	// ConfigFileName is the primary stack configuration.
	ConfigFileName = "stack.json"

	// LocalConfigFileName is the optional override merged over ConfigFileName.
	LocalConfigFileName = "stack.local.json"

	// EnvFileName holds KEY=VALUE overrides injected into the deploy step.
	EnvFileName = ".env"

	// SecretsDirName holds one file per engine secret.
	SecretsDirName = "secrets"
)
