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

// Package config loads the stack configuration and the project-side inputs of
// a deployment run.
//
// # Configuration
//
// Up to two JSON documents are merged in order, the later one winning per
// property:
//
//	stack.json        {"name": "widget", "composeFile": {"name": "docker-compose.yml", "content": {...}}}
//	stack.local.json  {"owner": "acme", "registryAddress": {"name": "registry", "hostname": "localhost", "port": "5000"}}
//
// The merged document is validated against an embedded JSON schema; a missing
// name or composeFile.name is a CONFIGURATION error raised before anything
// touches the engine.
//
// # Environment overrides
//
// ReadEnvFile accepts lines of the form KEY=VALUE where KEY is upper case
// letters and underscores. Everything else is ignored.
//
// # Secrets
//
// ListSecrets returns one Secret per regular file in the secrets directory,
// named after the file.
package config
