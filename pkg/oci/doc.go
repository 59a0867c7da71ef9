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

// Package oci talks to the stack's image registry over the OCI distribution
// API using ORAS.
//
// CatalogReachable is the registry health check: a registry is running when
// GET /v2/_catalog answers with any 2xx status, whatever the body. ResolveDigest reports the manifest digest
// of a published tag for status output.
//
// Local registries without TLS are contacted over plain HTTP. Credentials
// come from the Docker configuration (~/.docker/config.json) when present.
package oci
