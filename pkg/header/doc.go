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

// Package header provides the Kubernetes-style kind/apiVersion/metadata
// header shared by deployment reports and runtime status documents.
//
//	kind: DeploymentReport
//	apiVersion: stackctl.nvidia.com/v1alpha1
//	metadata:
//	  timestamp: "2026-01-02T03:04:05Z"
//	  version: v0.1.0
//	  run-id: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
package header
