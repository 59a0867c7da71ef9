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

// Package prompt implements the confirmations asked before the engine or the
// registry is installed or started.
//
// The policy is chosen with --confirm:
//
//	ask   prompt on the terminal, Enter means yes
//	yes   accept, fail with OPERATOR_REQUIRED when a human must act
//	no    decline, re-check periodically for an external fix
//	fail  decline, fail with OPERATOR_REQUIRED when a human must act
package prompt
