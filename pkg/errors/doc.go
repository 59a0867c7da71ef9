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

// Package errors provides structured error types for better observability
// and programmatic error handling across stackctl.
//
// The codes map onto the failure classes of a deployment run:
//
//   - CONFIGURATION: required configuration fields are missing; nothing ran yet.
//   - EXTERNAL_COMMAND: a docker command failed and the caller did not suppress it.
//   - TIMEOUT: a bounded wait for an engine state transition ran out.
//   - OPERATOR_REQUIRED: the confirmation policy cannot proceed without a human.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeExternalCommand,
//	    "failed to deploy stack",
//	    cause,
//	    map[string]any{
//	        "stack": "my-app",
//	    },
//	)
//
//	if errors.HasCode(err, errors.ErrCodeTimeout) {
//	    // retry later
//	}
package errors
