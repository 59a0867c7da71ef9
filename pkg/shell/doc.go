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

// Package shell runs external commands with stdout and stderr kept apart.
//
// A probe needs to tell "printed nothing" from "printed an error", so the two
// streams are captured separately. The failure policy is:
//
//   - stderr non-empty or non-zero exit, SuppressFailure false: an
//     EXTERNAL_COMMAND StructuredError wrapping *CommandError
//   - streamed commands (build, push, deploy) print progress on stderr, so for
//     them only a non-zero exit counts as failure
//   - same, SuppressFailure true: the Result is returned and the caller
//     interprets it (probes turn it into false or absent)
//
// One call spawns one process. Retrying is the job of package poll.
//
// Environment overrides in Command.Env apply to the spawned process only; the
// stackctl process environment is never modified.
package shell
