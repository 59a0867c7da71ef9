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

package engine

import "github.com/NVIDIA/stackctl/pkg/shell"

// ProcessIDs lists PIDs of processes named exactly name.
func ProcessIDs(name string) shell.Command {
	return shell.Command{Name: "pgrep", Args: []string{"-x", name}, SuppressFailure: true}
}

// RunInstallScript pipes the engine's convenience install script into sh.
func RunInstallScript(url string) shell.Command {
	return shell.Command{
		Name:   "sh",
		Args:   []string{"-c", "curl -fsSL " + url + " | sh"},
		Stream: true,
	}
}

// OpenDesktop launches Docker Desktop in the background on macOS.
func OpenDesktop() shell.Command {
	return shell.Command{Name: "open", Args: []string{"--background", "-a", "Docker"}}
}
