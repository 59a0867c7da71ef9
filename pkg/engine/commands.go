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

import (
	"sort"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	"github.com/NVIDIA/stackctl/pkg/shell"
)

// StackNamespaceLabel is set by the engine on every container of a stack.
const StackNamespaceLabel = "com.docker.stack.namespace"

func docker(args ...string) shell.Command {
	return shell.Command{Name: defaults.EngineBinary, Args: args}
}

func probe(args ...string) shell.Command {
	c := docker(args...)
	c.SuppressFailure = true
	return c
}

// ListContainers is the basic listing used to tell a responsive daemon.
func ListContainers() shell.Command {
	return probe("ps")
}

// ServerVersion prints the daemon version.
func ServerVersion() shell.Command {
	return probe("version", "--format", "{{.Server.Version}}")
}

// ImageIDs lists image IDs for a repository reference.
func ImageIDs(ref string) shell.Command {
	return probe("images", "-q", ref)
}

// RemoveImage force-removes an image by ID.
func RemoveImage(id string) shell.Command {
	return docker("rmi", "-f", id)
}

// BuildImage builds contextDir tagged ref. Labels are emitted in key order.
func BuildImage(ref, contextDir string, labels map[string]string) shell.Command {
	args := []string{"build", "-t", ref}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--label", k+"="+labels[k])
	}
	args = append(args, contextDir)
	c := docker(args...)
	c.Stream = true
	return c
}

// TagImage adds target as a tag of source.
func TagImage(source, target string) shell.Command {
	return docker("tag", source, target)
}

// PushImage pushes ref to its registry.
func PushImage(ref string) shell.Command {
	c := docker("push", ref)
	c.Stream = true
	return c
}

// StackContainers lists running container IDs that belong to a stack.
func StackContainers(stack string) shell.Command {
	return probe("ps", "-q", "--filter", "label="+StackNamespaceLabel+"="+stack)
}

// RemoveStack removes a deployed stack.
func RemoveStack(stack string) shell.Command {
	return docker("stack", "rm", stack)
}

// DeployStack deploys manifest as stack with extra environment for the
// spawned process.
func DeployStack(manifest, stack string, env map[string]string) shell.Command {
	c := docker("stack", "deploy", "-c", manifest, stack)
	c.Env = env
	c.Stream = true
	return c
}

// FindContainer lists IDs of containers (any state) whose name is exactly name.
func FindContainer(name string) shell.Command {
	return probe("ps", "-a", "-q", "--filter", "name=^"+name+"$")
}

// StartContainer starts an existing container.
func StartContainer(id string) shell.Command {
	return docker("start", id)
}

// RunRegistry creates and starts a registry container publishing hostPort.
func RunRegistry(name, hostPort string) shell.Command {
	return docker("run", "-d",
		"-p", hostPort+":"+defaults.RegistryContainerPort,
		"--restart=always",
		"--name", name,
		defaults.RegistryImage)
}

// RemoveSecret removes a secret; a missing secret is not an error.
func RemoveSecret(name string) shell.Command {
	return probe("secret", "rm", name)
}

// CreateSecret registers the file at path as secret name.
func CreateSecret(name, path string) shell.Command {
	return docker("secret", "create", name, path)
}

// SwarmInit puts the engine in swarm mode.
func SwarmInit(advertiseAddr string) shell.Command {
	return docker("swarm", "init", "--advertise-addr", advertiseAddr)
}

// SwarmLeave forces the node out of swarm mode.
func SwarmLeave() shell.Command {
	return docker("swarm", "leave", "--force")
}
