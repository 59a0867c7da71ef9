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

package stack

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"
	"k8s.io/utils/ptr"

	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
)

// dnsNamePattern is the engine's constraint on stack names.
var dnsNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Identity names the stack and the image package built for it.
type Identity struct {
	Name  string  `json:"name" yaml:"name"`
	Owner *string `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// NewIdentity returns an Identity; an empty owner means none.
func NewIdentity(name, owner string) Identity {
	id := Identity{Name: name}
	if owner != "" {
		id.Owner = ptr.To(owner)
	}
	return id
}

// Package is the image repository name: "owner/name", or "name" without owner.
func (i Identity) Package() string {
	if owner := ptr.Deref(i.Owner, ""); owner != "" {
		return owner + "/" + i.Name
	}
	return i.Name
}

// DNSName is the stack name handed to the engine: the name with every '.'
// replaced by '-'.
func (i Identity) DNSName() string {
	return strings.ReplaceAll(i.Name, ".", "-")
}

// Validate checks the name is present, the DNS name satisfies the engine's
// naming rules and the package is a valid repository name.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return apperrors.New(apperrors.ErrCodeConfiguration, "stack name is required")
	}
	if dns := i.DNSName(); !dnsNamePattern.MatchString(dns) {
		return apperrors.NewWithContext(apperrors.ErrCodeConfiguration,
			"stack name must be lowercase alphanumeric with '.' or '-' separators",
			map[string]any{"name": i.Name, "dnsName": dns})
	}
	if _, err := reference.ParseNormalizedNamed(i.Package()); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"invalid image package name", err, map[string]any{"package": i.Package()})
	}
	return nil
}

// RegistryAddress locates the registry images are published to.
type RegistryAddress struct {
	// Name is the name of the registry container on the local engine.
	Name     string `json:"name" yaml:"name"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Port     string `json:"port" yaml:"port"`
	// TLS selects HTTPS for the catalog probe. Local registries speak plain HTTP.
	TLS bool `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// Address returns "hostname:port".
func (r RegistryAddress) Address() string {
	return r.Hostname + ":" + r.Port
}

// Tag returns the registry-qualified reference of pkg, e.g. "localhost:5000/acme/widget".
func (r RegistryAddress) Tag(pkg string) string {
	return r.Address() + "/" + pkg
}

// Validate checks all fields are set and the registry tag of pkg parses.
func (r RegistryAddress) Validate(pkg string) error {
	missing := make([]string, 0, 3)
	if r.Name == "" {
		missing = append(missing, "registryAddress.name")
	}
	if r.Hostname == "" {
		missing = append(missing, "registryAddress.hostname")
	}
	if r.Port == "" {
		missing = append(missing, "registryAddress.port")
	}
	if len(missing) > 0 {
		return apperrors.NewWithContext(apperrors.ErrCodeConfiguration,
			fmt.Sprintf("incomplete registry address: missing %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing})
	}

	ref, err := reference.ParseNormalizedNamed(r.Tag(pkg))
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"invalid registry reference", err, map[string]any{"reference": r.Tag(pkg)})
	}
	if reference.Domain(ref) != r.Address() {
		return apperrors.NewWithContext(apperrors.ErrCodeConfiguration,
			"registry address is not a valid registry host",
			map[string]any{"address": r.Address(), "parsedDomain": reference.Domain(ref)})
	}
	return nil
}
