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

package oci

import (
	"context"
	"log/slog"
	"net/http"

	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/stackctl/pkg/defaults"
	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/stack"
)

// NewRegistry returns a client for the registry at addr. Registries without
// TLS are reached over plain HTTP. Docker credential helpers are consulted
// when the registry asks for authentication.
func NewRegistry(addr stack.RegistryAddress) (*remote.Registry, error) {
	reg, err := remote.NewRegistry(addr.Address())
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"invalid registry address", err, map[string]any{"address": addr.Address()})
	}
	reg.PlainHTTP = !addr.TLS
	reg.Client = newAuthClient()
	return reg, nil
}

func newAuthClient() *auth.Client {
	client := &auth.Client{
		Client: &http.Client{Timeout: defaults.RegistryProbeTimeout},
		Cache:  auth.NewCache(),
	}
	store, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credential store unavailable, using anonymous access", "error", err)
		return client
	}
	client.Credential = credentials.Credential(store)
	return client
}

// CatalogReachable reports whether GET /v2/_catalog answers with any 2xx
// status. The body is not inspected.
func CatalogReachable(ctx context.Context, addr stack.RegistryAddress) bool {
	reg, err := NewRegistry(addr)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.RegistryProbeTimeout)
	defer cancel()

	scheme := "https"
	if reg.PlainHTTP {
		scheme = "http"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheme+"://"+addr.Address()+"/v2/_catalog", nil)
	if err != nil {
		slog.Debug("invalid registry catalog request", "address", addr.Address(), "error", err)
		return false
	}
	resp, err := reg.Client.Do(req)
	if err != nil {
		slog.Debug("registry catalog not reachable", "address", addr.Address(), "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.Debug("registry catalog answered with an error", "address", addr.Address(), "status", resp.StatusCode)
		return false
	}
	return true
}

// ResolveDigest returns the manifest digest of pkg:tag in the registry at
// addr, or "" when it cannot be resolved.
func ResolveDigest(ctx context.Context, addr stack.RegistryAddress, pkg, tag string) string {
	reg, err := NewRegistry(addr)
	if err != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.RegistryProbeTimeout)
	defer cancel()

	repo, err := reg.Repository(ctx, pkg)
	if err != nil {
		return ""
	}
	desc, err := repo.Resolve(ctx, tag)
	if err != nil {
		slog.Debug("registry manifest not resolved", "repository", pkg, "tag", tag, "error", err)
		return ""
	}
	return desc.Digest.String()
}
