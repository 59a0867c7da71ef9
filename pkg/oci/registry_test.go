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
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/stackctl/pkg/stack"
)

func addressOf(t *testing.T, srv *httptest.Server) stack.RegistryAddress {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return stack.RegistryAddress{Name: "registry", Hostname: u.Hostname(), Port: u.Port()}
}

func TestCatalogReachable(t *testing.T) {
	t.Run("catalog page", func(t *testing.T) {
		var paths []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			// A Link header would normally trigger another request.
			w.Header().Set("Link", `</v2/_catalog?last=a&n=1>; rel="next"`)
			_, _ = w.Write([]byte(`{"repositories":["acme/widget"]}`))
		}))
		defer srv.Close()

		assert.True(t, CatalogReachable(context.Background(), addressOf(t, srv)))
		assert.Equal(t, []string{"/v2/_catalog"}, paths)
	})

	t.Run("empty catalog", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"repositories":[]}`))
		}))
		defer srv.Close()

		assert.True(t, CatalogReachable(context.Background(), addressOf(t, srv)))
	})

	for name, body := range map[string]string{
		"plain text body": "OK",
		"empty body":      "",
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			assert.True(t, CatalogReachable(context.Background(), addressOf(t, srv)))
		})
	}

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		assert.False(t, CatalogReachable(context.Background(), addressOf(t, srv)))
	})

	t.Run("nothing listening", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := addressOf(t, srv)
		srv.Close()

		assert.False(t, CatalogReachable(context.Background(), addr))
	})
}

func TestResolveDigest(t *testing.T) {
	const digest = "sha256:6c3c624b58dbbcd3c0dd82b4c53f04194d1247c6eebdaab7c610cf7d66709b3b"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/acme/widget/manifests/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.oci.image.manifest.v1+json")
		w.Header().Set("Docker-Content-Digest", digest)
		w.Header().Set("Content-Length", "2")
		if r.Method != http.MethodHead {
			_, _ = w.Write([]byte("{}"))
		}
	}))
	defer srv.Close()

	addr := addressOf(t, srv)
	assert.Equal(t, digest, ResolveDigest(context.Background(), addr, "acme/widget", "latest"))
	assert.Empty(t, ResolveDigest(context.Background(), addr, "acme/other", "latest"))
}
