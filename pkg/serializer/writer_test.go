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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name    string            `json:"name" yaml:"name"`
	Running bool              `json:"running" yaml:"running"`
	Labels  map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Owner   *string           `json:"owner" yaml:"owner"`
}

type steps []string

func (s steps) TableHeader() []string { return []string{"STEP", "ORDER"} }

func (s steps) TableRows() [][]string {
	rows := make([][]string, 0, len(s))
	for i, name := range s {
		rows = append(rows, []string{name, strings.Repeat("*", i+1)})
	}
	return rows
}

func TestWriterFormats(t *testing.T) {
	in := sample{Name: "widget", Running: true, Labels: map[string]string{"tier": "web"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), in))
		var out sample
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, in, out)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), in))
		var out sample
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, in, out)
	})

	t.Run("table flattens", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), in))
		out := buf.String()
		assert.Contains(t, out, "FIELD")
		assert.Contains(t, out, "Labels.tier")
		assert.Contains(t, out, "Owner")
		assert.Contains(t, out, "widget")
	})

	t.Run("table uses rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), steps{"manifest", "deploy"}))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "STEP"))
		assert.True(t, strings.HasPrefix(lines[2], "manifest"))
		assert.True(t, strings.HasPrefix(lines[3], "deploy"))
	})

	t.Run("table empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}))
		assert.Equal(t, "<empty>\n", buf.String())
	})
}

func TestFormatIsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())
	assert.True(t, Format("").IsUnknown())
}

func TestNewWriterUnknownFormatDefaultsToYAML(t *testing.T) {
	w := NewWriter(Format("xml"), nil)
	assert.Equal(t, FormatYAML, w.format)
	assert.Equal(t, os.Stdout, w.output)
}

func TestMarshalUnsupported(t *testing.T) {
	_, err := Marshal(Format("xml"), sample{})
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "docker-compose.yml")
	doc := map[string]any{"version": "3.7", "services": map[string]any{"web": map[string]any{"image": "widget"}}}

	require.NoError(t, WriteFile(p, FormatYAML, doc))
	data, err := os.ReadFile(p)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "3.7", back["version"])

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "x.yml"), FormatYAML, doc)
	assert.Error(t, err)
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, "  ")
		assert.Equal(t, os.Stdout, w.output)
		assert.NoError(t, w.Close())
	})

	t.Run("file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "report.json")
		w := NewFileWriterOrStdout(FormatJSON, p)
		require.NoError(t, w.Serialize(context.Background(), sample{Name: "widget"}))
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())

		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\"widget\"")
	})

	t.Run("uncreatable path falls back", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "no", "such", "dir", "r.json"))
		assert.Equal(t, os.Stdout, w.output)
	})
}
