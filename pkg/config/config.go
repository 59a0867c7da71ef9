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

package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/NVIDIA/stackctl/pkg/errors"
	"github.com/NVIDIA/stackctl/pkg/stack"
)

// MaxSources is the number of JSON documents that may be merged.
const MaxSources = 2

//go:embed schema.json
var schemaJSON string

var schema = mustCompileSchema(schemaJSON)

// ComposeFile is the manifest descriptor: the file name written under the
// project path and the structured content serialized into it.
type ComposeFile struct {
	Name    string         `json:"name"`
	Content map[string]any `json:"content,omitempty"`
}

// Config is the merged stack configuration.
type Config struct {
	Name            string                 `json:"name"`
	Owner           *string                `json:"owner,omitempty"`
	RegistryAddress *stack.RegistryAddress `json:"registryAddress,omitempty"`
	ComposeFile     ComposeFile            `json:"composeFile"`
	// AdvertiseAddr is passed to "swarm init"; empty means the CLI default.
	AdvertiseAddr string `json:"advertiseAddr,omitempty"`
}

// Identity returns the stack identity described by the configuration.
func (c *Config) Identity() stack.Identity {
	return stack.Identity{Name: c.Name, Owner: c.Owner}
}

// Validate checks the semantic rules the schema cannot express.
func (c *Config) Validate() error {
	id := c.Identity()
	if err := id.Validate(); err != nil {
		return err
	}
	if c.RegistryAddress != nil {
		if err := c.RegistryAddress.Validate(id.Package()); err != nil {
			return err
		}
	}
	return nil
}

// Load reads up to MaxSources JSON files, merges them in order (later files
// win per property), validates the result and decodes it. Paths that do not
// exist are skipped; at least one must exist.
func Load(paths ...string) (*Config, error) {
	if len(paths) > MaxSources {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeConfiguration,
			fmt.Sprintf("at most %d configuration sources are supported", MaxSources),
			map[string]any{"paths": paths})
	}

	docs := make([]map[string]any, 0, len(paths))
	for _, p := range paths {
		doc, err := readDocument(p)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("configuration source not found, skipping", "path", p)
			continue
		}
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded configuration source", "path", p)
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeConfiguration,
			"no configuration file found", map[string]any{"paths": paths})
	}

	merged, err := Merge(docs...)
	if err != nil {
		return nil, err
	}
	return Decode(merged)
}

// Merge combines documents left to right. A property present in a later
// document replaces the earlier value; nested objects are merged the same way.
func Merge(docs ...map[string]any) (map[string]any, error) {
	out := map[string]any{}
	for _, d := range docs {
		if err := mergo.Merge(&out, d, mergo.WithOverride); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeConfiguration, "failed to merge configuration", err)
		}
	}
	return out, nil
}

// Decode validates a merged document against the schema and converts it into
// a Config.
func Decode(doc map[string]any) (*Config, error) {
	normalizePort(doc)

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfiguration, "failed to validate configuration", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, apperrors.NewWithContext(apperrors.ErrCodeConfiguration,
			"invalid configuration: "+strings.Join(problems, "; "),
			map[string]any{"problems": problems})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfiguration, "failed to encode configuration", err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfiguration, "failed to decode configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"failed to read configuration", err, map[string]any{"path": path})
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConfiguration,
			"configuration is not a JSON object", err, map[string]any{"path": path})
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// normalizePort accepts a numeric registry port and stores it as a string.
func normalizePort(doc map[string]any) {
	reg, ok := doc["registryAddress"].(map[string]any)
	if !ok {
		return
	}
	if n, ok := reg["port"].(float64); ok && n == float64(int64(n)) {
		reg["port"] = strconv.FormatInt(int64(n), 10)
	}
}

func mustCompileSchema(s string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded configuration schema: %v", err))
	}
	return compiled
}
