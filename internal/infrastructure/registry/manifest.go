package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// manifestSchemaJSON is the fixed JSON Schema an optional plugin.json
// sitting next to a .wasm file must satisfy.
const manifestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "version"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "custom_channels": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    }
  },
  "additionalProperties": false
}`

// Manifest is a plugin's optional metadata sidecar: name, version, and
// the custom channels it expects the host to have registered.
type Manifest struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Description    string   `json:"description,omitempty"`
	CustomChannels []string `json:"custom_channels,omitempty"`
}

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *jsonschema.Schema
	manifestSchemaErr  error
)

func compiledManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("plugin-manifest.json", bytes.NewReader([]byte(manifestSchemaJSON))); err != nil {
			manifestSchemaErr = fmt.Errorf("registry: add manifest schema resource: %w", err)
			return
		}
		manifestSchema, manifestSchemaErr = compiler.Compile("plugin-manifest.json")
	})
	return manifestSchema, manifestSchemaErr
}

// manifestPathFor returns the plugin.json sidecar path for a given .wasm
// path: "enemy_ai.wasm" -> "enemy_ai.json".
func manifestPathFor(wasmPath string) string {
	return strings.TrimSuffix(wasmPath, ".wasm") + ".json"
}

// loadManifest reads and validates the sidecar manifest for wasmPath, if
// one exists. A missing sidecar is not an error: the manifest is
// optional, and ok reports whether one was found.
func loadManifest(wasmPath string) (m Manifest, ok bool, err error) {
	manifestPath := manifestPathFor(wasmPath)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, false, nil
		}
		return Manifest{}, false, fmt.Errorf("registry: read manifest %q: %w", manifestPath, err)
	}

	schema, err := compiledManifestSchema()
	if err != nil {
		return Manifest{}, false, err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Manifest{}, false, fmt.Errorf("registry: parse manifest %q: %w", manifestPath, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Manifest{}, false, fmt.Errorf("registry: manifest %q failed validation: %w", manifestPath, err)
	}

	var m2 Manifest
	if err := json.Unmarshal(raw, &m2); err != nil {
		return Manifest{}, false, fmt.Errorf("registry: decode manifest %q: %w", manifestPath, err)
	}
	return m2, true, nil
}
