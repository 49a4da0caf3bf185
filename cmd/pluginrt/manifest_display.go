package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// displayManifest is the subset of a plugin.json sidecar the list command
// renders. Unlike registry.Manifest, parsing here is best-effort: a
// malformed sidecar is simply shown as missing rather than failing the
// whole listing.
type displayManifest struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	CustomChannels []string `json:"custom_channels"`
}

func manifestSidecarPath(dir, wasmFile string) string {
	return filepath.Join(dir, strings.TrimSuffix(wasmFile, ".wasm")+".json")
}

func parseManifestJSON(raw []byte) (displayManifest, error) {
	var m displayManifest
	err := json.Unmarshal(raw, &m)
	return m, err
}
