package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifestReturnsNotOkWhenSidecarMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "enemy_ai.wasm")

	m, ok, err := loadManifest(wasmPath)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, m)
}

func TestLoadManifestParsesValidSidecar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "enemy_ai.wasm")
	manifestJSON := `{"name": "enemy_ai", "version": "1.0.0", "custom_channels": ["chat"]}`
	require.NoError(t, os.WriteFile(manifestPathFor(wasmPath), []byte(manifestJSON), 0o644))

	m, ok, err := loadManifest(wasmPath)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "enemy_ai", m.Name)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, []string{"chat"}, m.CustomChannels)
}

func TestLoadManifestRejectsMissingRequiredField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "enemy_ai.wasm")
	require.NoError(t, os.WriteFile(manifestPathFor(wasmPath), []byte(`{"name": "enemy_ai"}`), 0o644))

	_, _, err := loadManifest(wasmPath)
	assert.Error(t, err)
}

func TestLoadManifestRejectsUnknownField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "enemy_ai.wasm")
	require.NoError(t, os.WriteFile(manifestPathFor(wasmPath), []byte(`{"name": "a", "version": "1", "unexpected": true}`), 0o644))

	_, _, err := loadManifest(wasmPath)
	assert.Error(t, err)
}
