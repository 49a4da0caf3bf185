package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReaderAppliesDefaultsAndValidates(t *testing.T) {
	t.Parallel()

	yamlSrc := `
plugins_dir: plugins
max_consecutive_traps: 3
`
	cfg, err := NewLoader().LoadFromReader(strings.NewReader(yamlSrc))
	require.NoError(t, err)
	assert.Equal(t, "plugins", cfg.PluginsDir)
	assert.Equal(t, 3, cfg.MaxConsecutiveTraps)
	assert.Equal(t, defaultAssetBufferSize, cfg.AssetBufferSize)
}

func TestLoadFromReaderRejectsMissingPluginsDir(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().LoadFromReader(strings.NewReader("memory_limit_mb: 128\n"))
	assert.Error(t, err)
}

func TestLoadFromReaderSubstitutesEnvironmentVariables(t *testing.T) {
	t.Setenv("PLUGINRT_TEST_PLUGINS_DIR", "/srv/plugins")

	yamlSrc := `
plugins_dir: '{{ env "PLUGINRT_TEST_PLUGINS_DIR" }}'
`
	cfg, err := NewLoader().LoadFromReader(strings.NewReader(yamlSrc))
	require.NoError(t, err)
	assert.Equal(t, "/srv/plugins", cfg.PluginsDir)
}

func TestLoadReadsFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins_dir: plugins\n"), 0o644))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plugins", cfg.PluginsDir)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func FuzzLoadFromReader(f *testing.F) {
	seeds := []string{
		"plugins_dir: plugins\n",
		"plugins_dir:\n",
		"",
		"plugins_dir: [not, a, string]\n",
		"custom_channels:\n  - chat\ndispatch_policies:\n  chat: \"true\"\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("panic on input %q: %v", src, r)
			}
		}()
		_, _ = NewLoader().LoadFromReader(strings.NewReader(src))
	})
}
