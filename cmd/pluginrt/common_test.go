package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRuntimeConfigThreadsAssetWorkerConcurrency(t *testing.T) {
	t.Parallel()

	opts := DefaultCommonOptions()
	opts.PluginsDir = "./plugins"
	opts.AssetWorkerConcurrency = 12

	cfg := opts.toRuntimeConfig()
	assert.Equal(t, 12, cfg.AssetWorkerConcurrency)
}

func TestToRuntimeConfigDefaultsAssetWorkerConcurrencyWhenUnset(t *testing.T) {
	t.Parallel()

	opts := DefaultCommonOptions()
	opts.PluginsDir = "./plugins"

	cfg := opts.toRuntimeConfig()
	assert.Greater(t, cfg.AssetWorkerConcurrency, 0, "ApplyDefaults should have filled it via runtime.NumCPU()")
}
