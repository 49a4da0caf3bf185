package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroValuesOnly(t *testing.T) {
	t.Parallel()

	cfg := &RuntimeConfig{PluginsDir: "plugins", AssetBufferSize: 128}
	cfg.ApplyDefaults()

	assert.Equal(t, 128, cfg.AssetBufferSize, "explicit value must not be overwritten")
	assert.NotZero(t, cfg.AssetWorkerConcurrency)
}

func TestValidateRequiresPluginsDir(t *testing.T) {
	t.Parallel()

	cfg := &RuntimeConfig{}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeMemoryLimitBelowUnlimitedSentinel(t *testing.T) {
	t.Parallel()

	cfg := &RuntimeConfig{PluginsDir: "plugins", MemoryLimitMB: -2}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsUnlimitedMemorySentinel(t *testing.T) {
	t.Parallel()

	cfg := &RuntimeConfig{PluginsDir: "plugins", MemoryLimitMB: -1}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsDispatchPolicyForUndeclaredChannel(t *testing.T) {
	t.Parallel()

	cfg := &RuntimeConfig{
		PluginsDir:       "plugins",
		DispatchPolicies: map[string]string{"chat": `Channel == "chat"`},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsDispatchPolicyForDeclaredChannel(t *testing.T) {
	t.Parallel()

	cfg := &RuntimeConfig{
		PluginsDir:       "plugins",
		CustomChannels:   []string{"chat"},
		DispatchPolicies: map[string]string{"chat": `Channel == "chat"`},
	}
	assert.NoError(t, cfg.Validate())
}
