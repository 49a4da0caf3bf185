package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteEnvReplacesKnownVariable(t *testing.T) {
	t.Setenv("PLUGINRT_TEST_DIR", "/var/plugins")

	got, err := substituteEnv(`{{ env "PLUGINRT_TEST_DIR" }}/active`)
	require.NoError(t, err)
	assert.Equal(t, "/var/plugins/active", got)
}

func TestSubstituteEnvErrorsOnUnsetVariable(t *testing.T) {
	_, err := substituteEnv(`{{ env "PLUGINRT_DEFINITELY_UNSET" }}`)
	assert.Error(t, err)
}

func TestSubstituteEnvLeavesPlainStringUnchanged(t *testing.T) {
	got, err := substituteEnv("plugins")
	require.NoError(t, err)
	assert.Equal(t, "plugins", got)
}

func TestSubstituteEnvInConfigAppliesToPluginsDirAndPolicies(t *testing.T) {
	t.Setenv("PLUGINRT_TEST_ROLE", "quarantined")

	cfg := &RuntimeConfig{
		PluginsDir:       "plugins",
		CustomChannels:   []string{"chat"},
		DispatchPolicies: map[string]string{"chat": `PluginName != "{{ env "PLUGINRT_TEST_ROLE" }}"`},
	}
	require.NoError(t, substituteEnvInConfig(cfg))
	assert.Equal(t, `PluginName != "quarantined"`, cfg.DispatchPolicies["chat"])
}

func FuzzSubstituteEnv(f *testing.F) {
	seeds := []string{
		`{{ env "KEY" }}`,
		`prefix {{ env "KEY" }} suffix`,
		`{{env`,
		`}}`,
		`{{ env "" }}`,
		`{{ env "KEY" }} {{ env "OTHER" }}`,
		`{{ env "` + string(make([]byte, 4096)) + `" }}`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, template string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("panic on input %q: %v", template, r)
			}
		}()
		_, _ = substituteEnv(template)
	})
}
