// Package config loads the runtime's YAML configuration file: which
// directory to scan for plugins, sandbox resource limits, the custom
// channels to declare, and each channel's dispatch policy expression.
package config

import (
	"fmt"
	"runtime"
)

// defaultAssetBufferSize matches registry.Config's own default so a config
// file that omits the field behaves identically to the zero-value Config.
const defaultAssetBufferSize = 64

// RuntimeConfig aggregates every setting needed to construct a
// registry.Registry. It is a plain value object; registry.Config is built
// from it at startup.
type RuntimeConfig struct {
	// PluginsDir is scanned for *.wasm files at startup.
	PluginsDir string `yaml:"plugins_dir"`

	// MemoryLimitMB caps each plugin's linear memory. 0 applies the
	// sandbox package's 256MB default; -1 is unlimited.
	MemoryLimitMB int `yaml:"memory_limit_mb"`

	// MaxConsecutiveTraps, if non-zero, evicts a plugin to Failed after
	// this many consecutive per-call failures.
	MaxConsecutiveTraps int `yaml:"max_consecutive_traps"`

	// AssetBufferSize sizes the async asset pipeline's results channel.
	AssetBufferSize int `yaml:"asset_buffer_size"`

	// AssetWorkerConcurrency caps how many asset jobs run per plugin at
	// once. ApplyDefaults replaces 0 with runtime.NumCPU().
	AssetWorkerConcurrency int `yaml:"asset_worker_concurrency"`

	// CustomChannels lists the additional host_send_<name>_command
	// imports the runtime should declare before loading plugins.
	CustomChannels []string `yaml:"custom_channels"`

	// DispatchPolicies maps a custom channel name to an expr-lang boolean
	// expression evaluated against {Channel, PluginID, PluginName}. A
	// channel with no entry allows every plugin.
	DispatchPolicies map[string]string `yaml:"dispatch_policies"`
}

// ApplyDefaults fills zero-valued fields with the runtime's defaults. It
// never overwrites an explicitly configured value.
func (c *RuntimeConfig) ApplyDefaults() {
	if c.AssetBufferSize == 0 {
		c.AssetBufferSize = defaultAssetBufferSize
	}
	if c.AssetWorkerConcurrency == 0 {
		c.AssetWorkerConcurrency = runtime.NumCPU()
	}
}

// Validate reports the first structural problem found in c. It does not
// check that PluginsDir exists: a missing plugins directory is a valid,
// no-op runtime state.
func (c *RuntimeConfig) Validate() error {
	if c.PluginsDir == "" {
		return fmt.Errorf("config: plugins_dir is required")
	}
	if c.MemoryLimitMB < -1 {
		return fmt.Errorf("config: memory_limit_mb must be -1 (unlimited), 0 (default), or positive, got %d", c.MemoryLimitMB)
	}
	if c.MaxConsecutiveTraps < 0 {
		return fmt.Errorf("config: max_consecutive_traps must be 0 or positive, got %d", c.MaxConsecutiveTraps)
	}

	declared := make(map[string]bool, len(c.CustomChannels))
	for _, name := range c.CustomChannels {
		if name == "" {
			return fmt.Errorf("config: custom_channels entries must not be empty")
		}
		declared[name] = true
	}
	for channel := range c.DispatchPolicies {
		if !declared[channel] {
			return fmt.Errorf("config: dispatch_policies references undeclared channel %q", channel)
		}
	}
	return nil
}
