package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthforge/pluginrt/internal/infrastructure/config"
)

// CommonOptions holds the flags shared by commands that construct a
// registry.Registry.
type CommonOptions struct {
	PluginsDir             string
	MemoryLimitMB          int
	MaxConsecutiveTraps    int
	AssetWorkerConcurrency int
	Timeout                time.Duration
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		PluginsDir: "./plugins",
		Timeout:    30 * time.Second,
	}
}

// RegisterFlags adds the common flags to cmd.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.PluginsDir, "plugins-dir", opts.PluginsDir, "directory scanned for *.wasm plugins")
	cmd.Flags().IntVar(&opts.MemoryLimitMB, "memory-limit-mb", opts.MemoryLimitMB, "per-plugin linear memory limit in MB (0 = default, -1 = unlimited)")
	cmd.Flags().IntVar(&opts.MaxConsecutiveTraps, "max-consecutive-traps", opts.MaxConsecutiveTraps, "evict a plugin after this many consecutive trapped calls (0 = never)")
	cmd.Flags().IntVar(&opts.AssetWorkerConcurrency, "asset-worker-concurrency", opts.AssetWorkerConcurrency, "max in-flight asset jobs per plugin (0 = runtime.NumCPU())")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout, "command timeout (0 to disable)")
}

// toRuntimeConfig converts the CLI flags into the config package's
// RuntimeConfig, applying its own defaults for anything left zero.
func (opts *CommonOptions) toRuntimeConfig() *config.RuntimeConfig {
	cfg := &config.RuntimeConfig{
		PluginsDir:             opts.PluginsDir,
		MemoryLimitMB:          opts.MemoryLimitMB,
		MaxConsecutiveTraps:    opts.MaxConsecutiveTraps,
		AssetWorkerConcurrency: opts.AssetWorkerConcurrency,
	}
	cfg.ApplyDefaults()
	return cfg
}
