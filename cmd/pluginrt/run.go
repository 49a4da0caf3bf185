package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthforge/pluginrt/internal/domain/world"
	"github.com/hearthforge/pluginrt/internal/infrastructure/registry"
)

const demoFrameInterval = 16 * time.Millisecond

func newRunCmd() *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a headless frame loop against an in-memory demo world",
		Long: `run loads every plugin in --plugins-dir and drives on_init followed by
a fixed-rate on_frame loop against an in-memory demo world, useful for
exercising a plugin without a real 3D host application. Press Ctrl+C to
stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemoLoop(cmd.Context(), opts)
		},
	}

	opts.RegisterFlags(cmd)
	return cmd
}

func runDemoLoop(ctx context.Context, opts CommonOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := opts.toRuntimeConfig()
	demoWorld := world.NewFake()

	reg, err := registry.New(ctx, registry.Config{
		PluginsDir:             cfg.PluginsDir,
		MemoryLimitMB:          cfg.MemoryLimitMB,
		MaxConsecutiveTraps:    cfg.MaxConsecutiveTraps,
		AssetBufferSize:        cfg.AssetBufferSize,
		AssetWorkerConcurrency: cfg.AssetWorkerConcurrency,
	}, demoWorld, demoWorld, slog.Default())
	if err != nil {
		return fmt.Errorf("construct registry: %w", err)
	}
	defer reg.Close(ctx)

	if err := reg.LoadPluginsFromDirectory(ctx); err != nil {
		return fmt.Errorf("load plugins: %w", err)
	}
	slog.Info("loaded plugins", "count", len(reg.Plugins()), "dir", cfg.PluginsDir)

	reg.CallOnInit(ctx)

	ticker := time.NewTicker(demoFrameInterval)
	defer ticker.Stop()

	deltaSeconds := float32(demoFrameInterval) / float32(time.Second)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case <-ticker.C:
			reg.RunFrame(ctx, deltaSeconds)
		}
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
