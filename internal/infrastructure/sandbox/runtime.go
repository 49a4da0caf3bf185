// Package sandbox wraps wazero to provide the host adapter every loaded
// plugin runs under: one shared compilation cache and wazero.Runtime for
// the process, one compiled module and one long-lived instance per
// plugin. Guests get WASI preview1 for clock and random syscalls only; no
// filesystem, network, or environment access is granted.
package sandbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

var (
	globalCache     wazero.CompilationCache
	globalCacheOnce sync.Once
)

func sharedCache() wazero.CompilationCache {
	globalCacheOnce.Do(func() {
		globalCache = wazero.NewCompilationCache()
	})
	return globalCache
}

// CloseGlobalCache releases the process-wide compilation cache. Call it
// once at process shutdown, after every Runtime has been closed.
func CloseGlobalCache(ctx context.Context) error {
	if globalCache == nil {
		return nil
	}
	return globalCache.Close(ctx)
}

// pagesPerMB is wazero's linear memory page size (64KiB) expressed as
// pages-per-megabyte.
const pagesPerMB = 16

// defaultMemoryLimitMB is applied when a plugin's configured memory limit
// is zero.
const defaultMemoryLimitMB = 256

// unlimitedMemoryLimitMB opts a plugin out of an explicit memory cap,
// deferring to wazero's own 4GiB wasm32 ceiling.
const unlimitedMemoryLimitMB = -1

// Runtime owns one wazero.Runtime shared by every plugin loaded from a
// single plugin directory.
type Runtime struct {
	wz   wazero.Runtime
	host wazero.HostModuleBuilder
}

// NewRuntime constructs a Runtime whose guests are limited to
// memoryLimitMB of linear memory (0 for the default 256MB, -1 for
// unlimited).
func NewRuntime(ctx context.Context, memoryLimitMB int) (*Runtime, error) {
	pages := memoryPages(memoryLimitMB)

	config := wazero.NewRuntimeConfig().WithCompilationCache(sharedCache())
	if pages > 0 {
		config = config.WithMemoryLimitPages(pages)
	}

	wz := wazero.NewRuntimeWithConfig(ctx, config)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, wz); err != nil {
		_ = wz.Close(ctx)
		return nil, fmt.Errorf("sandbox: instantiate WASI: %w", err)
	}

	return &Runtime{wz: wz}, nil
}

func memoryPages(memoryLimitMB int) uint32 {
	switch {
	case memoryLimitMB == unlimitedMemoryLimitMB:
		return 0
	case memoryLimitMB == 0:
		return defaultMemoryLimitMB * pagesPerMB
	case memoryLimitMB < 0:
		return defaultMemoryLimitMB * pagesPerMB
	default:
		return uint32(memoryLimitMB) * pagesPerMB
	}
}

// HostModuleBuilder starts (or returns the in-progress) "env" host module
// builder that boundary bindings register imports on. It must be called,
// and Export'd, before the first plugin is instantiated.
func (r *Runtime) HostModuleBuilder() wazero.HostModuleBuilder {
	if r.host == nil {
		r.host = r.wz.NewHostModuleBuilder("env")
	}
	return r.host
}

// FinalizeHostModule instantiates the accumulated host imports. Call it
// once, after every RegisterImport call and before loading any plugin.
func (r *Runtime) FinalizeHostModule(ctx context.Context) error {
	if r.host == nil {
		return nil
	}
	_, err := r.host.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("sandbox: instantiate host module: %w", err)
	}
	return nil
}

// Compile parses and validates wasmBytes without instantiating them.
func (r *Runtime) Compile(ctx context.Context, wasmBytes []byte) (wazero.CompiledModule, error) {
	compiled, err := r.wz.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("sandbox: compile module: %w", err)
	}
	return compiled, nil
}

// Instantiate creates a long-lived instance of compiled under name. The
// instance persists for the plugin's entire lifetime so guest state
// (globals, linear memory) carries across frames, unlike a fresh instance
// per call.
func (r *Runtime) Instantiate(ctx context.Context, compiled wazero.CompiledModule, name string) (*Instance, error) {
	config := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions(). // skip the implicit _start call; on_init drives init
		WithStdout(nil).
		WithStderr(nil)

	mod, err := r.wz.InstantiateModule(ctx, compiled, config)
	if err != nil {
		return nil, fmt.Errorf("sandbox: instantiate %q: %w", name, err)
	}
	return &Instance{mod: mod}, nil
}

// Close tears down every instance and the underlying wazero.Runtime. It
// does not close the shared compilation cache.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wz.Close(ctx)
}
