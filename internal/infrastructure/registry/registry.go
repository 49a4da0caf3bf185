// Package registry is the plugin runtime's dispatch core: it loads wasm
// plugins from a directory, drives their lifecycle, and mediates the
// command/event traffic between every plugin and the host world.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/hearthforge/pluginrt/internal/domain/handles"
	"github.com/hearthforge/pluginrt/internal/domain/pathsec"
	"github.com/hearthforge/pluginrt/internal/domain/world"
	"github.com/hearthforge/pluginrt/internal/infrastructure/assets"
	"github.com/hearthforge/pluginrt/internal/infrastructure/customchannel"
	"github.com/hearthforge/pluginrt/internal/infrastructure/pluginrt"
	"github.com/hearthforge/pluginrt/internal/infrastructure/sandbox"
	"github.com/hearthforge/pluginrt/internal/infrastructure/versioning"
	"github.com/hearthforge/pluginrt/wireformat"
)

// Config configures one Registry instance. PluginsDir is the only
// required field.
type Config struct {
	// PluginsDir is scanned non-recursively for *.wasm files, and also
	// serves as the root every guest-supplied file path is sanitized
	// against.
	PluginsDir string

	// MemoryLimitMB caps each plugin's linear memory. 0 applies the
	// 256MB default; -1 is unlimited.
	MemoryLimitMB int

	// MaxConsecutiveTraps, if non-zero, terminates a plugin after this
	// many consecutive per-call failures. 0 (the default) matches the
	// original runtime's behavior of never evicting a trapping plugin.
	MaxConsecutiveTraps int

	// AssetBufferSize sizes the async asset pipeline's results channel.
	AssetBufferSize int

	// AssetWorkerConcurrency caps how many asset jobs one plugin can have
	// in flight at once. 0 lets the asset package apply its own default.
	AssetWorkerConcurrency int
}

func (c Config) withDefaults() Config {
	if c.AssetBufferSize == 0 {
		c.AssetBufferSize = 64
	}
	return c
}

// Registry owns every loaded plugin and drives the frame loop.
type Registry struct {
	cfg Config
	log *slog.Logger

	runtime  *sandbox.Runtime
	world    world.World
	handles  *handles.Table
	root     *pathsec.Root
	pipeline *assets.Pipeline
	channels *customchannel.Layer

	mu            sync.Mutex
	plugins       []*pluginrt.Plugin
	byID          map[uint64]*pluginrt.Plugin
	nextPluginID  uint64
	nextTextureID uint64
	textureNames  map[uint64]string

	frameCount         uint64
	lastMouseKnown     bool
	lastMouseX         float32
	lastMouseY         float32
	pendingMouseX      float32
	pendingMouseY      float32
	pendingInputEvents []wireformat.EngineEvent
}

// New constructs a Registry. The returned Registry's custom channels must
// be registered via RegisterCustomChannel before LoadPluginsFromDirectory
// is called, since the host module is finalized at first load.
func New(ctx context.Context, cfg Config, w world.World, importer world.PrefabImporter, log *slog.Logger) (*Registry, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}

	rt, err := sandbox.NewRuntime(ctx, cfg.MemoryLimitMB)
	if err != nil {
		return nil, fmt.Errorf("registry: create sandbox runtime: %w", err)
	}

	root, err := pathsec.NewRoot(cfg.PluginsDir)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("registry: resolve plugins directory: %w", err)
	}

	r := &Registry{
		cfg:          cfg,
		log:          log,
		runtime:      rt,
		world:        w,
		handles:      handles.NewTable(),
		root:         root,
		pipeline:     assets.NewPipeline(cfg.AssetBufferSize, importer, cfg.AssetWorkerConcurrency),
		channels:     customchannel.NewLayer(),
		byID:         make(map[uint64]*pluginrt.Plugin),
		textureNames: make(map[uint64]string),
	}

	r.registerEngineImport(ctx)
	return r, nil
}

// RegisterCustomChannel declares a host_send_<name>_command import and
// wires it to the custom channel layer. Call it before
// LoadPluginsFromDirectory; it is a no-op once the host module has
// already been finalized.
func (r *Registry) RegisterCustomChannel(ctx context.Context, name string) {
	r.channels.RegisterImport(name)
	r.registerCustomImport(ctx, name)
}

// Channels exposes the custom channel layer so a host application can set
// a dispatch policy or drive game-level dispatch from its own code.
func (r *Registry) Channels() *customchannel.Layer {
	return r.channels
}

// LoadPluginsFromDirectory enumerates dir's direct *.wasm entries and
// loads each. A missing directory is a no-op success; a per-file load
// failure is logged and the batch continues.
func (r *Registry) LoadPluginsFromDirectory(ctx context.Context) error {
	if err := r.runtime.FinalizeHostModule(ctx); err != nil {
		return err
	}

	entries, err := os.ReadDir(r.cfg.PluginsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("registry: read plugins directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".wasm" {
			continue
		}
		path := filepath.Join(r.cfg.PluginsDir, entry.Name())
		if err := r.loadOne(ctx, path); err != nil {
			r.log.Warn("failed to load plugin", "path", path, "error", err)
		}
	}
	return nil
}

func (r *Registry) loadOne(ctx context.Context, path string) error {
	if _, _, err := loadManifest(path); err != nil {
		return err
	}

	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	compiled, err := r.runtime.Compile(ctx, wasmBytes)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	r.mu.Lock()
	r.nextPluginID++
	id := r.nextPluginID
	r.mu.Unlock()

	instance, err := r.runtime.Instantiate(ctx, compiled, strconv.FormatUint(id, 10))
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}

	plugin := pluginrt.New(id, filepath.Base(path), instance, r.channels.ChannelNames(), r.cfg.MaxConsecutiveTraps)

	if packed, ok, err := plugin.WireSchemaVersion(ctx); err != nil {
		_ = plugin.Close(ctx)
		return fmt.Errorf("query wire schema version: %w", err)
	} else if ok {
		if err := versioning.CheckCompatible(packed); err != nil {
			_ = plugin.Close(ctx)
			return fmt.Errorf("incompatible plugin: %w", err)
		}
	}

	r.mu.Lock()
	r.plugins = append(r.plugins, plugin)
	r.byID[id] = plugin
	r.mu.Unlock()

	return nil
}

// CallOnInit calls on_init on every loaded plugin that exports it,
// advancing each plugin that has not failed from Loaded to Initialized,
// then drains and processes the resulting commands and advances every
// Initialized plugin to Running.
func (r *Registry) CallOnInit(ctx context.Context) {
	for _, p := range r.plugins {
		if p.State() == pluginrt.Failed {
			continue
		}
		if !p.HasOnInit() {
			p.SetState(pluginrt.Initialized)
			continue
		}
		if err := p.CallOnInit(ctx); err != nil {
			r.log.Error("on_init trapped", "plugin", p.Name, "plugin_id", p.ID, "error", err)
			if p.RecordTrap() {
				r.log.Warn("plugin exceeded max consecutive traps, no longer calling it",
					"plugin", p.Name, "plugin_id", p.ID, "max_consecutive_traps", p.MaxConsecutiveTraps())
				continue
			}
		} else {
			p.RecordSuccess()
		}
		p.SetState(pluginrt.Initialized)
	}
	r.processAllCommands(ctx)
	for _, p := range r.plugins {
		if p.State() == pluginrt.Initialized {
			p.SetState(pluginrt.Running)
		}
	}
}

// Plugins returns every loaded plugin, in plugin-id order.
func (r *Registry) Plugins() []*pluginrt.Plugin {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*pluginrt.Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// Close releases every plugin instance and the sandbox runtime.
func (r *Registry) Close(ctx context.Context) error {
	_ = r.pipeline.Close()
	for _, p := range r.plugins {
		if err := p.Close(ctx); err != nil {
			r.log.Warn("failed to close plugin", "plugin", p.Name, "error", err)
		}
	}
	return r.runtime.Close(ctx)
}
