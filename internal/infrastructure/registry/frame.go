package registry

import (
	"context"

	"github.com/hearthforge/pluginrt/internal/domain/handles"
	"github.com/hearthforge/pluginrt/internal/infrastructure/assets"
	"github.com/hearthforge/pluginrt/wireformat"
)

// QueueInputEvent enqueues a windowing-layer input event (key or mouse
// button transition) for broadcast at the start of the next frame, before
// FrameStart.
func (r *Registry) QueueInputEvent(evt wireformat.EngineEvent) {
	r.pendingInputEvents = append(r.pendingInputEvents, evt)
}

// SetMousePosition records the latest cursor position. RunFrame broadcasts
// MouseMoved only if it differs from the position broadcast last frame.
func (r *Registry) SetMousePosition(x, y float32) {
	r.pendingMouseX, r.pendingMouseY = x, y
}

// RunFrame executes one frame in the fixed seven-step order: drain async
// results, run handle GC on schedule, flush queued input, broadcast
// FrameStart, broadcast MouseMoved if the cursor moved, call on_frame on
// every plugin, then drain and process every outbound command.
func (r *Registry) RunFrame(ctx context.Context, deltaTime float32) {
	for _, env := range r.pipeline.Drain() {
		r.handleAssetEnvelope(ctx, env)
	}

	r.frameCount++
	if r.frameCount%handles.CleanupIntervalFrames == 0 {
		if evicted := r.handles.GC(r.world.IsValid); evicted > 0 {
			r.log.Info("handle table gc swept stale entities", "evicted", evicted, "frame", r.frameCount)
		}
	}

	pending := r.pendingInputEvents
	r.pendingInputEvents = nil
	for _, evt := range pending {
		r.broadcast(ctx, evt)
	}

	r.broadcast(ctx, wireformat.FrameStartEvent{DeltaTime: deltaTime, FrameCount: r.frameCount})

	if !r.lastMouseKnown || r.pendingMouseX != r.lastMouseX || r.pendingMouseY != r.lastMouseY {
		r.broadcast(ctx, wireformat.MouseMovedEvent{X: r.pendingMouseX, Y: r.pendingMouseY})
		r.lastMouseX, r.lastMouseY = r.pendingMouseX, r.pendingMouseY
		r.lastMouseKnown = true
	}

	for _, p := range r.Plugins() {
		if !p.ShouldCallOnFrame() {
			continue
		}
		if err := p.CallOnFrame(ctx); err != nil {
			r.log.Error("on_frame trapped", "plugin", p.Name, "plugin_id", p.ID, "error", err)
			if p.RecordTrap() {
				r.log.Warn("plugin exceeded max consecutive traps, no longer calling it",
					"plugin", p.Name, "plugin_id", p.ID, "max_consecutive_traps", p.MaxConsecutiveTraps())
			}
			continue
		}
		p.RecordSuccess()
	}

	r.processAllCommands(ctx)
}

func (r *Registry) handleAssetEnvelope(ctx context.Context, env assets.Envelope) {
	switch env.Kind {
	case assets.KindReadFile:
		if env.Err != nil {
			r.unicast(ctx, env.PluginID, wireformat.FileErrorEvent{RequestID: env.RequestID, Message: env.Err.Error()})
			return
		}
		r.unicast(ctx, env.PluginID, wireformat.FileLoadedEvent{RequestID: env.RequestID, Data: env.Data})

	case assets.KindLoadTexture:
		if env.Err != nil {
			r.unicast(ctx, env.PluginID, wireformat.AssetErrorEvent{RequestID: env.RequestID, Message: env.Err.Error()})
			return
		}
		r.world.QueueTextureUpload(env.TextureName, env.RGBA, env.Width, env.Height)
		r.mu.Lock()
		r.textureNames[env.TextureID] = env.TextureName
		r.mu.Unlock()
		r.unicast(ctx, env.PluginID, wireformat.TextureLoadedEvent{RequestID: env.RequestID, TextureID: env.TextureID})

	case assets.KindLoadPrefab:
		if env.Err != nil {
			r.unicast(ctx, env.PluginID, wireformat.AssetErrorEvent{RequestID: env.RequestID, Message: env.Err.Error()})
			return
		}
		r.applyPrefabAsset(ctx, env)
	}
}

func (r *Registry) applyPrefabAsset(ctx context.Context, env assets.Envelope) {
	for _, mesh := range env.Asset.Meshes {
		r.world.InsertMesh(mesh.Name, mesh.Data)
	}
	for _, tex := range env.Asset.Textures {
		r.world.QueueTextureUpload(tex.Name, tex.RGBA, tex.Width, tex.Height)
	}

	if !env.Asset.HasPrefab {
		r.unicast(ctx, env.PluginID, wireformat.AssetErrorEvent{RequestID: env.RequestID, Message: "asset contains no prefab"})
		return
	}

	entity, ok := r.world.InstantiatePrefab(env.Asset, env.Position)
	if !ok {
		r.unicast(ctx, env.PluginID, wireformat.AssetErrorEvent{RequestID: env.RequestID, Message: "asset contains no prefab"})
		return
	}

	id := r.handles.Register(entity)
	r.unicast(ctx, env.PluginID, wireformat.PrefabLoadedEvent{RequestID: env.RequestID, EntityID: id})
}
