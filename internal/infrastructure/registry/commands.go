package registry

import (
	"context"

	"github.com/hearthforge/pluginrt/internal/domain/world"
	"github.com/hearthforge/pluginrt/wireformat"
)

// processAllCommands drains every plugin's outbound buffer and processes
// the collected commands in plugin-id order, FIFO within each plugin.
func (r *Registry) processAllCommands(ctx context.Context) {
	for _, p := range r.Plugins() {
		for _, cmd := range p.DrainCommands() {
			r.processCommand(ctx, p.ID, cmd)
		}
	}
}

func (r *Registry) processCommand(ctx context.Context, pluginID uint64, cmd wireformat.EngineCommand) {
	switch c := cmd.(type) {
	case wireformat.LogCommand:
		r.log.Info(c.Message, "plugin_id", pluginID)

	case wireformat.SpawnPrimitiveCommand:
		entity := r.world.SpawnPrimitive(c.Primitive, world.Vec3{X: c.X, Y: c.Y, Z: c.Z})
		id := r.handles.Register(entity)
		r.unicast(ctx, pluginID, wireformat.EntitySpawnedEvent{RequestID: c.RequestID, EntityID: id})

	case wireformat.DespawnEntityCommand:
		entity, ok := r.handles.Lookup(c.EntityID)
		if !ok {
			r.log.Warn("despawn: unknown entity", "plugin_id", pluginID, "entity_id", c.EntityID)
			return
		}
		r.world.DespawnEntity(entity)
		r.handles.Unregister(c.EntityID)

	case wireformat.SetEntityPositionCommand:
		entity, ok := r.handles.Lookup(c.EntityID)
		if !ok {
			r.log.Warn("set position: unknown entity", "plugin_id", pluginID, "entity_id", c.EntityID)
			return
		}
		if err := r.world.SetPosition(entity, world.Vec3{X: c.X, Y: c.Y, Z: c.Z}); err != nil {
			r.log.Warn("set position failed", "plugin_id", pluginID, "entity_id", c.EntityID, "error", err)
		}

	case wireformat.SetEntityScaleCommand:
		entity, ok := r.handles.Lookup(c.EntityID)
		if !ok {
			r.log.Warn("set scale: unknown entity", "plugin_id", pluginID, "entity_id", c.EntityID)
			return
		}
		if err := r.world.SetScale(entity, world.Vec3{X: c.X, Y: c.Y, Z: c.Z}); err != nil {
			r.log.Warn("set scale failed", "plugin_id", pluginID, "entity_id", c.EntityID, "error", err)
		}

	case wireformat.SetEntityRotationCommand:
		entity, ok := r.handles.Lookup(c.EntityID)
		if !ok {
			r.log.Warn("set rotation: unknown entity", "plugin_id", pluginID, "entity_id", c.EntityID)
			return
		}
		if err := r.world.SetRotation(entity, world.Quat{X: c.X, Y: c.Y, Z: c.Z, W: c.W}); err != nil {
			r.log.Warn("set rotation failed", "plugin_id", pluginID, "entity_id", c.EntityID, "error", err)
		}

	case wireformat.GetEntityPositionCommand:
		entity, ok := r.handles.Lookup(c.EntityID)
		if !ok {
			r.unicast(ctx, pluginID, wireformat.EntityNotFoundEvent{RequestID: c.RequestID, EntityID: c.EntityID})
			return
		}
		pos, ok := r.world.Position(entity)
		if !ok {
			r.unicast(ctx, pluginID, wireformat.EntityNotFoundEvent{RequestID: c.RequestID, EntityID: c.EntityID})
			return
		}
		r.unicast(ctx, pluginID, wireformat.EntityPositionEvent{RequestID: c.RequestID, EntityID: c.EntityID, X: pos.X, Y: pos.Y, Z: pos.Z})

	case wireformat.GetEntityScaleCommand:
		entity, ok := r.handles.Lookup(c.EntityID)
		if !ok {
			r.unicast(ctx, pluginID, wireformat.EntityNotFoundEvent{RequestID: c.RequestID, EntityID: c.EntityID})
			return
		}
		scale, ok := r.world.Scale(entity)
		if !ok {
			r.unicast(ctx, pluginID, wireformat.EntityNotFoundEvent{RequestID: c.RequestID, EntityID: c.EntityID})
			return
		}
		r.unicast(ctx, pluginID, wireformat.EntityScaleEvent{RequestID: c.RequestID, EntityID: c.EntityID, X: scale.X, Y: scale.Y, Z: scale.Z})

	case wireformat.GetEntityRotationCommand:
		entity, ok := r.handles.Lookup(c.EntityID)
		if !ok {
			r.unicast(ctx, pluginID, wireformat.EntityNotFoundEvent{RequestID: c.RequestID, EntityID: c.EntityID})
			return
		}
		rot, ok := r.world.Rotation(entity)
		if !ok {
			r.unicast(ctx, pluginID, wireformat.EntityNotFoundEvent{RequestID: c.RequestID, EntityID: c.EntityID})
			return
		}
		r.unicast(ctx, pluginID, wireformat.EntityRotationEvent{RequestID: c.RequestID, EntityID: c.EntityID, X: rot.X, Y: rot.Y, Z: rot.Z, W: rot.W})

	case wireformat.ReadFileCommand:
		resolved, err := r.root.Sanitize(c.Path)
		if err != nil {
			r.unicast(ctx, pluginID, wireformat.FileErrorEvent{RequestID: c.RequestID, Message: "Invalid path: access denied"})
			return
		}
		r.pipeline.SubmitReadFile(ctx, pluginID, c.RequestID, resolved)

	case wireformat.LoadTextureCommand:
		resolved, err := r.root.Sanitize(c.Path)
		if err != nil {
			r.unicast(ctx, pluginID, wireformat.AssetErrorEvent{RequestID: c.RequestID, Message: "Invalid path: access denied"})
			return
		}
		r.mu.Lock()
		r.nextTextureID++
		textureID := r.nextTextureID
		r.mu.Unlock()
		r.pipeline.SubmitLoadTexture(ctx, pluginID, c.RequestID, textureID, resolved, c.Path)

	case wireformat.LoadPrefabCommand:
		resolved, err := r.root.Sanitize(c.Path)
		if err != nil {
			r.unicast(ctx, pluginID, wireformat.AssetErrorEvent{RequestID: c.RequestID, Message: "Invalid path: access denied"})
			return
		}
		r.pipeline.SubmitLoadPrefab(ctx, pluginID, c.RequestID, resolved, world.Vec3{X: c.X, Y: c.Y, Z: c.Z})

	case wireformat.SetEntityMaterialCommand:
		r.setEntityMaterial(pluginID, c)

	default:
		r.log.Warn("unhandled command type", "plugin_id", pluginID, "type", c)
	}
}

func (r *Registry) setEntityMaterial(pluginID uint64, c wireformat.SetEntityMaterialCommand) {
	entity, ok := r.handles.Lookup(c.EntityID)
	if !ok {
		r.log.Warn("set material: unknown entity", "plugin_id", pluginID, "entity_id", c.EntityID)
		return
	}
	r.mu.Lock()
	textureName, ok := r.textureNames[c.TextureID]
	r.mu.Unlock()
	if !ok {
		r.log.Warn("set material: unknown texture", "plugin_id", pluginID, "texture_id", c.TextureID)
		return
	}
	if err := r.world.SetEntityMaterial(entity, textureName); err != nil {
		r.log.Warn("set material failed", "plugin_id", pluginID, "entity_id", c.EntityID, "error", err)
	}
}
