// Package world declares the runtime's only dependency on the host 3D
// engine: a narrow set of collaborator interfaces for entity mutation and
// asset import. The runtime is otherwise engine-agnostic; a host
// application supplies a concrete World and PrefabImporter.
package world

import (
	"github.com/hearthforge/pluginrt/internal/domain/handles"
	"github.com/hearthforge/pluginrt/wireformat"
)

// Vec3 is a host-agnostic 3-component vector used for position and scale.
type Vec3 struct {
	X, Y, Z float32
}

// Quat is a host-agnostic scalar-last quaternion.
type Quat struct {
	X, Y, Z, W float32
}

// Mesh is one mesh extracted from an imported prefab asset, ready for
// insertion into the host mesh cache.
type Mesh struct {
	Name string
	Data []byte
}

// Texture is one texture extracted from an imported prefab asset, ready
// for upload by the host.
type Texture struct {
	Name   string
	RGBA   []byte
	Width  int
	Height int
}

// PrefabAsset is the decoded result of a PrefabImporter.Import call.
type PrefabAsset struct {
	Meshes    []Mesh
	Textures  []Texture
	HasPrefab bool
}

// PrefabImporter decodes a glTF (or equivalent) asset's bytes into meshes,
// textures, and an optional prefab root. It performs no host mutation;
// World does that once the asset is decoded.
type PrefabImporter interface {
	Import(data []byte) (PrefabAsset, error)
}

// World is the host 3D scene the runtime mutates on behalf of plugins. A
// host application implements this over its own ECS or scene graph.
type World interface {
	// SpawnPrimitive creates a built-in primitive at pos and returns its
	// host entity.
	SpawnPrimitive(kind wireformat.PrimitiveKind, pos Vec3) handles.HostEntity

	// DespawnEntity recursively destroys entity and its descendants.
	DespawnEntity(entity handles.HostEntity)

	// IsValid reports whether entity still exists in the scene. Used as
	// the handle table's GC predicate; must be O(1).
	IsValid(entity handles.HostEntity) bool

	SetPosition(entity handles.HostEntity, pos Vec3) error
	SetScale(entity handles.HostEntity, scale Vec3) error
	SetRotation(entity handles.HostEntity, rot Quat) error

	Position(entity handles.HostEntity) (Vec3, bool)
	Scale(entity handles.HostEntity) (Vec3, bool)
	Rotation(entity handles.HostEntity) (Quat, bool)

	// InsertMesh adds a decoded mesh to the host mesh cache, keyed by
	// name.
	InsertMesh(name string, data []byte)

	// QueueTextureUpload schedules a decoded RGBA buffer for GPU upload,
	// keyed by name.
	QueueTextureUpload(name string, rgba []byte, width, height int)

	// InstantiatePrefab places asset's prefab root at pos. ok is false if
	// asset carries no prefab.
	InstantiatePrefab(asset PrefabAsset, pos Vec3) (entity handles.HostEntity, ok bool)

	// SetEntityMaterial clones entity's current material, replaces its
	// base-texture reference with textureName, and commits the result.
	SetEntityMaterial(entity handles.HostEntity, textureName string) error
}
