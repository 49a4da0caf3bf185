package world

import (
	"fmt"

	"github.com/hearthforge/pluginrt/internal/domain/handles"
	"github.com/hearthforge/pluginrt/wireformat"
)

// Fake is an in-memory World and PrefabImporter usable by unit tests that
// don't need a real host engine.
type Fake struct {
	next      uint64
	alive     map[handles.HostEntity]bool
	positions map[handles.HostEntity]Vec3
	scales    map[handles.HostEntity]Vec3
	rotations map[handles.HostEntity]Quat
	materials map[handles.HostEntity]string
	meshes    map[string][]byte
	textures  map[string]Texture

	// ImportFunc, when set, backs Import. Otherwise Import returns an
	// asset with HasPrefab false.
	ImportFunc func(data []byte) (PrefabAsset, error)
}

// NewFake returns an empty Fake world.
func NewFake() *Fake {
	return &Fake{
		alive:     make(map[handles.HostEntity]bool),
		positions: make(map[handles.HostEntity]Vec3),
		scales:    make(map[handles.HostEntity]Vec3),
		rotations: make(map[handles.HostEntity]Quat),
		materials: make(map[handles.HostEntity]string),
		meshes:    make(map[string][]byte),
		textures:  make(map[string]Texture),
	}
}

func (f *Fake) SpawnPrimitive(kind wireformat.PrimitiveKind, pos Vec3) handles.HostEntity {
	f.next++
	entity := handles.HostEntity(f.next)
	f.alive[entity] = true
	f.positions[entity] = pos
	f.scales[entity] = Vec3{X: 1, Y: 1, Z: 1}
	f.rotations[entity] = Quat{W: 1}
	return entity
}

func (f *Fake) DespawnEntity(entity handles.HostEntity) {
	delete(f.alive, entity)
	delete(f.positions, entity)
	delete(f.scales, entity)
	delete(f.rotations, entity)
	delete(f.materials, entity)
}

func (f *Fake) IsValid(entity handles.HostEntity) bool {
	return f.alive[entity]
}

func (f *Fake) SetPosition(entity handles.HostEntity, pos Vec3) error {
	if !f.alive[entity] {
		return fmt.Errorf("world: unknown entity %d", entity)
	}
	f.positions[entity] = pos
	return nil
}

func (f *Fake) SetScale(entity handles.HostEntity, scale Vec3) error {
	if !f.alive[entity] {
		return fmt.Errorf("world: unknown entity %d", entity)
	}
	f.scales[entity] = scale
	return nil
}

func (f *Fake) SetRotation(entity handles.HostEntity, rot Quat) error {
	if !f.alive[entity] {
		return fmt.Errorf("world: unknown entity %d", entity)
	}
	f.rotations[entity] = rot
	return nil
}

func (f *Fake) Position(entity handles.HostEntity) (Vec3, bool) {
	v, ok := f.positions[entity]
	return v, ok
}

func (f *Fake) Scale(entity handles.HostEntity) (Vec3, bool) {
	v, ok := f.scales[entity]
	return v, ok
}

func (f *Fake) Rotation(entity handles.HostEntity) (Quat, bool) {
	v, ok := f.rotations[entity]
	return v, ok
}

func (f *Fake) InsertMesh(name string, data []byte) {
	f.meshes[name] = data
}

func (f *Fake) QueueTextureUpload(name string, rgba []byte, width, height int) {
	f.textures[name] = Texture{Name: name, RGBA: rgba, Width: width, Height: height}
}

func (f *Fake) InstantiatePrefab(asset PrefabAsset, pos Vec3) (handles.HostEntity, bool) {
	if !asset.HasPrefab {
		return 0, false
	}
	return f.SpawnPrimitive(wireformat.PrimitiveCube, pos), true
}

func (f *Fake) SetEntityMaterial(entity handles.HostEntity, textureName string) error {
	if !f.alive[entity] {
		return fmt.Errorf("world: unknown entity %d", entity)
	}
	if _, ok := f.textures[textureName]; !ok {
		return fmt.Errorf("world: unknown texture %q", textureName)
	}
	f.materials[entity] = textureName
	return nil
}

// Import implements PrefabImporter by delegating to ImportFunc, or
// returning an empty non-prefab asset if unset.
func (f *Fake) Import(data []byte) (PrefabAsset, error) {
	if f.ImportFunc != nil {
		return f.ImportFunc(data)
	}
	return PrefabAsset{}, nil
}

// Material reports the texture name currently assigned to entity's
// material, for test assertions.
func (f *Fake) Material(entity handles.HostEntity) (string, bool) {
	name, ok := f.materials[entity]
	return name, ok
}

// MeshNames reports every mesh name inserted so far, for test assertions.
func (f *Fake) MeshNames() []string {
	names := make([]string, 0, len(f.meshes))
	for name := range f.meshes {
		names = append(names, name)
	}
	return names
}
