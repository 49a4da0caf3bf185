package world

import (
	"testing"

	"github.com/hearthforge/pluginrt/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSpawnAndDespawn(t *testing.T) {
	t.Parallel()

	w := NewFake()
	entity := w.SpawnPrimitive(wireformat.PrimitiveSphere, Vec3{X: 1, Y: 2, Z: 3})
	assert.True(t, w.IsValid(entity))

	pos, ok := w.Position(entity)
	require.True(t, ok)
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, pos)

	w.DespawnEntity(entity)
	assert.False(t, w.IsValid(entity))
}

func TestFakeSetEntityMaterialFailsWithoutTexture(t *testing.T) {
	t.Parallel()

	w := NewFake()
	entity := w.SpawnPrimitive(wireformat.PrimitiveCube, Vec3{})
	err := w.SetEntityMaterial(entity, "missing.png")
	assert.Error(t, err)
}

func TestFakeSetEntityMaterialSucceedsAfterUpload(t *testing.T) {
	t.Parallel()

	w := NewFake()
	entity := w.SpawnPrimitive(wireformat.PrimitiveCube, Vec3{})
	w.QueueTextureUpload("crate.png", []byte{1, 2, 3}, 2, 2)

	require.NoError(t, w.SetEntityMaterial(entity, "crate.png"))
	name, ok := w.Material(entity)
	require.True(t, ok)
	assert.Equal(t, "crate.png", name)
}

func TestFakeInstantiatePrefabRequiresHasPrefab(t *testing.T) {
	t.Parallel()

	w := NewFake()
	_, ok := w.InstantiatePrefab(PrefabAsset{HasPrefab: false}, Vec3{})
	assert.False(t, ok)

	entity, ok := w.InstantiatePrefab(PrefabAsset{HasPrefab: true}, Vec3{X: 1})
	assert.True(t, ok)
	assert.True(t, w.IsValid(entity))
}
