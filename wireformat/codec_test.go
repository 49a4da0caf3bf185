package wireformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRoundTrip(t *testing.T) {
	t.Parallel()

	cases := map[string]EngineCommand{
		"log":                 LogCommand{Message: "hello from guest"},
		"spawn primitive":     SpawnPrimitiveCommand{Primitive: PrimitiveCone, X: 1, Y: -2.5, Z: 3, RequestID: 42},
		"despawn entity":      DespawnEntityCommand{EntityID: 7},
		"set position":        SetEntityPositionCommand{EntityID: 7, X: 1, Y: 2, Z: 3},
		"set scale":           SetEntityScaleCommand{EntityID: 7, X: 1, Y: 1, Z: 1},
		"set rotation":        SetEntityRotationCommand{EntityID: 7, X: 0, Y: 0, Z: 0, W: 1},
		"get position":        GetEntityPositionCommand{EntityID: 7, RequestID: 99},
		"get scale":           GetEntityScaleCommand{EntityID: 7, RequestID: 99},
		"get rotation":        GetEntityRotationCommand{EntityID: 7, RequestID: 99},
		"read file":           ReadFileCommand{Path: "textures/crate.png", RequestID: 11},
		"load texture":        LoadTextureCommand{Path: "textures/crate.png", RequestID: 12},
		"load prefab":         LoadPrefabCommand{Path: "models/crate.glb", X: 1, Y: 2, Z: 3, RequestID: 13},
		"set entity material": SetEntityMaterialCommand{EntityID: 7, TextureID: 22},
		"empty log message":   LogCommand{Message: ""},
	}

	for name, cmd := range cases {
		cmd := cmd
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			encoded, err := EncodeCommand(cmd)
			require.NoError(t, err)

			decoded, err := DecodeCommand(encoded)
			require.NoError(t, err)
			assert.Equal(t, cmd, decoded)
		})
	}
}

func TestEventRoundTrip(t *testing.T) {
	t.Parallel()

	cases := map[string]EngineEvent{
		"frame start":           FrameStartEvent{DeltaTime: 0.016, FrameCount: 128},
		"mouse moved":           MouseMovedEvent{X: 400.5, Y: 300.25},
		"key pressed":           KeyPressedEvent{KeyCode: 32},
		"key released":          KeyReleasedEvent{KeyCode: 32},
		"mouse button pressed":  MouseButtonPressedEvent{Button: 0},
		"mouse button released": MouseButtonReleasedEvent{Button: 1},
		"entity spawned":        EntitySpawnedEvent{RequestID: 1, EntityID: 2},
		"entity position":       EntityPositionEvent{RequestID: 1, EntityID: 2, X: 1, Y: 2, Z: 3},
		"entity scale":          EntityScaleEvent{RequestID: 1, EntityID: 2, X: 1, Y: 1, Z: 1},
		"entity rotation":       EntityRotationEvent{RequestID: 1, EntityID: 2, X: 0, Y: 0, Z: 0, W: 1},
		"entity not found":      EntityNotFoundEvent{RequestID: 1, EntityID: 2},
		"file loaded":           FileLoadedEvent{RequestID: 1, Data: []byte{0x01, 0x02, 0x03}},
		"file loaded empty":     FileLoadedEvent{RequestID: 1, Data: []byte{}},
		"file error":            FileErrorEvent{RequestID: 1, Message: "Invalid path: access denied"},
		"texture loaded":        TextureLoadedEvent{RequestID: 1, TextureID: 9},
		"asset error":           AssetErrorEvent{RequestID: 1, Message: "decode failed"},
		"prefab loaded":         PrefabLoadedEvent{RequestID: 1, EntityID: 5},
	}

	for name, evt := range cases {
		evt := evt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			encoded, err := EncodeEvent(evt)
			require.NoError(t, err)

			decoded, err := DecodeEvent(encoded)
			require.NoError(t, err)
			assert.Equal(t, evt, decoded)
		})
	}
}

func TestDecodeCommandRejectsTruncatedPayload(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeCommand(SpawnPrimitiveCommand{Primitive: PrimitiveCube, X: 1, Y: 2, Z: 3, RequestID: 5})
	require.NoError(t, err)

	_, err = DecodeCommand(encoded[:len(encoded)-1])
	assert.Error(t, err)
}

func TestDecodeEventRejectsUnknownTag(t *testing.T) {
	t.Parallel()

	_, err := DecodeEvent([]byte{0xFF})
	assert.Error(t, err)
}

func TestDecodeCommandRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	_, err := DecodeCommand(nil)
	assert.Error(t, err)
}

func TestPrimitiveKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cube", PrimitiveCube.String())
	assert.Equal(t, "cone", PrimitiveCone.String())
	assert.Contains(t, PrimitiveKind(200).String(), "primitive(200)")
}
