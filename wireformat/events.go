package wireformat

import "fmt"

type eventTag uint8

const (
	tagFrameStart eventTag = iota
	tagMouseMoved
	tagKeyPressed
	tagKeyReleased
	tagMouseButtonPressed
	tagMouseButtonReleased
	tagEntitySpawned
	tagEntityPosition
	tagEntityScale
	tagEntityRotation
	tagEntityNotFound
	tagFileLoaded
	tagFileError
	tagTextureLoaded
	tagAssetError
	tagPrefabLoaded
)

// EngineEvent is a message sent from host to guest. Concrete variants are
// the Event-suffixed types in this file.
type EngineEvent interface {
	eventTag() eventTag
}

// FrameStartEvent is broadcast once per frame before on_frame runs.
type FrameStartEvent struct {
	DeltaTime  float32
	FrameCount uint64
}

func (FrameStartEvent) eventTag() eventTag { return tagFrameStart }

// MouseMovedEvent is broadcast when the cursor position changed since the
// previous frame.
type MouseMovedEvent struct {
	X, Y float32
}

func (MouseMovedEvent) eventTag() eventTag { return tagMouseMoved }

// KeyPressedEvent is broadcast for a key-down transition.
type KeyPressedEvent struct {
	KeyCode uint32
}

func (KeyPressedEvent) eventTag() eventTag { return tagKeyPressed }

// KeyReleasedEvent is broadcast for a key-up transition.
type KeyReleasedEvent struct {
	KeyCode uint32
}

func (KeyReleasedEvent) eventTag() eventTag { return tagKeyReleased }

// MouseButtonPressedEvent is broadcast for a mouse-button-down transition.
// Button follows the encoding Left=0, Right=1, Middle=2, Back=3, Forward=4,
// any other native button = 5 + native id.
type MouseButtonPressedEvent struct {
	Button uint32
}

func (MouseButtonPressedEvent) eventTag() eventTag { return tagMouseButtonPressed }

// MouseButtonReleasedEvent is broadcast for a mouse-button-up transition.
type MouseButtonReleasedEvent struct {
	Button uint32
}

func (MouseButtonReleasedEvent) eventTag() eventTag { return tagMouseButtonReleased }

// EntitySpawnedEvent replies to SpawnPrimitiveCommand.
type EntitySpawnedEvent struct {
	RequestID uint64
	EntityID  uint64
}

func (EntitySpawnedEvent) eventTag() eventTag { return tagEntitySpawned }

// EntityPositionEvent replies to GetEntityPositionCommand.
type EntityPositionEvent struct {
	RequestID uint64
	EntityID  uint64
	X, Y, Z   float32
}

func (EntityPositionEvent) eventTag() eventTag { return tagEntityPosition }

// EntityScaleEvent replies to GetEntityScaleCommand.
type EntityScaleEvent struct {
	RequestID uint64
	EntityID  uint64
	X, Y, Z   float32
}

func (EntityScaleEvent) eventTag() eventTag { return tagEntityScale }

// EntityRotationEvent replies to GetEntityRotationCommand. The quaternion
// is scalar-last on the wire: {X, Y, Z, W}.
type EntityRotationEvent struct {
	RequestID  uint64
	EntityID   uint64
	X, Y, Z, W float32
}

func (EntityRotationEvent) eventTag() eventTag { return tagEntityRotation }

// EntityNotFoundEvent replies to a GetEntityPosition, GetEntityScale, or
// GetEntityRotation command whose EntityID no longer resolves in the
// handle table or in the host world.
type EntityNotFoundEvent struct {
	RequestID uint64
	EntityID  uint64
}

func (EntityNotFoundEvent) eventTag() eventTag { return tagEntityNotFound }

// FileLoadedEvent replies to ReadFileCommand on success.
type FileLoadedEvent struct {
	RequestID uint64
	Data      []byte
}

func (FileLoadedEvent) eventTag() eventTag { return tagFileLoaded }

// FileErrorEvent replies to ReadFileCommand on failure.
type FileErrorEvent struct {
	RequestID uint64
	Message   string
}

func (FileErrorEvent) eventTag() eventTag { return tagFileError }

// TextureLoadedEvent replies to LoadTextureCommand on success.
type TextureLoadedEvent struct {
	RequestID uint64
	TextureID uint64
}

func (TextureLoadedEvent) eventTag() eventTag { return tagTextureLoaded }

// AssetErrorEvent replies to LoadTextureCommand or LoadPrefabCommand on
// failure, including when the path fails sanitization.
type AssetErrorEvent struct {
	RequestID uint64
	Message   string
}

func (AssetErrorEvent) eventTag() eventTag { return tagAssetError }

// PrefabLoadedEvent replies to LoadPrefabCommand on success, carrying the
// handle of the instantiated root entity.
type PrefabLoadedEvent struct {
	RequestID uint64
	EntityID  uint64
}

func (PrefabLoadedEvent) eventTag() eventTag { return tagPrefabLoaded }

// EncodeEvent serializes evt into the binary tagged-variant format.
func EncodeEvent(evt EngineEvent) ([]byte, error) {
	switch e := evt.(type) {
	case FrameStartEvent:
		w := newBinWriter(uint8(tagFrameStart))
		w.f32(e.DeltaTime)
		w.u64(e.FrameCount)
		return w.bytesOut(), nil

	case MouseMovedEvent:
		w := newBinWriter(uint8(tagMouseMoved))
		w.f32(e.X)
		w.f32(e.Y)
		return w.bytesOut(), nil

	case KeyPressedEvent:
		w := newBinWriter(uint8(tagKeyPressed))
		w.u32(e.KeyCode)
		return w.bytesOut(), nil

	case KeyReleasedEvent:
		w := newBinWriter(uint8(tagKeyReleased))
		w.u32(e.KeyCode)
		return w.bytesOut(), nil

	case MouseButtonPressedEvent:
		w := newBinWriter(uint8(tagMouseButtonPressed))
		w.u32(e.Button)
		return w.bytesOut(), nil

	case MouseButtonReleasedEvent:
		w := newBinWriter(uint8(tagMouseButtonReleased))
		w.u32(e.Button)
		return w.bytesOut(), nil

	case EntitySpawnedEvent:
		w := newBinWriter(uint8(tagEntitySpawned))
		w.u64(e.RequestID)
		w.u64(e.EntityID)
		return w.bytesOut(), nil

	case EntityPositionEvent:
		w := newBinWriter(uint8(tagEntityPosition))
		w.u64(e.RequestID)
		w.u64(e.EntityID)
		w.f32(e.X)
		w.f32(e.Y)
		w.f32(e.Z)
		return w.bytesOut(), nil

	case EntityScaleEvent:
		w := newBinWriter(uint8(tagEntityScale))
		w.u64(e.RequestID)
		w.u64(e.EntityID)
		w.f32(e.X)
		w.f32(e.Y)
		w.f32(e.Z)
		return w.bytesOut(), nil

	case EntityRotationEvent:
		w := newBinWriter(uint8(tagEntityRotation))
		w.u64(e.RequestID)
		w.u64(e.EntityID)
		w.f32(e.X)
		w.f32(e.Y)
		w.f32(e.Z)
		w.f32(e.W)
		return w.bytesOut(), nil

	case EntityNotFoundEvent:
		w := newBinWriter(uint8(tagEntityNotFound))
		w.u64(e.RequestID)
		w.u64(e.EntityID)
		return w.bytesOut(), nil

	case FileLoadedEvent:
		w := newBinWriter(uint8(tagFileLoaded))
		w.u64(e.RequestID)
		w.bytes(e.Data)
		return w.bytesOut(), nil

	case FileErrorEvent:
		w := newBinWriter(uint8(tagFileError))
		w.u64(e.RequestID)
		w.str(e.Message)
		return w.bytesOut(), nil

	case TextureLoadedEvent:
		w := newBinWriter(uint8(tagTextureLoaded))
		w.u64(e.RequestID)
		w.u64(e.TextureID)
		return w.bytesOut(), nil

	case AssetErrorEvent:
		w := newBinWriter(uint8(tagAssetError))
		w.u64(e.RequestID)
		w.str(e.Message)
		return w.bytesOut(), nil

	case PrefabLoadedEvent:
		w := newBinWriter(uint8(tagPrefabLoaded))
		w.u64(e.RequestID)
		w.u64(e.EntityID)
		return w.bytesOut(), nil

	default:
		return nil, fmt.Errorf("wireformat: unknown event type %T", evt)
	}
}

// DecodeEvent parses data, previously produced by EncodeEvent, back into
// its concrete EngineEvent variant.
func DecodeEvent(data []byte) (EngineEvent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("wireformat: empty event payload")
	}
	tag := eventTag(data[0])
	r := newBinReader(data[1:])

	switch tag {
	case tagFrameStart:
		dt, err := r.f32()
		if err != nil {
			return nil, err
		}
		fc, err := r.u64()
		if err != nil {
			return nil, err
		}
		return FrameStartEvent{DeltaTime: dt, FrameCount: fc}, nil

	case tagMouseMoved:
		x, err := r.f32()
		if err != nil {
			return nil, err
		}
		y, err := r.f32()
		if err != nil {
			return nil, err
		}
		return MouseMovedEvent{X: x, Y: y}, nil

	case tagKeyPressed:
		code, err := r.u32()
		if err != nil {
			return nil, err
		}
		return KeyPressedEvent{KeyCode: code}, nil

	case tagKeyReleased:
		code, err := r.u32()
		if err != nil {
			return nil, err
		}
		return KeyReleasedEvent{KeyCode: code}, nil

	case tagMouseButtonPressed:
		button, err := r.u32()
		if err != nil {
			return nil, err
		}
		return MouseButtonPressedEvent{Button: button}, nil

	case tagMouseButtonReleased:
		button, err := r.u32()
		if err != nil {
			return nil, err
		}
		return MouseButtonReleasedEvent{Button: button}, nil

	case tagEntitySpawned:
		reqID, entityID, err := r.requestAndEntity()
		if err != nil {
			return nil, err
		}
		return EntitySpawnedEvent{RequestID: reqID, EntityID: entityID}, nil

	case tagEntityPosition:
		reqID, entityID, err := r.requestAndEntity()
		if err != nil {
			return nil, err
		}
		x, y, z, err := r.vec3()
		if err != nil {
			return nil, err
		}
		return EntityPositionEvent{RequestID: reqID, EntityID: entityID, X: x, Y: y, Z: z}, nil

	case tagEntityScale:
		reqID, entityID, err := r.requestAndEntity()
		if err != nil {
			return nil, err
		}
		x, y, z, err := r.vec3()
		if err != nil {
			return nil, err
		}
		return EntityScaleEvent{RequestID: reqID, EntityID: entityID, X: x, Y: y, Z: z}, nil

	case tagEntityRotation:
		reqID, entityID, err := r.requestAndEntity()
		if err != nil {
			return nil, err
		}
		x, y, z, err := r.vec3()
		if err != nil {
			return nil, err
		}
		w, err := r.f32()
		if err != nil {
			return nil, err
		}
		return EntityRotationEvent{RequestID: reqID, EntityID: entityID, X: x, Y: y, Z: z, W: w}, nil

	case tagEntityNotFound:
		reqID, entityID, err := r.requestAndEntity()
		if err != nil {
			return nil, err
		}
		return EntityNotFoundEvent{RequestID: reqID, EntityID: entityID}, nil

	case tagFileLoaded:
		reqID, err := r.u64()
		if err != nil {
			return nil, err
		}
		data, err := r.bytes()
		if err != nil {
			return nil, err
		}
		return FileLoadedEvent{RequestID: reqID, Data: data}, nil

	case tagFileError:
		reqID, msg, err := r.requestAndMessage()
		if err != nil {
			return nil, err
		}
		return FileErrorEvent{RequestID: reqID, Message: msg}, nil

	case tagTextureLoaded:
		reqID, err := r.u64()
		if err != nil {
			return nil, err
		}
		textureID, err := r.u64()
		if err != nil {
			return nil, err
		}
		return TextureLoadedEvent{RequestID: reqID, TextureID: textureID}, nil

	case tagAssetError:
		reqID, msg, err := r.requestAndMessage()
		if err != nil {
			return nil, err
		}
		return AssetErrorEvent{RequestID: reqID, Message: msg}, nil

	case tagPrefabLoaded:
		reqID, entityID, err := r.requestAndEntity()
		if err != nil {
			return nil, err
		}
		return PrefabLoadedEvent{RequestID: reqID, EntityID: entityID}, nil

	default:
		return nil, fmt.Errorf("wireformat: unknown event tag %d", tag)
	}
}

func (r *binReader) requestAndEntity() (requestID, entityID uint64, err error) {
	if requestID, err = r.u64(); err != nil {
		return
	}
	entityID, err = r.u64()
	return
}

func (r *binReader) requestAndMessage() (requestID uint64, message string, err error) {
	if requestID, err = r.u64(); err != nil {
		return
	}
	message, err = r.str()
	return
}
