package wireformat

import "fmt"

// PrimitiveKind enumerates the built-in primitive shapes a guest can ask
// the host world to spawn.
type PrimitiveKind uint8

const (
	PrimitiveCube PrimitiveKind = iota
	PrimitiveSphere
	PrimitiveCylinder
	PrimitivePlane
	PrimitiveCone
)

func (p PrimitiveKind) String() string {
	switch p {
	case PrimitiveCube:
		return "cube"
	case PrimitiveSphere:
		return "sphere"
	case PrimitiveCylinder:
		return "cylinder"
	case PrimitivePlane:
		return "plane"
	case PrimitiveCone:
		return "cone"
	default:
		return fmt.Sprintf("primitive(%d)", uint8(p))
	}
}

type commandTag uint8

const (
	tagLog commandTag = iota
	tagSpawnPrimitive
	tagDespawnEntity
	tagSetEntityPosition
	tagSetEntityScale
	tagSetEntityRotation
	tagGetEntityPosition
	tagGetEntityScale
	tagGetEntityRotation
	tagReadFile
	tagLoadTexture
	tagLoadPrefab
	tagSetEntityMaterial
)

// EngineCommand is a message sent from guest to host. Concrete variants are
// the Command-suffixed types in this file.
type EngineCommand interface {
	commandTag() commandTag
}

// LogCommand asks the host to emit Message through its logger, tagged with
// the sending plugin's id.
type LogCommand struct {
	Message string
}

func (LogCommand) commandTag() commandTag { return tagLog }

// SpawnPrimitiveCommand asks the host to spawn a built-in primitive at
// (X, Y, Z). RequestID is echoed back on the matching EntitySpawned event.
type SpawnPrimitiveCommand struct {
	Primitive PrimitiveKind
	X, Y, Z   float32
	RequestID uint64
}

func (SpawnPrimitiveCommand) commandTag() commandTag { return tagSpawnPrimitive }

// DespawnEntityCommand asks the host to recursively despawn EntityID.
type DespawnEntityCommand struct {
	EntityID uint64
}

func (DespawnEntityCommand) commandTag() commandTag { return tagDespawnEntity }

// SetEntityPositionCommand overwrites an entity's local position.
type SetEntityPositionCommand struct {
	EntityID uint64
	X, Y, Z  float32
}

func (SetEntityPositionCommand) commandTag() commandTag { return tagSetEntityPosition }

// SetEntityScaleCommand overwrites an entity's local scale.
type SetEntityScaleCommand struct {
	EntityID uint64
	X, Y, Z  float32
}

func (SetEntityScaleCommand) commandTag() commandTag { return tagSetEntityScale }

// SetEntityRotationCommand overwrites an entity's local rotation. The
// quaternion is scalar-last on the wire: {X, Y, Z, W}.
type SetEntityRotationCommand struct {
	EntityID   uint64
	X, Y, Z, W float32
}

func (SetEntityRotationCommand) commandTag() commandTag { return tagSetEntityRotation }

// GetEntityPositionCommand requests an entity's current position. The host
// replies with EntityPositionEvent or EntityNotFoundEvent, both carrying
// RequestID.
type GetEntityPositionCommand struct {
	EntityID  uint64
	RequestID uint64
}

func (GetEntityPositionCommand) commandTag() commandTag { return tagGetEntityPosition }

// GetEntityScaleCommand requests an entity's current scale.
type GetEntityScaleCommand struct {
	EntityID  uint64
	RequestID uint64
}

func (GetEntityScaleCommand) commandTag() commandTag { return tagGetEntityScale }

// GetEntityRotationCommand requests an entity's current rotation.
type GetEntityRotationCommand struct {
	EntityID  uint64
	RequestID uint64
}

func (GetEntityRotationCommand) commandTag() commandTag { return tagGetEntityRotation }

// ReadFileCommand asks the host to read Path, sanitized against the
// plugins directory, and reply FileLoadedEvent or FileErrorEvent.
type ReadFileCommand struct {
	Path      string
	RequestID uint64
}

func (ReadFileCommand) commandTag() commandTag { return tagReadFile }

// LoadTextureCommand asks the host to decode the image at Path and reply
// TextureLoadedEvent or AssetErrorEvent.
type LoadTextureCommand struct {
	Path      string
	RequestID uint64
}

func (LoadTextureCommand) commandTag() commandTag { return tagLoadTexture }

// LoadPrefabCommand asks the host to import the glTF asset at Path and
// instantiate its first prefab, if any, at (X, Y, Z). Replies
// PrefabLoadedEvent or AssetErrorEvent.
type LoadPrefabCommand struct {
	Path      string
	X, Y, Z   float32
	RequestID uint64
}

func (LoadPrefabCommand) commandTag() commandTag { return tagLoadPrefab }

// SetEntityMaterialCommand replaces EntityID's base-texture reference with
// TextureID's cached texture.
type SetEntityMaterialCommand struct {
	EntityID  uint64
	TextureID uint64
}

func (SetEntityMaterialCommand) commandTag() commandTag { return tagSetEntityMaterial }

// EncodeCommand serializes cmd into the binary tagged-variant format.
func EncodeCommand(cmd EngineCommand) ([]byte, error) {
	switch c := cmd.(type) {
	case LogCommand:
		w := newBinWriter(uint8(tagLog))
		w.str(c.Message)
		return w.bytesOut(), nil

	case SpawnPrimitiveCommand:
		w := newBinWriter(uint8(tagSpawnPrimitive))
		w.byte(uint8(c.Primitive))
		w.f32(c.X)
		w.f32(c.Y)
		w.f32(c.Z)
		w.u64(c.RequestID)
		return w.bytesOut(), nil

	case DespawnEntityCommand:
		w := newBinWriter(uint8(tagDespawnEntity))
		w.u64(c.EntityID)
		return w.bytesOut(), nil

	case SetEntityPositionCommand:
		w := newBinWriter(uint8(tagSetEntityPosition))
		w.u64(c.EntityID)
		w.f32(c.X)
		w.f32(c.Y)
		w.f32(c.Z)
		return w.bytesOut(), nil

	case SetEntityScaleCommand:
		w := newBinWriter(uint8(tagSetEntityScale))
		w.u64(c.EntityID)
		w.f32(c.X)
		w.f32(c.Y)
		w.f32(c.Z)
		return w.bytesOut(), nil

	case SetEntityRotationCommand:
		w := newBinWriter(uint8(tagSetEntityRotation))
		w.u64(c.EntityID)
		w.f32(c.X)
		w.f32(c.Y)
		w.f32(c.Z)
		w.f32(c.W)
		return w.bytesOut(), nil

	case GetEntityPositionCommand:
		w := newBinWriter(uint8(tagGetEntityPosition))
		w.u64(c.EntityID)
		w.u64(c.RequestID)
		return w.bytesOut(), nil

	case GetEntityScaleCommand:
		w := newBinWriter(uint8(tagGetEntityScale))
		w.u64(c.EntityID)
		w.u64(c.RequestID)
		return w.bytesOut(), nil

	case GetEntityRotationCommand:
		w := newBinWriter(uint8(tagGetEntityRotation))
		w.u64(c.EntityID)
		w.u64(c.RequestID)
		return w.bytesOut(), nil

	case ReadFileCommand:
		w := newBinWriter(uint8(tagReadFile))
		w.str(c.Path)
		w.u64(c.RequestID)
		return w.bytesOut(), nil

	case LoadTextureCommand:
		w := newBinWriter(uint8(tagLoadTexture))
		w.str(c.Path)
		w.u64(c.RequestID)
		return w.bytesOut(), nil

	case LoadPrefabCommand:
		w := newBinWriter(uint8(tagLoadPrefab))
		w.str(c.Path)
		w.f32(c.X)
		w.f32(c.Y)
		w.f32(c.Z)
		w.u64(c.RequestID)
		return w.bytesOut(), nil

	case SetEntityMaterialCommand:
		w := newBinWriter(uint8(tagSetEntityMaterial))
		w.u64(c.EntityID)
		w.u64(c.TextureID)
		return w.bytesOut(), nil

	default:
		return nil, fmt.Errorf("wireformat: unknown command type %T", cmd)
	}
}

// DecodeCommand parses data, previously produced by EncodeCommand, back
// into its concrete EngineCommand variant.
func DecodeCommand(data []byte) (EngineCommand, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("wireformat: empty command payload")
	}
	tag := commandTag(data[0])
	r := newBinReader(data[1:])

	switch tag {
	case tagLog:
		msg, err := r.str()
		if err != nil {
			return nil, err
		}
		return LogCommand{Message: msg}, nil

	case tagSpawnPrimitive:
		kind, err := r.byte()
		if err != nil {
			return nil, err
		}
		x, err := r.f32()
		if err != nil {
			return nil, err
		}
		y, err := r.f32()
		if err != nil {
			return nil, err
		}
		z, err := r.f32()
		if err != nil {
			return nil, err
		}
		reqID, err := r.u64()
		if err != nil {
			return nil, err
		}
		return SpawnPrimitiveCommand{Primitive: PrimitiveKind(kind), X: x, Y: y, Z: z, RequestID: reqID}, nil

	case tagDespawnEntity:
		id, err := r.u64()
		if err != nil {
			return nil, err
		}
		return DespawnEntityCommand{EntityID: id}, nil

	case tagSetEntityPosition:
		id, err := r.u64()
		if err != nil {
			return nil, err
		}
		x, y, z, err := r.vec3()
		if err != nil {
			return nil, err
		}
		return SetEntityPositionCommand{EntityID: id, X: x, Y: y, Z: z}, nil

	case tagSetEntityScale:
		id, err := r.u64()
		if err != nil {
			return nil, err
		}
		x, y, z, err := r.vec3()
		if err != nil {
			return nil, err
		}
		return SetEntityScaleCommand{EntityID: id, X: x, Y: y, Z: z}, nil

	case tagSetEntityRotation:
		id, err := r.u64()
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
		return SetEntityRotationCommand{EntityID: id, X: x, Y: y, Z: z, W: w}, nil

	case tagGetEntityPosition:
		id, reqID, err := r.idAndRequest()
		if err != nil {
			return nil, err
		}
		return GetEntityPositionCommand{EntityID: id, RequestID: reqID}, nil

	case tagGetEntityScale:
		id, reqID, err := r.idAndRequest()
		if err != nil {
			return nil, err
		}
		return GetEntityScaleCommand{EntityID: id, RequestID: reqID}, nil

	case tagGetEntityRotation:
		id, reqID, err := r.idAndRequest()
		if err != nil {
			return nil, err
		}
		return GetEntityRotationCommand{EntityID: id, RequestID: reqID}, nil

	case tagReadFile:
		path, reqID, err := r.pathAndRequest()
		if err != nil {
			return nil, err
		}
		return ReadFileCommand{Path: path, RequestID: reqID}, nil

	case tagLoadTexture:
		path, reqID, err := r.pathAndRequest()
		if err != nil {
			return nil, err
		}
		return LoadTextureCommand{Path: path, RequestID: reqID}, nil

	case tagLoadPrefab:
		path, err := r.str()
		if err != nil {
			return nil, err
		}
		x, y, z, err := r.vec3()
		if err != nil {
			return nil, err
		}
		reqID, err := r.u64()
		if err != nil {
			return nil, err
		}
		return LoadPrefabCommand{Path: path, X: x, Y: y, Z: z, RequestID: reqID}, nil

	case tagSetEntityMaterial:
		entityID, err := r.u64()
		if err != nil {
			return nil, err
		}
		textureID, err := r.u64()
		if err != nil {
			return nil, err
		}
		return SetEntityMaterialCommand{EntityID: entityID, TextureID: textureID}, nil

	default:
		return nil, fmt.Errorf("wireformat: unknown command tag %d", tag)
	}
}

func (r *binReader) vec3() (x, y, z float32, err error) {
	if x, err = r.f32(); err != nil {
		return
	}
	if y, err = r.f32(); err != nil {
		return
	}
	z, err = r.f32()
	return
}

func (r *binReader) idAndRequest() (id, requestID uint64, err error) {
	if id, err = r.u64(); err != nil {
		return
	}
	requestID, err = r.u64()
	return
}

func (r *binReader) pathAndRequest() (path string, requestID uint64, err error) {
	if path, err = r.str(); err != nil {
		return
	}
	requestID, err = r.u64()
	return
}
