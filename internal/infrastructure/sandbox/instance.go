package sandbox

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Instance wraps one long-lived api.Module and provides bounds-checked
// memory access plus panic-safe calls into the guest's typed exports.
type Instance struct {
	mod api.Module
}

// Close releases the instance.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

// ExportedFunction looks up a guest export by name. ok is false if the
// guest does not define it.
func (i *Instance) ExportedFunction(name string) (api.Function, bool) {
	fn := i.mod.ExportedFunction(name)
	return fn, fn != nil
}

// ReadMemory copies len bytes starting at ptr out of the guest's linear
// memory, bounds-checked.
func (i *Instance) ReadMemory(ptr, size uint32) ([]byte, error) {
	buf, ok := i.mod.Memory().Read(ptr, size)
	if !ok {
		return nil, fmt.Errorf("sandbox: out-of-bounds memory read at %d, len %d", ptr, size)
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// WriteMemory writes data into the guest's linear memory at ptr,
// bounds-checked.
func (i *Instance) WriteMemory(ptr uint32, data []byte) error {
	if !i.mod.Memory().Write(ptr, data) {
		return fmt.Errorf("sandbox: out-of-bounds memory write at %d, len %d", ptr, len(data))
	}
	return nil
}

// CallVoid invokes a no-arg, no-return export. A guest trap, or a panic
// recovered from the call machinery itself, is reported as an error; it
// never crashes the host.
func (i *Instance) CallVoid(ctx context.Context, fn api.Function) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sandbox: recovered panic calling guest function: %v", r)
		}
	}()
	_, err = fn.Call(ctx)
	if err != nil {
		return fmt.Errorf("sandbox: guest call trapped: %w", err)
	}
	return nil
}

// CallU32ReturnU32 invokes a u32 -> u32 export such as plugin_alloc.
func (i *Instance) CallU32ReturnU32(ctx context.Context, fn api.Function, arg uint32) (result uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sandbox: recovered panic calling guest function: %v", r)
		}
	}()
	results, err := fn.Call(ctx, uint64(arg))
	if err != nil {
		return 0, fmt.Errorf("sandbox: guest call trapped: %w", err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("sandbox: guest function returned %d values, expected 1", len(results))
	}
	return uint32(results[0]), nil
}

// CallReturnU32 invokes a no-arg, u32-returning export such as
// wire_schema_version.
func (i *Instance) CallReturnU32(ctx context.Context, fn api.Function) (result uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sandbox: recovered panic calling guest function: %v", r)
		}
	}()
	results, err := fn.Call(ctx)
	if err != nil {
		return 0, fmt.Errorf("sandbox: guest call trapped: %w", err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("sandbox: guest function returned %d values, expected 1", len(results))
	}
	return uint32(results[0]), nil
}

// CallPtrLenVoid invokes a (u32, u32) -> () export such as
// plugin_receive_event.
func (i *Instance) CallPtrLenVoid(ctx context.Context, fn api.Function, ptr, size uint32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sandbox: recovered panic calling guest function: %v", r)
		}
	}()
	_, err = fn.Call(ctx, uint64(ptr), uint64(size))
	if err != nil {
		return fmt.Errorf("sandbox: guest call trapped: %w", err)
	}
	return nil
}
