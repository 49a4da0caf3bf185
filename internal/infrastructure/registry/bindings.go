package registry

import (
	"context"
	"strconv"

	"github.com/tetratelabs/wazero/api"

	"github.com/hearthforge/pluginrt/wireformat"
)

// registerEngineImport wires env.host_send_command(ptr, len): bytes are a
// serialized EngineCommand, decoded here and appended to the calling
// plugin's outbound buffer. A decode failure is logged and the payload is
// discarded; it never reaches the guest as a reply and never crashes the
// host.
func (r *Registry) registerEngineImport(ctx context.Context) {
	r.runtime.HostModuleBuilder().
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			ptr, size := uint32(stack[0]), uint32(stack[1])
			r.handleGuestCommand(mod, ptr, size)
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export("host_send_command")
}

func (r *Registry) handleGuestCommand(mod api.Module, ptr, size uint32) {
	pluginID, ok := pluginIDFromModuleName(mod.Name())
	if !ok {
		return
	}

	buf, ok := mod.Memory().Read(ptr, size)
	if !ok {
		r.log.Warn("host_send_command: out-of-bounds read", "plugin_id", pluginID)
		return
	}

	cmd, err := wireformat.DecodeCommand(buf)
	if err != nil {
		r.log.Warn("host_send_command: malformed payload discarded", "plugin_id", pluginID, "error", err)
		return
	}

	r.mu.Lock()
	plugin, ok := r.byID[pluginID]
	r.mu.Unlock()
	if !ok {
		return
	}
	plugin.PushCommand(cmd)
}

// registerCustomImport wires env.host_send_<name>_command(ptr, len): the
// bytes are opaque and pushed verbatim onto the named channel's command
// buffer.
func (r *Registry) registerCustomImport(ctx context.Context, name string) {
	importName := "host_send_" + name + "_command"
	r.runtime.HostModuleBuilder().
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			ptr, size := uint32(stack[0]), uint32(stack[1])
			r.handleGuestCustomCommand(mod, name, ptr, size)
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export(importName)
}

func (r *Registry) handleGuestCustomCommand(mod api.Module, channel string, ptr, size uint32) {
	pluginID, ok := pluginIDFromModuleName(mod.Name())
	if !ok {
		return
	}
	buf, ok := mod.Memory().Read(ptr, size)
	if !ok {
		r.log.Warn("custom command: out-of-bounds read", "plugin_id", pluginID, "channel", channel)
		return
	}
	payload := make([]byte, len(buf))
	copy(payload, buf)
	r.channels.Push(channel, pluginID, payload)
}

func pluginIDFromModuleName(name string) (uint64, bool) {
	id, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
