// Package pluginrt owns the per-plugin runtime state: the sandbox
// instance, its cached export handles, and the outbound command buffer
// the guest fills during on_init and on_frame.
package pluginrt

import (
	"context"
	"fmt"

	"github.com/hearthforge/pluginrt/internal/infrastructure/sandbox"
	"github.com/hearthforge/pluginrt/wireformat"
)

const (
	exportOnInit            = "on_init"
	exportOnFrame           = "on_frame"
	exportAlloc             = "plugin_alloc"
	exportReceiveEvent      = "plugin_receive_event"
	exportWireSchemaVersion = "wire_schema_version"
)

// Plugin is one loaded plugin: its long-lived sandbox instance, cached
// export handles, and outbound command buffer.
type Plugin struct {
	ID       uint64
	Name     string
	instance *sandbox.Instance

	hasOnInit            bool
	hasOnFrame           bool
	hasAlloc             bool
	hasReceive           bool
	hasWireSchemaVersion bool

	customAllocNames   map[string]bool
	customReceiveNames map[string]bool

	outbound []wireformat.EngineCommand

	state               State
	consecutiveTraps    int
	maxConsecutiveTraps int
}

// New resolves a plugin's cached exports from instance. channelNames lists
// every registered custom channel so the plugin can look up its
// `<name>_plugin_alloc` / `<name>_plugin_receive_event` export pair, if
// the guest defines them.
func New(id uint64, name string, instance *sandbox.Instance, channelNames []string, maxConsecutiveTraps int) *Plugin {
	p := &Plugin{
		ID:                  id,
		Name:                name,
		instance:            instance,
		state:               Loaded,
		maxConsecutiveTraps: maxConsecutiveTraps,
		customAllocNames:    make(map[string]bool),
		customReceiveNames:  make(map[string]bool),
	}

	_, p.hasOnInit = instance.ExportedFunction(exportOnInit)
	_, p.hasOnFrame = instance.ExportedFunction(exportOnFrame)
	_, p.hasAlloc = instance.ExportedFunction(exportAlloc)
	_, p.hasReceive = instance.ExportedFunction(exportReceiveEvent)
	_, p.hasWireSchemaVersion = instance.ExportedFunction(exportWireSchemaVersion)

	for _, name := range channelNames {
		if _, ok := instance.ExportedFunction(name + "_plugin_alloc"); ok {
			p.customAllocNames[name] = true
		}
		if _, ok := instance.ExportedFunction(name + "_plugin_receive_event"); ok {
			p.customReceiveNames[name] = true
		}
	}

	return p
}

// HasOnInit reports whether the guest exports on_init.
func (p *Plugin) HasOnInit() bool { return p.hasOnInit }

// HasOnFrame reports whether the guest exports on_frame.
func (p *Plugin) HasOnFrame() bool { return p.hasOnFrame }

// ShouldCallOnFrame reports whether the registry's frame loop should call
// on_frame this frame: the guest must export it, and the plugin must not
// have been evicted to the terminal Failed state.
func (p *Plugin) ShouldCallOnFrame() bool { return p.hasOnFrame && p.state != Failed }

// State reports the plugin's current lifecycle state.
func (p *Plugin) State() State { return p.state }

// SetState forces the plugin into state. Used by the registry to drive
// Loaded -> Initialized -> Running transitions.
func (p *Plugin) SetState(state State) { p.state = state }

// PushCommand appends cmd to the plugin's outbound buffer. Called by the
// host_send_command import while the guest is running.
func (p *Plugin) PushCommand(cmd wireformat.EngineCommand) {
	p.outbound = append(p.outbound, cmd)
}

// DrainCommands returns and clears every command accumulated since the
// last drain, in FIFO emission order.
func (p *Plugin) DrainCommands() []wireformat.EngineCommand {
	if len(p.outbound) == 0 {
		return nil
	}
	drained := p.outbound
	p.outbound = nil
	return drained
}

// WireSchemaVersion calls the guest's optional wire_schema_version
// export. ok is false if the guest does not define it, in which case the
// guest is treated as unversioned.
func (p *Plugin) WireSchemaVersion(ctx context.Context) (packed uint32, ok bool, err error) {
	if !p.hasWireSchemaVersion {
		return 0, false, nil
	}
	fn, _ := p.instance.ExportedFunction(exportWireSchemaVersion)
	packed, err = p.instance.CallReturnU32(ctx, fn)
	if err != nil {
		return 0, true, fmt.Errorf("pluginrt: call wire_schema_version: %w", err)
	}
	return packed, true, nil
}

// CallOnInit invokes the guest's on_init export, if present.
func (p *Plugin) CallOnInit(ctx context.Context) error {
	if !p.hasOnInit {
		return nil
	}
	fn, _ := p.instance.ExportedFunction(exportOnInit)
	return p.instance.CallVoid(ctx, fn)
}

// CallOnFrame invokes the guest's on_frame export, if present.
func (p *Plugin) CallOnFrame(ctx context.Context) error {
	if !p.hasOnFrame {
		return nil
	}
	fn, _ := p.instance.ExportedFunction(exportOnFrame)
	return p.instance.CallVoid(ctx, fn)
}

// SendEvent delivers evt to the guest's engine-level channel: serialize,
// plugin_alloc, write memory, plugin_receive_event. It is a no-op
// returning an error if the guest lacks either export, so the caller can
// log and drop the event for this plugin only.
func (p *Plugin) SendEvent(ctx context.Context, evt wireformat.EngineEvent) error {
	if !p.hasAlloc || !p.hasReceive {
		return fmt.Errorf("pluginrt: plugin %q does not export plugin_alloc/plugin_receive_event", p.Name)
	}
	payload, err := wireformat.EncodeEvent(evt)
	if err != nil {
		return fmt.Errorf("pluginrt: encode event: %w", err)
	}
	return p.deliver(ctx, exportAlloc, exportReceiveEvent, payload)
}

// SendCustomEvent delivers an opaque payload through a registered custom
// channel's alloc/receive export pair.
func (p *Plugin) SendCustomEvent(ctx context.Context, channel string, payload []byte) error {
	if !p.customAllocNames[channel] || !p.customReceiveNames[channel] {
		return fmt.Errorf("pluginrt: plugin %q does not export %s channel", p.Name, channel)
	}
	return p.deliver(ctx, channel+"_plugin_alloc", channel+"_plugin_receive_event", payload)
}

func (p *Plugin) deliver(ctx context.Context, allocName, receiveName string, payload []byte) error {
	allocFn, _ := p.instance.ExportedFunction(allocName)
	receiveFn, _ := p.instance.ExportedFunction(receiveName)

	ptr, err := p.instance.CallU32ReturnU32(ctx, allocFn, uint32(len(payload)))
	if err != nil {
		return fmt.Errorf("pluginrt: %s: %w", allocName, err)
	}
	if err := p.instance.WriteMemory(ptr, payload); err != nil {
		return fmt.Errorf("pluginrt: write event into guest memory: %w", err)
	}
	if err := p.instance.CallPtrLenVoid(ctx, receiveFn, ptr, uint32(len(payload))); err != nil {
		return fmt.Errorf("pluginrt: %s: %w", receiveName, err)
	}
	return nil
}

// RecordTrap counts a per-call failure. It only transitions the plugin to
// the terminal Failed state if MaxConsecutiveTraps is configured
// (non-zero) and the consecutive trap count has reached it; otherwise the
// plugin remains Running
// and is retried next frame, matching the implemented trap-as-per-call-
// error behavior. It returns true exactly once, on the call that performs
// that transition, so the caller can log it exactly once.
func (p *Plugin) RecordTrap() (justFailed bool) {
	p.consecutiveTraps++
	if p.maxConsecutiveTraps > 0 && p.consecutiveTraps >= p.maxConsecutiveTraps && p.state != Failed {
		p.state = Failed
		return true
	}
	return false
}

// MaxConsecutiveTraps reports the configured trap-eviction threshold (0 if
// unlimited), for callers that want to include it in a log line.
func (p *Plugin) MaxConsecutiveTraps() int { return p.maxConsecutiveTraps }

// RecordSuccess resets the consecutive trap counter after a call
// completes without error.
func (p *Plugin) RecordSuccess() {
	p.consecutiveTraps = 0
}

// Close releases the plugin's sandbox instance.
func (p *Plugin) Close(ctx context.Context) error {
	return p.instance.Close(ctx)
}
