// Package customchannel lets a host application extend the engine-level
// runtime with its own named bytes-in/bytes-out channels, the same way
// the game layer built on the original engine runtime added enemy, item,
// wave, and score events without the engine ever interpreting their
// payloads.
package customchannel

import (
	"context"
	"fmt"
	"sync"
)

// Command is one opaque (plugin, bytes) pair accumulated on a channel by
// a guest's host_send_<name>_command call.
type Command struct {
	PluginID uint64
	Payload  []byte
}

// Plugin is the subset of pluginrt.Plugin the channel layer needs to
// deliver an event: named export lookup and delivery, independent of the
// engine-level on_init/on_frame/plugin_alloc channel.
type Plugin interface {
	SendCustomEvent(ctx context.Context, channel string, payload []byte) error
}

// Layer holds every registered custom channel's pending commands and an
// optional dispatch policy.
type Layer struct {
	mu       sync.Mutex
	channels map[string]bool
	commands map[string][]Command
	policy   *Policy
}

// NewLayer returns an empty custom channel layer.
func NewLayer() *Layer {
	return &Layer{
		channels: make(map[string]bool),
		commands: make(map[string][]Command),
	}
}

// RegisterImport declares a channel name. The registry's boundary
// bindings use this list to wire `host_send_<name>_command` imports
// before any plugin is instantiated; it must be called before the
// sandbox's host module is finalized.
func (l *Layer) RegisterImport(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channels[name] = true
}

// ChannelNames returns every registered channel name.
func (l *Layer) ChannelNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.channels))
	for name := range l.channels {
		names = append(names, name)
	}
	return names
}

// SetPolicy installs the dispatch policy used by DispatchToPlugin. A nil
// policy (the default) allows every dispatch.
func (l *Layer) SetPolicy(policy *Policy) {
	l.policy = policy
}

// Push is called by the host_send_<name>_command import handler when a
// guest invokes its registered custom-command import.
func (l *Layer) Push(channel string, pluginID uint64, payload []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands[channel] = append(l.commands[channel], Command{PluginID: pluginID, Payload: payload})
}

// DrainCommands returns and clears every command accumulated on channel
// since the last drain.
func (l *Layer) DrainCommands(channel string) []Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	cmds := l.commands[channel]
	if len(cmds) == 0 {
		return nil
	}
	delete(l.commands, channel)
	return cmds
}

// DispatchToPlugin delivers payload to one plugin over channel, gated by
// the installed policy. A policy rejection is not an error: the caller
// sees a nil error and no delivery.
func (l *Layer) DispatchToPlugin(ctx context.Context, channel string, plugin Plugin, pluginID uint64, pluginName string, payload []byte) error {
	allowed, err := l.policy.Allow(channel, pluginID, pluginName)
	if err != nil {
		return fmt.Errorf("customchannel: policy evaluation for %q: %w", channel, err)
	}
	if !allowed {
		return nil
	}
	return plugin.SendCustomEvent(ctx, channel, payload)
}

// DispatchToAllUnfiltered delivers payload to every plugin over channel
// without consulting the policy, mirroring host-originated broadcasts on
// the engine-level channel. It returns the delivery errors keyed by
// plugin id; the caller decides whether to log them.
func (l *Layer) DispatchToAllUnfiltered(ctx context.Context, channel string, plugins map[uint64]Plugin, payload []byte) map[uint64]error {
	errs := make(map[uint64]error)
	for id, plugin := range plugins {
		if err := plugin.SendCustomEvent(ctx, channel, payload); err != nil {
			errs[id] = err
		}
	}
	return errs
}
