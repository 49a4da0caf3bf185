package registry

import (
	"context"

	"github.com/hearthforge/pluginrt/wireformat"
)

// broadcast sends evt to every loaded plugin. Delivery failure for one
// plugin is logged and does not affect the others.
func (r *Registry) broadcast(ctx context.Context, evt wireformat.EngineEvent) {
	for _, p := range r.Plugins() {
		if err := p.SendEvent(ctx, evt); err != nil {
			r.log.Warn("dropped event", "plugin", p.Name, "plugin_id", p.ID, "error", err)
		}
	}
}

// unicast sends evt to exactly one plugin. It warns and drops the event
// if pluginID is unknown or delivery fails.
func (r *Registry) unicast(ctx context.Context, pluginID uint64, evt wireformat.EngineEvent) {
	r.mu.Lock()
	p, ok := r.byID[pluginID]
	r.mu.Unlock()
	if !ok {
		r.log.Warn("unicast to unknown plugin dropped", "plugin_id", pluginID)
		return
	}
	if err := p.SendEvent(ctx, evt); err != nil {
		r.log.Warn("dropped event", "plugin", p.Name, "plugin_id", pluginID, "error", err)
	}
}
