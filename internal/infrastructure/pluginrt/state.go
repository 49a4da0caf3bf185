package pluginrt

// State is a plugin's position in its lifecycle.
type State int

const (
	// Unloaded is never observed externally; it exists only as the zero
	// value before a plugin's module is instantiated.
	Unloaded State = iota
	// Loaded means the module instantiated successfully but on_init has
	// not yet run.
	Loaded
	// Initialized means on_init ran (or the guest has none) and the
	// plugin's outbound commands from init have been processed.
	Initialized
	// Running is the steady state: on_frame is called every frame.
	Running
	// Failed is terminal. A plugin only reaches it when MaxConsecutiveTraps
	// is configured and that many consecutive traps occur; by default traps
	// never evict a plugin.
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
