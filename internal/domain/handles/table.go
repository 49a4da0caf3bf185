// Package handles implements the bidirectional mapping between
// plugin-visible entity ids and host-side entities.
package handles

import "sync"

// HostEntity is an opaque host-side identifier. The table never interprets
// its value; it only stores and compares it.
type HostEntity uint64

// CleanupIntervalFrames is how often GC should be invoked by the caller,
// expressed in frames.
const CleanupIntervalFrames = 60

// Table maps plugin-visible ids to host entities and back. A single Table
// instance is shared by every plugin: ids are unique across the whole
// process, not per plugin.
type Table struct {
	mu       sync.Mutex
	next     uint64
	toHost   map[uint64]HostEntity
	toHandle map[HostEntity]uint64
}

// NewTable returns an empty handle table.
func NewTable() *Table {
	return &Table{
		toHost:   make(map[uint64]HostEntity),
		toHandle: make(map[HostEntity]uint64),
	}
}

// Register returns the existing handle for entity if one is already
// registered, or allocates and stores a fresh monotonic handle.
func (t *Table) Register(entity HostEntity) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.toHandle[entity]; ok {
		return id
	}
	t.next++
	id := t.next
	t.toHost[id] = entity
	t.toHandle[entity] = id
	return id
}

// Lookup resolves id to its host entity.
func (t *Table) Lookup(id uint64) (HostEntity, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entity, ok := t.toHost[id]
	return entity, ok
}

// Unregister removes id from both directions. It is a no-op if id is not
// registered.
func (t *Table) Unregister(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entity, ok := t.toHost[id]
	if !ok {
		return
	}
	delete(t.toHost, id)
	delete(t.toHandle, entity)
}

// GC visits every registered entity and unregisters those for which
// isValid returns false. isValid must be cheap: it runs while the table's
// lock is held. It returns the number of handles evicted, so the caller
// can log a single sweep-count line.
func (t *Table) GC(isValid func(HostEntity) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for id, entity := range t.toHost {
		if isValid(entity) {
			continue
		}
		delete(t.toHost, id)
		delete(t.toHandle, entity)
		evicted++
	}
	return evicted
}

// Len reports the number of currently registered handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.toHost)
}
