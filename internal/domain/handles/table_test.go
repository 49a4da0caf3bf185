package handles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterReturnsExistingHandleForSameEntity(t *testing.T) {
	t.Parallel()

	table := NewTable()
	first := table.Register(HostEntity(100))
	second := table.Register(HostEntity(100))
	assert.Equal(t, first, second)
}

func TestRegisterAllocatesDistinctMonotonicIDs(t *testing.T) {
	t.Parallel()

	table := NewTable()
	a := table.Register(HostEntity(1))
	b := table.Register(HostEntity(2))
	assert.NotEqual(t, a, b)
	assert.Greater(t, b, a)
}

func TestLookupReturnsFalseForUnknownID(t *testing.T) {
	t.Parallel()

	table := NewTable()
	_, ok := table.Lookup(999)
	assert.False(t, ok)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	t.Parallel()

	table := NewTable()
	id := table.Register(HostEntity(5))
	table.Unregister(id)
	table.Unregister(id)

	_, ok := table.Lookup(id)
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}

func TestUnregisteredIDIsNeverReissuedForADifferentEntity(t *testing.T) {
	t.Parallel()

	table := NewTable()
	first := table.Register(HostEntity(1))
	table.Unregister(first)

	second := table.Register(HostEntity(2))
	assert.NotEqual(t, first, second)
}

func TestGCRemovesEntitiesFailingThePredicate(t *testing.T) {
	t.Parallel()

	table := NewTable()
	alive := table.Register(HostEntity(1))
	dead := table.Register(HostEntity(2))

	evicted := table.GC(func(e HostEntity) bool { return e != HostEntity(2) })
	assert.Equal(t, 1, evicted)

	_, aliveOK := table.Lookup(alive)
	_, deadOK := table.Lookup(dead)
	assert.True(t, aliveOK)
	assert.False(t, deadOK)
	assert.Equal(t, 1, table.Len())
}

func TestGCReturnsZeroWhenNothingIsEvicted(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Register(HostEntity(1))

	evicted := table.GC(func(HostEntity) bool { return true })
	assert.Equal(t, 0, evicted)
}

func TestGCSurvivorsAllResolveViaIsValid(t *testing.T) {
	t.Parallel()

	table := NewTable()
	ids := make([]uint64, 0, 10)
	for i := range 10 {
		ids = append(ids, table.Register(HostEntity(i)))
	}

	valid := func(e HostEntity) bool { return uint64(e)%2 == 0 }
	table.GC(valid)

	for _, id := range ids {
		entity, ok := table.Lookup(id)
		if ok {
			assert.True(t, valid(entity))
		}
	}
}
