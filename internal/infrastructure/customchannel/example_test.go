package customchannel_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthforge/pluginrt/internal/infrastructure/customchannel"
)

// This file is not a shipped game layer. It is a grounding test showing
// that a host application can build its own typed schema entirely on top
// of the engine-level custom channel, the same way the original engine's
// sample game built enemy-died, item-collected, and wave/score events
// over the host's generic custom command channel without the engine ever
// knowing those event shapes existed.

// enemyDied is a tiny game-defined event: one entity id and an experience
// reward. The engine's customchannel.Layer only ever sees its encoded
// bytes.
type enemyDied struct {
	EntityID uint64
	Reward   uint32
}

func encodeEnemyDied(e enemyDied) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint64(buf[0:8], e.EntityID)
	binary.LittleEndian.PutUint32(buf[8:12], e.Reward)
	return buf
}

func decodeEnemyDied(data []byte) (enemyDied, error) {
	if len(data) != 12 {
		return enemyDied{}, assert.AnError
	}
	return enemyDied{
		EntityID: binary.LittleEndian.Uint64(data[0:8]),
		Reward:   binary.LittleEndian.Uint32(data[8:12]),
	}, nil
}

// enemyAIPlugin is a minimal customchannel.Plugin that records whatever
// wave-complete or score events the host broadcasts back to it.
type enemyAIPlugin struct {
	name     string
	received []string
}

func (p *enemyAIPlugin) SendCustomEvent(_ context.Context, channel string, payload []byte) error {
	p.received = append(p.received, channel+":"+string(payload))
	return nil
}

func TestEnemyDiedChannelEndToEnd(t *testing.T) {
	t.Parallel()

	layer := customchannel.NewLayer()
	layer.RegisterImport("enemy-events")

	// A guest plugin calls its host_send_enemy-events_command import
	// when an enemy it controls dies; the import handler (not
	// exercised here, see bindings.go) forwards straight into Push.
	layer.Push("enemy-events", 7, encodeEnemyDied(enemyDied{EntityID: 42, Reward: 100}))
	layer.Push("enemy-events", 7, encodeEnemyDied(enemyDied{EntityID: 43, Reward: 25}))

	drained := layer.DrainCommands("enemy-events")
	require.Len(t, drained, 2)

	first, err := decodeEnemyDied(drained[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, enemyDied{EntityID: 42, Reward: 100}, first)

	second, err := decodeEnemyDied(drained[1].Payload)
	require.NoError(t, err)
	assert.Equal(t, enemyDied{EntityID: 43, Reward: 25}, second)

	// Draining again leaves the channel empty until the next frame's
	// pushes.
	assert.Nil(t, layer.DrainCommands("enemy-events"))

	// The host reacts to the aggregated kills by broadcasting a
	// wave-complete notice back out, entirely in the game's own
	// encoding, over the same generic dispatch path as any other
	// custom channel broadcast.
	ai := &enemyAIPlugin{name: "enemy-ai"}
	errs := layer.DispatchToAllUnfiltered(context.Background(), "enemy-events", map[uint64]customchannel.Plugin{
		7: ai,
	}, []byte("wave-complete:2"))
	assert.Empty(t, errs)
	assert.Equal(t, []string{"enemy-events:wave-complete:2"}, ai.received)
}
