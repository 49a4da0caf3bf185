package pluginrt

import (
	"testing"

	"github.com/hearthforge/pluginrt/wireformat"
	"github.com/stretchr/testify/assert"
)

func TestPushAndDrainCommandsIsFIFO(t *testing.T) {
	t.Parallel()

	p := &Plugin{Name: "test"}
	p.PushCommand(wireformat.LogCommand{Message: "first"})
	p.PushCommand(wireformat.LogCommand{Message: "second"})

	drained := p.DrainCommands()
	assert.Equal(t, []wireformat.EngineCommand{
		wireformat.LogCommand{Message: "first"},
		wireformat.LogCommand{Message: "second"},
	}, drained)

	assert.Nil(t, p.DrainCommands())
}

func TestRecordTrapStaysRunningWithoutMaxConfigured(t *testing.T) {
	t.Parallel()

	p := &Plugin{Name: "test", state: Running}
	for range 10 {
		p.RecordTrap()
	}
	assert.Equal(t, Running, p.State())
}

func TestRecordTrapTransitionsToFailedWhenLimitConfigured(t *testing.T) {
	t.Parallel()

	p := &Plugin{Name: "test", state: Running, maxConsecutiveTraps: 3}
	assert.False(t, p.RecordTrap())
	assert.False(t, p.RecordTrap())
	assert.Equal(t, Running, p.State())
	assert.True(t, p.RecordTrap())
	assert.Equal(t, Failed, p.State())

	// Already failed: further traps don't re-report a transition.
	assert.False(t, p.RecordTrap())
	assert.Equal(t, Failed, p.State())
}

func TestRecordSuccessResetsTrapCounter(t *testing.T) {
	t.Parallel()

	p := &Plugin{Name: "test", state: Running, maxConsecutiveTraps: 2}
	p.RecordTrap()
	p.RecordSuccess()
	p.RecordTrap()
	assert.Equal(t, Running, p.State())
}

func TestShouldCallOnFrameStopsAfterFailure(t *testing.T) {
	t.Parallel()

	p := &Plugin{Name: "test", state: Running, hasOnFrame: true, maxConsecutiveTraps: 2}
	assert.True(t, p.ShouldCallOnFrame())

	p.RecordTrap()
	justFailed := p.RecordTrap()
	assert.True(t, justFailed)
	assert.False(t, p.ShouldCallOnFrame(), "a Failed plugin must never be called again")
}

func TestShouldCallOnFrameFalseWithoutExport(t *testing.T) {
	t.Parallel()

	p := &Plugin{Name: "test", state: Running, hasOnFrame: false}
	assert.False(t, p.ShouldCallOnFrame())
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "failed", Failed.String())
}
