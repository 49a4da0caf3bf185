package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	packed := PackWireSchemaVersion(1, 2, 3)
	major, minor, patch := UnpackWireSchemaVersion(packed)
	assert.Equal(t, uint32(1), major)
	assert.Equal(t, uint32(2), minor)
	assert.Equal(t, uint32(3), patch)
}

func TestCheckCompatibleAcceptsZeroAsUnversioned(t *testing.T) {
	t.Parallel()
	require.NoError(t, CheckCompatible(0))
}

func TestCheckCompatibleAcceptsSameMajorVersionOrOlder(t *testing.T) {
	t.Parallel()
	require.NoError(t, CheckCompatible(PackWireSchemaVersion(1, 0, 0)))
}

func TestCheckCompatibleRejectsDifferentMajorVersion(t *testing.T) {
	t.Parallel()
	assert.Error(t, CheckCompatible(PackWireSchemaVersion(2, 0, 0)))
}

func TestCheckCompatibleRejectsNewerMinorThanHost(t *testing.T) {
	t.Parallel()
	assert.Error(t, CheckCompatible(PackWireSchemaVersion(1, 99, 0)))
}
