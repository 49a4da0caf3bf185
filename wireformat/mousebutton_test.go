package wireformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMouseButtonWellKnownButtonsPassThrough(t *testing.T) {
	t.Parallel()

	cases := map[string]uint32{
		"left":    MouseButtonLeft,
		"right":   MouseButtonRight,
		"middle":  MouseButtonMiddle,
		"back":    MouseButtonBack,
		"forward": MouseButtonForward,
	}

	for name, native := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, native, NormalizeMouseButton(native))
		})
	}
}

func TestNormalizeMouseButtonExtraButtonsAreShifted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(10), NormalizeMouseButton(5))
	assert.Equal(t, uint32(11), NormalizeMouseButton(6))
	assert.Equal(t, uint32(105), NormalizeMouseButton(100))
}
