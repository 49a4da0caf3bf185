package distribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPullRejectsMalformedReference(t *testing.T) {
	t.Parallel()

	_, _, err := NewPuller(Credentials{}).Pull(context.Background(), "not a valid reference", t.TempDir())
	assert.Error(t, err)
}

func TestPushRejectsMalformedReference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wasmPath := dir + "/plugin.wasm"
	err := NewPusher(Credentials{}).Push(context.Background(), "not a valid reference", wasmPath, "")
	assert.Error(t, err)
}
