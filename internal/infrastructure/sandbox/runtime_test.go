package sandbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntimeDefaultMemoryLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rt, err := NewRuntime(ctx, 0)
	require.NoError(t, err)
	defer rt.Close(ctx)

	assert.NotNil(t, rt.wz)
}

func TestNewRuntimeUnlimitedMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rt, err := NewRuntime(ctx, -1)
	require.NoError(t, err)
	defer rt.Close(ctx)
}

func TestCompileRejectsInvalidWasm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rt, err := NewRuntime(ctx, 0)
	require.NoError(t, err)
	defer rt.Close(ctx)

	_, err = rt.Compile(ctx, []byte("not a wasm module"))
	assert.Error(t, err)
}

func TestMemoryPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(defaultMemoryLimitMB*pagesPerMB), memoryPages(0))
	assert.Equal(t, uint32(0), memoryPages(-1))
	assert.Equal(t, uint32(32*pagesPerMB), memoryPages(32))
}
