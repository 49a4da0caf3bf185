package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaffoldSourceRust(t *testing.T) {
	t.Parallel()

	src, err := scaffoldSource("rust", "enemy_ai", []string{"on_init", "on_frame"})
	require.NoError(t, err)
	assert.Contains(t, src, "fn on_init")
	assert.Contains(t, src, "fn on_frame")
}

func TestScaffoldSourceOmitsUnselectedExports(t *testing.T) {
	t.Parallel()

	src, err := scaffoldSource("tinygo", "enemy_ai", []string{"on_init"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(src, "onInit"))
	assert.False(t, strings.Contains(src, "onFrame"))
}

func TestScaffoldSourceRejectsUnknownLanguage(t *testing.T) {
	t.Parallel()

	_, err := scaffoldSource("cobol", "enemy_ai", nil)
	assert.Error(t, err)
}

func TestScaffoldFileNameByLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/lib.rs", scaffoldFileName("rust"))
	assert.Equal(t, "main.go", scaffoldFileName("tinygo"))
	assert.Equal(t, "assembly/index.ts", scaffoldFileName("assemblyscript"))
}
