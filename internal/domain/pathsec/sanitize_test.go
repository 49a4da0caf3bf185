package pathsec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(t *testing.T) *Root {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures", "crate.png"), []byte("fake"), 0o644))

	root, err := NewRoot(dir)
	require.NoError(t, err)
	return root
}

func TestSanitizeAcceptsPathUnderRoot(t *testing.T) {
	t.Parallel()

	root := newTestRoot(t)
	resolved, err := root.Sanitize("textures/crate.png")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(resolved))
}

func TestSanitizeRejectsAbsolutePath(t *testing.T) {
	t.Parallel()

	root := newTestRoot(t)
	_, err := root.Sanitize("/etc/passwd")
	assert.ErrorIs(t, err, ErrAbsolutePath)
}

func TestSanitizeRejectsParentDirReference(t *testing.T) {
	t.Parallel()

	root := newTestRoot(t)
	_, err := root.Sanitize("../outside.txt")
	assert.ErrorIs(t, err, ErrEscapesRoot)
}

func TestSanitizeRejectsParentDirReferenceMidPath(t *testing.T) {
	t.Parallel()

	root := newTestRoot(t)
	_, err := root.Sanitize("textures/../../outside.txt")
	assert.ErrorIs(t, err, ErrEscapesRoot)
}

func TestSanitizeRejectsWindowsStylePrefix(t *testing.T) {
	t.Parallel()

	root := newTestRoot(t)
	_, err := root.Sanitize(`C:\windows\system32`)
	assert.Error(t, err)
}

func TestNewRootToleratesMissingDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "not-created-yet")
	root, err := NewRoot(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(root.Canonical()))
}

func TestSanitizeAcceptsNestedRelativePath(t *testing.T) {
	t.Parallel()

	root := newTestRoot(t)
	resolved, err := root.Sanitize("./textures/crate.png")
	require.NoError(t, err)
	assert.Contains(t, resolved, "crate.png")
}
