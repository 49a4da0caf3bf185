// Package pathsec enforces the filesystem trust boundary between a guest
// plugin and the host's asset directory. Sanitize is the only function
// guest-supplied paths are allowed to cross without going through it.
package pathsec

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrAbsolutePath is returned when the guest-supplied path is absolute.
var ErrAbsolutePath = errors.New("pathsec: path must be relative")

// ErrEscapesRoot is returned when a component of the path (or its
// resolved form) would escape the configured root.
var ErrEscapesRoot = errors.New("pathsec: path escapes plugin asset root")

// Root canonicalizes a base directory once so repeated Sanitize calls
// don't re-resolve symlinks on every guest request.
type Root struct {
	canonical string
}

// NewRoot canonicalizes dir via Abs and, if dir already exists,
// EvalSymlinks. A not-yet-created plugins directory is tolerated: the
// root is still bound by its absolute path, since loading plugins from a
// missing directory is itself a no-op.
func NewRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		resolved = filepath.Clean(abs)
	}
	return &Root{canonical: resolved}, nil
}

// Canonical returns the resolved absolute root directory.
func (r *Root) Canonical() string {
	return r.canonical
}

// Sanitize applies the four ordered rules to guestPath and returns the
// resolved absolute path on success. It never logs; rejection is reported
// to the caller as an error, which the registry turns into a typed event.
func (r *Root) Sanitize(guestPath string) (string, error) {
	if filepath.IsAbs(guestPath) {
		return "", ErrAbsolutePath
	}

	for _, part := range strings.Split(filepath.ToSlash(guestPath), "/") {
		switch part {
		case "..":
			return "", ErrEscapesRoot
		case "", ".":
			continue
		}
		// A drive-letter prefix ("C:") is rejected on every host, not only
		// where filepath.VolumeName recognizes it.
		if filepath.VolumeName(part) != "" || (len(part) >= 2 && part[1] == ':' && 'a' <= part[0]|0x20 && part[0]|0x20 <= 'z') {
			return "", ErrEscapesRoot
		}
	}

	joined := filepath.Join(r.canonical, guestPath)
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		// The target need not exist yet (e.g. it's about to be written),
		// but the joined path must still fall under the root lexically.
		resolved = filepath.Clean(joined)
	}

	if resolved != r.canonical && !strings.HasPrefix(resolved, r.canonical+string(filepath.Separator)) {
		return "", ErrEscapesRoot
	}

	return resolved, nil
}
