// Package security confines user-supplied file paths to a configured root
// directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for paths that escape the configured directory
var ErrOutsideRoot = errors.New("path is outside configured directory")

// PathValidator resolves paths relative to a root directory and rejects any
// that leave it, directly or through a symlink.
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator for root. The directory does not have
// to exist yet.
func NewPathValidator(root string) (*PathValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	return &PathValidator{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute configured directory
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve returns the absolute form of path. Relative paths are taken from
// the root. Null bytes are stripped.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(strings.TrimSpace(path), "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if !v.contains(abs) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return abs, nil
}

// ResolveAll resolves every path, failing on the first bad one
func (v *PathValidator) ResolveAll(paths []string) ([]string, error) {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := v.Resolve(p)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, abs)
	}
	return resolved, nil
}

// contains checks the cleaned path against both the root and the root's own
// symlink target. The symlink target of the path, or for a path that does not
// exist yet that of its nearest existing ancestor, must stay inside too.
func (v *PathValidator) contains(path string) bool {
	roots := []string{v.root}
	if real, err := filepath.EvalSymlinks(v.root); err == nil && real != v.root {
		roots = append(roots, real)
	}

	if !within(path, roots) {
		return false
	}

	existing := path
	for {
		if !within(existing, roots) {
			// nothing at or below the root exists yet
			return true
		}
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		existing = filepath.Dir(existing)
	}

	real, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return false
	}
	return within(real, roots)
}

func within(path string, roots []string) bool {
	for _, root := range roots {
		if path == root {
			return true
		}
		prefix := root
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
