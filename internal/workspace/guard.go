// Package workspace confines every file operation to a single directory
// boundary. The boundary is resolved once per process and treated as
// immutable: no caller-supplied path, however it is spelled, may read or
// write outside it.
package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// Guard validates and normalizes paths against a fixed workspace boundary.
type Guard struct {
	root string
}

// NewGuard establishes the workspace boundary at root. The root must exist;
// symlinks in the root itself are resolved up front so later containment
// checks compare like with like.
func NewGuard(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, forgeuierrors.NewPathOutsideWorkspace(root, resolved)
	}

	return &Guard{root: resolved}, nil
}

// Root returns the resolved workspace boundary.
func (g *Guard) Root() string {
	return g.root
}

// Resolve normalizes p against the boundary and returns its absolute form.
// Relative paths are joined to the root. Traversal elements, null bytes, and
// any result outside the boundary (including via symlinked ancestors) fail
// with PathOutsideWorkspaceError.
func (g *Guard) Resolve(p string) (string, error) {
	if p == "" {
		return "", forgeuierrors.NewPathOutsideWorkspace(p, g.root)
	}
	if strings.ContainsRune(p, 0) {
		return "", forgeuierrors.NewPathOutsideWorkspace(p, g.root)
	}
	for _, elem := range strings.Split(filepath.ToSlash(p), "/") {
		if elem == ".." {
			return "", forgeuierrors.NewPathOutsideWorkspace(p, g.root)
		}
	}

	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(g.root, abs)
	}
	abs = filepath.Clean(abs)

	if !g.contains(abs) {
		return "", forgeuierrors.NewPathOutsideWorkspace(p, g.root)
	}

	// The target may not exist yet. Resolve symlinks on the deepest existing
	// ancestor so a link pointing out of the workspace cannot smuggle writes
	// past the boundary.
	resolved, err := resolveExistingPrefix(abs)
	if err != nil {
		return "", err
	}
	if !g.contains(resolved) {
		return "", forgeuierrors.NewPathOutsideWorkspace(p, g.root)
	}

	return abs, nil
}

func (g *Guard) contains(abs string) bool {
	if abs == g.root {
		return true
	}
	return strings.HasPrefix(abs, g.root+string(filepath.Separator))
}

// resolveExistingPrefix evaluates symlinks over the longest prefix of abs
// that exists on disk, then re-joins the remaining (not yet created) suffix.
func resolveExistingPrefix(abs string) (string, error) {
	prefix := abs
	var suffix []string

	for {
		resolved, err := filepath.EvalSymlinks(prefix)
		if err == nil {
			for i := len(suffix) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, suffix[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(prefix)
		if parent == prefix {
			return abs, nil
		}
		suffix = append(suffix, filepath.Base(prefix))
		prefix = parent
	}
}
