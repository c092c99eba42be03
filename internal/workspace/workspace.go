// Package workspace manages the per-package checkout directories.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurpkg/pypup/internal/common/run"
)

// DefaultCloneBase is where AUR package repositories are cloned from
const DefaultCloneBase = "https://aur.archlinux.org"

// Log files the build pipeline leaves in a checkout
const (
	BuildLogName = "build.log"
	ErrorLogName = "error.log"
)

// Workspace owns a directory of package checkouts. An existing
// checkout is reused as an on-disk cache of the cloned source; a
// missing one is cloned on demand. The single run instance owns all
// directories exclusively, so no locking is involved.
type Workspace struct {
	root      string
	cloneBase string
	runner    run.Runner
}

// New creates a workspace rooted at dir
func New(dir string, runner run.Runner) *Workspace {
	if runner == nil {
		runner = run.NewExecRunner()
	}
	return &Workspace{
		root:      dir,
		cloneBase: DefaultCloneBase,
		runner:    runner,
	}
}

// SetCloneBase overrides the clone URL base, mainly for tests
func (w *Workspace) SetCloneBase(base string) {
	w.cloneBase = strings.TrimSuffix(base, "/")
}

// Root returns the workspace root directory
func (w *Workspace) Root() string {
	return w.root
}

// Ensure returns the checkout directory for a package, cloning its
// repository when no checkout exists yet
func (w *Workspace) Ensure(ctx context.Context, pkg string) (string, error) {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create workspace root: %w", err)
	}

	dir := filepath.Join(w.root, pkg)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, nil
	}

	cloneURL := fmt.Sprintf("%s/%s.git", w.cloneBase, pkg)
	if out, err := w.runner.Run(ctx, w.root, "git", "clone", cloneURL, pkg); err != nil {
		return "", fmt.Errorf("failed to clone %s: %w\n%s", pkg, err, strings.TrimSpace(out))
	}

	return dir, nil
}

// ReadLogs returns the build output left behind in a checkout, for the
// failure digest printed at the end of a run. Missing log files yield
// an empty string.
func (w *Workspace) ReadLogs(dir string) string {
	var parts []string
	for _, name := range []string{BuildLogName, ErrorLogName} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil || len(data) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- %s ---\n%s", name, strings.TrimSpace(string(data))))
	}
	return strings.Join(parts, "\n")
}
