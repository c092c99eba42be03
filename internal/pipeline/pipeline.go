// Package pipeline builds and publishes an updated package checkout.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurpkg/pypup/internal/common/run"
)

// Pipeline runs the build and publish toolchain on one package
// directory. It is synchronous and attempted exactly once per package.
type Pipeline interface {
	Run(ctx context.Context, dir string) error
}

// RunError is a failed pipeline invocation with its captured output
type RunError struct {
	// Step is the command line that failed
	Step string
	// Log is the combined output captured from the failing step
	Log string
	// Err is the underlying execution error
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("pipeline step %q failed: %v", e.Step, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Makepkg is the makepkg + git publish pipeline. It regenerates the
// package metadata, builds the package, and commits and pushes the
// updated recipe.
type Makepkg struct {
	runner run.Runner
	// Push controls whether the final publish step runs
	Push bool
	// CommitMessage is used for the recipe bump commit
	CommitMessage string
}

// NewMakepkg creates the standard pipeline
func NewMakepkg(runner run.Runner) *Makepkg {
	if runner == nil {
		runner = run.NewExecRunner()
	}
	return &Makepkg{
		runner:        runner,
		Push:          true,
		CommitMessage: "Update to new upstream release",
	}
}

// step is one toolchain invocation
type step struct {
	name string
	args []string
}

// Run executes the toolchain in dir. All step output is appended to
// build.log in the checkout; the output of a failing step is also
// written to error.log, and both are left behind for the run digest.
func (m *Makepkg) Run(ctx context.Context, dir string) error {
	steps := []step{
		{"sh", []string{"-c", "makepkg --printsrcinfo > .SRCINFO"}},
		{"makepkg", []string{"-f"}},
		{"git", []string{"add", "PKGBUILD", ".SRCINFO"}},
		{"git", []string{"commit", "-m", m.CommitMessage}},
	}
	if m.Push {
		steps = append(steps, step{"git", []string{"push"}})
	}

	// Fresh logs for this attempt
	os.Remove(filepath.Join(dir, "build.log"))
	os.Remove(filepath.Join(dir, "error.log"))

	for _, s := range steps {
		out, err := m.runner.Run(ctx, dir, s.name, s.args...)
		m.appendLog(dir, "build.log", s, out)

		if err != nil {
			m.appendLog(dir, "error.log", s, out)
			return &RunError{
				Step: strings.Join(append([]string{s.name}, s.args...), " "),
				Log:  out,
				Err:  err,
			}
		}
	}

	return nil
}

// appendLog appends one step's output to a log file in the checkout
func (m *Makepkg) appendLog(dir, name string, s step, out string) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	cmdline := strings.Join(append([]string{s.name}, s.args...), " ")
	fmt.Fprintf(f, "$ %s\n%s", cmdline, out)
	if out != "" && !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(f)
	}
}
