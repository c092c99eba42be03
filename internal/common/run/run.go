// Package run executes external commands for the build and publish toolchain.
package run

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

var (
	// ErrCommandFailed is returned when an external command exits non-zero
	ErrCommandFailed = errors.New("command failed")
)

// Runner defines the interface for external command execution.
// This interface allows for mocking toolchain invocations in tests.
type Runner interface {
	// Run executes name with args in dir and returns the combined
	// stdout and stderr output
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner executes commands with os/exec
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns its combined output.
// A non-zero exit wraps ErrCommandFailed with the trailing output line
// for context.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	out := buf.String()

	if err != nil {
		detail := lastLine(out)
		if detail == "" {
			detail = err.Error()
		}
		return out, errors.Join(ErrCommandFailed, errors.New(detail))
	}

	return out, nil
}

// lastLine returns the last non-empty line of command output
func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
