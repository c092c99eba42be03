package run

import (
	"context"
	"strings"
)

// Call records a single command invocation seen by MockRunner
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String returns the invocation as a shell-like command line
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockRunner implements Runner for testing.
// RunFunc can be configured to control per-command behavior; every
// invocation is recorded in Calls.
type MockRunner struct {
	RunFunc func(ctx context.Context, dir, name string, args ...string) (string, error)
	Calls   []Call
}

// Run records the invocation and delegates to RunFunc if set
func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, Call{Dir: dir, Name: name, Args: args})
	if m.RunFunc != nil {
		return m.RunFunc(ctx, dir, name, args...)
	}
	return "", nil
}
