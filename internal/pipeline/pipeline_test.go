package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aurpkg/pypup/internal/common/run"
)

func TestRunExecutesToolchainInOrder(t *testing.T) {
	dir := t.TempDir()
	mock := &run.MockRunner{}
	pipe := NewMakepkg(mock)

	if err := pipe.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	want := []string{
		"sh -c makepkg --printsrcinfo > .SRCINFO",
		"makepkg -f",
		"git add PKGBUILD .SRCINFO",
		"git commit -m " + pipe.CommitMessage,
		"git push",
	}
	if len(mock.Calls) != len(want) {
		t.Fatalf("got %d invocations, want %d: %v", len(mock.Calls), len(want), mock.Calls)
	}
	for i, call := range mock.Calls {
		if call.String() != want[i] {
			t.Errorf("step %d = %q, want %q", i, call.String(), want[i])
		}
		if call.Dir != dir {
			t.Errorf("step %d ran in %q, want package dir", i, call.Dir)
		}
	}
}

func TestRunWithoutPush(t *testing.T) {
	mock := &run.MockRunner{}
	pipe := NewMakepkg(mock)
	pipe.Push = false

	if err := pipe.Run(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	for _, call := range mock.Calls {
		if call.Name == "git" && call.Args[0] == "push" {
			t.Error("push step ran despite Push=false")
		}
	}
}

func TestRunFailureCapturesLog(t *testing.T) {
	dir := t.TempDir()
	mock := &run.MockRunner{
		RunFunc: func(ctx context.Context, d, name string, args ...string) (string, error) {
			if name == "makepkg" {
				return "==> ERROR: build blew up\n", errors.New("exit status 2")
			}
			return "ok\n", nil
		},
	}
	pipe := NewMakepkg(mock)

	err := pipe.Run(context.Background(), dir)
	if err == nil {
		t.Fatal("expected error from failing build step")
	}

	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected *RunError, got %T", err)
	}
	if runErr.Step != "makepkg -f" {
		t.Errorf("Step = %q, want makepkg -f", runErr.Step)
	}
	if !strings.Contains(runErr.Log, "build blew up") {
		t.Errorf("Log = %q, want captured output", runErr.Log)
	}

	// The failure is also left on disk for the run digest
	data, readErr := os.ReadFile(filepath.Join(dir, "error.log"))
	if readErr != nil {
		t.Fatalf("error.log not written: %v", readErr)
	}
	if !strings.Contains(string(data), "build blew up") {
		t.Errorf("error.log = %q", data)
	}

	// Later steps must not run after a failure
	for _, call := range mock.Calls {
		if call.Name == "git" {
			t.Errorf("git step ran after build failure: %v", call)
		}
	}
}

func TestRunWritesBuildLog(t *testing.T) {
	dir := t.TempDir()
	mock := &run.MockRunner{
		RunFunc: func(ctx context.Context, d, name string, args ...string) (string, error) {
			return "step output\n", nil
		},
	}
	pipe := NewMakepkg(mock)

	if err := pipe.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "build.log"))
	if err != nil {
		t.Fatalf("build.log not written: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "$ makepkg -f") || !strings.Contains(text, "step output") {
		t.Errorf("build.log = %q", text)
	}
}
