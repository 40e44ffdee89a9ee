package compose

import (
	"context"
	"strings"
	"testing"

	"chstack/internal/errors"
	"chstack/internal/logging"
)

// recordingExecutor records every invocation and returns scripted errors.
type recordingExecutor struct {
	calls [][]string
	errs  []error
}

func (e *recordingExecutor) Run(ctx context.Context, desc Descriptor, args ...string) error {
	e.calls = append(e.calls, desc.CommandArgs(args...))
	if len(e.errs) > 0 {
		err := e.errs[0]
		e.errs = e.errs[1:]
		return err
	}
	return nil
}

func newTestRunner(errs ...error) (*Runner, *recordingExecutor) {
	exec := &recordingExecutor{errs: errs}
	desc := Descriptor{File: "docker-compose.yml", Service: "clickhouse"}
	return NewRunnerWithExecutor(desc, exec, logging.NopLogger()), exec
}

func assertCall(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("call args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUp(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Up(context.Background()); err != nil {
		t.Fatalf("Up failed: %v", err)
	}

	if len(exec.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(exec.calls))
	}
	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "up", "-d", "clickhouse")
}

func TestUpWithoutService(t *testing.T) {
	exec := &recordingExecutor{}
	r := NewRunnerWithExecutor(Descriptor{File: "docker-compose.yml"}, exec, logging.NopLogger())

	if err := r.Up(context.Background()); err != nil {
		t.Fatalf("Up failed: %v", err)
	}

	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "up", "-d")
}

func TestDownRetainsVolumes(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Down(context.Background(), false); err != nil {
		t.Fatalf("Down failed: %v", err)
	}

	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "down")
}

func TestDownRemovesVolumes(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Down(context.Background(), true); err != nil {
		t.Fatalf("Down failed: %v", err)
	}

	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "down", "-v")
}

func TestRestartSequence(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Restart(context.Background()); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(exec.calls))
	}
	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "down")
	assertCall(t, exec.calls[1], "compose", "-f", "docker-compose.yml", "up", "-d", "clickhouse")
}

func TestRestartShortCircuitsOnDownFailure(t *testing.T) {
	r, exec := newTestRunner(errors.New("tear-down failed"))

	err := r.Restart(context.Background())
	if err == nil {
		t.Fatal("expected error from failed tear-down")
	}

	// The bring-up must never be attempted after a failed tear-down.
	if len(exec.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(exec.calls))
	}
}

func TestLogsFollow(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Logs(context.Background(), true); err != nil {
		t.Fatalf("Logs failed: %v", err)
	}

	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "logs", "-f", "clickhouse")
}

func TestLogsNoFollow(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Logs(context.Background(), false); err != nil {
		t.Fatalf("Logs failed: %v", err)
	}

	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "logs", "clickhouse")
}

func TestPs(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Ps(context.Background()); err != nil {
		t.Fatalf("Ps failed: %v", err)
	}

	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "ps", "clickhouse")
}

func TestBuild(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Build(context.Background()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "build")
}

func TestPull(t *testing.T) {
	r, exec := newTestRunner()

	if err := r.Pull(context.Background()); err != nil {
		t.Fatalf("Pull failed: %v", err)
	}

	// Pull must be a single fetch invocation; it never touches
	// up/down/restart verbs that would alter container state.
	if len(exec.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(exec.calls))
	}
	assertCall(t, exec.calls[0], "compose", "-f", "docker-compose.yml", "pull")
}

func TestFailureWrapsComposeError(t *testing.T) {
	cause := errors.New("exit status 18")
	r, _ := newTestRunner(cause)

	err := r.Up(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var composeErr *errors.ComposeError
	if !errors.As(err, &composeErr) {
		t.Fatalf("expected *errors.ComposeError, got %T", err)
	}
	if composeErr.Operation != "start" {
		t.Errorf("Operation = %q, want %q", composeErr.Operation, "start")
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to survive errors.Is")
	}
	if !strings.Contains(composeErr.Error(), "operation=start") {
		t.Errorf("Error() = %q, expected operation context", composeErr.Error())
	}
}

func TestDescriptorAccessor(t *testing.T) {
	r, _ := newTestRunner()

	desc := r.Descriptor()
	if desc.Service != "clickhouse" {
		t.Errorf("Service = %q, want %q", desc.Service, "clickhouse")
	}
}
