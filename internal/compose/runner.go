package compose

import (
	"context"
	"os"

	"chstack/internal/errors"
	"chstack/internal/logging"
)

// Executor abstracts compose command execution for testability.
// This allows tests to record invocations without a Docker daemon.
type Executor interface {
	// Run executes a compose verb against the descriptor and blocks until
	// the subprocess exits. The returned error carries the subprocess
	// exit status when the command ran but failed.
	Run(ctx context.Context, desc Descriptor, args ...string) error
}

// StdioExecutor runs compose commands with the subprocess connected to
// the current process's stdin, stdout, and stderr. Output reaches the
// user exactly as the wrapped tool produced it; this layer adds nothing.
type StdioExecutor struct{}

// Run executes the compose command, streaming output to the caller's terminal.
func (StdioExecutor) Run(ctx context.Context, desc Descriptor, args ...string) error {
	cmd := desc.CommandContext(ctx, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Runner maps lifecycle operations onto compose invocations. Every
// operation is a pure pass-through: no retry, no backoff, no
// partial-failure recovery. A non-zero exit from the orchestrator
// surfaces unchanged through errors.ExitCode.
type Runner struct {
	desc Descriptor
	exec Executor
	log  *logging.Logger
}

// NewRunner creates a Runner that executes real compose commands.
func NewRunner(desc Descriptor, log *logging.Logger) *Runner {
	return NewRunnerWithExecutor(desc, StdioExecutor{}, log)
}

// NewRunnerWithExecutor creates a Runner with a custom executor.
// This is primarily useful for testing.
func NewRunnerWithExecutor(desc Descriptor, exec Executor, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Runner{desc: desc, exec: exec, log: log}
}

// Descriptor returns the service descriptor this runner targets.
func (r *Runner) Descriptor() Descriptor {
	return r.desc
}

// Up brings the declared service up in detached mode. Once the
// orchestrator returns exit code 0 the service is reachable on its
// declared ports.
func (r *Runner) Up(ctx context.Context) error {
	args := []string{"up", "-d"}
	if r.desc.Service != "" {
		args = append(args, r.desc.Service)
	}
	return r.run(ctx, "start", args...)
}

// Down tears the stack down. Named volumes are retained unless
// removeVolumes is set, in which case persisted data is destroyed
// irreversibly.
func (r *Runner) Down(ctx context.Context, removeVolumes bool) error {
	args := []string{"down"}
	op := "stop"
	if removeVolumes {
		args = append(args, "-v")
		op = "clean"
	}
	return r.run(ctx, op, args...)
}

// Restart is a sequential two-phase operation: tear-down, then bring-up.
// It is not atomic. When the tear-down fails the bring-up is never
// attempted, leaving the service in its prior state; when the tear-down
// succeeds and the bring-up fails, the service is confirmed stopped.
func (r *Runner) Restart(ctx context.Context) error {
	if err := r.Down(ctx, false); err != nil {
		return err
	}
	return r.Up(ctx)
}

// Logs attaches to the service's log stream. With follow set it streams
// until the caller interrupts; termination is cooperative, this layer
// owns no timeout.
func (r *Runner) Logs(ctx context.Context, follow bool) error {
	args := []string{"logs"}
	if follow {
		args = append(args, "-f")
	}
	if r.desc.Service != "" {
		args = append(args, r.desc.Service)
	}
	return r.run(ctx, "logs", args...)
}

// Ps queries the orchestrator's process list for a current container
// state snapshot.
func (r *Runner) Ps(ctx context.Context) error {
	args := []string{"ps"}
	if r.desc.Service != "" {
		args = append(args, r.desc.Service)
	}
	return r.run(ctx, "status", args...)
}

// Build (re)builds service images. A no-op when no build context is
// declared; that decision belongs to the orchestrator.
func (r *Runner) Build(ctx context.Context) error {
	return r.run(ctx, "build", "build")
}

// Pull fetches the latest images for all declared services. Running
// containers are never restarted by this operation.
func (r *Runner) Pull(ctx context.Context) error {
	return r.run(ctx, "pull", "pull")
}

// run executes one compose verb and wraps failures with the operation
// context for the debug log. The wrapped subprocess has already written
// its diagnostics to stderr; callers must not re-print the error.
func (r *Runner) run(ctx context.Context, op string, args ...string) error {
	fullArgs := r.desc.CommandArgs(args...)
	log := r.log.WithOperation(op).WithService(r.desc.Service)
	log.Debug("invoking compose", "args", fullArgs)

	err := r.exec.Run(ctx, r.desc, args...)
	if err != nil {
		log.Error("compose failed", "exit_code", errors.ExitCode(err), "error", err.Error())
		return errors.NewComposeError("compose invocation failed", err).
			WithOperation(op).
			WithArgs(fullArgs)
	}

	log.Debug("compose succeeded")
	return nil
}
