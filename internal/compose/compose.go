// Package compose provides centralized construction of docker compose
// invocations for the chstack service stack.
//
// Every lifecycle command funnels through the helpers here so that the
// compose file path, project name, and service name are substituted into
// the orchestrator invocation verbatim. The package never interprets
// compose semantics itself; it only builds and runs the external command.
package compose

import (
	"context"
	"os/exec"
)

// Binary is the container CLI chstack delegates to. The compose verbs are
// passed as a subcommand ("docker compose ...").
const Binary = "docker"

// DefaultFile is the compose file used when none is configured.
const DefaultFile = "docker-compose.yml"

// DefaultService is the service targeted by default.
const DefaultService = "clickhouse"

// Descriptor identifies which declared compose unit an operation targets.
// It is fixed configuration: chosen at invocation time, never mutated.
type Descriptor struct {
	// File is the path to the compose file.
	File string
	// Project is an optional compose project name (-p). Empty means the
	// compose default (directory name).
	Project string
	// Service is the service name used by service-scoped verbs
	// (up, logs, ps). Empty means all declared services.
	Service string
}

// DefaultDescriptor returns a Descriptor for the stock single-node stack.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		File:    DefaultFile,
		Service: DefaultService,
	}
}

// BaseArgs returns the leading arguments shared by every compose
// invocation: [compose -f <file> (-p <project>)].
func (d Descriptor) BaseArgs() []string {
	args := []string{"compose", "-f", d.File}
	if d.Project != "" {
		args = append(args, "-p", d.Project)
	}
	return args
}

// CommandArgs returns the full argument list for a compose verb,
// excluding the binary itself. Use this when the command string is
// needed for display or logging.
func (d Descriptor) CommandArgs(args ...string) []string {
	return append(d.BaseArgs(), args...)
}

// Command creates an exec.Cmd for a compose verb against this descriptor.
func (d Descriptor) Command(args ...string) *exec.Cmd {
	return exec.Command(Binary, d.CommandArgs(args...)...)
}

// CommandContext creates a context-aware exec.Cmd for a compose verb.
// Use this for operations that should stop when the caller's context is
// canceled.
func (d Descriptor) CommandContext(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, Binary, d.CommandArgs(args...)...)
}
