// Package errors provides centralized error definitions and error handling
// utilities for the chstack codebase. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and
// error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - ComposeError: errors from docker compose invocations
//   - ImportError: errors from the dataset importer
//   - DockerError: errors from Docker engine API calls
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewComposeError("bring-up failed", cause).WithOperation("start")
//
//	// Semantic error
//	err := errors.NewNotFoundError("service", "clickhouse")
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrServiceNotRunning) { ... }
//
//	// Use classification helpers
//	if errors.IsRetryable(err) { ... }
//	code := errors.ExitCode(err)
//
// # Exit Codes
//
// Lifecycle commands propagate the wrapped tool's exit status unchanged.
// ExitCode recovers that status from an error chain so main can exit with
// exactly the code the orchestrator (or importer) produced.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Compose-related sentinel errors
var (
	// ErrComposeFileNotFound indicates the compose file does not exist.
	ErrComposeFileNotFound = New("compose file not found")
	// ErrServiceNotDeclared indicates the configured service is missing
	// from the compose file.
	ErrServiceNotDeclared = New("service not declared in compose file")
	// ErrServiceNotRunning indicates the target container is not running.
	ErrServiceNotRunning = New("service is not running")
)

// Importer-related sentinel errors
var (
	// ErrDatasetNotFound indicates that the dataset directory could not be found.
	ErrDatasetNotFound = New("dataset directory not found")
	// ErrUnsupportedFormat indicates a dataset file with no registered reader.
	ErrUnsupportedFormat = New("unsupported dataset file format")
	// ErrTableExists indicates that a table already exists.
	ErrTableExists = New("table already exists")
	// ErrNotReady indicates that the database did not become reachable in time.
	ErrNotReady = New("database not ready")
)

// Docker-related sentinel errors
var (
	// ErrContainerNotFound indicates no container matches the compose service.
	ErrContainerNotFound = New("container not found")
	// ErrDaemonUnavailable indicates the Docker daemon could not be reached.
	ErrDaemonUnavailable = New("docker daemon unavailable")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ComposeError represents a failed docker compose invocation. The wrapped
// subprocess has already written its own diagnostics to stderr, so callers
// must not re-print this error for pass-through commands; it exists to
// carry the exit status and to feed the debug log.
//
// Example:
//
//	err := errors.NewComposeError("tear-down failed", cause).WithOperation("stop")
type ComposeError struct {
	baseError
	// Operation is the lifecycle command that failed (start, stop, ...).
	Operation string
	// Args is the full compose argument list, for logging.
	Args []string
}

// NewComposeError creates a new ComposeError.
func NewComposeError(message string, cause error) *ComposeError {
	return &ComposeError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: false,
		},
	}
}

// WithOperation adds the lifecycle operation name to the error context.
func (e *ComposeError) WithOperation(op string) *ComposeError {
	e.Operation = op
	return e
}

// WithArgs records the compose argument list.
func (e *ComposeError) WithArgs(args []string) *ComposeError {
	e.Args = args
	return e
}

// Error returns the formatted error message.
func (e *ComposeError) Error() string {
	prefix := "compose error"
	if e.Operation != "" {
		prefix = fmt.Sprintf("compose error [operation=%s]", e.Operation)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// ImportError represents errors from the dataset importer.
type ImportError struct {
	baseError
	// Table is the target table, when known.
	Table string
	// File is the source dataset file, when known.
	File string
}

// NewImportError creates a new ImportError.
func NewImportError(message string, cause error) *ImportError {
	return &ImportError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithTable adds the target table name to the error context.
func (e *ImportError) WithTable(table string) *ImportError {
	e.Table = table
	return e
}

// WithFile adds the source file path to the error context.
func (e *ImportError) WithFile(file string) *ImportError {
	e.File = file
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *ImportError) WithRetryable(r bool) *ImportError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *ImportError) Error() string {
	var parts []string
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.File))
	}

	prefix := "import error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("import error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// DockerError represents errors from direct Docker engine API calls
// (container inspection, never lifecycle mutation).
type DockerError struct {
	baseError
	// Container is the container name or ID, when known.
	Container string
}

// NewDockerError creates a new DockerError.
func NewDockerError(message string, cause error) *DockerError {
	return &DockerError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithContainer adds the container name to the error context.
func (e *DockerError) WithContainer(name string) *DockerError {
	e.Container = name
	return e
}

// Error returns the formatted error message.
func (e *DockerError) Error() string {
	prefix := "docker error"
	if e.Container != "" {
		prefix = fmt.Sprintf("docker error [container=%s]", e.Container)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates that a resource could not be found.
type NotFoundError struct {
	baseError
	// Resource is the type of resource (e.g., "service", "table").
	Resource string
	// ID is the identifier of the resource.
	ID string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s not found: %s", resource, id),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Resource: resource,
		ID:       id,
	}
}

// ValidationError indicates that input or configuration validation failed.
type ValidationError struct {
	baseError
	// Field is the field that failed validation.
	Field string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    fmt.Sprintf("validation failed for %s: %s", field, message),
			cause:      ErrInvalidInput,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		Field: field,
	}
}

// TimeoutError indicates that an operation exceeded its deadline.
type TimeoutError struct {
	baseError
	// Operation is the operation that timed out.
	Operation string
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    fmt.Sprintf("%s timed out", operation),
			cause:      ErrTimeout,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
	}
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// classifiable is implemented by errors that carry classification metadata.
type classifiable interface {
	IsRetryable() bool
	IsUserFacing() bool
	Severity() Severity
}

// IsRetryable reports whether the error is transient and the operation
// may succeed on retry.
func IsRetryable(err error) bool {
	var c classifiable
	if errors.As(err, &c) {
		return c.IsRetryable()
	}
	return errors.Is(err, ErrTimeout)
}

// IsUserFacing reports whether the error message is safe to display to
// end users. Compose pass-through errors are not: the subprocess already
// wrote its own diagnostics.
func IsUserFacing(err error) bool {
	var c classifiable
	if errors.As(err, &c) {
		return c.IsUserFacing()
	}
	return true
}

// SeverityOf returns the severity of an error, defaulting to SeverityError
// for unclassified errors.
func SeverityOf(err error) Severity {
	var c classifiable
	if errors.As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}

// ExitCode returns the process exit status carried by an error chain.
// A nil error maps to 0. An *exec.ExitError anywhere in the chain yields
// the subprocess's exact exit code, preserving the pass-through contract.
// Any other error maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
