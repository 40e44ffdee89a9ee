// Package logging provides structured debug logging for chstack commands.
//
// Lifecycle commands are pass-throughs: the wrapped tool's stdout and
// stderr go straight to the terminal, untouched. This package exists for
// everything that shouldn't pollute that stream — what was invoked, with
// which arguments, and how it exited — written as JSON lines to
// .chstack/debug.log for post-hoc analysis.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (operation, service, table)
//   - Log rotation with configurable size limits
//   - Optional gzip compression for rotated logs
//   - Read-back and filtering utilities for `chstack logs --self`
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger]
// type uses Go's slog internally which is designed for concurrent access.
// The [RotatingWriter] type uses a mutex to protect file operations
// during rotation. Child loggers created via With* methods share the
// underlying writer safely.
//
// # Basic Usage
//
// Create a logger for the state directory:
//
//	logger, err := logging.NewLogger(".chstack", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("bring-up complete", "duration_ms", 150)
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	opLogger := logger.WithOperation("seed-data").WithService("clickhouse")
//	opLogger.Info("table created", "table", "cards_data")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"table created","operation":"seed-data","service":"clickhouse","table":"cards_data"}
//
// # Log Rotation
//
// Use rotation to keep the debug log bounded across many invocations:
//
//	config := logging.RotationConfig{
//	    MaxSizeMB:  10,    // Rotate when file exceeds 10MB
//	    MaxBackups: 3,     // Keep 3 backup files
//	    Compress:   true,  // Gzip compress rotated files
//	}
//
//	logger, err := logging.NewLoggerWithRotation(".chstack", "INFO", config)
//
// Rotated files are named: debug.log.1, debug.log.2, etc., where .1 is
// the most recent backup. When compression is enabled, rotated files
// become debug.log.1.gz, etc.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger in tests without creating files
//	}
package logging
