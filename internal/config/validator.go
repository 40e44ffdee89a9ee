package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "clickhouse.port")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateCompose()...)
	errors = append(errors, c.validateClickHouse()...)
	errors = append(errors, c.validateDataset()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateCompose validates the ComposeConfig
func (c *Config) validateCompose() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Compose.File) == "" {
		errors = append(errors, ValidationError{
			Field:   "compose.file",
			Value:   c.Compose.File,
			Message: "cannot be empty",
		})
	}

	if strings.TrimSpace(c.Compose.Service) == "" {
		errors = append(errors, ValidationError{
			Field:   "compose.service",
			Value:   c.Compose.Service,
			Message: "cannot be empty",
		})
	}

	// Compose rejects project names with whitespace
	if c.Compose.Project != "" && strings.ContainsAny(c.Compose.Project, " \t") {
		errors = append(errors, ValidationError{
			Field:   "compose.project",
			Value:   c.Compose.Project,
			Message: "cannot contain whitespace",
		})
	}

	return errors
}

// validateClickHouse validates the ClickHouseConfig
func (c *Config) validateClickHouse() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.ClickHouse.Host) == "" {
		errors = append(errors, ValidationError{
			Field:   "clickhouse.host",
			Value:   c.ClickHouse.Host,
			Message: "cannot be empty",
		})
	}

	errors = append(errors, validatePort(c.ClickHouse.Port, "clickhouse.port")...)
	errors = append(errors, validatePort(c.ClickHouse.HTTPPort, "clickhouse.http_port")...)

	if c.ClickHouse.Port == c.ClickHouse.HTTPPort {
		errors = append(errors, ValidationError{
			Field:   "clickhouse.http_port",
			Value:   c.ClickHouse.HTTPPort,
			Message: "must differ from the native protocol port",
		})
	}

	if strings.TrimSpace(c.ClickHouse.User) == "" {
		errors = append(errors, ValidationError{
			Field:   "clickhouse.user",
			Value:   c.ClickHouse.User,
			Message: "cannot be empty",
		})
	}

	if strings.TrimSpace(c.ClickHouse.Database) == "" {
		errors = append(errors, ValidationError{
			Field:   "clickhouse.database",
			Value:   c.ClickHouse.Database,
			Message: "cannot be empty",
		})
	}

	if c.ClickHouse.ReadyTimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "clickhouse.ready_timeout_seconds",
			Value:   c.ClickHouse.ReadyTimeoutSeconds,
			Message: "must be positive",
		})
	}

	// Generous upper bound so a minutes-vs-seconds typo gets caught
	const maxReadyTimeoutSeconds = 3600
	if c.ClickHouse.ReadyTimeoutSeconds > maxReadyTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "clickhouse.ready_timeout_seconds",
			Value:   c.ClickHouse.ReadyTimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxReadyTimeoutSeconds),
		})
	}

	return errors
}

// validatePort checks that a port number falls in the valid TCP range
func validatePort(port int, field string) []ValidationError {
	var errors []ValidationError

	if port < 1 || port > 65535 {
		errors = append(errors, ValidationError{
			Field:   field,
			Value:   port,
			Message: "must be between 1 and 65535",
		})
	}

	return errors
}

// validateDataset validates the DatasetConfig
func (c *Config) validateDataset() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Dataset.Path) == "" {
		errors = append(errors, ValidationError{
			Field:   "dataset.path",
			Value:   c.Dataset.Path,
			Message: "cannot be empty",
		})
	}

	seen := make(map[string]bool)
	for i, table := range c.Dataset.SkipTables {
		fieldName := fmt.Sprintf("dataset.skip_tables[%d]", i)

		if strings.TrimSpace(table) == "" {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Value:   table,
				Message: "table name cannot be empty",
			})
			continue
		}

		if seen[table] {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Value:   table,
				Message: "duplicate table name",
			})
		}
		seen[table] = true
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
