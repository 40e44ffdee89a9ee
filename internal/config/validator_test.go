package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got %d errors: %v", len(errs), errs)
	}
}

// hasFieldError reports whether any validation error mentions the field
func hasFieldError(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestConfig_Validate_Compose(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		cfg := Default()
		cfg.Compose.File = ""
		if !hasFieldError(cfg.Validate(), "compose.file") {
			t.Error("expected error for empty compose file")
		}
	})

	t.Run("empty service", func(t *testing.T) {
		cfg := Default()
		cfg.Compose.Service = "   "
		if !hasFieldError(cfg.Validate(), "compose.service") {
			t.Error("expected error for blank service name")
		}
	})

	t.Run("empty project is valid", func(t *testing.T) {
		cfg := Default()
		cfg.Compose.Project = ""
		if hasFieldError(cfg.Validate(), "compose.project") {
			t.Error("empty project should be valid (compose picks a default)")
		}
	})

	t.Run("project with whitespace", func(t *testing.T) {
		cfg := Default()
		cfg.Compose.Project = "my stack"
		if !hasFieldError(cfg.Validate(), "compose.project") {
			t.Error("expected error for project name containing whitespace")
		}
	})
}

func TestConfig_Validate_ClickHouse(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		field    string
		hasError bool
	}{
		{"empty host", func(c *Config) { c.ClickHouse.Host = "" }, "clickhouse.host", true},
		{"zero port", func(c *Config) { c.ClickHouse.Port = 0 }, "clickhouse.port", true},
		{"negative port", func(c *Config) { c.ClickHouse.Port = -1 }, "clickhouse.port", true},
		{"port too large", func(c *Config) { c.ClickHouse.Port = 70000 }, "clickhouse.port", true},
		{"valid high port", func(c *Config) { c.ClickHouse.Port = 65535 }, "clickhouse.port", false},
		{"zero http port", func(c *Config) { c.ClickHouse.HTTPPort = 0 }, "clickhouse.http_port", true},
		{"ports collide", func(c *Config) { c.ClickHouse.HTTPPort = c.ClickHouse.Port }, "clickhouse.http_port", true},
		{"empty user", func(c *Config) { c.ClickHouse.User = "" }, "clickhouse.user", true},
		{"empty password is valid", func(c *Config) { c.ClickHouse.Password = "" }, "clickhouse.password", false},
		{"empty database", func(c *Config) { c.ClickHouse.Database = "" }, "clickhouse.database", true},
		{"zero ready timeout", func(c *Config) { c.ClickHouse.ReadyTimeoutSeconds = 0 }, "clickhouse.ready_timeout_seconds", true},
		{"excessive ready timeout", func(c *Config) { c.ClickHouse.ReadyTimeoutSeconds = 7200 }, "clickhouse.ready_timeout_seconds", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			got := hasFieldError(cfg.Validate(), tt.field)
			if got != tt.hasError {
				t.Errorf("Validate() hasError for %s = %v, want %v", tt.field, got, tt.hasError)
			}
		})
	}
}

func TestConfig_Validate_Dataset(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg := Default()
		cfg.Dataset.Path = ""
		if !hasFieldError(cfg.Validate(), "dataset.path") {
			t.Error("expected error for empty dataset path")
		}
	})

	t.Run("empty skip table name", func(t *testing.T) {
		cfg := Default()
		cfg.Dataset.SkipTables = []string{"good_table", ""}
		if !hasFieldError(cfg.Validate(), "dataset.skip_tables[1]") {
			t.Error("expected error for empty skip table name")
		}
	})

	t.Run("duplicate skip table", func(t *testing.T) {
		cfg := Default()
		cfg.Dataset.SkipTables = []string{"train_fraud_labels", "train_fraud_labels"}
		if !hasFieldError(cfg.Validate(), "dataset.skip_tables[1]") {
			t.Error("expected error for duplicate skip table")
		}
	})

	t.Run("no skip tables is valid", func(t *testing.T) {
		cfg := Default()
		cfg.Dataset.SkipTables = nil
		for _, err := range cfg.Validate() {
			if strings.HasPrefix(err.Field, "dataset.skip_tables") {
				t.Errorf("empty skip list should be valid, got error: %v", err)
			}
		}
	})
}

func TestConfig_Validate_Logging(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		field    string
		hasError bool
	}{
		{"valid debug level", func(c *Config) { c.Logging.Level = "debug" }, "logging.level", false},
		{"empty level is valid", func(c *Config) { c.Logging.Level = "" }, "logging.level", false},
		{"invalid level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level", true},
		{"case sensitive level", func(c *Config) { c.Logging.Level = "INFO" }, "logging.level", true},
		{"zero max size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb", true},
		{"excessive max size", func(c *Config) { c.Logging.MaxSizeMB = 2000 }, "logging.max_size_mb", true},
		{"negative max backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups", true},
		{"zero max backups is valid", func(c *Config) { c.Logging.MaxBackups = 0 }, "logging.max_backups", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			got := hasFieldError(cfg.Validate(), tt.field)
			if got != tt.hasError {
				t.Errorf("Validate() hasError for %s = %v, want %v", tt.field, got, tt.hasError)
			}
		})
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	want := []string{"debug", "info", "warn", "error"}
	if len(levels) != len(want) {
		t.Fatalf("ValidLogLevels() returned %d levels, want %d", len(levels), len(want))
	}
	for i, level := range want {
		if levels[i] != level {
			t.Errorf("ValidLogLevels()[%d] = %q, want %q", i, levels[i], level)
		}
	}
}
