// Package config defines the chstack configuration, its defaults, and
// validation. Configuration is loaded through viper from a YAML file,
// environment variables (CHSTACK_ prefix), and command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete chstack configuration
type Config struct {
	Compose    ComposeConfig    `mapstructure:"compose"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ComposeConfig is the service descriptor: which compose file and which
// declared service the lifecycle commands target.
type ComposeConfig struct {
	// File is the path to the compose file (default: "docker-compose.yml")
	File string `mapstructure:"file"`
	// Project is an optional compose project name passed as -p.
	// Empty uses the compose default (directory name).
	Project string `mapstructure:"project"`
	// Service is the service name targeted by start/logs/status (default: "clickhouse")
	Service string `mapstructure:"service"`
}

// ClickHouseConfig holds the connection settings the dataset importer
// uses. The orchestrated container reads its own settings from .env;
// these must agree with it.
type ClickHouseConfig struct {
	// Host is the ClickHouse host (default: "localhost")
	Host string `mapstructure:"host"`
	// Port is the native protocol port (default: 9000)
	Port int `mapstructure:"port"`
	// HTTPPort is the HTTP interface port (default: 8123)
	HTTPPort int `mapstructure:"http_port"`
	// User is the ClickHouse user (default: "clickhouse")
	User string `mapstructure:"user"`
	// Password is the ClickHouse password (default: "clickhouse")
	Password string `mapstructure:"password"`
	// Database is the target database (default: "default")
	Database string `mapstructure:"database"`
	// ReadyTimeoutSeconds bounds how long seed-data waits for the server
	// to accept connections after bring-up (default: 60)
	ReadyTimeoutSeconds int `mapstructure:"ready_timeout_seconds"`
}

// DatasetConfig controls the seed-data importer.
type DatasetConfig struct {
	// Path is the dataset directory walked recursively for table files
	// (default: "datasets/financial")
	Path string `mapstructure:"path"`
	// SkipTables are created but never loaded (default: [train_fraud_labels])
	SkipTables []string `mapstructure:"skip_tables"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Compose: ComposeConfig{
			File:    "docker-compose.yml",
			Project: "",
			Service: "clickhouse",
		},
		ClickHouse: ClickHouseConfig{
			Host:                "localhost",
			Port:                9000,
			HTTPPort:            8123,
			User:                "clickhouse",
			Password:            "clickhouse",
			Database:            "default",
			ReadyTimeoutSeconds: 60,
		},
		Dataset: DatasetConfig{
			Path:       filepath.Join("datasets", "financial"),
			SkipTables: []string{"train_fraud_labels"},
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Compose defaults
	viper.SetDefault("compose.file", defaults.Compose.File)
	viper.SetDefault("compose.project", defaults.Compose.Project)
	viper.SetDefault("compose.service", defaults.Compose.Service)

	// ClickHouse defaults
	viper.SetDefault("clickhouse.host", defaults.ClickHouse.Host)
	viper.SetDefault("clickhouse.port", defaults.ClickHouse.Port)
	viper.SetDefault("clickhouse.http_port", defaults.ClickHouse.HTTPPort)
	viper.SetDefault("clickhouse.user", defaults.ClickHouse.User)
	viper.SetDefault("clickhouse.password", defaults.ClickHouse.Password)
	viper.SetDefault("clickhouse.database", defaults.ClickHouse.Database)
	viper.SetDefault("clickhouse.ready_timeout_seconds", defaults.ClickHouse.ReadyTimeoutSeconds)

	// Dataset defaults
	viper.SetDefault("dataset.path", defaults.Dataset.Path)
	viper.SetDefault("dataset.skip_tables", defaults.Dataset.SkipTables)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load unmarshals the current viper state into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory where the config file is stored,
// following the XDG convention: $HOME/.config/chstack.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "chstack")
}

// StateDir returns the directory for runtime state (the debug log),
// relative to the working directory so logs sit next to the stack they
// describe.
func StateDir() string {
	return ".chstack"
}
