// Package cmd wires the chstack command line interface. Each lifecycle
// command is a thin pass-through to docker compose: the subprocess
// inherits stdio and its exit code is propagated unchanged.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chstack/internal/compose"
	"chstack/internal/config"
	"chstack/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "chstack",
	Short: "ClickHouse docker-compose stack manager",
	Long: `Chstack manages a single-node ClickHouse stack defined in a
docker-compose file: bring-up, tear-down, logs, status, image
maintenance, and seeding the database from a local dataset directory.

The container itself is owned by docker compose; chstack only
constructs the invocations and reports what the engine says.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/chstack/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/chstack")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CHSTACK")
	// Replace dots with underscores for nested keys in env vars
	// e.g., CHSTACK_CLICKHOUSE_PORT for clickhouse.port
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig resolves the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger opens the debug log according to config. Logging failures
// degrade to a no-op logger rather than blocking the command.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	log, err := logging.NewLoggerWithRotation(config.StateDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return logging.NopLogger()
	}
	return log
}

// descriptor builds the compose target from config.
func descriptor(cfg *config.Config) compose.Descriptor {
	return compose.Descriptor{
		File:    cfg.Compose.File,
		Project: cfg.Compose.Project,
		Service: cfg.Compose.Service,
	}
}

// newRunner builds a compose runner after checking that the compose file
// exists and declares the configured service. The check catches config
// typos before docker compose produces a less direct message.
func newRunner(cfg *config.Config, log *logging.Logger) (*compose.Runner, error) {
	desc := descriptor(cfg)

	if err := compose.Verify(desc); err != nil {
		return nil, err
	}

	return compose.NewRunner(desc, log), nil
}
