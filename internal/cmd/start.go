package cmd

import (
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ClickHouse service",
	Long: `Start the ClickHouse service in detached mode.

Runs "docker compose up -d" against the configured service. The compose
output streams directly to the terminal and the compose exit code is
propagated unchanged.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Close()

	runner, err := newRunner(cfg, log)
	if err != nil {
		return err
	}

	return runner.Up(cmd.Context())
}
