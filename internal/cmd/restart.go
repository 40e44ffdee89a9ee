package cmd

import (
	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the stack",
	Long: `Tear the stack down and bring it back up.

Runs "docker compose down" followed by "docker compose up -d". The two
phases are not atomic: if the tear-down fails, the bring-up is not
attempted and the stack stays down.`,
	RunE: runRestart,
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

func runRestart(cmd *cobra.Command, args []string) error {
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

	return runner.Restart(cmd.Context())
}
