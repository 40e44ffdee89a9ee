package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the stack images",
	Long:  `Run "docker compose build" for the stack.`,
	RunE:  runBuild,
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull the stack images",
	Long: `Run "docker compose pull" for the stack.

Pulling only refreshes local images. Running containers keep their
current image until the next start or restart.`,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(pullCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	return runner.Build(cmd.Context())
}

func runPull(cmd *cobra.Command, args []string) error {
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

	return runner.Pull(cmd.Context())
}
