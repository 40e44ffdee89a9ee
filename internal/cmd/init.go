package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chstack/internal/compose"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a ClickHouse stack in the current directory",
	Long: `Write a starter docker-compose.yml and .env for a single-node
ClickHouse stack.

The generated compose file publishes the HTTP (8123), native (9000),
and interserver (9009) ports and persists data in a named volume.
Credentials live in .env next to the compose file.

Existing files are not overwritten unless --force is given.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	if err := compose.Scaffold(dir, initForce); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Wrote docker-compose.yml and .env")
	fmt.Fprintln(out, "Review the credentials in .env, then run: chstack start")
	return nil
}
