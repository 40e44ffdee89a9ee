package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Stop the stack and remove its volumes",
	Long: `Stop the stack, remove its containers, and delete named volumes.

Runs "docker compose down -v". This destroys all ClickHouse data stored
in the stack's volumes; the next start brings up an empty database.

A confirmation prompt guards the data loss. Use --force to skip it.`,
	RunE: runClean,
}

var cleanForce bool

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanForce, "force", "f", false, "Skip confirmation prompt")
}

func runClean(cmd *cobra.Command, args []string) error {
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

	if !cleanForce {
		fmt.Fprintf(cmd.OutOrStdout(), "This removes the stack volumes and all ClickHouse data.\n")
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
			fmt.Fprintln(cmd.OutOrStdout(), "Clean cancelled.")
			return nil
		}
	}

	return runner.Down(cmd.Context(), true)
}

// confirm asks for a y/N answer on the given reader.
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Proceed? [y/N] ")
	reader := bufio.NewReader(in)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
