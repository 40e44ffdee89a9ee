package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Populated from main via SetVersionInfo; defaults cover go install builds.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo records the build metadata injected at link time.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "chstack %s\n", buildVersion)
		fmt.Fprintf(out, "  commit: %s\n", buildCommit)
		fmt.Fprintf(out, "  built:  %s\n", buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
