package cmd

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chstack/internal/config"
	"chstack/internal/errors"
	"chstack/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Stream service logs",
	Long: `Stream logs for the ClickHouse service.

By default runs "docker compose logs -f", following the log stream
until interrupted. Ctrl-C detaches from the stream; the service keeps
running.

With --self, shows chstack's own debug log instead of the container
logs. Use the filter flags to narrow the output.

Examples:
  # Follow container logs
  chstack logs

  # One-shot snapshot without following
  chstack logs --follow=false

  # Inspect chstack's own debug log
  chstack logs --self --level warn --since 1h

  # Search the debug log
  chstack logs --self --grep "compose invocation"`,
	RunE: runLogs,
}

var (
	logsFollow    bool
	logsSelf      bool
	logsLevel     string
	logsSince     string
	logsOperation string
	logsGrep      string
	logsTail      int
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", true, "Follow log output")
	logsCmd.Flags().BoolVar(&logsSelf, "self", false, "Show chstack's own debug log instead of container logs")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsOperation, "operation", "", "Filter by lifecycle operation (start, stop, seed-data, ...)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries matching pattern (regex)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 0, "Number of entries to show (0 for all)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsSelf {
		return runSelfLogs(cmd)
	}

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

	return runner.Logs(cmd.Context(), logsFollow)
}

// runSelfLogs prints filtered entries from chstack's debug log.
func runSelfLogs(cmd *cobra.Command) error {
	if err := validateLevelFlag(logsLevel); err != nil {
		return err
	}

	entries, err := logging.ReadEntries(config.StateDir())
	if err != nil {
		return fmt.Errorf("failed to read debug log: %w", err)
	}

	filter := logging.LogFilter{
		Level:     logsLevel,
		Operation: logsOperation,
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid --since duration %q: %w", logsSince, err)
		}
		filter.StartTime = time.Now().Add(-d)
	}

	entries = logging.FilterEntries(entries, filter)

	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return fmt.Errorf("invalid --grep pattern %q: %w", logsGrep, err)
		}
		entries = grepEntries(entries, re)
	}

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	out := cmd.OutOrStdout()
	for _, entry := range entries {
		fmt.Fprintln(out, formatLogEntry(entry))
	}
	return nil
}

// validateLevelFlag rejects unknown --level values instead of silently
// disabling the filter.
func validateLevelFlag(level string) error {
	if level == "" {
		return nil
	}
	upper := strings.ToUpper(level)
	for _, valid := range logging.ValidLevels() {
		if upper == valid {
			return nil
		}
	}
	return errors.NewValidationError("level",
		fmt.Sprintf("unknown level %q (valid: debug, info, warn, error)", level))
}

// grepEntries keeps entries whose message or operation matches the pattern.
func grepEntries(entries []logging.LogEntry, re *regexp.Regexp) []logging.LogEntry {
	var result []logging.LogEntry
	for _, entry := range entries {
		if re.MatchString(entry.Message) || re.MatchString(entry.Operation) {
			result = append(result, entry)
		}
	}
	return result
}

// formatLogEntry renders one debug log entry for the terminal.
func formatLogEntry(entry logging.LogEntry) string {
	var sb strings.Builder
	sb.WriteString(entry.Timestamp.Format("2006-01-02 15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(levelStyle(entry.Level).Render(fmt.Sprintf("%-5s", entry.Level)))
	if entry.Operation != "" {
		sb.WriteString(" [")
		sb.WriteString(entry.Operation)
		sb.WriteString("]")
	}
	sb.WriteString(" ")
	sb.WriteString(entry.Message)
	if entry.Table != "" {
		sb.WriteString(" table=")
		sb.WriteString(entry.Table)
	}
	for key, value := range entry.Attrs {
		sb.WriteString(fmt.Sprintf(" %s=%v", key, value))
	}
	return sb.String()
}
