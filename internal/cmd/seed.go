package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"chstack/internal/clickhouse"
	"chstack/internal/config"
	"chstack/internal/dataset"
	"chstack/internal/docker"
	"chstack/internal/errors"
	"chstack/internal/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed-data",
	Short: "Import datasets into ClickHouse",
	Long: `Walk the dataset directory and load every file into ClickHouse.

Each file becomes a table named after the file stem. CSV and JSON files
are supported; column types are inferred from the data and tables are
created with the Memory engine. Files that cannot be read are reported
and skipped; the rest of the import continues, and the command exits
non-zero when any table failed.

Tables listed under dataset.skip_tables are created but not loaded.
The merchant category code file (mcc_codes.json) is flattened into a
two-column code/name table.

The service must be running; seed-data never starts it.

Examples:
  # Import the configured dataset directory
  chstack seed-data

  # Import another directory
  chstack seed-data --dataset ./datasets/staging

  # Drop and recreate every table first
  chstack seed-data --full-refresh`,
	RunE: runSeed,
}

var (
	seedDataset     string
	seedFullRefresh bool
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedDataset, "dataset", "", "Dataset directory (default: dataset.path from config)")
	seedCmd.Flags().BoolVar(&seedFullRefresh, "full-refresh", false, "Drop each table before recreating it")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Close()

	dir := cfg.Dataset.Path
	if seedDataset != "" {
		dir = seedDataset
	}

	if err := seedPreflight(cmd.Context(), cfg, log); err != nil {
		return err
	}

	client, err := clickhouse.Connect(cfg.ClickHouse, log)
	if err != nil {
		return err
	}
	defer client.Close()

	timeout := time.Duration(cfg.ClickHouse.ReadyTimeoutSeconds) * time.Second
	if err := client.WaitReady(cmd.Context(), timeout); err != nil {
		if errors.Is(err, errors.ErrNotReady) {
			return fmt.Errorf("clickhouse is not reachable at %s:%d; is the stack running? (%w)",
				cfg.ClickHouse.Host, cfg.ClickHouse.Port, err)
		}
		return err
	}

	importer := dataset.NewImporter(client, log,
		dataset.WithSkipTables(cfg.Dataset.SkipTables),
		dataset.WithFullRefresh(seedFullRefresh),
	)

	result, err := importer.Run(cmd.Context(), dir)
	if err != nil {
		return err
	}

	printSeedSummary(cmd.OutOrStdout(), result)
	return seedResultErr(result)
}

// seedPreflight confirms the service container is running before the
// importer connects. When the Docker engine itself cannot be reached the
// check is skipped and readiness polling decides instead.
func seedPreflight(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	inspector, err := docker.NewInspector(log)
	if err != nil {
		log.Debug("docker engine unavailable, skipping container check", "error", err)
		return nil
	}
	defer inspector.Close()

	status, err := inspector.ServiceStatus(ctx, descriptor(cfg))
	return preflightErr(status, err, cfg.Compose.Service, log)
}

// preflightErr maps a container inspection outcome to a seed-data
// precondition failure. Engine connectivity problems are not failures
// here; only a confirmed absent or stopped container is.
func preflightErr(status *docker.ContainerStatus, err error, service string, log *logging.Logger) error {
	if err != nil {
		if errors.Is(err, errors.ErrContainerNotFound) {
			return fmt.Errorf("service %s has no container: %w (run \"chstack start\" first)",
				service, errors.ErrServiceNotRunning)
		}
		if errors.Is(err, errors.ErrDaemonUnavailable) {
			log.Debug("docker daemon unreachable, skipping container check", "error", err)
			return nil
		}
		return err
	}
	if !status.Running() {
		return fmt.Errorf("service %s container is %s: %w (run \"chstack start\" first)",
			service, status.State, errors.ErrServiceNotRunning)
	}
	return nil
}

// seedResultErr converts per-table failures into a command failure so the
// process exits non-zero when any table could not be imported.
func seedResultErr(result *dataset.Result) error {
	failed := result.Failed()
	if len(failed) == 0 {
		return nil
	}
	return errors.NewImportError(
		fmt.Sprintf("%d of %d tables failed to import", len(failed), len(result.Tables)), nil)
}

// printSeedSummary renders the per-table outcome of an import run.
func printSeedSummary(out io.Writer, result *dataset.Result) {
	for _, tr := range result.Tables {
		switch {
		case tr.Err != nil:
			fmt.Fprintf(out, "%s %s: %v\n", stateDot("exited"), tr.Table, tr.Err)
		case tr.Skipped:
			fmt.Fprintf(out, "%s %s: table ready, loading skipped\n", stateDot("created"), tr.Table)
		default:
			fmt.Fprintf(out, "%s %s: %d rows\n", stateDot("running"), tr.Table, tr.Rows)
		}
	}

	failed := len(result.Failed())
	fmt.Fprintf(out, "\n%s %d tables processed, %d rows inserted",
		headerStyle.Render("Done:"), len(result.Tables), result.RowsInserted())
	if failed > 0 {
		fmt.Fprintf(out, ", %d failed", failed)
	}
	fmt.Fprintln(out)
}
