package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"chstack/internal/config"
	"chstack/internal/docker"
	"chstack/internal/errors"
	"chstack/internal/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stack status",
	Long: `Show the state of the stack's containers.

By default runs "docker compose ps". With --wide, queries the Docker
engine directly and adds health state, uptime, and resolved port
bindings for the ClickHouse service.`,
	RunE: runStatus,
}

var statusWide bool

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusWide, "wide", "w", false, "Show detailed container state from the Docker engine")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Close()

	if statusWide {
		return runWideStatus(cmd, cfg, log)
	}

	runner, err := newRunner(cfg, log)
	if err != nil {
		return err
	}

	return runner.Ps(cmd.Context())
}

func runWideStatus(cmd *cobra.Command, cfg *config.Config, log *logging.Logger) error {
	inspector, err := docker.NewInspector(log)
	if err != nil {
		return err
	}
	defer inspector.Close()

	status, err := inspector.ServiceStatus(cmd.Context(), descriptor(cfg))
	if err != nil {
		if errors.Is(err, errors.ErrContainerNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s service %s has no container (stack is down)\n",
				stateDot("exited"), cfg.Compose.Service)
			return nil
		}
		return err
	}

	printWideStatus(cmd.OutOrStdout(), status)
	return nil
}

// printWideStatus renders the detailed container view.
func printWideStatus(out io.Writer, status *docker.ContainerStatus) {
	fmt.Fprintf(out, "%s %s\n", stateDot(status.State), headerStyle.Render(status.Name))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Image"), status.Image)
	fmt.Fprintf(out, "%s %s (%s)\n", labelStyle.Render("State"),
		stateStyle(status.State).Render(status.State), status.Status)
	if status.Health != "" {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Health"), status.Health)
	}
	if status.Running() && !status.StartedAt.IsZero() {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Uptime"),
			time.Since(status.StartedAt).Round(time.Second))
	}
	for i, port := range status.Ports {
		label := ""
		if i == 0 {
			label = "Ports"
		}
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render(label), port)
	}
}
