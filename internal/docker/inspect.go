// Package docker provides read-only container inspection through the
// Docker engine API. All lifecycle mutation goes through docker compose;
// this package only answers questions the compose CLI cannot, like
// health state and resolved port bindings.
package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"chstack/internal/compose"
	"chstack/internal/errors"
	"chstack/internal/logging"
)

// Compose-managed containers carry these labels.
const (
	labelProject = "com.docker.compose.project"
	labelService = "com.docker.compose.service"
)

// PortBinding is one published port of a running container.
type PortBinding struct {
	HostIP        string
	HostPort      string
	ContainerPort string
}

// String renders the binding the way docker ps does.
func (p PortBinding) String() string {
	return fmt.Sprintf("%s:%s->%s", p.HostIP, p.HostPort, p.ContainerPort)
}

// ContainerStatus is a snapshot of the service container.
type ContainerStatus struct {
	ID     string
	Name   string
	Image  string
	State  string
	Status string
	// Health is the healthcheck state, empty when no healthcheck is defined.
	Health    string
	StartedAt time.Time
	Ports     []PortBinding
}

// Running reports whether the container is in the running state.
func (s *ContainerStatus) Running() bool {
	return s.State == "running"
}

// Inspector queries the Docker daemon for container state.
type Inspector struct {
	cli *client.Client
	log *logging.Logger
}

// NewInspector connects to the Docker daemon using the standard
// environment settings (DOCKER_HOST and friends).
func NewInspector(log *logging.Logger) (*Inspector, error) {
	if log == nil {
		log = logging.NopLogger()
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.NewDockerError("failed to create docker client", err)
	}

	return &Inspector{cli: cli, log: log}, nil
}

// ServiceStatus finds the container backing the compose service and
// returns its state. Stopped containers are included so status can
// distinguish "created but exited" from "never started".
func (i *Inspector) ServiceStatus(ctx context.Context, desc compose.Descriptor) (*ContainerStatus, error) {
	args := filters.NewArgs(filters.Arg("label", labelService+"="+desc.Service))
	if desc.Project != "" {
		args.Add("label", labelProject+"="+desc.Project)
	}

	containers, err := i.cli.ContainerList(ctx, types.ContainerListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		if client.IsErrConnectionFailed(err) {
			return nil, fmt.Errorf("%w: %w", errors.ErrDaemonUnavailable, err)
		}
		return nil, errors.NewDockerError("failed to list containers", err)
	}
	if len(containers) == 0 {
		return nil, fmt.Errorf("%w: service %s", errors.ErrContainerNotFound, desc.Service)
	}

	// Compose enforces one container per service unless scaled; take the first.
	summary := containers[0]
	i.log.Debug("found service container", "id", summary.ID[:12], "state", summary.State)

	detail, err := i.cli.ContainerInspect(ctx, summary.ID)
	if err != nil {
		return nil, errors.NewDockerError("failed to inspect container", err).
			WithContainer(containerName(summary.Names))
	}

	status := &ContainerStatus{
		ID:     summary.ID,
		Name:   containerName(summary.Names),
		Image:  summary.Image,
		State:  summary.State,
		Status: summary.Status,
	}
	if detail.State != nil {
		if detail.State.Health != nil {
			status.Health = detail.State.Health.Status
		}
		if t, err := time.Parse(time.RFC3339Nano, detail.State.StartedAt); err == nil {
			status.StartedAt = t
		}
	}
	if detail.NetworkSettings != nil {
		status.Ports = portBindings(detail.NetworkSettings.Ports)
	}

	return status, nil
}

// Close releases the daemon connection.
func (i *Inspector) Close() error {
	return i.cli.Close()
}

// containerName strips the leading slash the engine puts on names.
func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

// portBindings flattens a port map into a stable, sorted slice.
func portBindings(ports nat.PortMap) []PortBinding {
	var bindings []PortBinding
	for port, hosts := range ports {
		for _, host := range hosts {
			ip := host.HostIP
			if ip == "" {
				ip = "0.0.0.0"
			}
			bindings = append(bindings, PortBinding{
				HostIP:        ip,
				HostPort:      host.HostPort,
				ContainerPort: string(port),
			})
		}
	}
	sort.Slice(bindings, func(a, b int) bool {
		if bindings[a].ContainerPort != bindings[b].ContainerPort {
			return bindings[a].ContainerPort < bindings[b].ContainerPort
		}
		return bindings[a].HostPort < bindings[b].HostPort
	})
	return bindings
}
