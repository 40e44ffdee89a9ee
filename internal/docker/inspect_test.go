package docker

import (
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
)

func TestContainerName(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"strips slash", []string{"/clickhouse"}, "clickhouse"},
		{"takes first", []string{"/clickhouse", "/alias"}, "clickhouse"},
		{"no slash", []string{"clickhouse"}, "clickhouse"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containerName(tt.names); got != tt.want {
				t.Errorf("containerName(%v) = %q, want %q", tt.names, got, tt.want)
			}
		})
	}
}

func TestPortBindings(t *testing.T) {
	ports := nat.PortMap{
		nat.Port("9000/tcp"): []nat.PortBinding{
			{HostIP: "0.0.0.0", HostPort: "9000"},
		},
		nat.Port("8123/tcp"): []nat.PortBinding{
			{HostIP: "", HostPort: "8123"},
		},
	}

	bindings := portBindings(ports)

	if len(bindings) != 2 {
		t.Fatalf("bindings = %d, want 2", len(bindings))
	}
	// Sorted by container port, so 8123 first.
	if bindings[0].ContainerPort != "8123/tcp" {
		t.Errorf("bindings[0].ContainerPort = %q, want %q", bindings[0].ContainerPort, "8123/tcp")
	}
	if bindings[0].HostIP != "0.0.0.0" {
		t.Errorf("bindings[0].HostIP = %q, want default 0.0.0.0", bindings[0].HostIP)
	}
	if got := bindings[1].String(); got != "0.0.0.0:9000->9000/tcp" {
		t.Errorf("bindings[1].String() = %q, want %q", got, "0.0.0.0:9000->9000/tcp")
	}
}

func TestPortBindingsEmpty(t *testing.T) {
	if got := portBindings(nil); got != nil {
		t.Errorf("portBindings(nil) = %v, want nil", got)
	}
}

func TestContainerStatusRunning(t *testing.T) {
	running := &ContainerStatus{State: "running", StartedAt: time.Now()}
	if !running.Running() {
		t.Error("Running() = false for running state")
	}

	exited := &ContainerStatus{State: "exited"}
	if exited.Running() {
		t.Error("Running() = true for exited state")
	}
}
