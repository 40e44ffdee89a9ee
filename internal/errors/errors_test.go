package errors

import (
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestComposeError(t *testing.T) {
	t.Run("message includes operation", func(t *testing.T) {
		cause := New("exit status 1")
		err := NewComposeError("compose invocation failed", cause).
			WithOperation("start").
			WithArgs([]string{"compose", "-f", "docker-compose.yml", "up", "-d", "clickhouse"})

		msg := err.Error()
		if !strings.Contains(msg, "operation=start") {
			t.Errorf("Error() = %q, want operation in message", msg)
		}
		if !strings.Contains(msg, "exit status 1") {
			t.Errorf("Error() = %q, want cause in message", msg)
		}
		if len(err.Args) != 6 {
			t.Errorf("Args length = %d, want 6", len(err.Args))
		}
	})

	t.Run("unwraps to cause", func(t *testing.T) {
		cause := New("boom")
		err := NewComposeError("failed", cause)
		if !Is(err, cause) {
			t.Error("Is(err, cause) = false, want true")
		}
	})

	t.Run("matches with As", func(t *testing.T) {
		var target *ComposeError
		err := NewComposeError("failed", nil).WithOperation("clean")
		if !As(err, &target) {
			t.Fatal("As() = false, want true")
		}
		if target.Operation != "clean" {
			t.Errorf("Operation = %q, want %q", target.Operation, "clean")
		}
	})

	t.Run("not user facing", func(t *testing.T) {
		err := NewComposeError("failed", nil)
		if IsUserFacing(err) {
			t.Error("compose errors should not be user facing, the subprocess already printed")
		}
	})
}

func TestImportError(t *testing.T) {
	t.Run("message includes table and file", func(t *testing.T) {
		err := NewImportError("row decode failed", nil).
			WithTable("cards_data").
			WithFile("datasets/financial/cards_data.csv")

		msg := err.Error()
		if !strings.Contains(msg, "table=cards_data") {
			t.Errorf("Error() = %q, want table in message", msg)
		}
		if !strings.Contains(msg, "file=datasets/financial/cards_data.csv") {
			t.Errorf("Error() = %q, want file in message", msg)
		}
	})

	t.Run("retryable flag", func(t *testing.T) {
		err := NewImportError("connection refused", nil).WithRetryable(true)
		if !IsRetryable(err) {
			t.Error("IsRetryable() = false, want true")
		}
	})

	t.Run("user facing by default", func(t *testing.T) {
		err := NewImportError("bad header", nil)
		if !IsUserFacing(err) {
			t.Error("IsUserFacing() = false, want true")
		}
	})
}

func TestDockerError(t *testing.T) {
	err := NewDockerError("inspect failed", ErrContainerNotFound).WithContainer("clickhouse")

	if !strings.Contains(err.Error(), "container=clickhouse") {
		t.Errorf("Error() = %q, want container in message", err.Error())
	}
	if !Is(err, ErrContainerNotFound) {
		t.Error("Is(err, ErrContainerNotFound) = false, want true")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("service", "clickhouse")

	want := "service not found: clickhouse"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Resource != "service" || err.ID != "clickhouse" {
		t.Errorf("Resource/ID = %q/%q, want service/clickhouse", err.Resource, err.ID)
	}
	if SeverityOf(err) != SeverityWarning {
		t.Errorf("SeverityOf() = %v, want SeverityWarning", SeverityOf(err))
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("clickhouse.port", "must be between 1 and 65535")

	if !Is(err, ErrInvalidInput) {
		t.Error("Is(err, ErrInvalidInput) = false, want true")
	}
	if !strings.Contains(err.Error(), "clickhouse.port") {
		t.Errorf("Error() = %q, want field in message", err.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("readiness probe")

	if !Is(err, ErrTimeout) {
		t.Error("Is(err, ErrTimeout) = false, want true")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false, want true")
	}
	if !strings.Contains(err.Error(), "readiness probe timed out") {
		t.Errorf("Error() = %q, want operation in message", err.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil-safe plain error", New("plain"), false},
		{"bare timeout sentinel", ErrTimeout, true},
		{"wrapped timeout sentinel", NewComposeError("slow", ErrTimeout), false},
		{"retryable import error", NewImportError("refused", nil).WithRetryable(true), true},
		{"non-retryable import error", NewImportError("bad data", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityOf(t *testing.T) {
	if got := SeverityOf(New("plain")); got != SeverityError {
		t.Errorf("SeverityOf(plain) = %v, want SeverityError", got)
	}
	if got := SeverityOf(NewNotFoundError("table", "users")); got != SeverityWarning {
		t.Errorf("SeverityOf(NotFoundError) = %v, want SeverityWarning", got)
	}
}

func TestExitCode(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if got := ExitCode(nil); got != 0 {
			t.Errorf("ExitCode(nil) = %d, want 0", got)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		if got := ExitCode(New("boom")); got != 1 {
			t.Errorf("ExitCode(plain) = %d, want 1", got)
		}
	})

	t.Run("exec exit error passes through", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("relies on sh")
		}
		cmd := exec.Command("sh", "-c", "exit 18")
		err := cmd.Run()
		if err == nil {
			t.Fatal("expected command to fail")
		}
		if got := ExitCode(err); got != 18 {
			t.Errorf("ExitCode() = %d, want 18", got)
		}
	})

	t.Run("wrapped exec exit error passes through", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("relies on sh")
		}
		cmd := exec.Command("sh", "-c", "exit 7")
		runErr := cmd.Run()
		if runErr == nil {
			t.Fatal("expected command to fail")
		}
		wrapped := NewComposeError("compose invocation failed", runErr).WithOperation("stop")
		if got := ExitCode(wrapped); got != 7 {
			t.Errorf("ExitCode(wrapped) = %d, want 7", got)
		}
	})
}
