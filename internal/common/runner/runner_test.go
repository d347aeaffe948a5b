package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCapturesTrimmedStdout(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo '  hello world  '")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "hello world" {
		t.Errorf("expected trimmed stdout %q, got %q", "hello world", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", res.ExitCode)
	}
}

func TestRunToolNotFound(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), "turing-tray-no-such-tool-xyz")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if errors.Is(err, ErrCommandFailed) || errors.Is(err, ErrTimeout) {
		t.Error("tool-not-found must not match other error kinds")
	}
}

func TestRunInjectedLookPath(t *testing.T) {
	r := &ExecRunner{
		lookPath: func(string) (string, error) { return "", exec.ErrNotFound },
	}

	_, err := r.Run(context.Background(), "systemctl", "--user", "is-active", "x")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestRunCommandFailed(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "sh", "-c", "echo partial; echo broken >&2; exit 3")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "broken" {
		t.Errorf("expected stderr %q, got %q", "broken", cmdErr.Stderr)
	}
	if res.Stdout != "partial" {
		t.Errorf("stdout should still be captured on failure, got %q", res.Stdout)
	}
	if res.ExitCode != 3 {
		t.Errorf("expected result exit code 3, got %d", res.ExitCode)
	}
}

func TestRunTimeout(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()
	r.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := r.Run(context.Background(), "sh", "-c", "sleep 5")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if errors.Is(err, ErrCommandFailed) {
		t.Error("timeout must not be reported as a command failure")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestRunCallerDeadlineWins(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()
	r.Timeout = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, "sh", "-c", "sleep 5")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout from caller deadline, got %v", err)
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Tool: "systemctl", Args: []string{"--user", "start", "x"}, ExitCode: 5, Stderr: "Unit x.service not found."}
	want := "systemctl --user start x: exit status 5: Unit x.service not found."
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestMockRunnerRecordsCalls(t *testing.T) {
	m := NewMockRunner(func(ctx context.Context, name string, args ...string) (Result, error) {
		return Result{Stdout: "active"}, nil
	})

	res, err := m.Run(context.Background(), "systemctl", "--user", "is-active", "turing-screen")
	if err != nil || res.Stdout != "active" {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}

	if got := m.LastCall().String(); got != "systemctl --user is-active turing-screen" {
		t.Errorf("unexpected call %q", got)
	}
	if len(m.Calls()) != 1 {
		t.Errorf("expected 1 call, got %d", len(m.Calls()))
	}
}
