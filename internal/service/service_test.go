package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/turing-smart-screen/turing-tray/internal/common/runner"
)

func newTestSystemctl(t *testing.T, fn func(name string, args ...string) (runner.Result, error)) (*Systemctl, *runner.MockRunner) {
	t.Helper()
	m := runner.NewMockRunner(func(ctx context.Context, name string, args ...string) (runner.Result, error) {
		return fn(name, args...)
	})
	s, err := NewSystemctl(DefaultUnit, m)
	if err != nil {
		t.Fatalf("NewSystemctl: %v", err)
	}
	return s, m
}

func ok(string, ...string) (runner.Result, error) { return runner.Result{}, nil }

func TestNewSystemctlRejectsEmptyUnit(t *testing.T) {
	if _, err := NewSystemctl("", nil); !errors.Is(err, ErrEmptyUnit) {
		t.Errorf("expected ErrEmptyUnit, got %v", err)
	}
}

func TestLifecycleVerbs(t *testing.T) {
	tests := []struct {
		name string
		call func(*Systemctl) error
		want string
	}{
		{"start", func(s *Systemctl) error { return s.Start(context.Background()) }, "systemctl --user start turing-screen"},
		{"stop", func(s *Systemctl) error { return s.Stop(context.Background()) }, "systemctl --user stop turing-screen"},
		{"restart", func(s *Systemctl) error { return s.Restart(context.Background()) }, "systemctl --user restart turing-screen"},
		{"enable", func(s *Systemctl) error { return s.Enable(context.Background()) }, "systemctl --user enable turing-screen"},
		{"disable", func(s *Systemctl) error { return s.Disable(context.Background()) }, "systemctl --user disable turing-screen"},
		{"daemon-reload", func(s *Systemctl) error { return s.DaemonReload(context.Background()) }, "systemctl --user daemon-reload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestSystemctl(t, ok)
			if err := tt.call(s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := m.LastCall().String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLifecycleErrorKindsSurvive(t *testing.T) {
	kinds := []error{
		runner.ErrToolNotFound,
		runner.ErrTimeout,
		&runner.CommandError{Tool: "systemctl", ExitCode: 1},
	}

	for _, kind := range kinds {
		s, _ := newTestSystemctl(t, func(string, ...string) (runner.Result, error) {
			return runner.Result{}, kind
		})
		err := s.Start(context.Background())
		if !errors.Is(err, kind) {
			t.Errorf("expected %v to be preserved, got %v", kind, err)
		}
		if !strings.Contains(err.Error(), "start turing-screen") {
			t.Errorf("expected verb and unit in message, got %q", err.Error())
		}
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantActive bool
		wantErr    error
	}{
		{"exit zero is active", nil, true, nil},
		{"non-zero exit is inactive", &runner.CommandError{ExitCode: 3}, false, nil},
		{"missing systemctl is an error", runner.ErrToolNotFound, false, runner.ErrToolNotFound},
		{"timeout is an error", runner.ErrTimeout, false, runner.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestSystemctl(t, func(string, ...string) (runner.Result, error) {
				return runner.Result{}, tt.err
			})
			active, err := s.IsActive(context.Background())
			if active != tt.wantActive {
				t.Errorf("expected active=%v, got %v", tt.wantActive, active)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if got := m.LastCall().String(); got != "systemctl --user is-active turing-screen" {
				t.Errorf("unexpected command %q", got)
			}
		})
	}
}

func TestIsEnabled(t *testing.T) {
	s, m := newTestSystemctl(t, func(string, ...string) (runner.Result, error) {
		return runner.Result{Stdout: "disabled"}, &runner.CommandError{ExitCode: 1}
	})
	enabled, err := s.IsEnabled(context.Background())
	if err != nil || enabled {
		t.Errorf("expected disabled without error, got %v, %v", enabled, err)
	}
	if got := m.LastCall().String(); got != "systemctl --user is-enabled turing-screen" {
		t.Errorf("unexpected command %q", got)
	}
}

func TestStatusReturnsOutputForInactiveUnit(t *testing.T) {
	s, _ := newTestSystemctl(t, func(string, ...string) (runner.Result, error) {
		return runner.Result{Stdout: "○ turing-screen.service\n   Active: inactive (dead)", ExitCode: 3},
			&runner.CommandError{ExitCode: 3}
	})

	out, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "inactive (dead)") {
		t.Errorf("expected status text, got %q", out)
	}
}

func TestStatusHasDeadline(t *testing.T) {
	s, _ := newTestSystemctl(t, func(string, ...string) (runner.Result, error) { return runner.Result{}, nil })
	s.runner = runner.NewMockRunner(func(ctx context.Context, name string, args ...string) (runner.Result, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected status to run with a deadline")
		}
		return runner.Result{Stdout: "ok"}, nil
	})
	if _, err := s.Status(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusToolMissing(t *testing.T) {
	s, _ := newTestSystemctl(t, func(string, ...string) (runner.Result, error) {
		return runner.Result{}, runner.ErrToolNotFound
	})
	if _, err := s.Status(context.Background()); !errors.Is(err, runner.ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestJournal(t *testing.T) {
	s, m := newTestSystemctl(t, func(string, ...string) (runner.Result, error) {
		return runner.Result{Stdout: "line1\nline2"}, nil
	})

	out, err := s.Journal(context.Background(), 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "line1\nline2" {
		t.Errorf("unexpected journal %q", out)
	}
	want := "journalctl --user -u turing-screen -n 200 --no-pager"
	if got := m.LastCall().String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if _, err := s.Journal(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.LastCall().Args[4]; got != "100" {
		t.Errorf("expected default of 100 lines, got %s", got)
	}
}

func TestJournalNonZeroExit(t *testing.T) {
	tests := []struct {
		name    string
		stdout  string
		err     error
		want    string
		wantErr error
	}{
		{"output kept on failure", "-- No entries --\nline1", &runner.CommandError{Tool: "journalctl", ExitCode: 1}, "-- No entries --\nline1", nil},
		{"failure without output", "", &runner.CommandError{Tool: "journalctl", ExitCode: 1}, "", runner.ErrCommandFailed},
		{"missing tool", "", runner.ErrToolNotFound, "", runner.ErrToolNotFound},
		{"timeout drops partial output", "partial", runner.ErrTimeout, "", runner.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSystemctl(t, func(string, ...string) (runner.Result, error) {
				return runner.Result{Stdout: tt.stdout}, tt.err
			})

			out, err := s.Journal(context.Background(), 10)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("Journal = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	m := NewMockController(DefaultUnit)
	m.SetState(true, false)

	st, err := Snapshot(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Active || st.Enabled {
		t.Errorf("unexpected state %+v", st)
	}

	m.QueryErr = runner.ErrToolNotFound
	if _, err := Snapshot(context.Background(), m); !errors.Is(err, runner.ErrToolNotFound) {
		t.Errorf("expected query error, got %v", err)
	}
}
