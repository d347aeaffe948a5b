// Package service controls the display renderer's systemd user unit.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/runner"
)

// DefaultUnit is the user unit that runs the display process
const DefaultUnit = "turing-screen"

const (
	// StatusTimeout bounds `systemctl status`, which can stall on a busy journal
	StatusTimeout = 5 * time.Second
	// DefaultJournalLines is the number of journal entries shown by default
	DefaultJournalLines = 100
)

// ErrEmptyUnit is returned when a controller is created without a unit name
var ErrEmptyUnit = errors.New("service unit name is empty")

// Controller defines the operations on the display service unit.
// This interface allows for mocking systemd in tests.
type Controller interface {
	// Unit returns the controlled unit name
	Unit() string

	// Start starts the unit
	Start(ctx context.Context) error

	// Stop stops the unit
	Stop(ctx context.Context) error

	// Restart restarts the unit
	Restart(ctx context.Context) error

	// Enable enables the unit at login
	Enable(ctx context.Context) error

	// Disable disables the unit at login
	Disable(ctx context.Context) error

	// IsActive reports whether the unit is running
	IsActive(ctx context.Context) (bool, error)

	// IsEnabled reports whether the unit starts at login
	IsEnabled(ctx context.Context) (bool, error)

	// Status returns the `systemctl status` text
	Status(ctx context.Context) (string, error)

	// Journal returns the last n journal lines of the unit
	Journal(ctx context.Context, lines int) (string, error)

	// DaemonReload reloads the user manager configuration
	DaemonReload(ctx context.Context) error
}

// Systemctl drives a unit through `systemctl --user`
type Systemctl struct {
	unit   string
	runner runner.Runner
}

// NewSystemctl creates a controller for unit using r to run commands
func NewSystemctl(unit string, r runner.Runner) (*Systemctl, error) {
	if unit == "" {
		return nil, ErrEmptyUnit
	}
	if r == nil {
		r = runner.NewExecRunner()
	}
	return &Systemctl{unit: unit, runner: r}, nil
}

// Unit returns the controlled unit name
func (s *Systemctl) Unit() string {
	return s.unit
}

func (s *Systemctl) systemctl(ctx context.Context, args ...string) (runner.Result, error) {
	full := append([]string{"--user"}, args...)
	logger.Debug("running systemctl %v", full)
	res, err := s.runner.Run(ctx, "systemctl", full...)
	if err != nil {
		logger.Debug("systemctl %v: %v", full, err)
	}
	return res, err
}

func (s *Systemctl) verb(ctx context.Context, verb string) error {
	if _, err := s.systemctl(ctx, verb, s.unit); err != nil {
		return fmt.Errorf("%s %s: %w", verb, s.unit, err)
	}
	return nil
}

// Start starts the unit
func (s *Systemctl) Start(ctx context.Context) error { return s.verb(ctx, "start") }

// Stop stops the unit
func (s *Systemctl) Stop(ctx context.Context) error { return s.verb(ctx, "stop") }

// Restart restarts the unit
func (s *Systemctl) Restart(ctx context.Context) error { return s.verb(ctx, "restart") }

// Enable enables the unit at login
func (s *Systemctl) Enable(ctx context.Context) error { return s.verb(ctx, "enable") }

// Disable disables the unit at login
func (s *Systemctl) Disable(ctx context.Context) error { return s.verb(ctx, "disable") }

// query runs a yes/no verb. A non-zero exit is a "no", not an error.
func (s *Systemctl) query(ctx context.Context, verb string) (bool, error) {
	_, err := s.systemctl(ctx, verb, s.unit)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, runner.ErrCommandFailed) {
		return false, nil
	}
	return false, fmt.Errorf("%s %s: %w", verb, s.unit, err)
}

// IsActive reports whether the unit is running
func (s *Systemctl) IsActive(ctx context.Context) (bool, error) {
	return s.query(ctx, "is-active")
}

// IsEnabled reports whether the unit starts at login
func (s *Systemctl) IsEnabled(ctx context.Context) (bool, error) {
	return s.query(ctx, "is-enabled")
}

// Status returns the `systemctl status` output.
// systemctl exits 3 for an inactive unit, so output is returned on command failure too.
func (s *Systemctl) Status(ctx context.Context) (string, error) {
	ctx, cancel := runner.WithTimeout(ctx, StatusTimeout)
	defer cancel()

	res, err := s.systemctl(ctx, "status", s.unit)
	if err != nil && !errors.Is(err, runner.ErrCommandFailed) {
		return "", fmt.Errorf("status %s: %w", s.unit, err)
	}
	return res.Stdout, nil
}

// Journal returns the last lines journal entries of the unit.
// Entries printed before a non-zero exit are still returned.
func (s *Systemctl) Journal(ctx context.Context, lines int) (string, error) {
	if lines <= 0 {
		lines = DefaultJournalLines
	}
	res, err := s.runner.Run(ctx, "journalctl",
		"--user", "-u", s.unit, "-n", strconv.Itoa(lines), "--no-pager")
	if err != nil && (!errors.Is(err, runner.ErrCommandFailed) || res.Stdout == "") {
		return "", fmt.Errorf("reading journal: %w", err)
	}
	return res.Stdout, nil
}

// DaemonReload reloads unit files of the user manager
func (s *Systemctl) DaemonReload(ctx context.Context) error {
	if _, err := s.systemctl(ctx, "daemon-reload"); err != nil {
		return fmt.Errorf("daemon-reload: %w", err)
	}
	return nil
}

// State is a point-in-time view of the unit
type State struct {
	Active  bool
	Enabled bool
}

// Snapshot queries both the active and enabled state of c
func Snapshot(ctx context.Context, c Controller) (State, error) {
	active, err := c.IsActive(ctx)
	if err != nil {
		return State{}, err
	}
	enabled, err := c.IsEnabled(ctx)
	if err != nil {
		return State{Active: active}, err
	}
	return State{Active: active, Enabled: enabled}, nil
}

// Ensure Systemctl implements Controller interface
var _ Controller = (*Systemctl)(nil)
