package service

import (
	"context"
	"sync"
)

// MockController implements Controller for testing.
// Without a configured Func it behaves like a real unit: Start/Stop/Enable/Disable
// flip the state reported by IsActive/IsEnabled.
type MockController struct {
	StartFunc   func() error
	StopFunc    func() error
	RestartFunc func() error
	EnableFunc  func() error
	DisableFunc func() error
	StatusFunc  func() (string, error)
	JournalFunc func(lines int) (string, error)
	QueryErr    error

	mu       sync.Mutex
	unit     string
	active   bool
	enabled  bool
	restarts int
}

// NewMockController creates a MockController for unit
func NewMockController(unit string) *MockController {
	return &MockController{unit: unit}
}

// SetState forces the reported state
func (m *MockController) SetState(active, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = active
	m.enabled = enabled
}

// Restarts returns how many successful restarts were made
func (m *MockController) Restarts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restarts
}

// Unit returns the controlled unit name
func (m *MockController) Unit() string { return m.unit }

func (m *MockController) apply(fn func() error, update func()) error {
	if fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	update()
	m.mu.Unlock()
	return nil
}

// Start starts the unit
func (m *MockController) Start(ctx context.Context) error {
	return m.apply(m.StartFunc, func() { m.active = true })
}

// Stop stops the unit
func (m *MockController) Stop(ctx context.Context) error {
	return m.apply(m.StopFunc, func() { m.active = false })
}

// Restart restarts the unit
func (m *MockController) Restart(ctx context.Context) error {
	return m.apply(m.RestartFunc, func() {
		m.active = true
		m.restarts++
	})
}

// Enable enables the unit at login
func (m *MockController) Enable(ctx context.Context) error {
	return m.apply(m.EnableFunc, func() { m.enabled = true })
}

// Disable disables the unit at login
func (m *MockController) Disable(ctx context.Context) error {
	return m.apply(m.DisableFunc, func() { m.enabled = false })
}

// IsActive reports whether the unit is running
func (m *MockController) IsActive(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.QueryErr
}

// IsEnabled reports whether the unit starts at login
func (m *MockController) IsEnabled(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled, m.QueryErr
}

// Status returns the configured status text
func (m *MockController) Status(ctx context.Context) (string, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return "", nil
}

// Journal returns the configured journal text
func (m *MockController) Journal(ctx context.Context, lines int) (string, error) {
	if m.JournalFunc != nil {
		return m.JournalFunc(lines)
	}
	return "", nil
}

// DaemonReload does nothing
func (m *MockController) DaemonReload(ctx context.Context) error { return nil }

// Ensure MockController implements Controller interface
var _ Controller = (*MockController)(nil)
