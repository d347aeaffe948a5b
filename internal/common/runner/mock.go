package runner

import (
	"context"
	"strings"
	"sync"
)

// Call records a single invocation made through MockRunner
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// MockRunner implements Runner for testing.
// RunFunc controls the outcome; every call is recorded in order.
type MockRunner struct {
	RunFunc func(ctx context.Context, name string, args ...string) (Result, error)

	mu    sync.Mutex
	calls []Call
}

// NewMockRunner creates a MockRunner that answers every call with fn
func NewMockRunner(fn func(ctx context.Context, name string, args ...string) (Result, error)) *MockRunner {
	return &MockRunner{RunFunc: fn}
}

// Run records the call and delegates to RunFunc
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Name: name, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return Result{}, nil
}

// Calls returns a copy of the recorded calls
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// LastCall returns the most recent call, or the zero Call
func (m *MockRunner) LastCall() Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Call{}
	}
	return m.calls[len(m.calls)-1]
}

// Ensure MockRunner implements Runner interface
var _ Runner = (*MockRunner)(nil)
