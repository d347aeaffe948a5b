package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var (
	ErrToolNotFound  = errors.New("tool not found")
	ErrCommandFailed = errors.New("command failed")
	ErrTimeout       = errors.New("command timed out")
)

// DefaultTimeout bounds every command that is run without a deadline.
const DefaultTimeout = 10 * time.Second

// Result holds the captured output of a finished command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandError describes a command that ran but exited non-zero.
// It matches ErrCommandFailed with errors.Is.
type CommandError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: exit status %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

// Runner executes external tools.
// This interface allows for mocking command execution in tests.
type Runner interface {
	// Run executes name with args and returns its output.
	// A non-zero exit returns both the Result and a *CommandError.
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs tools found in PATH through os/exec
type ExecRunner struct {
	// Timeout applies when ctx carries no deadline of its own
	Timeout  time.Duration
	lookPath func(string) (string, error)
}

// NewExecRunner creates an ExecRunner with DefaultTimeout
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Timeout:  DefaultTimeout,
		lookPath: exec.LookPath,
	}
}

// Run executes a tool and returns stdout, stderr and the exit code
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(name)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	if _, ok := ctx.Deadline(); !ok {
		timeout := r.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, args...)
	// children may hold the pipes open after the tool is killed
	cmd.WaitDelay = 500 * time.Millisecond

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%w: %s", ErrTimeout, name)
		}
		return res, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &CommandError{
				Tool:     name,
				Args:     args,
				ExitCode: res.ExitCode,
				Stderr:   res.Stderr,
			}
		}
		return res, err
	}

	return res, nil
}

// WithTimeout derives a context bounded by d unless d is zero
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Ensure ExecRunner implements Runner interface
var _ Runner = (*ExecRunner)(nil)
