// Package instance keeps a single tray running per user session.
//
// The running tray listens on a unix socket in $XDG_RUNTIME_DIR. A second
// tray that manages to connect knows it must exit.
package instance

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
)

// SocketName is the socket file name inside the runtime directory
const SocketName = "turing-smart-screen-tray.sock"

// DialTimeout bounds the probe for a running instance
const DialTimeout = 200 * time.Millisecond

// handshakePrefix starts the line a running instance answers with
const handshakePrefix = "turing-tray"

// ErrAlreadyRunning is returned by Acquire when another tray owns the socket
var ErrAlreadyRunning = errors.New("turing-tray is already running")

// Guard owns the instance socket until Release
type Guard struct {
	path      string
	ln        net.Listener
	onConnect func()

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Guard
type Option func(*Guard)

// WithOnConnect sets a callback run each time another instance knocks
func WithOnConnect(fn func()) Option {
	return func(g *Guard) {
		g.onConnect = fn
	}
}

// SocketPath returns the socket path, preferring $XDG_RUNTIME_DIR
func SocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, SocketName)
}

// Acquire takes the instance socket at SocketPath
func Acquire(opts ...Option) (*Guard, error) {
	return AcquireAt(SocketPath(), opts...)
}

// AcquireAt takes the instance socket at path.
// A stale socket left by a crashed tray is removed first.
func AcquireAt(path string, opts ...Option) (*Guard, error) {
	if _, err := Ping(path); err == nil {
		return nil, ErrAlreadyRunning
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale socket %s: %w", path, err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		logger.Debug("chmod %s: %v", path, err)
	}

	g := &Guard{path: path, ln: ln}
	for _, opt := range opts {
		opt(g)
	}

	g.wg.Add(1)
	go g.serve()

	logger.Debug("instance socket %s acquired", path)
	return g, nil
}

// Path returns the socket path
func (g *Guard) Path() string {
	return g.path
}

func (g *Guard) serve() {
	defer g.wg.Done()
	for {
		conn, err := g.ln.Accept()
		if err != nil {
			g.mu.Lock()
			closed := g.closed
			g.mu.Unlock()
			if !closed {
				logger.Debug("instance socket accept: %v", err)
			}
			return
		}
		g.answer(conn)
	}
}

func (g *Guard) answer(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	fmt.Fprintf(conn, "%s %d\n", handshakePrefix, os.Getpid())
	if g.onConnect != nil {
		g.onConnect()
	}
}

// Release closes the listener and removes the socket file
func (g *Guard) Release() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	err := g.ln.Close()
	g.wg.Wait()
	if rmErr := os.Remove(g.path); rmErr != nil && !os.IsNotExist(rmErr) {
		err = errors.Join(err, rmErr)
	}
	return err
}

// Ping connects to a running instance and returns its handshake line
func Ping(path string) (string, error) {
	conn, err := net.DialTimeout("unix", path, DialTimeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(DialTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		// a listener that accepts without answering is still a live instance
		return "", nil
	}
	return strings.TrimSpace(line), nil
}
