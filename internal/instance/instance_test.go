package instance

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func socketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), SocketName)
}

func TestAcquireAndRelease(t *testing.T) {
	path := socketPath(t)

	g, err := AcquireAt(path)
	if err != nil {
		t.Fatalf("AcquireAt: %v", err)
	}
	if g.Path() != path {
		t.Errorf("Path() = %s, want %s", g.Path(), path)
	}

	if _, err := AcquireAt(path); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	if err := g.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("socket file should be removed")
	}
	if err := g.Release(); err != nil {
		t.Errorf("second Release should be a no-op, got %v", err)
	}

	g2, err := AcquireAt(path)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	g2.Release()
}

func TestHandshake(t *testing.T) {
	path := socketPath(t)
	knocked := make(chan struct{}, 1)

	g, err := AcquireAt(path, WithOnConnect(func() { knocked <- struct{}{} }))
	if err != nil {
		t.Fatalf("AcquireAt: %v", err)
	}
	defer g.Release()

	line, err := Ping(path)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if want := fmt.Sprintf("turing-tray %d", os.Getpid()); line != want {
		t.Errorf("handshake = %q, want %q", line, want)
	}

	select {
	case <-knocked:
	case <-time.After(2 * time.Second):
		t.Error("OnConnect was not called")
	}
}

func TestStaleSocketIsReplaced(t *testing.T) {
	path := socketPath(t)

	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	ln.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stale socket should exist: %v", err)
	}

	g, err := AcquireAt(path)
	if err != nil {
		t.Fatalf("AcquireAt over stale socket: %v", err)
	}
	defer g.Release()
}

func TestPingWithoutInstance(t *testing.T) {
	if _, err := Ping(socketPath(t)); err == nil {
		t.Error("expected an error without a running instance")
	}
}

func TestSocketPathUsesRuntimeDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	if got := SocketPath(); got != filepath.Join(dir, SocketName) {
		t.Errorf("SocketPath() = %s", got)
	}

	t.Setenv("XDG_RUNTIME_DIR", "")
	if got := SocketPath(); got != filepath.Join(os.TempDir(), SocketName) {
		t.Errorf("SocketPath() fallback = %s", got)
	}
}
