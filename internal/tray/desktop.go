package tray

import (
	"fmt"
	"os/exec"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
)

// DesktopOpener starts xdg-open and other programs without waiting for them
type DesktopOpener struct {
	// Command opens files and URLs
	Command string
}

// NewDesktopOpener creates an opener using xdg-open
func NewDesktopOpener() *DesktopOpener {
	return &DesktopOpener{Command: "xdg-open"}
}

// OpenURL opens url in the default browser
func (o *DesktopOpener) OpenURL(url string) error {
	return o.Launch("", o.Command, url)
}

// OpenFile opens path in the default application
func (o *DesktopOpener) OpenFile(path string) error {
	return o.Launch("", o.Command, path)
}

// Launch starts name detached in dir and reaps it in the background
func (o *DesktopOpener) Launch(dir, name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}
	cmd := exec.Command(path, args...)
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}
	logger.Debug("launched %s %v (pid %d)", name, args, cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("%s exited: %v", name, err)
		}
	}()
	return nil
}

// Ensure DesktopOpener implements Opener interface
var _ Opener = (*DesktopOpener)(nil)
