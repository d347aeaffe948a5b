package version

import (
	"fmt"
	"runtime"
)

// Version information - set at build time via ldflags
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Project links shown in the tray and the about window
const (
	Repository  = "marquimRcc/turing-smart-screen-python-regataos-opensuse"
	GitHubURL   = "https://github.com/" + Repository
	UpstreamURL = "https://github.com/mathoudebine/turing-smart-screen-python"
)

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("turing-tray version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version string
func Short() string {
	return Version
}
