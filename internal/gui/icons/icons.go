// Package icons embeds the tray icons.
package icons

import (
	_ "embed"

	"fyne.io/fyne/v2"

	"github.com/turing-smart-screen/turing-tray/internal/tray"
)

//go:embed running.svg
var runningSVG []byte

//go:embed stopped.svg
var stoppedSVG []byte

//go:embed error.svg
var errorSVG []byte

var (
	Running = fyne.NewStaticResource("running.svg", runningSVG)
	Stopped = fyne.NewStaticResource("stopped.svg", stoppedSVG)
	Error   = fyne.NewStaticResource("error.svg", errorSVG)
)

// For returns the resource of a tray icon
func For(icon tray.Icon) fyne.Resource {
	switch icon {
	case tray.IconRunning:
		return Running
	case tray.IconError:
		return Error
	default:
		return Stopped
	}
}
