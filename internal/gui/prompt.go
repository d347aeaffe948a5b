package gui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/tray"
)

// Notify sends a desktop notification. fyne has no urgency hint, so
// critical messages are also logged as warnings.
func (g *GUI) Notify(title, message string, level tray.Level) {
	if level == tray.LevelCritical {
		logger.Warn("%s: %s", title, message)
	}
	g.fyneApp.SendNotification(fyne.NewNotification(title, message))
}

// Confirm shows a yes/no window and waits for the answer.
// Must not be called from the fyne thread.
func (g *GUI) Confirm(title, message string) bool {
	answer := make(chan bool, 1)
	var once sync.Once
	reply := func(v bool) {
		once.Do(func() { answer <- v })
	}

	fyne.Do(func() {
		w := g.fyneApp.NewWindow(title)
		w.SetOnClosed(func() { reply(false) })

		no := widget.NewButton(g.app.T("dialog.no"), func() {
			reply(false)
			w.Close()
		})
		yes := widget.NewButton(g.app.T("dialog.yes"), func() {
			reply(true)
			w.Close()
		})
		yes.Importance = widget.HighImportance

		w.SetContent(container.NewVBox(
			container.NewBorder(nil, nil, widget.NewIcon(theme.QuestionIcon()), nil, wrapped(message)),
			container.NewHBox(layout.NewSpacer(), no, yes),
		))
		w.Resize(fyne.NewSize(420, 0))
		w.CenterOnScreen()
		w.Show()
	})

	return <-answer
}

// Warn shows a warning window and waits until it is closed.
// Must not be called from the fyne thread.
func (g *GUI) Warn(title, message string) {
	done := make(chan struct{})
	var once sync.Once
	closed := func() {
		once.Do(func() { close(done) })
	}

	fyne.Do(func() {
		w := g.fyneApp.NewWindow(title)
		w.SetOnClosed(closed)
		ok := widget.NewButton("OK", func() { w.Close() })
		w.SetContent(container.NewVBox(
			container.NewBorder(nil, nil, widget.NewIcon(theme.WarningIcon()), nil, wrapped(message)),
			container.NewHBox(layout.NewSpacer(), ok),
		))
		w.Resize(fyne.NewSize(420, 0))
		w.CenterOnScreen()
		w.Show()
	})

	<-done
}

func wrapped(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.Wrapping = fyne.TextWrapWord
	return l
}
