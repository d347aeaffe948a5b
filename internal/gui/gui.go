// Package gui renders the tray with fyne.
//
// The tray menu is rebuilt from tray.App.Menu on every status change or
// action. Menu callbacks run on the fyne thread, so every action that may
// block (systemctl, file writes, prompts) is handed to a goroutine, and
// anything that goes back to the UI from there passes through fyne.Do.
package gui

import (
	"context"
	"errors"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/gui/icons"
	"github.com/turing-smart-screen/turing-tray/internal/tray"
)

// AppID identifies the fyne application (preferences storage, notifications)
const AppID = "io.github.turing-smart-screen.tray"

var ErrNoSystemTray = errors.New("desktop does not support a system tray")

// GUI is the fyne front-end. It implements tray.Notifier and tray.Prompter.
type GUI struct {
	fyneApp fyne.App
	desk    desktop.App
	app     *tray.App
	ctx     context.Context

	mu      sync.Mutex
	windows map[string]fyne.Window
}

// New creates the fyne application
func New() *GUI {
	a := app.NewWithID(AppID)
	a.SetIcon(icons.Stopped)
	g := &GUI{
		fyneApp: a,
		windows: make(map[string]fyne.Window),
	}
	g.desk, _ = a.(desktop.App)
	return g
}

// Run shows the tray icon for a and blocks until Quit or ctx is done
func (g *GUI) Run(ctx context.Context, a *tray.App) error {
	if g.desk == nil {
		return ErrNoSystemTray
	}
	g.app = a
	g.ctx = ctx

	s := a.Status()
	g.install(s, a.Menu(s))

	g.fyneApp.Lifecycle().SetOnStarted(func() {
		go a.Watch(ctx, func(s tray.Status) {
			g.apply(s, a.Menu(s))
		})
		go func() {
			if _, err := a.CheckForUpdates(ctx); err != nil {
				logger.Debug("update check: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			fyne.Do(g.fyneApp.Quit)
		}()
	})

	logger.Debug("starting tray")
	g.fyneApp.Run()
	return nil
}

// Quit closes every window and leaves the event loop. The service keeps running.
func (g *GUI) Quit() {
	logger.Info("quitting tray")
	g.fyneApp.Quit()
}

// Show brings the tray to attention; used when another instance is started
func (g *GUI) Show() {
	fyne.Do(func() {
		if g.app != nil {
			g.showAbout()
		}
	})
}

// install sets the icon and menu; must run on the fyne thread.
// The menu title doubles as the tooltip on trays that show one.
func (g *GUI) install(s tray.Status, items []tray.Item) {
	g.desk.SetSystemTrayMenu(fyne.NewMenu(g.app.Tooltip(s), menuItems(items, g.onClick)...))
	g.desk.SetSystemTrayIcon(icons.For(s.Icon()))
}

// apply is install from any goroutine
func (g *GUI) apply(s tray.Status, items []tray.Item) {
	fyne.Do(func() {
		g.install(s, items)
	})
}

// refresh rebuilds the menu for the last polled status
func (g *GUI) refresh() {
	s := g.app.Refresh(g.ctx)
	g.apply(s, g.app.Menu(s))
}

func (g *GUI) onClick(item tray.Item) {
	switch item.ID {
	case tray.IDPreferences:
		g.showPreferences()
	case tray.IDHardware:
		g.showHardware()
	case tray.IDLogs:
		g.showLogs()
	case tray.IDAbout:
		g.showAbout()
	case tray.IDQuit:
		g.Quit()
	default:
		go func() {
			if _, err := g.app.Dispatch(g.ctx, item); err != nil {
				logger.Warn("%s: %v", item.ID, err)
			}
			g.refresh()
		}()
	}
}

// menuItems converts the tray menu model to fyne items
func menuItems(items []tray.Item, onClick func(tray.Item)) []*fyne.MenuItem {
	out := make([]*fyne.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Kind == tray.KindSeparator {
			out = append(out, fyne.NewMenuItemSeparator())
			continue
		}

		it := it
		mi := fyne.NewMenuItem(it.Label, func() { onClick(it) })
		switch it.Kind {
		case tray.KindLabel:
			mi.Action = nil
			mi.Disabled = true
		case tray.KindSubmenu:
			mi.Action = nil
			mi.ChildMenu = fyne.NewMenu(it.Label, menuItems(it.Children, onClick)...)
		case tray.KindCheck:
			mi.Checked = it.Checked
		default:
			mi.Disabled = !it.Enabled
		}
		mi.IsQuit = it.ID == tray.IDQuit
		out = append(out, mi)
	}
	return out
}

// window returns the open window for id, or creates one with build
func (g *GUI) window(id, title string, build func(w fyne.Window)) {
	g.mu.Lock()
	if w, ok := g.windows[id]; ok {
		g.mu.Unlock()
		w.Show()
		w.RequestFocus()
		return
	}
	w := g.fyneApp.NewWindow(title)
	g.windows[id] = w
	g.mu.Unlock()

	w.SetIcon(icons.Running)
	w.SetOnClosed(func() {
		g.mu.Lock()
		delete(g.windows, id)
		g.mu.Unlock()
	})
	build(w)
	w.CenterOnScreen()
	w.Show()
}

// Ensure GUI implements the tray interfaces
var (
	_ tray.Notifier = (*GUI)(nil)
	_ tray.Prompter = (*GUI)(nil)
)
