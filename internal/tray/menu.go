package tray

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/i18n"
	"github.com/turing-smart-screen/turing-tray/internal/screen"
)

// Menu entry identifiers
const (
	IDHeader      = "header"
	IDInfo        = "info"
	IDStart       = "start"
	IDStop        = "stop"
	IDRestart     = "restart"
	IDThemes      = "themes"
	IDTheme       = "theme"
	IDNoThemes    = "no-themes"
	IDOrientation = "orientation"
	IDRotate      = "rotate"
	IDConfigure   = "configure"
	IDEditConfig  = "edit-config"
	IDPreferences = "preferences"
	IDAutostart   = "autostart"
	IDLanguages   = "languages"
	IDLanguage    = "language"
	IDHardware    = "hardware"
	IDLogs        = "logs"
	IDSupport     = "support"
	IDAbout       = "about"
	IDQuit        = "quit"
)

// ItemKind is the presentation of a menu entry
type ItemKind int

const (
	KindAction ItemKind = iota
	KindCheck
	KindLabel
	KindSeparator
	KindSubmenu
)

// Item is one entry of the toolkit-neutral menu
type Item struct {
	ID       string
	Kind     ItemKind
	Label    string
	Value    string
	Enabled  bool
	Checked  bool
	Children []Item
}

func action(id, label string, enabled bool) Item {
	return Item{ID: id, Kind: KindAction, Label: label, Enabled: enabled}
}

func check(id, label, value string, checked bool) Item {
	return Item{ID: id, Kind: KindCheck, Label: label, Value: value, Enabled: true, Checked: checked}
}

func separator() Item {
	return Item{Kind: KindSeparator}
}

// DisplayLine returns the `Rev. A · 3.5"` info text, or "" when neither is known
func DisplayLine(revision, size string) string {
	var parts []string
	if revision != "" {
		parts = append(parts, "Rev. "+revision)
	}
	if size != "" {
		parts = append(parts, size+`"`)
	}
	return strings.Join(parts, " · ")
}

// Menu builds the context menu for status
func (a *App) Menu(s Status) []Item {
	items := []Item{{ID: IDHeader, Kind: KindLabel, Label: Title}}

	var info screen.DisplayInfo
	if a.screen != nil {
		if di, err := a.screen.Info(); err == nil {
			info = di
		}
	}
	if line := DisplayLine(info.Revision, info.Size); line != "" {
		items = append(items, Item{ID: IDInfo, Kind: KindLabel, Label: line})
	}

	known := s.Err == nil
	items = append(items,
		separator(),
		action(IDStart, a.T("menu.start"), !known || !s.Active),
		action(IDStop, a.T("menu.stop"), !known || s.Active),
		action(IDRestart, a.T("menu.restart"), !known || s.Active),
		separator(),
		Item{ID: IDThemes, Kind: KindSubmenu, Label: a.T("menu.themes"), Enabled: true, Children: a.themeItems(info.Theme)},
		Item{ID: IDOrientation, Kind: KindSubmenu, Label: a.T("menu.orientation"), Enabled: true, Children: a.orientationItems(info.Orientation)},
		separator(),
		action(IDConfigure, a.T("menu.configure"), true),
		action(IDEditConfig, a.T("menu.edit_config"), true),
		action(IDPreferences, a.T("menu.preferences"), true),
		separator(),
		check(IDAutostart, a.T("menu.autostart"), "", s.Enabled),
		separator(),
		Item{ID: IDLanguages, Kind: KindSubmenu, Label: a.T("menu.language"), Enabled: true, Children: a.languageItems()},
		separator(),
		action(IDHardware, a.T("menu.hardware_info"), true),
		action(IDLogs, a.T("menu.view_logs"), true),
		separator(),
		action(IDSupport, a.T("menu.support"), true),
		action(IDAbout, a.T("menu.about"), true),
		separator(),
		action(IDQuit, a.T("menu.quit"), true),
	)
	return items
}

// themeItems lists the themes matching the display, checking the current one
func (a *App) themeItems(current string) []Item {
	var names []string
	if a.screen != nil {
		var err error
		names, err = a.screen.Themes(true)
		if err != nil {
			logger.Warn("listing themes: %v", err)
		}
	}
	if len(names) == 0 {
		return []Item{{ID: IDNoThemes, Kind: KindLabel, Label: a.T("menu.no_themes")}}
	}

	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, check(IDTheme, name, name, name == current))
	}
	return items
}

func (a *App) orientationItems(current screen.Orientation) []Item {
	items := make([]Item, 0, 4)
	for _, o := range screen.Orientations() {
		label := o.String()
		if o == screen.Orientation0 {
			label = a.T("orientation.normal")
		}
		items = append(items, check(IDRotate, label, strconv.Itoa(int(o)), o == current))
	}
	return items
}

func (a *App) languageItems() []Item {
	current := a.tr.Language()
	langs := i18n.Supported()
	items := make([]Item, 0, len(langs))
	for _, l := range langs {
		items = append(items, check(IDLanguage, l.Name, l.Code, l.Code == current))
	}
	return items
}

// Dispatch runs the action behind a menu entry. It reports false for entries
// the GUI handles itself (windows and quit). Quitting never stops the service.
func (a *App) Dispatch(ctx context.Context, item Item) (bool, error) {
	switch item.ID {
	case IDStart:
		return true, a.StartDisplay(ctx)
	case IDStop:
		return true, a.StopDisplay(ctx)
	case IDRestart:
		return true, a.RestartDisplay(ctx)
	case IDTheme:
		return true, a.SetTheme(ctx, item.Value)
	case IDRotate:
		n, err := strconv.Atoi(item.Value)
		if err != nil {
			return true, fmt.Errorf("%w: %q", screen.ErrInvalidOrientation, item.Value)
		}
		return true, a.SetOrientation(ctx, screen.Orientation(n))
	case IDConfigure:
		return true, a.OpenConfigurator()
	case IDEditConfig:
		return true, a.EditConfig()
	case IDAutostart:
		// the item carries the state before the click
		a.SetAutostart(ctx, !item.Checked)
		return true, nil
	case IDLanguage:
		return true, a.SetLanguage(item.Value)
	case IDSupport:
		return true, a.OpenSupport()
	default:
		return false, nil
	}
}
