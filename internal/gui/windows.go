package gui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/turing-smart-screen/turing-tray/internal/common/config"
	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/version"
	"github.com/turing-smart-screen/turing-tray/internal/i18n"
	"github.com/turing-smart-screen/turing-tray/internal/tray"
)

func (g *GUI) showAbout() {
	g.window(tray.IDAbout, g.app.T("about.title"), func(w fyne.Window) {
		title := widget.NewLabelWithStyle(tray.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		subtitle := widget.NewLabelWithStyle(g.app.T("about.subtitle"), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
		ver := widget.NewLabelWithStyle(fmt.Sprintf("%s %s", g.app.T("about.version"), version.Short()), fyne.TextAlignCenter, fyne.TextStyle{})

		links := container.NewHBox(layout.NewSpacer())
		for _, l := range []struct{ key, raw string }{
			{"about.github", version.GitHubURL},
			{"about.upstream", version.UpstreamURL},
		} {
			if u, err := url.Parse(l.raw); err == nil {
				links.Add(widget.NewHyperlink(g.app.T(l.key), u))
			}
		}
		links.Add(layout.NewSpacer())

		w.SetContent(container.NewVBox(
			widget.NewIcon(theme.ComputerIcon()),
			title,
			subtitle,
			ver,
			widget.NewSeparator(),
			wrapped(g.app.T("about.description")),
			widget.NewLabel(g.app.T("about.credits")),
			widget.NewLabel(g.app.T("about.license")),
			links,
			container.NewHBox(layout.NewSpacer(), widget.NewButton(g.app.T("about.close"), w.Close)),
		))
		w.Resize(fyne.NewSize(460, 0))
	})
}

// textWindow is a read-only monospace viewer whose content is loaded off the
// fyne thread, with refresh, copy and close buttons
func (g *GUI) textWindow(id, prefix string, load func(ctx context.Context) string) {
	g.window(id, g.app.T(prefix+".title"), func(w fyne.Window) {
		grid := widget.NewTextGridFromString("…")
		var text string

		reload := func() {
			go func() {
				content := load(g.ctx)
				fyne.Do(func() {
					text = content
					grid.SetText(content)
				})
			}()
		}

		buttons := container.NewHBox(
			widget.NewButtonWithIcon(g.app.T(prefix+".refresh"), theme.ViewRefreshIcon(), reload),
			widget.NewButtonWithIcon(g.app.T(prefix+".copy"), theme.ContentCopyIcon(), func() {
				w.Clipboard().SetContent(text)
			}),
			layout.NewSpacer(),
			widget.NewButton(g.app.T(prefix+".close"), w.Close),
		)

		w.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewScroll(grid)))
		w.Resize(fyne.NewSize(760, 520))
		reload()
	})
}

func (g *GUI) showHardware() {
	g.textWindow(tray.IDHardware, "hardware", g.app.HardwareReport)
}

func (g *GUI) showLogs() {
	g.textWindow(tray.IDLogs, "logs", g.app.Logs)
}

func (g *GUI) showPreferences() {
	g.window(tray.IDPreferences, g.app.T("settings.title"), func(w fyne.Window) {
		current := g.app.Preferences()

		names, codes := languageOptions()
		language := widget.NewSelect(names, nil)
		language.SetSelected(languageName(current.Language))

		notifications := widget.NewCheck("", nil)
		notifications.SetChecked(current.ShowNotifications)
		updates := widget.NewCheck("", nil)
		updates.SetChecked(current.CheckUpdates)

		poll := widget.NewEntry()
		poll.SetText(strconv.Itoa(current.PollInterval))
		poll.Validator = validatePoll

		form := &widget.Form{
			Items: []*widget.FormItem{
				widget.NewFormItem(g.app.T("settings.language"), language),
				widget.NewFormItem(g.app.T("settings.notifications"), notifications),
				widget.NewFormItem(g.app.T("settings.check_updates"), updates),
				widget.NewFormItem(g.app.T("settings.poll_interval"), poll),
			},
			SubmitText: g.app.T("settings.save"),
			CancelText: g.app.T("settings.cancel"),
			OnCancel:   w.Close,
		}
		form.OnSubmit = func() {
			next := current
			if i := language.SelectedIndex(); i >= 0 {
				next.Language = codes[i]
			}
			next.ShowNotifications = notifications.Checked
			next.CheckUpdates = updates.Checked
			next.PollInterval, _ = strconv.Atoi(poll.Text)

			if err := g.app.UpdatePreferences(next); err != nil {
				dialog.ShowError(err, w)
				return
			}
			logger.Info("%s", g.app.T("settings.saved"))
			info := dialog.NewInformation(g.app.T("settings.title"), g.app.T("settings.saved"), w)
			info.SetOnClosed(func() {
				w.Close()
				go g.refresh()
			})
			info.Show()
		}

		w.SetContent(container.NewPadded(form))
		w.Resize(fyne.NewSize(420, 0))
	})
}

// languageOptions returns the select labels and their codes, index aligned
func languageOptions() (names, codes []string) {
	for _, l := range i18n.Supported() {
		names = append(names, l.Name)
		codes = append(codes, l.Code)
	}
	return names, codes
}

func languageName(code string) string {
	for _, l := range i18n.Supported() {
		if l.Code == code {
			return l.Name
		}
	}
	return languageName(i18n.Fallback)
}

func validatePoll(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < config.MinPollInterval || n > config.MaxPollInterval {
		return fmt.Errorf("%w: poll interval must be %d..%d seconds", config.ErrInvalidValue, config.MinPollInterval, config.MaxPollInterval)
	}
	return nil
}
