// Package tray holds the tray logic independent of the GUI toolkit: what each
// menu entry does, which notification follows, and how the menu looks for a
// given service state.
//
// The GUI renders Menu() and forwards clicks to Dispatch. Anything that needs
// a window (preferences, hardware, logs, about) stays in the GUI.
package tray

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/turing-smart-screen/turing-tray/internal/common/config"
	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/version"
	"github.com/turing-smart-screen/turing-tray/internal/hardware"
	"github.com/turing-smart-screen/turing-tray/internal/i18n"
	"github.com/turing-smart-screen/turing-tray/internal/screen"
	"github.com/turing-smart-screen/turing-tray/internal/service"
	"github.com/turing-smart-screen/turing-tray/internal/update"
)

var (
	ErrNoTuringDir          = errors.New("turing smart screen directory is not configured")
	ErrConfiguratorNotFound = errors.New("configure.py or its python environment not found")
	ErrMissingDependency    = errors.New("tray dependency missing")
)

// Title is shown as menu header and tooltip prefix
const Title = "Turing Smart Screen"

// LogLines is the number of journal lines shown in the log window
const LogLines = 200

// pythons are tried in order inside <turing dir>/venv/bin
var pythons = []string{"python3.11", "python3", "python"}

// Level is the urgency of a notification
type Level int

const (
	LevelInfo Level = iota
	LevelCritical
)

// Notifier shows desktop notifications
type Notifier interface {
	Notify(title, message string, level Level)
}

// Prompter asks the user questions
type Prompter interface {
	// Confirm asks a yes/no question and reports yes
	Confirm(title, message string) bool
	// Warn shows a blocking warning
	Warn(title, message string)
}

// Opener hands files, URLs and programs to the desktop
type Opener interface {
	OpenURL(url string) error
	OpenFile(path string) error
	Launch(dir, name string, args ...string) error
}

// Options wires an App. Screen may be nil when the renderer directory is unknown.
type Options struct {
	Preferences *config.Preferences
	Translator  *i18n.Translator
	Service     service.Controller
	Screen      *screen.Config
	Hardware    *hardware.Collector
	Updates     *update.Checker
	Notifier    Notifier
	Prompter    Prompter
	Opener      Opener
}

// App is the tray controller
type App struct {
	prefs    *config.Preferences
	tr       *i18n.Translator
	svc      service.Controller
	screen   *screen.Config
	hw       *hardware.Collector
	updates  *update.Checker
	notifier Notifier
	prompter Prompter
	opener   Opener

	mu       sync.Mutex
	status   Status
	polled   bool
	onChange func(Status)
	reset    chan struct{}
}

// New creates an App
func New(opts Options) (*App, error) {
	switch {
	case opts.Preferences == nil:
		return nil, fmt.Errorf("%w: preferences", ErrMissingDependency)
	case opts.Translator == nil:
		return nil, fmt.Errorf("%w: translator", ErrMissingDependency)
	case opts.Service == nil:
		return nil, fmt.Errorf("%w: service controller", ErrMissingDependency)
	case opts.Notifier == nil:
		return nil, fmt.Errorf("%w: notifier", ErrMissingDependency)
	case opts.Prompter == nil:
		return nil, fmt.Errorf("%w: prompter", ErrMissingDependency)
	}

	opener := opts.Opener
	if opener == nil {
		opener = NewDesktopOpener()
	}
	hw := opts.Hardware
	if hw == nil {
		hw = hardware.NewCollector(nil)
	}

	return &App{
		prefs:    opts.Preferences,
		tr:       opts.Translator,
		svc:      opts.Service,
		screen:   opts.Screen,
		hw:       hw,
		updates:  opts.Updates,
		notifier: opts.Notifier,
		prompter: opts.Prompter,
		opener:   opener,
		reset:    make(chan struct{}, 1),
	}, nil
}

// T translates key in the current language
func (a *App) T(key string, args ...interface{}) string {
	return a.tr.T(key, args...)
}

// Preferences returns a copy of the current preferences. Change them with
// UpdatePreferences or SetLanguage.
func (a *App) Preferences() config.Preferences {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.prefs
}

// Screen returns the renderer config, or nil
func (a *App) Screen() *screen.Config {
	return a.screen
}

func (a *App) notify(title, message string, level Level) {
	a.mu.Lock()
	show := a.prefs.ShowNotifications
	a.mu.Unlock()
	if !show {
		logger.Debug("notification suppressed: %s: %s", title, message)
		return
	}
	a.notifier.Notify(title, message, level)
}

func (a *App) notifyError(message string) {
	a.notify(a.T("notify.error"), message, LevelCritical)
}

// serviceAction runs a unit verb and reports the outcome
func (a *App) serviceAction(ctx context.Context, verb func(context.Context) error, okTitle, okMsg, failMsg string) error {
	err := verb(ctx)
	if err != nil {
		logger.Warn("%v", err)
		a.notifyError(a.T(failMsg))
	} else {
		a.notify(a.T(okTitle), a.T(okMsg), LevelInfo)
	}
	a.Refresh(ctx)
	return err
}

// StartDisplay starts the service unit
func (a *App) StartDisplay(ctx context.Context) error {
	return a.serviceAction(ctx, a.svc.Start, "notify.started", "notify.started_msg", "notify.start_failed")
}

// StopDisplay stops the service unit
func (a *App) StopDisplay(ctx context.Context) error {
	return a.serviceAction(ctx, a.svc.Stop, "notify.stopped", "notify.stopped_msg", "notify.stop_failed")
}

// RestartDisplay restarts the service unit
func (a *App) RestartDisplay(ctx context.Context) error {
	return a.serviceAction(ctx, a.svc.Restart, "notify.restarted", "notify.restarted_msg", "notify.restart_failed")
}

// ToggleDisplay stops a running display and starts a stopped one
func (a *App) ToggleDisplay(ctx context.Context) error {
	active, err := a.svc.IsActive(ctx)
	if err != nil {
		a.notifyError(err.Error())
		return err
	}
	if active {
		return a.StopDisplay(ctx)
	}
	return a.StartDisplay(ctx)
}

// SetTheme selects a theme and offers to restart a running display
func (a *App) SetTheme(ctx context.Context, name string) error {
	if a.screen == nil {
		a.notifyError(ErrNoTuringDir.Error())
		return ErrNoTuringDir
	}
	if err := a.screen.SetTheme(name); err != nil {
		a.notifyError(err.Error())
		return err
	}
	logger.Info("theme set to %s", name)
	a.notify(a.T("notify.theme_applied"), a.T("notify.theme_applied_msg", name), LevelInfo)
	return a.offerRestart(ctx, "dialog.theme_changed", "dialog.theme_restart_prompt")
}

// SetOrientation stores the orientation and offers to restart a running display
func (a *App) SetOrientation(ctx context.Context, o screen.Orientation) error {
	if a.screen == nil {
		a.notifyError(ErrNoTuringDir.Error())
		return ErrNoTuringDir
	}
	if err := a.screen.SetOrientation(o); err != nil {
		a.notifyError(err.Error())
		return err
	}
	logger.Info("orientation set to %s", o)
	a.notify(a.T("notify.orientation_applied"), a.T("notify.orientation_applied_msg", o.String()), LevelInfo)
	return a.offerRestart(ctx, "dialog.orientation_changed", "dialog.orientation_restart_prompt")
}

func (a *App) offerRestart(ctx context.Context, titleKey, promptKey string) error {
	active, err := a.svc.IsActive(ctx)
	if err != nil {
		logger.Debug("skipping restart prompt: %v", err)
		return nil
	}
	if !active {
		return nil
	}
	if a.prompter.Confirm(a.T(titleKey), a.T(promptKey)) {
		return a.RestartDisplay(ctx)
	}
	return nil
}

// SetAutostart enables or disables the unit at login and returns the state
// the autostart check should show afterwards
func (a *App) SetAutostart(ctx context.Context, enable bool) bool {
	if enable {
		if err := a.svc.Enable(ctx); err != nil {
			logger.Warn("%v", err)
			a.notifyError(a.T("notify.autostart_failed"))
			return false
		}
		a.notify(a.T("notify.autostart"), a.T("notify.autostart_enabled"), LevelInfo)
		a.Refresh(ctx)
		return true
	}

	if err := a.svc.Disable(ctx); err != nil {
		logger.Warn("%v", err)
		return true
	}
	a.notify(a.T("notify.autostart"), a.T("notify.autostart_disabled"), LevelInfo)
	a.Refresh(ctx)
	return false
}

// SetLanguage switches the UI language and saves the preference
func (a *App) SetLanguage(code string) error {
	a.mu.Lock()
	err := a.prefs.Set(config.KeyLanguage, code)
	a.mu.Unlock()
	if err != nil {
		return err
	}
	return a.tr.SetLanguage(code)
}

// UpdatePreferences applies changed preferences, saves them and re-arms the
// poll timer. Invalid values are rejected before anything is saved.
func (a *App) UpdatePreferences(p config.Preferences) error {
	a.mu.Lock()
	cur := a.prefs
	oldLang := cur.Language
	values := map[string]string{
		config.KeyLanguage:          p.Language,
		config.KeyShowNotifications: strconv.FormatBool(p.ShowNotifications),
		config.KeyCheckUpdates:      strconv.FormatBool(p.CheckUpdates),
		config.KeyPollInterval:      strconv.Itoa(p.PollInterval),
	}
	draft := *cur
	for _, key := range []string{config.KeyLanguage, config.KeyShowNotifications, config.KeyCheckUpdates, config.KeyPollInterval} {
		if err := draft.Apply(key, values[key]); err != nil {
			a.mu.Unlock()
			return err
		}
	}
	if err := draft.Save(); err != nil {
		a.mu.Unlock()
		return err
	}
	*cur = draft
	a.mu.Unlock()

	if draft.Language != oldLang {
		if err := a.tr.SetLanguage(draft.Language); err != nil {
			return err
		}
	}
	a.ApplyPreferences()
	return nil
}

// ApplyPreferences re-arms the poll timer with the current interval
func (a *App) ApplyPreferences() {
	select {
	case a.reset <- struct{}{}:
	default:
	}
}

// Logs returns the last journal lines of the unit, or a placeholder
func (a *App) Logs(ctx context.Context) string {
	text, err := a.svc.Journal(ctx, LogLines)
	if err != nil {
		logger.Warn("reading journal: %v", err)
	}
	if text == "" {
		return a.T("dialog.no_logs")
	}
	return text
}

// HardwareReport collects and renders the hardware information
func (a *App) HardwareReport(ctx context.Context) string {
	return a.hw.Collect(ctx).Format(a.tr)
}

// ConfigPath returns the path of an existing config.yaml
func (a *App) ConfigPath() (string, error) {
	if a.screen == nil {
		return "", ErrNoTuringDir
	}
	if !a.screen.Exists() {
		return "", fmt.Errorf("%w: %s", screen.ErrConfigNotFound, a.screen.Path())
	}
	return a.screen.Path(), nil
}

// EditConfig opens config.yaml in the desktop editor
func (a *App) EditConfig() error {
	path, err := a.ConfigPath()
	if err != nil {
		a.prompter.Warn(a.T("dialog.error"), a.T("dialog.config_not_found"))
		return err
	}
	return a.opener.OpenFile(path)
}

// Configurator returns the python interpreter and configure.py of the renderer
func (a *App) Configurator() (python, script string, err error) {
	if a.screen == nil {
		return "", "", ErrNoTuringDir
	}
	dir := a.screen.Dir()
	script = filepath.Join(dir, "configure.py")
	if _, err := os.Stat(script); err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrConfiguratorNotFound, script)
	}
	for _, name := range pythons {
		candidate := filepath.Join(dir, "venv", "bin", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, script, nil
		}
	}
	return "", "", fmt.Errorf("%w: no interpreter in %s", ErrConfiguratorNotFound, filepath.Join(dir, "venv", "bin"))
}

// OpenConfigurator launches configure.py detached from the tray
func (a *App) OpenConfigurator() error {
	python, script, err := a.Configurator()
	if err != nil {
		logger.Warn("%v", err)
		a.prompter.Warn(a.T("dialog.error"), a.T("dialog.configurator_not_found"))
		return err
	}
	return a.opener.Launch(a.screen.Dir(), python, script)
}

// OpenSupport opens the project page
func (a *App) OpenSupport() error {
	return a.opener.OpenURL(version.GitHubURL)
}

// CheckForUpdates notifies about a newer release when update checks are on
func (a *App) CheckForUpdates(ctx context.Context) (update.Result, error) {
	a.mu.Lock()
	enabled := a.prefs.CheckUpdates
	a.mu.Unlock()
	if !enabled || a.updates == nil {
		return update.Result{}, nil
	}

	res, err := a.updates.Check(ctx, version.Version)
	if err != nil {
		logger.Debug("update check failed: %v", err)
		return res, err
	}
	if res.Newer {
		a.notify(a.T("notify.update_available"), a.T("notify.update_available_msg", res.Version, res.Current), LevelInfo)
	}
	return res, nil
}
