package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turing-smart-screen/turing-tray/internal/common/config"
	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/output"
	"github.com/turing-smart-screen/turing-tray/internal/gui"
	"github.com/turing-smart-screen/turing-tray/internal/i18n"
	"github.com/turing-smart-screen/turing-tray/internal/instance"
	"github.com/turing-smart-screen/turing-tray/internal/screen"
	"github.com/turing-smart-screen/turing-tray/internal/service"
	"github.com/turing-smart-screen/turing-tray/internal/tray"
	"github.com/turing-smart-screen/turing-tray/internal/update"
)

var (
	verbose   bool
	quiet     bool
	noColor   bool
	turingDir string
	unitName  string
)

var rootCmd = &cobra.Command{
	Use:   "turing-tray",
	Short: "System tray for the Turing Smart Screen",
	Long: `Controls the Turing Smart Screen display service from the system tray.

Without a subcommand the tray icon is started. Only one tray runs per session;
starting a second one brings the first to the front.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
	Run: runTray,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&turingDir, "turing-dir", "", "Turing Smart Screen directory (default: $"+config.TuringDirEnv+" or the turing_dir preference)")
	rootCmd.PersistentFlags().StringVar(&unitName, "unit", "", "systemd user unit of the display (default: the unit preference)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadPrefs loads the preferences or exits
func loadPrefs() *config.Preferences {
	prefs, err := config.Load()
	if err != nil {
		logger.Error("loading preferences: %v", err)
		os.Exit(1)
	}
	return prefs
}

// resolveScreen returns the renderer config, or nil when the directory is unknown
func resolveScreen(prefs *config.Preferences) (*screen.Config, error) {
	dir, err := config.ResolveTuringDir(turingDir, prefs)
	if err != nil {
		return nil, err
	}
	return screen.New(dir), nil
}

// mustScreen is resolveScreen for commands that cannot work without it
func mustScreen(prefs *config.Preferences) *screen.Config {
	scr, err := resolveScreen(prefs)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	return scr
}

// newController returns the systemctl controller for --unit or the preference
func newController(prefs *config.Preferences) service.Controller {
	unit := unitName
	if unit == "" {
		unit = prefs.UnitName()
	}
	ctrl, err := service.NewSystemctl(unit, nil)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	return ctrl
}

// newChecker returns an update checker backed by the on-disk cache when available
func newChecker() *update.Checker {
	var cache *update.Cache
	if dir, err := update.CacheDir(); err == nil {
		if cache, err = update.NewCache(dir); err != nil {
			logger.Debug("update cache unavailable: %v", err)
		}
	}
	return update.NewChecker(nil, cache)
}

func runTray(cmd *cobra.Command, args []string) {
	if err := logger.Default().EnableFileLogging(); err != nil {
		logger.Warn("file logging disabled: %v", err)
	}
	if logger.InSystemdUnit() {
		if err := logger.Default().EnableJournal(); err != nil {
			logger.Warn("%v", err)
		}
	}
	defer logger.Default().Close()

	g := gui.New()
	guard, err := instance.Acquire(instance.WithOnConnect(g.Show))
	if errors.Is(err, instance.ErrAlreadyRunning) {
		logger.Info("turing-tray is already running")
		return
	}
	if err != nil {
		logger.Error("single instance check: %v", err)
		os.Exit(1)
	}
	defer guard.Release()

	prefs := loadPrefs()
	tr, err := i18n.New(prefs.Language)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	scr, err := resolveScreen(prefs)
	if err != nil {
		logger.Warn("%v", err)
	}

	app, err := tray.New(tray.Options{
		Preferences: prefs,
		Translator:  tr,
		Service:     newController(prefs),
		Screen:      scr,
		Updates:     newChecker(),
		Notifier:    g,
		Prompter:    g,
	})
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := g.Run(ctx, app); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
