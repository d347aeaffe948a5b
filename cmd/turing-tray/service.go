package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/output"
	"github.com/turing-smart-screen/turing-tray/internal/service"
)

var journalLines int

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Control the display service unit",
	Long:  `Start, stop and inspect the systemd user unit that drives the display.`,
}

// verbs maps subcommands to controller calls and their success message
var verbs = []struct {
	use   string
	short string
	done  string
	call  func(service.Controller, context.Context) error
}{
	{"start", "Start the display service", "started", service.Controller.Start},
	{"stop", "Stop the display service", "stopped", service.Controller.Stop},
	{"restart", "Restart the display service", "restarted", service.Controller.Restart},
	{"enable", "Start the display service at login", "enabled", service.Controller.Enable},
	{"disable", "Do not start the display service at login", "disabled", service.Controller.Disable},
	{"reload", "Reload systemd user unit files", "reloaded", service.Controller.DaemonReload},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the display service",
	Args:  cobra.NoArgs,
	Run:   runServiceStatus,
}

var serviceToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Stop a running display or start a stopped one",
	Args:  cobra.NoArgs,
	Run:   runServiceToggle,
}

var serviceLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the journal of the display service",
	Args:  cobra.NoArgs,
	Run:   runServiceLogs,
}

func init() {
	for _, v := range verbs {
		v := v
		serviceCmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				ctrl := newController(loadPrefs())
				if err := v.call(ctrl, cmd.Context()); err != nil {
					logger.Error("%v", err)
					os.Exit(1)
				}
				output.PrintSuccess("%s %s", ctrl.Unit(), v.done)
			},
		})
	}

	serviceLogsCmd.Flags().IntVarP(&journalLines, "lines", "n", service.DefaultJournalLines, "Number of journal lines")
	serviceCmd.AddCommand(serviceToggleCmd, serviceStatusCmd, serviceLogsCmd)
	rootCmd.AddCommand(serviceCmd)
}

func runServiceStatus(cmd *cobra.Command, args []string) {
	ctrl := newController(loadPrefs())
	st, err := service.Snapshot(cmd.Context(), ctrl)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	output.KeyValues(os.Stdout, [][2]string{
		{"Unit", ctrl.Unit()},
		{"Active", output.FormatState(output.ActiveWord(st.Active))},
		{"Autostart", output.FormatState(output.EnabledWord(st.Enabled))},
	})

	if verbose {
		text, err := ctrl.Status(cmd.Context())
		if err != nil {
			logger.Warn("%v", err)
			return
		}
		fmt.Println()
		fmt.Print(text)
	}
}

func runServiceToggle(cmd *cobra.Command, args []string) {
	prefs := loadPrefs()
	app, err := newConsoleApp(prefs, newController(prefs))
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	if err := app.ToggleDisplay(cmd.Context()); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	output.PrintInfo("%s", app.Tooltip(app.Status()))
}

func runServiceLogs(cmd *cobra.Command, args []string) {
	ctrl := newController(loadPrefs())
	text, err := ctrl.Journal(cmd.Context(), journalLines)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	fmt.Print(text)
}
