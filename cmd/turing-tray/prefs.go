package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/turing-smart-screen/turing-tray/internal/common/config"
	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/output"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change tray preferences",
	Long: `Show or change the tray preferences stored in
$XDG_CONFIG_HOME/turing-screen/tray.json.

Keys: language, show_notifications, check_updates, poll_interval, turing_dir, unit.`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print all preferences",
	Args:  cobra.NoArgs,
	Run:   runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one preference",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	Run:       runPrefsSet,
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		prefs := loadPrefs()
		if err := prefs.Reset(); err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		output.PrintSuccess("preferences reset")
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd, prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsShow(cmd *cobra.Command, args []string) {
	prefs := loadPrefs()
	pairs := [][2]string{{"file", prefs.Path()}}
	for _, key := range config.Keys() {
		value, err := prefs.Get(key)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		pairs = append(pairs, [2]string{key, value})
	}
	output.KeyValues(os.Stdout, pairs)
}

func runPrefsSet(cmd *cobra.Command, args []string) {
	prefs := loadPrefs()
	if err := prefs.Set(args[0], args[1]); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	value, _ := prefs.Get(args[0])
	output.PrintSuccess("%s = %s", args[0], value)
}
