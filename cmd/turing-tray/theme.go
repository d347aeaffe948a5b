package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/output"
	"github.com/turing-smart-screen/turing-tray/internal/screen"
	"github.com/turing-smart-screen/turing-tray/internal/service"
)

var (
	listAll      bool
	restartAfter bool
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "List and select display themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed themes",
	Long: `List the themes installed in res/themes. By default only themes matching the
display size of the configured revision are shown; --all lists every theme.`,
	Args: cobra.NoArgs,
	Run:  runThemeList,
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the selected theme",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		scr := mustScreen(loadPrefs())
		requireConfig(scr)
		fmt.Println(scr.Theme())
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Select a theme in config.yaml",
	Args:  cobra.ExactArgs(1),
	Run:   runThemeSet,
}

var orientationCmd = &cobra.Command{
	Use:   "orientation",
	Short: "Show or change the display orientation",
}

var orientationGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the display orientation",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		scr := mustScreen(loadPrefs())
		requireConfig(scr)
		o := scr.Orientation()
		fmt.Printf("%d (%s)\n", int(o), o)
	},
}

var orientationSetCmd = &cobra.Command{
	Use:       "set <0-3>",
	Short:     "Set the display orientation (0=0°, 1=90°, 2=180°, 3=270°)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"0", "1", "2", "3"},
	Run:       runOrientationSet,
}

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show the configured display",
	Args:  cobra.NoArgs,
	Run:   runDisplay,
}

func init() {
	themeListCmd.Flags().BoolVarP(&listAll, "all", "a", false, "List themes of every display size")
	themeSetCmd.Flags().BoolVarP(&restartAfter, "restart", "r", false, "Restart the display service if it is running")
	orientationSetCmd.Flags().BoolVarP(&restartAfter, "restart", "r", false, "Restart the display service if it is running")

	themeCmd.AddCommand(themeListCmd, themeGetCmd, themeSetCmd)
	orientationCmd.AddCommand(orientationGetCmd, orientationSetCmd)
	rootCmd.AddCommand(themeCmd, orientationCmd, displayCmd)
}

func requireConfig(scr *screen.Config) {
	if !scr.Exists() {
		logger.Error("%v: %s", screen.ErrConfigNotFound, scr.Path())
		os.Exit(1)
	}
}

func runThemeList(cmd *cobra.Command, args []string) {
	scr := mustScreen(loadPrefs())
	themes, err := scr.ListThemes()
	if err != nil {
		logger.Error("listing themes: %v", err)
		os.Exit(1)
	}
	visible, err := scr.Themes(!listAll)
	if err != nil {
		logger.Error("listing themes: %v", err)
		os.Exit(1)
	}
	shown := make(map[string]bool, len(visible))
	for _, name := range visible {
		shown[name] = true
	}

	if len(visible) == 0 {
		output.PrintWarning("no themes found in %s", scr.ThemesPath())
		return
	}

	current := scr.Theme()
	for _, t := range themes {
		if !shown[t.Name] {
			continue
		}
		marker := "  "
		if t.Name == current {
			marker = output.Sprint(output.Success, "* ")
		}
		size := ""
		if t.Size != "" {
			size = output.Sprintf(output.Dim, ` (%s")`, t.Size)
		}
		fmt.Printf("%s%s%s\n", marker, t.Name, size)
	}
}

func runThemeSet(cmd *cobra.Command, args []string) {
	prefs := loadPrefs()
	scr := mustScreen(prefs)
	if err := scr.SetTheme(args[0]); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	output.PrintSuccess("theme set to %s", args[0])
	maybeRestart(cmd.Context(), newController(prefs))
}

func runOrientationSet(cmd *cobra.Command, args []string) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		logger.Error("%v: %q", screen.ErrInvalidOrientation, args[0])
		os.Exit(1)
	}
	prefs := loadPrefs()
	scr := mustScreen(prefs)
	o := screen.Orientation(n)
	if err := scr.SetOrientation(o); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	output.PrintSuccess("orientation set to %s", o)
	maybeRestart(cmd.Context(), newController(prefs))
}

// maybeRestart restarts an active unit with --restart, otherwise prints a hint
func maybeRestart(ctx context.Context, ctrl service.Controller) {
	active, err := ctrl.IsActive(ctx)
	if err != nil || !active {
		return
	}
	if !restartAfter {
		output.PrintInfo("%s is running; restart it to apply the change (or pass --restart)", ctrl.Unit())
		return
	}
	if err := ctrl.Restart(ctx); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	output.PrintSuccess("%s restarted", ctrl.Unit())
}

func runDisplay(cmd *cobra.Command, args []string) {
	scr := mustScreen(loadPrefs())
	info, err := scr.Info()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	size := ""
	if info.Size != "" {
		size = info.Size + `"`
	}
	output.KeyValues(os.Stdout, [][2]string{
		{"Directory", scr.Dir()},
		{"Revision", info.Revision},
		{"Size", size},
		{"Model", info.Model},
		{"Theme", info.Theme},
		{"Orientation", info.Orientation.String()},
	})
}
