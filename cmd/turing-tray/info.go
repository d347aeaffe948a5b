package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/output"
	"github.com/turing-smart-screen/turing-tray/internal/common/version"
	"github.com/turing-smart-screen/turing-tray/internal/hardware"
	"github.com/turing-smart-screen/turing-tray/internal/i18n"
)

var forceCheck bool

var hardwareCmd = &cobra.Command{
	Use:   "hardware",
	Short: "Show GPU, sensor and USB information",
	Long:  `Print the report of the hardware window: lspci GPUs, lm_sensors readings and lsusb devices.`,
	Args:  cobra.NoArgs,
	Run:   runHardware,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release",
	Args:  cobra.NoArgs,
	Run:   runUpdate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	updateCmd.Flags().BoolVarP(&forceCheck, "force", "f", false, "Ignore the cached answer")
	rootCmd.AddCommand(hardwareCmd, updateCmd, versionCmd)
}

func runHardware(cmd *cobra.Command, args []string) {
	tr, err := i18n.New(loadPrefs().Language)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	report := hardware.NewCollector(nil).Collect(cmd.Context())
	fmt.Print(report.Format(tr))
}

func runUpdate(cmd *cobra.Command, args []string) {
	checker := newChecker()
	check := checker.Check
	if forceCheck {
		check = checker.CheckNow
	}

	res, err := check(cmd.Context(), version.Version)
	if err != nil {
		logger.Error("update check failed: %v", err)
		os.Exit(1)
	}

	if !res.Newer {
		output.PrintSuccess("turing-tray %s is up to date", res.Current)
		return
	}
	output.PrintInfo("version %s is available (installed: %s)", res.Version, res.Current)
	pairs := [][2]string{{"Release", res.URL}, {"Source", res.Source}}
	if res.Cached {
		pairs = append(pairs, [2]string{"Cached", "yes"})
	}
	output.KeyValues(os.Stdout, pairs)
}
