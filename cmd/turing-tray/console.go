package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/turing-smart-screen/turing-tray/internal/common/config"
	"github.com/turing-smart-screen/turing-tray/internal/common/output"
	"github.com/turing-smart-screen/turing-tray/internal/i18n"
	"github.com/turing-smart-screen/turing-tray/internal/service"
	"github.com/turing-smart-screen/turing-tray/internal/tray"
)

// console prints tray notifications to the terminal and reads answers from in
type console struct {
	in io.Reader
}

func (c console) Notify(title, message string, level tray.Level) {
	if level == tray.LevelCritical {
		output.PrintError("%s: %s", title, message)
		return
	}
	output.PrintSuccess("%s: %s", title, message)
}

// Confirm reads a y/N answer; anything but yes, including EOF, is no
func (c console) Confirm(title, message string) bool {
	fmt.Printf("%s\n%s [y/N] ", output.Sprint(output.Header, title), message)
	line, _ := bufio.NewReader(c.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c console) Warn(title, message string) {
	output.PrintWarning("%s: %s", title, message)
}

var (
	_ tray.Notifier = console{}
	_ tray.Prompter = console{}
)

// newConsoleApp wires a tray.App for commands run from a terminal
func newConsoleApp(prefs *config.Preferences, ctrl service.Controller) (*tray.App, error) {
	tr, err := i18n.New(prefs.Language)
	if err != nil {
		return nil, err
	}
	scr, _ := resolveScreen(prefs)
	return tray.New(tray.Options{
		Preferences: prefs,
		Translator:  tr,
		Service:     ctrl,
		Screen:      scr,
		Notifier:    console{in: os.Stdin},
		Prompter:    console{in: os.Stdin},
	})
}
