package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Unit state colors
	Active   = color.New(color.FgGreen)
	Inactive = color.New(color.FgYellow)
	Failed   = color.New(color.FgRed)
	Enabled  = color.New(color.FgCyan)
	Disabled = color.New(color.FgMagenta)

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header = color.New(color.FgWhite, color.Bold)
	Key    = color.New(color.FgBlue, color.Bold)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// StateColor returns the appropriate color for a unit state word
func StateColor(state string) *color.Color {
	switch strings.ToLower(state) {
	case "active", "running":
		return Active
	case "inactive", "stopped":
		return Inactive
	case "failed", "error":
		return Failed
	case "enabled":
		return Enabled
	case "disabled":
		return Disabled
	default:
		return color.New(color.Reset)
	}
}

// ActiveWord maps a boolean to the systemd active/inactive word
func ActiveWord(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

// EnabledWord maps a boolean to the systemd enabled/disabled word
func EnabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Printf("⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Printf("→ "+format+"\n", args...)
}

// Sprintf returns a colored string without printing
func Sprintf(c *color.Color, format string, args ...interface{}) string {
	return c.Sprintf(format, args...)
}

// Sprint returns a colored string without printing
func Sprint(c *color.Color, a ...interface{}) string {
	return c.Sprint(a...)
}

// FormatState formats a unit state word with appropriate color
func FormatState(state string) string {
	c := StateColor(state)
	return c.Sprintf("[%s]", state)
}

// FormatKey formats a field or item name with color
func FormatKey(name string) string {
	return Key.Sprint(name)
}

// KeyValues writes aligned "key: value" lines; empty values print as "-"
func KeyValues(w io.Writer, pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	for _, p := range pairs {
		value := p[1]
		if value == "" {
			value = Dim.Sprint("-")
		}
		pad := strings.Repeat(" ", width-len(p[0]))
		fmt.Fprintf(w, "%s:%s %s\n", Key.Sprint(p[0]), pad, value)
	}
}

