package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return &Logger{level: level, output: buf}, buf
}

// TestVerboseShowsDebug tests that --verbose turns on the poll and systemctl traces
func TestVerboseShowsDebug(t *testing.T) {
	log, buf := newTestLogger(LevelInfo)

	log.Debug("polling turing-screen")
	if buf.Len() != 0 {
		t.Errorf("debug output at info level: %q", buf.String())
	}

	log.SetVerbose(true)
	log.Debug("polling turing-screen")
	if !strings.Contains(buf.String(), "polling turing-screen") {
		t.Error("debug message should appear in verbose mode")
	}
}

// TestQuietKeepsErrors tests that --quiet hides everything below errors
func TestQuietKeepsErrors(t *testing.T) {
	log, buf := newTestLogger(LevelInfo)
	log.SetQuiet(true)

	log.Info("theme set")
	log.Warn("no themes found")
	log.Error("start turing-screen: exit status 5")

	out := buf.String()
	if strings.Contains(out, "theme set") || strings.Contains(out, "no themes found") {
		t.Errorf("quiet mode leaked %q", out)
	}
	if !strings.Contains(out, "exit status 5") {
		t.Error("errors must survive quiet mode")
	}
}

func TestLevelThresholds(t *testing.T) {
	messages := []struct {
		level Level
		text  string
	}{
		{LevelDebug, "dbg"},
		{LevelInfo, "inf"},
		{LevelWarn, "wrn"},
		{LevelError, "err"},
	}

	for _, threshold := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelQuiet} {
		log, buf := newTestLogger(threshold)
		log.Debug("dbg")
		log.Info("inf")
		log.Warn("wrn")
		log.Error("err")

		for _, m := range messages {
			want := m.level >= threshold
			if got := strings.Contains(buf.String(), m.text); got != want {
				t.Errorf("threshold %d: %s shown=%v, want %v", threshold, m.text, got, want)
			}
		}
	}
}

func TestFlagsOnlyRaiseOrLower(t *testing.T) {
	log := &Logger{level: LevelInfo}
	log.SetVerbose(false)
	log.SetQuiet(false)
	if log.level != LevelInfo {
		t.Errorf("false flags must not change the level, got %d", log.level)
	}
	log.SetVerbose(true)
	if log.level != LevelDebug {
		t.Errorf("SetVerbose(true) = %d, want LevelDebug", log.level)
	}
	log.SetQuiet(true)
	if log.level != LevelError {
		t.Errorf("SetQuiet(true) = %d, want LevelError", log.level)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	buf := new(bytes.Buffer)
	once = sync.Once{}
	once.Do(func() {
		defaultLogger = &Logger{level: LevelDebug, output: buf}
	})
	t.Cleanup(func() {
		once = sync.Once{}
		defaultLogger = nil
	})

	Debug("d %d", 1)
	Info("i %d", 2)
	Warn("w %d", 3)
	Error("e %d", 4)

	if got := buf.String(); got != "d 1\ni 2\nw 3\ne 4\n" {
		t.Errorf("unexpected output %q", got)
	}
}

// TestStructuredSinkReceivesAllLevels tests that sinks see records the terminal hides
func TestStructuredSinkReceivesAllLevels(t *testing.T) {
	term := new(bytes.Buffer)
	structured := new(bytes.Buffer)
	log := &Logger{
		level:  LevelError,
		output: term,
	}
	log.AddHandler(slog.NewTextHandler(structured, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Debug("polling %s", "turing-screen")
	log.Error("start failed")

	if strings.Contains(term.String(), "polling") {
		t.Error("Debug message should not reach the terminal at Error level")
	}
	if !strings.Contains(structured.String(), "polling turing-screen") {
		t.Errorf("Debug message should reach the structured sink, got %q", structured.String())
	}
	if !strings.Contains(structured.String(), "level=ERROR") {
		t.Errorf("Error record should carry its level, got %q", structured.String())
	}
}

// TestFanoutToMultipleSinks tests that every attached handler gets the record
func TestFanoutToMultipleSinks(t *testing.T) {
	a := new(bytes.Buffer)
	b := new(bytes.Buffer)
	log := &Logger{level: LevelQuiet, output: new(bytes.Buffer)}
	log.AddHandler(slog.NewTextHandler(a, nil))
	log.AddHandler(slog.NewJSONHandler(b, nil))

	log.Warn("theme %q not found", "Cyberpunk")

	if !strings.Contains(a.String(), "Cyberpunk") || !strings.Contains(b.String(), "Cyberpunk") {
		t.Errorf("both sinks should receive the record: %q / %q", a.String(), b.String())
	}
}

// TestEnableFileLogging tests that the log file lands under XDG_STATE_HOME
func TestEnableFileLogging(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	log := &Logger{level: LevelInfo, output: new(bytes.Buffer)}
	if err := log.EnableFileLogging(); err != nil {
		t.Fatalf("EnableFileLogging: %v", err)
	}
	log.Info("display started")
	log.Close()

	data, err := os.ReadFile(filepath.Join(dir, "turing-screen", "logs", "tray.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "display started") {
		t.Errorf("log file should contain the message, got %q", string(data))
	}
}

func TestToJournalKey(t *testing.T) {
	tests := map[string]string{
		"msg":        "MSG",
		"unit.name":  "UNIT_NAME",
		"poll-every": "POLL_EVERY",
	}
	for in, want := range tests {
		if got := toJournalKey(in); got != want {
			t.Errorf("toJournalKey(%q) = %q, want %q", in, got, want)
		}
	}
}
