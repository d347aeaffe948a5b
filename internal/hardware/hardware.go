// Package hardware gathers the GPU, sensor and USB information shown in the
// hardware dialog and by `turing-tray hardware`.
package hardware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/common/runner"
)

// CommandTimeout bounds each probe
const CommandTimeout = 5 * time.Second

// Status is the outcome of one probe
type Status int

const (
	StatusOK Status = iota
	StatusNotDetected
	StatusUnavailable
	StatusTimeout
	StatusError
)

// Kind identifies a report section
type Kind string

const (
	KindGPU     Kind = "gpu"
	KindSensors Kind = "sensors"
	KindUSB     Kind = "usb"
)

var gpuKeywords = []string{"vga", "3d", "display"}

// Section is one probe result
type Section struct {
	Kind   Kind
	Status Status
	Text   string
	Err    error
}

// Report holds the sections in display order
type Report struct {
	Sections []Section
}

// Translator resolves UI strings
type Translator interface {
	T(key string, args ...interface{}) string
}

// Collector runs the probes
type Collector struct {
	runner  runner.Runner
	Timeout time.Duration
}

// NewCollector creates a Collector; a nil runner uses the system tools
func NewCollector(r runner.Runner) *Collector {
	if r == nil {
		r = runner.NewExecRunner()
	}
	return &Collector{runner: r, Timeout: CommandTimeout}
}

// Collect runs lspci, sensors and lsusb concurrently
func (c *Collector) Collect(ctx context.Context) Report {
	kinds := []Kind{KindGPU, KindSensors, KindUSB}
	sections := make([]Section, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind Kind) {
			defer wg.Done()
			sections[i] = c.probe(ctx, kind)
		}(i, kind)
	}
	wg.Wait()

	return Report{Sections: sections}
}

func (c *Collector) probe(ctx context.Context, kind Kind) Section {
	tool := map[Kind]string{KindGPU: "lspci", KindSensors: "sensors", KindUSB: "lsusb"}[kind]

	ctx, cancel := runner.WithTimeout(ctx, c.Timeout)
	defer cancel()

	res, err := c.runner.Run(ctx, tool)
	section := classify(kind, res, err)
	if section.Status == StatusOK && kind == KindGPU {
		section = filterGPU(section)
	}
	if section.Err != nil {
		logger.Debug("%s probe: %v", tool, section.Err)
	}
	return section
}

// classify maps a tool outcome to a section status.
// A non-zero exit that still printed something counts as a result.
func classify(kind Kind, res runner.Result, err error) Section {
	s := Section{Kind: kind, Text: res.Stdout, Err: err}
	switch {
	case err == nil && res.Stdout != "":
		s.Status = StatusOK
	case err == nil:
		s.Status = StatusUnavailable
	case errors.Is(err, runner.ErrToolNotFound):
		s.Status = StatusUnavailable
	case errors.Is(err, runner.ErrTimeout):
		s.Status = StatusTimeout
	case errors.Is(err, runner.ErrCommandFailed) && res.Stdout != "":
		s.Status = StatusOK
	default:
		s.Status = StatusError
	}
	return s
}

func filterGPU(s Section) Section {
	lines := lo.Filter(strings.Split(s.Text, "\n"), func(line string, _ int) bool {
		lower := strings.ToLower(line)
		return lo.SomeBy(gpuKeywords, func(k string) bool { return strings.Contains(lower, k) })
	})
	if len(lines) == 0 {
		s.Status = StatusNotDetected
		s.Text = ""
		return s
	}
	s.Text = strings.Join(lines, "\n")
	return s
}

var titleKeys = map[Kind]string{
	KindGPU:     "hardware.gpu",
	KindSensors: "hardware.sensors",
	KindUSB:     "hardware.usb",
}

var unavailableKeys = map[Kind]string{
	KindGPU:     "hardware.detection_error",
	KindSensors: "hardware.sensors_not_available",
	KindUSB:     "hardware.usb_not_available",
}

// Format renders the report as plain text with ═══ title ═══ headers
func (r Report) Format(tr Translator) string {
	bar := strings.Repeat("═", 20)
	blocks := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		header := fmt.Sprintf("%s %s %s", bar, tr.T(titleKeys[s.Kind]), bar)
		blocks = append(blocks, header+"\n"+s.body(tr))
	}
	return strings.Join(blocks, "\n\n")
}

func (s Section) body(tr Translator) string {
	switch s.Status {
	case StatusOK:
		return s.Text
	case StatusNotDetected:
		return tr.T("hardware.not_detected")
	case StatusTimeout:
		return "(timeout)"
	case StatusError:
		return fmt.Sprintf("(error: %v)", s.Err)
	default:
		return tr.T(unavailableKeys[s.Kind])
	}
}
