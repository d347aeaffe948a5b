package tray

import (
	"context"
	"time"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/service"
)

// Icon selects the tray icon
type Icon int

const (
	IconStopped Icon = iota
	IconRunning
	IconError
)

// Status is the last polled state of the service unit
type Status struct {
	Active  bool
	Enabled bool
	// Err is set when systemctl could not be queried
	Err error
}

// Icon returns the tray icon for the status
func (s Status) Icon() Icon {
	switch {
	case s.Err != nil:
		return IconError
	case s.Active:
		return IconRunning
	default:
		return IconStopped
	}
}

// differs ignores the error text, only whether there is one
func (s Status) differs(o Status) bool {
	return s.Active != o.Active || s.Enabled != o.Enabled || (s.Err == nil) != (o.Err == nil)
}

// Tooltip returns the tray tooltip text
func (a *App) Tooltip(s Status) string {
	key := "status.stopped"
	switch {
	case s.Err != nil:
		key = "status.unknown"
	case s.Active:
		key = "status.running"
	}
	return Title + " - " + a.T(key)
}

// Status returns the last polled status
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Refresh polls the unit and reports a change to the Watch callback
func (a *App) Refresh(ctx context.Context) Status {
	st, err := service.Snapshot(ctx, a.svc)
	s := Status{Active: st.Active, Enabled: st.Enabled, Err: err}

	a.mu.Lock()
	changed := !a.polled || s.differs(a.status)
	a.status = s
	a.polled = true
	onChange := a.onChange
	a.mu.Unlock()

	if changed {
		if err != nil {
			logger.Warn("service status unavailable: %v", err)
		} else {
			logger.Info("%s (%s, autostart=%v)", a.Tooltip(s), a.svc.Unit(), s.Enabled)
		}
		if onChange != nil {
			onChange(s)
		}
	}
	return s
}

func (a *App) pollInterval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prefs.PollDuration()
}

// Watch polls the unit every PollInterval seconds until ctx is done, calling
// onChange with the first status and on every change after it. The interval
// is re-read after ApplyPreferences.
func (a *App) Watch(ctx context.Context, onChange func(Status)) {
	a.mu.Lock()
	a.onChange = onChange
	a.polled = false
	a.mu.Unlock()

	a.Refresh(ctx)

	timer := time.NewTimer(a.pollInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.reset:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
			a.Refresh(ctx)
		}
		timer.Reset(a.pollInterval())
	}
}
