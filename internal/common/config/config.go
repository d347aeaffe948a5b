package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
	"github.com/turing-smart-screen/turing-tray/internal/i18n"
)

var (
	ErrUnknownKey        = errors.New("unknown preference key")
	ErrInvalidValue      = errors.New("invalid preference value")
	ErrTuringDirNotFound = errors.New("turing smart screen directory not found")
)

// Poll interval bounds in seconds
const (
	MinPollInterval = 2
	MaxPollInterval = 60
)

// DefaultUnit is the systemd user unit of the display renderer
const DefaultUnit = "turing-screen"

// TuringDirEnv overrides the renderer directory
const TuringDirEnv = "TURING_SCREEN_DIR"

// Preference keys as stored in tray.json
const (
	KeyLanguage          = "language"
	KeyShowNotifications = "show_notifications"
	KeyCheckUpdates      = "check_updates"
	KeyPollInterval      = "poll_interval"
	KeyTuringDir         = "turing_dir"
	KeyUnit              = "unit"
)

// Preferences holds the tray application settings
type Preferences struct {
	Language          string `json:"language"`
	ShowNotifications bool   `json:"show_notifications"`
	CheckUpdates      bool   `json:"check_updates"`
	PollInterval      int    `json:"poll_interval"`
	TuringDir         string `json:"turing_dir,omitempty"`
	Unit              string `json:"unit,omitempty"`

	path string
}

// Defaults returns preferences with default values
func Defaults() *Preferences {
	return &Preferences{
		Language:          "pt_BR",
		ShowNotifications: true,
		CheckUpdates:      true,
		PollInterval:      5,
		Unit:              DefaultUnit,
	}
}

// Keys returns the known preference keys, sorted
func Keys() []string {
	keys := []string{
		KeyLanguage, KeyShowNotifications, KeyCheckUpdates,
		KeyPollInterval, KeyTuringDir, KeyUnit,
	}
	sort.Strings(keys)
	return keys
}

// ConfigDir returns the tray configuration directory.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config
func ConfigDir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "turing-screen"), nil
}

// DefaultPath returns the default preferences file path
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tray.json"), nil
}

// Load reads preferences from the default path
func Load() (*Preferences, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads preferences from path.
// A missing file yields defaults; a corrupt file yields defaults and a warning.
// Keys present in the file override the defaults.
func LoadFrom(path string) (*Preferences, error) {
	prefs := Defaults()
	prefs.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, prefs); err != nil {
		logger.Warn("ignoring corrupt preferences file %s: %v", path, err)
		prefs = Defaults()
		prefs.path = path
		return prefs, nil
	}

	prefs.sanitize()
	return prefs, nil
}

// sanitize replaces out-of-range values with defaults
func (p *Preferences) sanitize() {
	def := Defaults()
	if p.PollInterval < MinPollInterval || p.PollInterval > MaxPollInterval {
		logger.Warn("poll_interval %d out of range, using %d", p.PollInterval, def.PollInterval)
		p.PollInterval = def.PollInterval
	}
	if !i18n.IsSupported(p.Language) {
		logger.Warn("unsupported language %q, using %s", p.Language, i18n.Fallback)
		p.Language = i18n.Fallback
	}
	if p.Unit == "" {
		p.Unit = def.Unit
	}
}

// Path returns the file the preferences are saved to
func (p *Preferences) Path() string {
	return p.path
}

// Save writes preferences to the file they were loaded from
func (p *Preferences) Save() error {
	if p.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		p.path = path
	}
	return p.SaveTo(p.path)
}

// SaveTo writes preferences to a specific file path
func (p *Preferences) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get returns the string form of a preference
func (p *Preferences) Get(key string) (string, error) {
	switch key {
	case KeyLanguage:
		return p.Language, nil
	case KeyShowNotifications:
		return strconv.FormatBool(p.ShowNotifications), nil
	case KeyCheckUpdates:
		return strconv.FormatBool(p.CheckUpdates), nil
	case KeyPollInterval:
		return strconv.Itoa(p.PollInterval), nil
	case KeyTuringDir:
		return p.TuringDir, nil
	case KeyUnit:
		return p.Unit, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses and validates value for key, then saves
func (p *Preferences) Set(key, value string) error {
	if err := p.Apply(key, value); err != nil {
		return err
	}
	return p.Save()
}

// Apply parses and validates value for key without saving
func (p *Preferences) Apply(key, value string) error {
	switch key {
	case KeyLanguage:
		if !i18n.IsSupported(value) {
			return fmt.Errorf("%w: %s: unsupported language %q", ErrInvalidValue, key, value)
		}
		p.Language = value
	case KeyShowNotifications, KeyCheckUpdates:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidValue, key, value)
		}
		if key == KeyShowNotifications {
			p.ShowNotifications = b
		} else {
			p.CheckUpdates = b
		}
	case KeyPollInterval:
		n, err := strconv.Atoi(strings.TrimSuffix(value, "s"))
		if err != nil || n < MinPollInterval || n > MaxPollInterval {
			return fmt.Errorf("%w: %s must be %d..%d seconds, got %q",
				ErrInvalidValue, key, MinPollInterval, MaxPollInterval, value)
		}
		p.PollInterval = n
	case KeyTuringDir:
		p.TuringDir = value
	case KeyUnit:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrInvalidValue, key)
		}
		p.Unit = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Reset restores defaults and saves
func (p *Preferences) Reset() error {
	path := p.path
	*p = *Defaults()
	p.path = path
	return p.Save()
}

// PollDuration returns the status poll period
func (p *Preferences) PollDuration() time.Duration {
	return time.Duration(p.PollInterval) * time.Second
}

// UnitName returns the configured unit or DefaultUnit
func (p *Preferences) UnitName() string {
	if p.Unit == "" {
		return DefaultUnit
	}
	return p.Unit
}

// TuringDirCandidates returns default install locations in priority order
func TuringDirCandidates() []string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "turing-smart-screen-python"))
	}
	return append(candidates, "/opt/turing-smart-screen")
}

// ResolveTuringDir finds the renderer directory.
// Priority: flag > TURING_SCREEN_DIR > preference > first existing default.
func ResolveTuringDir(flag string, prefs *Preferences) (string, error) {
	explicit := []string{flag, os.Getenv(TuringDirEnv)}
	if prefs != nil {
		explicit = append(explicit, prefs.TuringDir)
	}

	for _, dir := range explicit {
		if dir == "" {
			continue
		}
		dir = expandHome(dir)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrTuringDirNotFound, dir)
		}
		return dir, nil
	}

	for _, dir := range TuringDirCandidates() {
		if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err == nil {
			return dir, nil
		}
	}

	return "", fmt.Errorf("%w: set --turing-dir, %s or the %s preference",
		ErrTuringDirNotFound, TuringDirEnv, KeyTuringDir)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
