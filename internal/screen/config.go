// Package screen reads and edits the renderer's config.yaml and discovers the
// themes installed next to it.
//
// Edits go through the yaml.v3 node tree so comments and key order survive a
// write. Fields are located by key name anywhere in the document; the first
// match in document order wins.
package screen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
)

var (
	ErrConfigNotFound     = errors.New("config.yaml not found")
	ErrFieldNotFound      = errors.New("field not found in config.yaml")
	ErrInvalidOrientation = errors.New("orientation must be 0, 1, 2 or 3")
	ErrInvalidTheme       = errors.New("theme name cannot be empty")
)

// Layout of a renderer directory
const (
	ConfigFile = "config.yaml"
	ThemesDir  = "res/themes"
	ThemeFile  = "theme.yaml"
)

// config.yaml keys
const (
	FieldRevision    = "REVISION"
	FieldTheme       = "THEME"
	FieldOrientation = "DISPLAY_ORIENTATION"
	FieldModel       = "DISPLAY"
)

// Orientation is the display rotation stored in config.yaml
type Orientation int

const (
	Orientation0 Orientation = iota
	Orientation90
	Orientation180
	Orientation270
)

// Orientations lists every valid orientation in order
func Orientations() []Orientation {
	return []Orientation{Orientation0, Orientation90, Orientation180, Orientation270}
}

// Valid reports whether o is one of 0..3
func (o Orientation) Valid() bool {
	return o >= Orientation0 && o <= Orientation270
}

// Degrees returns the rotation angle
func (o Orientation) Degrees() int {
	return int(o) * 90
}

func (o Orientation) String() string {
	return fmt.Sprintf("%d°", o.Degrees())
}

// revisionSizes maps hardware revisions to screen diagonals in inches.
// SIMU is simulated and has no size.
var revisionSizes = map[string]string{
	"A":       "3.5",
	"B":       "3.5",
	"C":       "5",
	"D":       "3.5",
	"WEACT_A": "3.5",
	"WEACT_B": "0.96",
	"SIMU":    "",
}

// SizeForRevision returns the diagonal of a revision, or "" when unknown
func SizeForRevision(revision string) string {
	return revisionSizes[strings.ToUpper(strings.TrimSpace(revision))]
}

// DisplayInfo is a snapshot of the display fields of config.yaml
type DisplayInfo struct {
	Revision    string
	Size        string
	Model       string
	Theme       string
	Orientation Orientation
}

// Config is the config.yaml of a renderer directory
type Config struct {
	dir string
}

// New returns the Config of a renderer directory
func New(dir string) *Config {
	return &Config{dir: dir}
}

// Dir returns the renderer directory
func (c *Config) Dir() string {
	return c.dir
}

// Path returns the config.yaml path
func (c *Config) Path() string {
	return filepath.Join(c.dir, ConfigFile)
}

// ThemesPath returns the themes directory
func (c *Config) ThemesPath() string {
	return filepath.Join(c.dir, filepath.FromSlash(ThemesDir))
}

// Exists reports whether config.yaml is present
func (c *Config) Exists() bool {
	info, err := os.Stat(c.Path())
	return err == nil && !info.IsDir()
}

// Load parses config.yaml
func (c *Config) Load() (*Document, error) {
	data, err := os.ReadFile(c.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, c.Path())
		}
		return nil, err
	}
	return ParseDocument(data)
}

// field reads one scalar; any read error yields ""
func (c *Config) field(key string) string {
	doc, err := c.Load()
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			logger.Debug("reading %s: %v", key, err)
		}
		return ""
	}
	value, _ := doc.Get(key)
	return value
}

// Revision returns the hardware revision, or "" if unset
func (c *Config) Revision() string {
	return c.field(FieldRevision)
}

// DisplaySize returns the diagonal derived from the revision, or "" if unknown
func (c *Config) DisplaySize() string {
	return SizeForRevision(c.Revision())
}

// DisplayModel returns the DISPLAY field, or "" if unset
func (c *Config) DisplayModel() string {
	return c.field(FieldModel)
}

// Theme returns the selected theme, or "" if unset
func (c *Config) Theme() string {
	return c.field(FieldTheme)
}

// Orientation returns the display orientation; missing or malformed values read as 0
func (c *Config) Orientation() Orientation {
	return parseOrientation(c.field(FieldOrientation))
}

func parseOrientation(value string) Orientation {
	n, err := strconv.Atoi(value)
	if err != nil || !Orientation(n).Valid() {
		return Orientation0
	}
	return Orientation(n)
}

// Info reads all display fields with a single parse
func (c *Config) Info() (DisplayInfo, error) {
	doc, err := c.Load()
	if err != nil {
		return DisplayInfo{}, err
	}
	var info DisplayInfo
	info.Revision, _ = doc.Get(FieldRevision)
	info.Size = SizeForRevision(info.Revision)
	info.Model, _ = doc.Get(FieldModel)
	info.Theme, _ = doc.Get(FieldTheme)
	orientation, _ := doc.Get(FieldOrientation)
	info.Orientation = parseOrientation(orientation)
	return info, nil
}

// SetTheme selects a theme
func (c *Config) SetTheme(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidTheme
	}
	return c.update(FieldTheme, name, "!!str")
}

// SetOrientation stores the display orientation
func (c *Config) SetOrientation(o Orientation) error {
	if !o.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidOrientation, int(o))
	}
	return c.update(FieldOrientation, strconv.Itoa(int(o)), "!!int")
}

func (c *Config) update(key, value, tag string) error {
	doc, err := c.Load()
	if err != nil {
		return err
	}
	if err := doc.Set(key, value, tag); err != nil {
		return err
	}
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path(), data); err != nil {
		return fmt.Errorf("writing %s: %w", c.Path(), err)
	}
	logger.Debug("set %s=%s in %s", key, value, c.Path())
	return nil
}

// writeFileAtomic replaces path through a temp file in the same directory,
// keeping the original permissions
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
