package screen

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/turing-smart-screen/turing-tray/internal/common/logger"
)

// resolutionSizes maps WIDTHxHEIGHT of a theme background to a diagonal
var resolutionSizes = map[string]string{
	"320x480": "3.5",
	"480x320": "3.5",
	"480x800": "5",
	"800x480": "5",
	"128x128": "0.96",
	"160x128": "0.96",
}

var leadingNumberRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?`)

// ThemeInfo describes an installed theme
type ThemeInfo struct {
	Name string
	Size string // "" when the theme does not declare one
}

// SizeForResolution returns the diagonal for a background resolution, or ""
func SizeForResolution(width, height int) string {
	return resolutionSizes[strconv.Itoa(width)+"x"+strconv.Itoa(height)]
}

// ListThemes returns every installed theme sorted by name.
// A missing themes directory yields an empty list.
func (c *Config) ListThemes() ([]ThemeInfo, error) {
	entries, err := os.ReadDir(c.ThemesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var themes []ThemeInfo
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "--") || strings.HasPrefix(name, "_") {
			continue
		}
		dir := filepath.Join(c.ThemesPath(), name)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, ThemeFile)); err != nil {
			continue
		}
		themes = append(themes, ThemeInfo{Name: name, Size: ThemeSize(dir)})
	}

	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}

// Themes returns theme names sorted by name. With filter set and a known
// display size, themes declaring a different size are left out; themes of
// unknown size are always kept.
func (c *Config) Themes(filter bool) ([]string, error) {
	themes, err := c.ListThemes()
	if err != nil {
		return nil, err
	}

	displaySize := ""
	if filter {
		displaySize = c.DisplaySize()
	}

	names := make([]string, 0, len(themes))
	for _, t := range themes {
		if displaySize != "" && t.Size != "" && t.Size != displaySize {
			continue
		}
		names = append(names, t.Name)
	}
	return names, nil
}

// ThemeSize reads the diagonal a theme is designed for from its theme.yaml:
// DISPLAY_SIZE when present, else the BACKGROUND WIDTH and HEIGHT.
// Returns "" when neither is usable.
func ThemeSize(themeDir string) string {
	data, err := os.ReadFile(filepath.Join(themeDir, ThemeFile))
	if err != nil {
		return ""
	}
	doc, err := ParseDocument(data)
	if err != nil {
		logger.Debug("skipping size of %s: %v", filepath.Base(themeDir), err)
		return ""
	}

	if value, ok := doc.Get("DISPLAY_SIZE"); ok {
		if size := normalizeSize(value); size != "" {
			return size
		}
	}

	background := doc.Section("BACKGROUND")
	if background == nil {
		return ""
	}
	w, okW := background.Get("WIDTH")
	h, okH := background.Get("HEIGHT")
	if !okW || !okH {
		return ""
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil {
		return ""
	}
	return SizeForResolution(width, height)
}

// normalizeSize keeps the leading number of values like `3.5"` or "5.0 inch"
func normalizeSize(value string) string {
	m := leadingNumberRegex.FindString(strings.Trim(value, `"' `))
	if m == "" {
		return ""
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
