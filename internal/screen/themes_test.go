package screen

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// makeThemes builds a renderer directory with a few themes
func makeThemes(t *testing.T, revision string) *Config {
	t.Helper()
	c := writeConfig(t, "config:\n  THEME: Unknown\ndisplay:\n  REVISION: "+revision+"\n")

	themes := map[string]string{
		"3.5inchTheme2": "display:\n  DISPLAY_SIZE: 3.5\"\n",
		"Landscape5":    "static_images:\n  BACKGROUND:\n    PATH: background.png\n    X: 0\n    WIDTH: 800\n    HEIGHT: 480\n",
		"Unknown":       "author: someone\n",
		"WeActSmall":    "static_images:\n  BACKGROUND:\n    WIDTH: 160\n    HEIGHT: 128\n",
		"--Hidden":      "display:\n  DISPLAY_SIZE: 3.5\n",
		"_private":      "display:\n  DISPLAY_SIZE: 3.5\n",
	}
	for name, content := range themes {
		dir := filepath.Join(c.ThemesPath(), name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, ThemeFile), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// neither a directory without theme.yaml nor a plain file is a theme
	if err := os.MkdirAll(filepath.Join(c.ThemesPath(), "Empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(c.ThemesPath(), "README.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestThemesFilteredByDisplaySize(t *testing.T) {
	tests := []struct {
		revision string
		want     []string
	}{
		{"A", []string{"3.5inchTheme2", "Unknown"}},
		{"C", []string{"Landscape5", "Unknown"}},
		{"WEACT_B", []string{"Unknown", "WeActSmall"}},
		{"SIMU", []string{"3.5inchTheme2", "Landscape5", "Unknown", "WeActSmall"}},
	}

	for _, tt := range tests {
		t.Run(tt.revision, func(t *testing.T) {
			c := makeThemes(t, tt.revision)
			got, err := c.Themes(true)
			if err != nil {
				t.Fatalf("Themes: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Themes(true) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThemesUnfiltered(t *testing.T) {
	c := makeThemes(t, "A")
	got, err := c.Themes(false)
	if err != nil {
		t.Fatalf("Themes: %v", err)
	}
	want := []string{"3.5inchTheme2", "Landscape5", "Unknown", "WeActSmall"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Themes(false) = %v, want %v", got, want)
	}
}

func TestListThemesSizes(t *testing.T) {
	c := makeThemes(t, "A")
	themes, err := c.ListThemes()
	if err != nil {
		t.Fatalf("ListThemes: %v", err)
	}
	want := []ThemeInfo{
		{Name: "3.5inchTheme2", Size: "3.5"},
		{Name: "Landscape5", Size: "5"},
		{Name: "Unknown", Size: ""},
		{Name: "WeActSmall", Size: "0.96"},
	}
	if !reflect.DeepEqual(themes, want) {
		t.Errorf("ListThemes = %+v, want %+v", themes, want)
	}
}

func TestThemesMissingDirectory(t *testing.T) {
	c := writeConfig(t, sampleConfig)
	themes, err := c.Themes(true)
	if err != nil {
		t.Fatalf("Themes: %v", err)
	}
	if len(themes) != 0 {
		t.Errorf("expected no themes, got %v", themes)
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := map[string]string{
		`3.5"`:     "3.5",
		"5":        "5",
		"5.0 inch": "5",
		"0.96":     "0.96",
		`"2.1"`:    "2.1",
		"large":    "",
	}
	for in, want := range tests {
		if got := normalizeSize(in); got != want {
			t.Errorf("normalizeSize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSizeForResolution(t *testing.T) {
	if SizeForResolution(320, 480) != "3.5" || SizeForResolution(480, 800) != "5" || SizeForResolution(128, 128) != "0.96" {
		t.Error("known resolutions should map to their size")
	}
	if SizeForResolution(1024, 600) != "" {
		t.Error("unknown resolution should map to empty size")
	}
}
