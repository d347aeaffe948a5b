// Package i18n loads the translated string tables of the tray.
//
// Tables are TOML files embedded in the binary, one per language, with one
// table per UI area:
//
//	[notify]
//	theme_applied_msg = "Theme '{0}' applied successfully."
//
// Keys are addressed with dots ("notify.theme_applied_msg"). Lookups fall back
// to en_US and then to the key itself. Positional {0}, {1} placeholders (or
// bare {} in order) are replaced by the arguments given to T.
package i18n

import (
	"embed"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// Fallback is used for unsupported languages and missing keys
const Fallback = "en_US"

//go:embed locales/*.toml
var locales embed.FS

// Language is a supported translation
type Language struct {
	Code string
	Name string
}

var supported = []Language{
	{Code: "pt_BR", Name: "Português (Brasil)"},
	{Code: "pt_PT", Name: "Português (Portugal)"},
	{Code: "en_US", Name: "English (US)"},
	{Code: "es_ES", Name: "Español"},
}

// Supported returns the supported languages in menu order
func Supported() []Language {
	return append([]Language(nil), supported...)
}

// IsSupported reports whether code has a translation table
func IsSupported(code string) bool {
	for _, l := range supported {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LoadTable parses the embedded table of a language into flat dotted keys
func LoadTable(code string) (map[string]string, error) {
	data, err := locales.ReadFile("locales/" + code + ".toml")
	if err != nil {
		return nil, fmt.Errorf("no translation table for %s: %w", code, err)
	}
	return ParseTable(data)
}

// ParseTable decodes TOML content into flat dotted keys
func ParseTable(data []byte) (map[string]string, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing translation table: %w", err)
	}
	table := make(map[string]string)
	flatten("", raw, table)
	return table, nil
}

func flatten(prefix string, in map[string]interface{}, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Translator resolves keys against the current language table
type Translator struct {
	mu       sync.RWMutex
	lang     string
	table    map[string]string
	fallback map[string]string
}

// New creates a Translator; unsupported languages use Fallback
func New(lang string) (*Translator, error) {
	fallback, err := LoadTable(Fallback)
	if err != nil {
		return nil, err
	}
	t := &Translator{fallback: fallback}
	if err := t.SetLanguage(lang); err != nil {
		return nil, err
	}
	return t, nil
}

// SetLanguage switches the current table; unsupported languages use Fallback
func (t *Translator) SetLanguage(lang string) error {
	if !IsSupported(lang) {
		lang = Fallback
	}
	table, err := LoadTable(lang)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.lang = lang
	t.table = table
	t.mu.Unlock()
	return nil
}

// Language returns the current language code
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// T returns the translation of key with placeholders replaced by args
func (t *Translator) T(key string, args ...interface{}) string {
	t.mu.RLock()
	text, ok := t.table[key]
	if !ok {
		text, ok = t.fallback[key]
	}
	t.mu.RUnlock()
	if !ok {
		text = key
	}
	return Format(text, args...)
}

var placeholderRegex = regexp.MustCompile(`\{(\d*)\}`)

// Format replaces {n} with the n-th argument and each bare {} with the next one.
// Placeholders without a matching argument are kept as they are.
func Format(text string, args ...interface{}) string {
	if len(args) == 0 {
		return text
	}
	next := 0
	return placeholderRegex.ReplaceAllStringFunc(text, func(m string) string {
		idx := next
		if digits := m[1 : len(m)-1]; digits != "" {
			n, err := strconv.Atoi(digits)
			if err != nil {
				return m
			}
			idx = n
		} else {
			next++
		}
		if idx >= len(args) {
			return m
		}
		return fmt.Sprint(args[idx])
	})
}
