// Package i18n resolves user-facing labels from locale-keyed YAML tables.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Locale is a display language code
type Locale string

const (
	English Locale = "en"
	Telugu  Locale = "te"
	Hindi   Locale = "hi"
	Tamil   Locale = "ta"

	Fallback = English
)

// Supported lists the selectable locales in menu order.
func Supported() []Locale {
	return []Locale{English, Telugu, Hindi, Tamil}
}

// IsSupported reports whether code is one of the selectable locales.
func IsSupported(code Locale) bool {
	for _, l := range Supported() {
		if l == code {
			return true
		}
	}
	return false
}

//go:embed locales/*.yaml
var bundled embed.FS

// Translator holds the lookup tables and the process-wide selected locale.
type Translator struct {
	mu      sync.RWMutex
	tables  map[Locale]map[string]string
	current Locale
}

// New loads the embedded tables and selects the given locale.
func New(initial Locale) (*Translator, error) {
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}
	if initial == "" {
		initial = Fallback
	}
	return &Translator{tables: tables, current: initial}, nil
}

// MustNew is New for callers that treat a broken embedded table as a bug.
func MustNew(initial Locale) *Translator {
	t, err := New(initial)
	if err != nil {
		panic(err)
	}
	return t
}

func loadTables() (map[Locale]map[string]string, error) {
	entries, err := bundled.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locale tables: %w", err)
	}

	tables := make(map[Locale]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		raw, err := bundled.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale table %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale table %s: %w", name, err)
		}
		tables[Locale(strings.TrimSuffix(name, path.Ext(name)))] = table
	}
	if _, ok := tables[Fallback]; !ok {
		return nil, fmt.Errorf("fallback locale table %q is missing", Fallback)
	}
	return tables, nil
}

// SetLocale selects code. Codes outside Supported are stored as given and
// resolve through the fallback table.
func (t *Translator) SetLocale(code Locale) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = code
}

// Locale returns the selected locale
func (t *Translator) Locale() Locale {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Next returns the locale after the current one in Supported order.
func (t *Translator) Next() Locale {
	current := t.Locale()
	all := Supported()
	for i, l := range all {
		if l == current {
			return all[(i+1)%len(all)]
		}
	}
	return Fallback
}

// T resolves key in the selected locale, then the fallback table, then
// returns the key itself.
func (t *Translator) T(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lookup(t.current, key)
}

// In resolves key for an explicit locale without changing the selection.
func (t *Translator) In(locale Locale, key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lookup(locale, key)
}

func (t *Translator) lookup(locale Locale, key string) string {
	if v, ok := t.tables[locale][key]; ok && v != "" {
		return v
	}
	if v, ok := t.tables[Fallback][key]; ok && v != "" {
		return v
	}
	return key
}
