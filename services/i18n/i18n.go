// Package i18n serves the user-facing strings of the landing page and the
// lead API. Korean is the primary language; English exists for the partner
// preview links.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var fs embed.FS

// DefaultLang is used when a request names no supported language
const DefaultLang = "ko"

// translations holds flattened keys per language: "ko" -> "lead.saved" -> "..."
var (
	translations = make(map[string]map[string]string)
	mutex        sync.RWMutex
	loadOnce     sync.Once
	loadErr      error
)

// Load reads every embedded locale file. Safe to call more than once.
func Load() error {
	loadOnce.Do(func() {
		loadErr = load()
	})
	return loadErr
}

func load() error {
	mutex.Lock()
	defer mutex.Unlock()

	entries, err := fs.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read embedded locales: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")
		content, err := fs.ReadFile(entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", entry.Name(), err)
		}

		var nested map[string]interface{}
		if err := json.Unmarshal(content, &nested); err != nil {
			return fmt.Errorf("failed to unmarshal locale %s: %w", entry.Name(), err)
		}

		flat := make(map[string]string)
		flatten("", nested, flat)
		translations[lang] = flat
		log.Printf("[i18n] Loaded locale %s (%d keys)", lang, len(flat))
	}
	return nil
}

// flatten turns nested objects into dot-notation keys
func flatten(prefix string, nested map[string]interface{}, result map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch child := v.(type) {
		case map[string]interface{}:
			flatten(key, child, result)
		case string:
			result[key] = child
		default:
			result[key] = fmt.Sprintf("%v", child)
		}
	}
}

// Languages returns the loaded language codes, sorted
func Languages() []string {
	Load()
	mutex.RLock()
	defer mutex.RUnlock()

	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Supported reports whether lang has a locale file
func Supported(lang string) bool {
	Load()
	mutex.RLock()
	defer mutex.RUnlock()
	_, ok := translations[lang]
	return ok
}

// T translates key using the language stored in ctx
func T(ctx context.Context, key string, args ...map[string]interface{}) string {
	return Translate(GetLocale(ctx), key, args...)
}

// Translate looks key up in lang, then in DefaultLang, then returns the key itself.
// {name} placeholders are replaced from args.
func Translate(lang, key string, args ...map[string]interface{}) string {
	Load()
	mutex.RLock()
	defer mutex.RUnlock()

	if trans, ok := translations[lang]; ok {
		if val, ok := trans[key]; ok {
			return format(val, args...)
		}
	}
	if lang != DefaultLang {
		if val, ok := translations[DefaultLang][key]; ok {
			return format(val, args...)
		}
	}
	return key
}

func format(text string, args ...map[string]interface{}) string {
	if len(args) == 0 {
		return text
	}
	for k, v := range args[0] {
		text = strings.ReplaceAll(text, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return text
}

type contextKey string

// LocaleContextKey stores the request language in a context.Context
const LocaleContextKey contextKey = "locale"

// WithLocale returns a copy of ctx carrying lang
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, LocaleContextKey, lang)
}

// GetLocale returns the language stored by the locale middleware, or DefaultLang
func GetLocale(ctx context.Context) string {
	if val, ok := ctx.Value(LocaleContextKey).(string); ok && val != "" {
		return val
	}
	return DefaultLang
}
