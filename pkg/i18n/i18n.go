// Package i18n provides the reply catalog for command responses.
//
// The reply language is chosen in this order:
//  1. the interaction's locale field
//  2. the Accept-Language header
//  3. DefaultLanguage (en)
//
// Usage:
//
//	loc := i18n.NewLocalizer("tr")
//	loc.T("errors.noPermission") // → "Yetkiniz yok."
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
)

// SupportedLanguages, languages with a catalog file.
var SupportedLanguages = []string{"en", "tr"}

// DefaultLanguage, fallback language.
const DefaultLanguage = "en"

// translations, map[lang]map[flatKey]message. Written once by Load, read-only after.
var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error
)

// Load, reads one <lang>.json per supported language from localesFS.
// Only the first call does any work; later calls return the first result.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string)

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			// {"errors": {"ownerOnly": "..."}} → "errors.ownerOnly"
			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat

			log.Printf("[i18n] loaded %d keys for language: %s", len(flat), lang)
		}

		translations = loaded
	})

	return loadErr
}

// LoadEmbedded, Load with the catalogs compiled into the binary.
func LoadEmbedded() error {
	sub, err := fs.Sub(EmbeddedLocales, "locales")
	if err != nil {
		return fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return Load(sub)
}

// Localizer, translates keys for one language.
type Localizer struct {
	lang string
}

// NewLocalizer, unsupported languages fall back to DefaultLanguage.
func NewLocalizer(lang string) *Localizer {
	if !isSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, the language this localizer resolved to.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, returns the message for key. Missing keys fall back to English, then to the key itself.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, T with {{name}} placeholders substituted.
//
//	loc.TWithParams("config.staffRoleSet", map[string]string{"role": "<@&r1>"})
//	// → "Staff role set to <@&r1>"
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// DetectLanguage, picks the first supported language of an Accept-Language header.
// "tr-TR,tr;q=0.9,en-US;q=0.8" → "tr"
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		lang = strings.ToLower(strings.Split(lang, "-")[0])

		if isSupported(lang) {
			return lang
		}
	}

	return DefaultLanguage
}

func isSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
