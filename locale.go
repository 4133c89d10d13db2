package main

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultLocale = "en_US"

//go:embed lang/*.yaml
var langFS embed.FS

type Locale struct {
	translations map[string]string
	locale       string
}

var globalLocale *Locale

// InitLocale loads the catalog for the system locale, falling back to en_US.
func InitLocale() error {
	locale := DetectSystemLocale()

	l, err := LoadLocale(locale)
	if err != nil {
		l, err = LoadLocale(defaultLocale)
		if err != nil {
			return fmt.Errorf("failed to load fallback locale %s: %w", defaultLocale, err)
		}
	}

	globalLocale = l
	return nil
}

// DetectSystemLocale follows POSIX precedence (LC_ALL, LC_MESSAGES, LANG)
// and strips the encoding suffix ("fr_CA.UTF-8" -> "fr_CA").
func DetectSystemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(key); value != "" {
			if locale, _, _ := strings.Cut(value, "."); locale != "" {
				return locale
			}
		}
	}
	return defaultLocale
}

func LoadLocale(locale string) (*Locale, error) {
	data, err := langFS.ReadFile("lang/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no catalog for locale %s: %w", locale, err)
	}
	return parseLocale(locale, data)
}

func parseLocale(locale string, data []byte) (*Locale, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse catalog for locale %s: %w", locale, err)
	}

	return &Locale{
		translations: translations,
		locale:       locale,
	}, nil
}

// T translates a key with optional fmt parameters. Unknown keys come back
// unchanged.
func T(key string, params ...interface{}) string {
	if globalLocale == nil {
		return key
	}

	translation, ok := globalLocale.translations[key]
	if !ok {
		return key
	}

	if len(params) > 0 {
		return fmt.Sprintf(translation, params...)
	}

	return translation
}

func GetLocale() string {
	if globalLocale == nil {
		return defaultLocale
	}
	return globalLocale.locale
}
