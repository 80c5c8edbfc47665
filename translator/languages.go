package translator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a selectable translation target.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var supportedCodes = []string{"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh"}

// SupportedLanguages lists the selectable targets with English display names.
var SupportedLanguages = buildLanguages(supportedCodes)

func buildLanguages(codes []string) []Language {
	namer := display.English.Languages()
	out := make([]Language, len(codes))
	for i, code := range codes {
		out[i] = Language{Code: code, Name: namer.Name(language.MustParse(code))}
	}
	return out
}

// LanguageName returns the display name of a supported code, or "" if unknown.
func LanguageName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l.Name
		}
	}
	return ""
}

// ValidateLanguage checks that code is a supported target.
func ValidateLanguage(code string) error {
	if LanguageName(code) == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return nil
}

// LanguageMap returns code → name for all supported targets.
func LanguageMap() map[string]string {
	m := make(map[string]string, len(SupportedLanguages))
	for _, l := range SupportedLanguages {
		m[l.Code] = l.Name
	}
	return m
}
