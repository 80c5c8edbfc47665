package schema

import (
	"regexp"
	"sort"
	"strings"
)

// languageClasses maps a language name to the characters that suggest it.
// Coarse by nature: accented Latin letters overlap across languages, so a
// single value often reports several candidates.
var languageClasses = map[string]*regexp.Regexp{
	"Spanish":    regexp.MustCompile(`[áéíóúñü]`),
	"French":     regexp.MustCompile(`[àâäçéèêëïîôùûüÿ]`),
	"German":     regexp.MustCompile(`[äöüß]`),
	"Italian":    regexp.MustCompile(`[àèéìíîòóù]`),
	"Portuguese": regexp.MustCompile(`[ãâáàçéêíôõú]`),
	"Russian":    regexp.MustCompile(`[а-яё]`),
	"Chinese":    regexp.MustCompile(`[一-龯]`),
	"Japanese":   regexp.MustCompile(`[\p{Hiragana}\p{Katakana}]`),
	"Korean":     regexp.MustCompile(`[가-힣]`),
}

// DetectLanguages scans the concatenated samples for language-specific
// characters and returns the sorted set of matches, or ["English"] when
// nothing matches.
func DetectLanguages(samples []string) []string {
	text := strings.ToLower(strings.Join(samples, " "))

	var found []string
	for name, re := range languageClasses {
		if re.MatchString(text) {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return []string{"English"}
	}
	sort.Strings(found)
	return found
}
