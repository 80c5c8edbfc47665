package translator

import "strings"

// DefaultLabelKeywords are the substrings that flag a column label as a
// prompt rather than a field name. Tuned for Spanish feedback forms;
// override with WithLabelKeywords for other datasets.
var DefaultLabelKeywords = []string{
	"texto", "text", "translated", "mango",
	"estás", "estas", "algo", "favor", "por favor",
	"como", "cómo",
}

// LabelMatcher decides whether a column label should itself be translated.
type LabelMatcher struct {
	keywords []string
}

// NewLabelMatcher builds a matcher over lower-cased keywords.
// Blank keywords are ignored.
func NewLabelMatcher(keywords []string) LabelMatcher {
	m := LabelMatcher{keywords: make([]string, 0, len(keywords))}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			m.keywords = append(m.keywords, k)
		}
	}
	return m
}

// Matches reports whether name contains a question mark or any keyword.
func (m LabelMatcher) Matches(name string) bool {
	if strings.ContainsAny(name, "?¿") {
		return true
	}
	lower := strings.ToLower(name)
	for _, k := range m.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
