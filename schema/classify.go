package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// CLASSIFIER — Heuristic column typing
// ============================================================================
// Ordered rules, first match wins:
//   1. No present values                          → empty
//   2. Declared storage numeric                   → numeric
//   3. Declared storage datetime                  → datetime
//   4. Share of sampled values looking like dates
//      strictly above Options.DateMatchThreshold   → datetime
//   5. Every present value parses as a number     → numeric
//   6. Otherwise                                  → text
//
// The date rule is a plain unanchored pattern search; it does not validate
// calendar dates.
// ============================================================================

// Options controls analysis behavior.
type Options struct {
	DateSampleSize     int     // Max present values tested against date patterns. Default: 100
	DateMatchThreshold float64 // Fraction that must match (strictly greater). Default: 0.5
	SampleValues       int     // Sample values kept per column. Default: 5
	LanguageSample     int     // Values concatenated for language detection. Default: 10
}

// DateMatchAny as DateMatchThreshold makes a single date-pattern match
// enough. A zero threshold in Options means "use the default".
const DateMatchAny = -1.0

// DefaultOptions returns the defaults used by the analyzer.
func DefaultOptions() Options {
	return Options{
		DateSampleSize:     100,
		DateMatchThreshold: 0.5,
		SampleValues:       5,
		LanguageSample:     10,
	}
}

func resolveOptions(opts []Options) Options {
	opt := DefaultOptions()
	if len(opts) == 0 {
		return opt
	}
	o := opts[0]
	if o.DateSampleSize > 0 {
		opt.DateSampleSize = o.DateSampleSize
	}
	switch {
	case o.DateMatchThreshold < 0:
		opt.DateMatchThreshold = 0
	case o.DateMatchThreshold > 0:
		opt.DateMatchThreshold = o.DateMatchThreshold
	}
	if o.SampleValues > 0 {
		opt.SampleValues = o.SampleValues
	}
	if o.LanguageSample > 0 {
		opt.LanguageSample = o.LanguageSample
	}
	return opt
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}`),     // YYYY-MM-DD or YYYY/MM/DD
	regexp.MustCompile(`\d{2}[-/]\d{2}[-/]\d{4}`),     // MM-DD-YYYY or MM/DD/YYYY
	regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{4}`), // M-D-YYYY or M/D/YYYY
}

// Classify assigns a type tag to a column. It never mutates the column.
func Classify(col *table.Column, opts ...Options) Type {
	opt := resolveOptions(opts)

	values := col.NonNull()
	if len(values) == 0 {
		return TypeEmpty
	}

	switch col.Kind {
	case table.KindNumeric:
		return TypeNumeric
	case table.KindDatetime:
		return TypeDatetime
	}

	if looksLikeDates(values, opt) {
		return TypeDatetime
	}

	if allNumeric(values) {
		return TypeNumeric
	}

	return TypeText
}

// looksLikeDates reports whether more than the threshold share of the
// first DateSampleSize values contain a date-shaped substring.
func looksLikeDates(values []string, opt Options) bool {
	n := len(values)
	if n > opt.DateSampleSize {
		n = opt.DateSampleSize
	}
	if n == 0 {
		return false
	}

	matches := 0
	for _, v := range values[:n] {
		for _, re := range datePatterns {
			if re.MatchString(v) {
				matches++
				break
			}
		}
	}
	return float64(matches)/float64(n) > opt.DateMatchThreshold
}

// allNumeric is strict: a single unparseable value fails the column.
func allNumeric(values []string) bool {
	for _, v := range values {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return false
		}
	}
	return true
}
