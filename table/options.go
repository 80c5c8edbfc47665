package table

// ============================================================================
// LOAD OPTIONS — Functional options for the loaders
// ============================================================================

// DefaultNAValues are the cell values read as absent, matching the set a
// dataframe reader treats as missing by default. Matching is exact and
// case-sensitive. The empty string is always absent.
var DefaultNAValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

var defaultNA = NewNASet(DefaultNAValues...)

// NASet is a set of sentinel strings that mark a missing value.
type NASet map[string]struct{}

// NewNASet builds a set from values.
func NewNASet(values ...string) NASet {
	s := make(NASet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is a sentinel. A nil set has none.
func (s NASet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

type loadConfig struct {
	na NASet
}

// Option configures Load, LoadCSV, LoadXLSX and FromRecords.
type Option func(*loadConfig)

// WithNAValues replaces DefaultNAValues. With no values only empty cells
// are absent.
func WithNAValues(values ...string) Option {
	return func(c *loadConfig) {
		c.na = NewNASet(values...)
	}
}

func newLoadConfig(opts []Option) loadConfig {
	cfg := loadConfig{na: defaultNA}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
