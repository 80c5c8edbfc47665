package schema

import "time"

// ============================================================================
// SCHEMA — Describes the shape of a loaded table
// ============================================================================
// Produced by Analyze from a table.Table. Derived data only: it is
// recomputed whenever the table changes and never persisted.
// ============================================================================

// Type is the inferred type tag of a column.
type Type string

const (
	TypeNumeric  Type = "numeric"
	TypeText     Type = "text"
	TypeDatetime Type = "datetime"
	TypeEmpty    Type = "empty"
)

// TableProfile aggregates per-table and per-column statistics.
type TableProfile struct {
	RowCount     int    `json:"totalRows"`
	ColumnCount  int    `json:"totalColumns"`
	MemoryBytes  int64  `json:"memoryBytes"`
	MemoryUsage  string `json:"memoryUsage"`
	MissingTotal int    `json:"totalMissingValues"`

	// Order holds column names in table order; Columns is keyed by name.
	Order   []string                  `json:"order"`
	Columns map[string]*ColumnProfile `json:"columns"`

	TextColumns    []string `json:"textColumns"`
	NumericColumns []string `json:"numericColumns"`
	DateColumns    []string `json:"dateColumns"`
}

// ColumnProfile describes one column.
type ColumnProfile struct {
	Name         string   `json:"name"`
	Type         Type     `json:"type"`
	NonNullCount int      `json:"nonNullCount"`
	NullCount    int      `json:"nullCount"`
	UniqueCount  int      `json:"uniqueCount"`
	SampleValues []string `json:"sampleValues"`

	// quoteSamples is true for string storage; numeric storage prints bare.
	quoteSamples bool

	// Exactly one of these is set, matching Type (none for empty).
	Numeric  *NumericStats  `json:"numeric,omitempty"`
	Text     *TextStats     `json:"text,omitempty"`
	Datetime *DatetimeStats `json:"datetime,omitempty"`
}

// NumericStats summarizes a numeric column. Absent values are excluded.
type NumericStats struct {
	Count  int      `json:"count"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev *float64 `json:"stdDev,omitempty"` // sample (n-1); nil below two values
}

// TextStats summarizes a text column. Lengths are counted in characters.
type TextStats struct {
	AvgLength          float64  `json:"avgLength"`
	MinLength          int      `json:"minLength"`
	MaxLength          int      `json:"maxLength"`
	PotentialLanguages []string `json:"potentialLanguages"`
	ContainsNonASCII   bool     `json:"containsNonAscii"`
}

// DatetimeStats summarizes a date column. Bounds are nil when no value parses.
type DatetimeStats struct {
	MinDate       *time.Time `json:"minDate,omitempty"`
	MaxDate       *time.Time `json:"maxDate,omitempty"`
	DateRangeDays *int       `json:"dateRangeDays,omitempty"`
}

// Column returns the profile of a column by name.
func (p *TableProfile) Column(name string) (*ColumnProfile, bool) {
	c, ok := p.Columns[name]
	return c, ok
}

// ColumnsOfType returns the names of columns tagged t, in table order.
func (p *TableProfile) ColumnsOfType(t Type) []string {
	var out []string
	for _, name := range p.Order {
		if p.Columns[name].Type == t {
			out = append(out, name)
		}
	}
	return out
}
