package schema

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// COLUMN PROFILING
// ============================================================================
// Counts, samples and type-specific statistics for a single column.
// Absent cells are excluded from every statistic, never treated as zero.
// ============================================================================

// ProfileColumn classifies a column and computes its statistics.
func ProfileColumn(col *table.Column, opts ...Options) *ColumnProfile {
	opt := resolveOptions(opts)
	values := col.NonNull()

	p := &ColumnProfile{
		Name:         col.Name,
		Type:         Classify(col, opt),
		NonNullCount: len(values),
		NullCount:    col.NullCount(),
		UniqueCount:  len(lo.Uniq(values)),
		SampleValues: sampleValues(values, opt.SampleValues),
		quoteSamples: col.Kind != table.KindNumeric,
	}

	switch p.Type {
	case TypeNumeric:
		p.Numeric = numericStats(col)
	case TypeText:
		p.Text = textStats(values, opt.LanguageSample)
	case TypeDatetime:
		p.Datetime = datetimeStats(col)
	}

	return p
}

func sampleValues(values []string, n int) []string {
	if len(values) < n {
		n = len(values)
	}
	out := make([]string, n)
	copy(out, values[:n])
	return out
}

// ============================================================================
// NUMERIC
// ============================================================================

func numericStats(col *table.Column) *NumericStats {
	nums := make([]float64, 0, col.Len())
	for _, cell := range col.Cells {
		if f, ok := cell.Float(); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return &NumericStats{}
	}

	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	s := &NumericStats{
		Count:  len(nums),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   Mean(nums),
		Median: medianSorted(sorted),
	}
	if len(nums) >= 2 {
		// Overflows for magnitudes near MaxFloat64; report no deviation then.
		if sd := sampleStdDev(nums, s.Mean); !math.IsInf(sd, 0) && !math.IsNaN(sd) {
			s.StdDev = &sd
		}
	}
	return s
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the median without modifying values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return medianSorted(sorted)
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func sampleStdDev(values []float64, mean float64) float64 {
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// ============================================================================
// TEXT
// ============================================================================

func textStats(values []string, languageSample int) *TextStats {
	s := &TextStats{PotentialLanguages: []string{"English"}}
	if len(values) == 0 {
		return s
	}

	total := 0
	s.MinLength = math.MaxInt
	for _, v := range values {
		n := utf8.RuneCountInString(v)
		total += n
		if n < s.MinLength {
			s.MinLength = n
		}
		if n > s.MaxLength {
			s.MaxLength = n
		}
		if !s.ContainsNonASCII && hasNonASCII(v) {
			s.ContainsNonASCII = true
		}
	}
	s.AvgLength = float64(total) / float64(len(values))

	n := languageSample
	if len(values) < n {
		n = len(values)
	}
	s.PotentialLanguages = DetectLanguages(values[:n])
	return s
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

// ============================================================================
// DATETIME
// ============================================================================

func datetimeStats(col *table.Column) *DatetimeStats {
	var earliest, latest time.Time
	found := false
	for _, cell := range col.Cells {
		t, ok := cell.Time()
		if !ok {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
		}
		if !found || t.After(latest) {
			latest = t
		}
		found = true
	}

	s := &DatetimeStats{}
	if !found {
		return s
	}
	days := int(math.Floor(latest.Sub(earliest).Hours() / 24))
	s.MinDate = &earliest
	s.MaxDate = &latest
	s.DateRangeDays = &days
	return s
}
