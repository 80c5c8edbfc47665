package schema

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// REPORT
// ============================================================================
// Plain-text analysis report. Output depends only on the profile, so the
// same profile always renders byte-identical text. Lines are joined with
// "\n" and there is no trailing newline.
// ============================================================================

// GenerateReport renders the analysis report for a profile.
func GenerateReport(p *TableProfile) string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("CSV DATA ANALYSIS REPORT")
	add(strings.Repeat("=", 30))
	add("Total Rows: %d", p.RowCount)
	add("Total Columns: %d", p.ColumnCount)
	add("Memory Usage: %s", p.MemoryUsage)
	add("Missing Values: %d", p.MissingTotal)
	add("")

	add("COLUMN BREAKDOWN:")
	add(strings.Repeat("-", 20))
	for _, group := range []struct {
		label string
		names []string
	}{
		{"Text Columns", p.TextColumns},
		{"Numeric Columns", p.NumericColumns},
		{"Date Columns", p.DateColumns},
	} {
		add("%s: %d", group.label, len(group.names))
		for _, name := range group.names {
			add("  - %s", name)
		}
	}

	add("")
	add("DETAILED COLUMN ANALYSIS:")
	add(strings.Repeat("-", 30))

	for _, name := range p.Order {
		c := p.Columns[name]
		add("\nColumn: %s", c.Name)
		add("  Type: %s", c.Type)
		add("  Non-null Count: %d", c.NonNullCount)
		add("  Null Count: %d", c.NullCount)
		add("  Unique Count: %d", c.UniqueCount)
		add("  Sample Values: %s", formatSamples(c.SampleValues, c.quoteSamples))
		lines = append(lines, statLines(c)...)
	}

	return strings.Join(lines, "\n")
}

func statLines(c *ColumnProfile) []string {
	switch {
	case c.Numeric != nil && c.Numeric.Count > 0:
		s := c.Numeric
		std := "n/a"
		if s.StdDev != nil {
			std = fmt.Sprintf("%.2f", *s.StdDev)
		}
		return []string{
			fmt.Sprintf("  Min: %g  Max: %g", s.Min, s.Max),
			fmt.Sprintf("  Mean: %.2f  Median: %.2f  Std: %s", s.Mean, s.Median, std),
		}
	case c.Text != nil:
		s := c.Text
		return []string{
			fmt.Sprintf("  Length: avg %.1f, min %d, max %d", s.AvgLength, s.MinLength, s.MaxLength),
			fmt.Sprintf("  Languages: %s", strings.Join(s.PotentialLanguages, ", ")),
		}
	case c.Datetime != nil && c.Datetime.MinDate != nil:
		s := c.Datetime
		return []string{
			fmt.Sprintf("  Date Range: %s to %s (%d days)",
				s.MinDate.Format(time.DateOnly), s.MaxDate.Format(time.DateOnly), *s.DateRangeDays),
		}
	}
	return nil
}

// formatSamples renders samples as a bracketed list. String samples are
// single-quoted, switching to double quotes when the value holds a single
// quote and no double quote.
func formatSamples(values []string, quote bool) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if quote {
			parts[i] = quoteSample(v)
		} else {
			parts[i] = v
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quoteSample(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
