package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/translator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	return tw
}

func renderSummary(w io.Writer, name, size string, p *schema.TableProfile) {
	tw := newTable(w, []string{"File", "Rows", "Columns", "Memory", "Missing"})
	if size != "" {
		name = fmt.Sprintf("%s (%s)", name, size)
	}
	tw.Append([]string{
		name,
		humanize.Comma(int64(p.RowCount)),
		humanize.Comma(int64(p.ColumnCount)),
		p.MemoryUsage,
		humanize.Comma(int64(p.MissingTotal)),
	})
	tw.Render()
}

func renderColumns(w io.Writer, p *schema.TableProfile) {
	tw := newTable(w, []string{"Column", "Type", "Non-null", "Null", "Unique", "Details", "Samples"})
	for _, name := range p.Order {
		c := p.Columns[name]
		tw.Append([]string{
			c.Name,
			string(c.Type),
			humanize.Comma(int64(c.NonNullCount)),
			humanize.Comma(int64(c.NullCount)),
			humanize.Comma(int64(c.UniqueCount)),
			details(c),
			strings.Join(c.SampleValues, ", "),
		})
	}
	tw.Render()
}

// details summarizes the type-specific statistics in one cell.
func details(c *schema.ColumnProfile) string {
	switch {
	case c.Numeric != nil && c.Numeric.Count > 0:
		return fmt.Sprintf("%g … %g, mean %.2f", c.Numeric.Min, c.Numeric.Max, c.Numeric.Mean)
	case c.Text != nil:
		return fmt.Sprintf("avg %.1f chars, %s", c.Text.AvgLength, strings.Join(c.Text.PotentialLanguages, "/"))
	case c.Datetime != nil && c.Datetime.DateRangeDays != nil:
		return fmt.Sprintf("%s … %s (%d days)",
			c.Datetime.MinDate.Format("2006-01-02"), c.Datetime.MaxDate.Format("2006-01-02"), *c.Datetime.DateRangeDays)
	}
	return ""
}

func renderLanguages(w io.Writer, langs []translator.Language) {
	tw := newTable(w, []string{"Code", "Language"})
	for _, l := range langs {
		tw.Append([]string{l.Code, l.Name})
	}
	tw.Render()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withOutput calls fn with stdout when path is empty or "-", otherwise
// with a newly created file.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
