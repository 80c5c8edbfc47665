package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// EXPORT — Serializes session artifacts
// ============================================================================
// csv     the (optionally translated) table
// report  the plain-text analysis report
// xlsx    a workbook with a data sheet and a profile sheet
// sqlite  a database file with the data, the profile and load metadata
// ============================================================================

// Format is an export format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatReport Format = "report"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Formats lists every export format.
var Formats = []Format{FormatCSV, FormatReport, FormatXLSX, FormatSQLite}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FileName returns the default download name for a format.
func FileName(f Format) string {
	switch f {
	case FormatCSV:
		return "translated_data.csv"
	case FormatReport:
		return "analysis_report.txt"
	case FormatXLSX:
		return "analysis.xlsx"
	case FormatSQLite:
		return "analysis.db"
	}
	return "export"
}

// ContentType returns the MIME type for a format.
func ContentType(f Format) string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatReport:
		return "text/plain; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatSQLite:
		return "application/vnd.sqlite3"
	}
	return "application/octet-stream"
}

// CSV writes the table as comma-separated values.
func CSV(w io.Writer, t *table.Table) error {
	if err := table.WriteCSV(w, t); err != nil {
		return fmt.Errorf("failed to export CSV: %w", err)
	}
	return nil
}

// Report writes the analysis report.
func Report(w io.Writer, p *schema.TableProfile) error {
	if _, err := io.WriteString(w, schema.GenerateReport(p)); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	return nil
}
