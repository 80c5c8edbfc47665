package schema

import (
	"fmt"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// TABLE ANALYZER
// ============================================================================
// Profiles every column independently and aggregates table-level figures.
// Zero rows is a valid input: every count is zero and memory reduces to
// the index overhead.
// ============================================================================

// Per-cell storage costs used by the memory estimate.
const (
	indexOverheadBytes = 128
	stringHeaderBytes  = 16
	fixedCellBytes     = 8
)

// Analyze builds a TableProfile from a table.
func Analyze(t *table.Table, opts ...Options) *TableProfile {
	opt := resolveOptions(opts)

	p := &TableProfile{
		RowCount:       t.Rows(),
		ColumnCount:    t.Width(),
		Order:          t.Names(),
		Columns:        make(map[string]*ColumnProfile, t.Width()),
		TextColumns:    []string{},
		NumericColumns: []string{},
		DateColumns:    []string{},
	}

	for _, col := range t.Columns {
		cp := ProfileColumn(col, opt)
		p.Columns[col.Name] = cp
		p.MissingTotal += cp.NullCount

		switch cp.Type {
		case TypeText:
			p.TextColumns = append(p.TextColumns, col.Name)
		case TypeNumeric:
			p.NumericColumns = append(p.NumericColumns, col.Name)
		case TypeDatetime:
			p.DateColumns = append(p.DateColumns, col.Name)
		}
	}

	p.MemoryBytes = EstimateMemory(t)
	p.MemoryUsage = FormatMemory(p.MemoryBytes)
	return p
}

// EstimateMemory approximates the in-memory footprint of a table.
func EstimateMemory(t *table.Table) int64 {
	total := int64(indexOverheadBytes)
	for _, col := range t.Columns {
		for _, cell := range col.Cells {
			switch {
			case !cell.Valid, col.Kind != table.KindString:
				total += fixedCellBytes
			default:
				total += int64(stringHeaderBytes + len(cell.Value))
			}
		}
	}
	return total
}

// FormatMemory renders a byte count with 1024-based thresholds.
func FormatMemory(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
