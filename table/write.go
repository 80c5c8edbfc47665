package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes the table with a header row. Null cells are written
// as empty fields.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, t.Width())
	for i := 0; i < t.Rows(); i++ {
		for c, cell := range t.Row(i) {
			record[c] = cell.Value
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
