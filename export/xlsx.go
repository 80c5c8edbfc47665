package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/table"
)

const (
	dataSheet    = "Data"
	profileSheet = "Profile"
)

var profileHeader = []interface{}{
	"Column", "Label", "Type", "Non-null Count", "Null Count", "Unique Count", "Sample Values", "Summary",
}

// XLSX writes a workbook with the table on the Data sheet and one row per
// column on the Profile sheet. Numeric cells are written as numbers.
// labels maps column names to translated labels and may be nil.
func XLSX(w io.Writer, t *table.Table, p *schema.TableProfile, labels map[string]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), dataSheet); err != nil {
		return fmt.Errorf("failed to name data sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeDataSheet(f, t, bold); err != nil {
		return err
	}

	if p != nil {
		if _, err := f.NewSheet(profileSheet); err != nil {
			return fmt.Errorf("failed to create profile sheet: %w", err)
		}
		if err := writeProfileSheet(f, p, labels, bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, t *table.Table, headerStyle int) error {
	header := make([]interface{}, t.Width())
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if t.Width() > 0 {
		last, _ := excelize.CoordinatesToCellName(t.Width(), 1)
		if err := f.SetCellStyle(dataSheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	row := make([]interface{}, t.Width())
	for r := 0; r < t.Rows(); r++ {
		for c, col := range t.Columns {
			row[c] = cellValue(col, r)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}
	return nil
}

func cellValue(col *table.Column, r int) interface{} {
	cell := col.Cells[r]
	if !cell.Valid {
		return nil
	}
	if col.Kind == table.KindNumeric {
		if f, ok := cell.Float(); ok {
			return f
		}
	}
	return cell.Value
}

func writeProfileSheet(f *excelize.File, p *schema.TableProfile, labels map[string]string, headerStyle int) error {
	if err := f.SetSheetRow(profileSheet, "A1", &profileHeader); err != nil {
		return fmt.Errorf("failed to write profile header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(profileHeader), 1)
	if err := f.SetCellStyle(profileSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style profile header: %w", err)
	}

	for i, name := range p.Order {
		c := p.Columns[name]
		label := name
		if l, ok := labels[name]; ok {
			label = l
		}
		row := []interface{}{
			c.Name, label, string(c.Type),
			c.NonNullCount, c.NullCount, c.UniqueCount,
			strings.Join(c.SampleValues, ", "),
			summaryOf(c),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(profileSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write profile of %q: %w", name, err)
		}
	}
	return nil
}

// summaryOf renders the type-specific statistics as one line.
func summaryOf(c *schema.ColumnProfile) string {
	switch {
	case c.Numeric != nil && c.Numeric.Count > 0:
		return fmt.Sprintf("min %g, max %g, mean %.2f, median %.2f", c.Numeric.Min, c.Numeric.Max, c.Numeric.Mean, c.Numeric.Median)
	case c.Text != nil:
		return fmt.Sprintf("avg length %.1f, languages %s", c.Text.AvgLength, strings.Join(c.Text.PotentialLanguages, "/"))
	case c.Datetime != nil && c.Datetime.DateRangeDays != nil:
		return fmt.Sprintf("%s to %s", c.Datetime.MinDate.Format("2006-01-02"), c.Datetime.MaxDate.Format("2006-01-02"))
	}
	return ""
}
