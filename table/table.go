package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// ============================================================================
// TABLE — In-memory tabular data owned by a session
// ============================================================================
// A Table is an ordered list of named columns. Every column holds the same
// number of cells. A cell is either a string value or absent (null).
//
// Loaders declare a storage Kind per column the way a dataframe reader
// would: numeric when every non-null cell is a plain number, string
// otherwise. Classification in the schema package builds on top of that.
// ============================================================================

var (
	// ErrRaggedColumns is returned when columns disagree on row count.
	ErrRaggedColumns = errors.New("columns have different row counts")
	// ErrDuplicateColumn is returned when a column name is already taken.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Kind is the declared storage type of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDatetime:
		return "datetime"
	default:
		return "string"
	}
}

// Cell is a single value. Valid=false means absent.
type Cell struct {
	Value string
	Valid bool
}

// Null returns an absent cell.
func Null() Cell { return Cell{} }

// Str returns a present cell holding s.
func Str(s string) Cell { return Cell{Value: s, Valid: true} }

// Float coerces the cell to a finite number. Absent cells, unparseable
// values, NaN and ±Inf all report false.
func (c Cell) Float() (float64, bool) {
	if !c.Valid {
		return 0, false
	}
	f, err := cast.ToFloat64E(strings.TrimSpace(c.Value))
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Time coerces the cell to a timestamp using permissive date parsing.
// Values without a zone are read as UTC.
func (c Cell) Time() (time.Time, bool) {
	if !c.Valid {
		return time.Time{}, false
	}
	s := strings.TrimSpace(c.Value)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// NewColumn builds a column from raw strings. Empty strings and the
// DefaultNAValues sentinels become nulls and the storage kind is inferred.
func NewColumn(name string, values []string) *Column {
	return newColumn(name, values, defaultNA)
}

func newColumn(name string, values []string, na NASet) *Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		if v == "" || na.Has(v) {
			cells[i] = Null()
			continue
		}
		cells[i] = Str(v)
	}
	return &Column{Name: name, Kind: InferKind(cells), Cells: cells}
}

// Len returns the number of cells, null or not.
func (c *Column) Len() int { return len(c.Cells) }

// NullCount returns the number of absent cells.
func (c *Column) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.Valid {
			n++
		}
	}
	return n
}

// NonNull returns the values of all present cells in row order.
func (c *Column) NonNull() []string {
	out := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Valid {
			out = append(out, cell.Value)
		}
	}
	return out
}

// Clone returns a deep copy of the column, optionally renamed.
func (c *Column) Clone(name string) *Column {
	if name == "" {
		name = c.Name
	}
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return &Column{Name: name, Kind: c.Kind, Cells: cells}
}

// InferKind reports KindNumeric when every present cell parses as a float
// without surrounding whitespace. Columns with no present cells are strings.
func InferKind(cells []Cell) Kind {
	seen := false
	for _, cell := range cells {
		if !cell.Valid {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(cell.Value, 64); err != nil {
			return KindString
		}
	}
	if !seen {
		return KindString
	}
	return KindNumeric
}

// Table is an ordered collection of equally sized columns.
type Table struct {
	Columns []*Column
	index   map[string]int
}

// New builds a table and validates the row-count invariant.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// FromRecords builds a table from a header row and data rows. Rows shorter
// than the header are padded with nulls.
func FromRecords(headers []string, rows [][]string, opts ...Option) (*Table, error) {
	cfg := newLoadConfig(opts)
	values := make([][]string, len(headers))
	for i := range values {
		values[i] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", r+2, len(row), len(headers))
		}
		for c, v := range row {
			values[c][r] = v
		}
	}

	cols := make([]*Column, len(headers))
	for i, h := range headers {
		cols[i] = newColumn(h, values[i], cfg.na)
	}
	return New(cols...)
}

// AddColumn appends a column. It must match the current row count.
func (t *Table) AddColumn(c *Column) error {
	if t.index == nil {
		t.reindex()
	}
	if _, exists := t.index[c.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
	}
	if len(t.Columns) > 0 && c.Len() != t.Rows() {
		return fmt.Errorf("%w: %q has %d rows, table has %d", ErrRaggedColumns, c.Name, c.Len(), t.Rows())
	}
	t.index[c.Name] = len(t.Columns)
	t.Columns = append(t.Columns, c)
	return nil
}

// Validate checks that every column has the same number of cells.
func (t *Table) Validate() error {
	for _, c := range t.Columns {
		if c.Len() != t.Rows() {
			return fmt.Errorf("%w: %q has %d rows, expected %d", ErrRaggedColumns, c.Name, c.Len(), t.Rows())
		}
	}
	return nil
}

// Rows returns the row count.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Width returns the column count.
func (t *Table) Width() int { return len(t.Columns) }

// Names returns column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Columns[i], true
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Row returns the cells of row i across all columns.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.Columns))
	for c, col := range t.Columns {
		if i >= 0 && i < col.Len() {
			row[c] = col.Cells[i]
		}
	}
	return row
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: make([]*Column, len(t.Columns)),
		index:   make(map[string]int, len(t.Columns)),
	}
	for i, c := range t.Columns {
		out.Columns[i] = c.Clone("")
		out.index[c.Name] = i
	}
	return out
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c.Name] = i
	}
}
