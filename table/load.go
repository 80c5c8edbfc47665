package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ============================================================================
// LOADERS — CSV (with encoding fallback) and XLSX into a Table
// ============================================================================
// The caller reads the file from wherever it lives (upload, disk, stdin).
// These helpers turn the raw bytes into a Table or return an error; a
// partially decoded table is never returned.
// ============================================================================

var (
	// ErrDecode is returned when no supported text encoding can read the file.
	ErrDecode = errors.New("could not decode file, ensure it is properly encoded")
	// ErrEmpty is returned when the file has no header row.
	ErrEmpty = errors.New("file is empty")
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported file type")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fallbackEncodings are tried in order when the input is not valid UTF-8.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"latin-1", charmap.ISO8859_1},
	{"iso-8859-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
}

// Load picks a loader from the file extension. Unknown extensions are read
// as CSV, matching how uploads without a suffix are usually meant.
func Load(name string, data []byte, opts ...Option) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(bytes.NewReader(data), opts...)
	case ".xls":
		return nil, fmt.Errorf("%w: legacy .xls workbooks are not supported", ErrUnsupportedFormat)
	default:
		return LoadCSV(data, opts...)
	}
}

// LoadCSV decodes data (UTF-8, then latin-1/iso-8859-1/cp1252) and parses
// it as comma-separated values with a header row.
func LoadCSV(data []byte, opts ...Option) (*Table, error) {
	text, err := Decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	return FromRecords(normalizeHeaders(records[0]), records[1:], opts...)
}

// Decode returns data as a UTF-8 string using the first encoding that
// accepts it.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, fe := range fallbackEncodings {
		out, err := fe.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if utf8.Valid(out) {
			return string(out), nil
		}
	}
	return "", ErrDecode
}

// LoadXLSX reads the first sheet of a workbook.
func LoadXLSX(r io.Reader, opts ...Option) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmpty)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	raw := rows[0]
	body := rows[1:]
	// Data rows may be wider than a header row with trailing blanks.
	for _, row := range body {
		for len(raw) < len(row) {
			raw = append(raw, "")
		}
	}
	return FromRecords(normalizeHeaders(raw), body, opts...)
}

// normalizeHeaders trims names, fills blanks with Column_N and suffixes
// repeated names with .1, .2, ... skipping suffixes already in use.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return Dedupe(headers, func(name string, n int) string {
		return fmt.Sprintf("%s.%d", name, n)
	})
}

// Dedupe makes names unique. A repeated name gets suffix(name, n) with the
// smallest n >= 1 that yields a name not seen before or later in the list.
func Dedupe(names []string, suffix func(name string, n int) string) []string {
	taken := make(map[string]bool, len(names))
	for _, name := range names {
		taken[name] = true
	}
	emitted := make(map[string]bool, len(names))
	next := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if !emitted[name] {
			emitted[name] = true
			out[i] = name
			continue
		}
		n := next[name]
		candidate := name
		for taken[candidate] || emitted[candidate] {
			n++
			candidate = suffix(name, n)
		}
		next[name] = n
		emitted[candidate] = true
		out[i] = candidate
	}
	return out
}
