package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iancoleman/strcase"
	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// SQLITE EXPORT
// ============================================================================
// Tables:
//   metadata         key/value pairs about the export
//   column_profiles  one row per source column, stats as JSON
//   <data table>     the table itself, snake_cased column names
//
// Columns with numeric storage become REAL, everything else TEXT.
// Absent cells become NULL.
// ============================================================================

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SQLiteOptions controls the SQLite export.
type SQLiteOptions struct {
	TableName  string // Data table name. Default: "data"
	SourceName string // Recorded in metadata
}

// SQLite writes the table and its profile to a new database file at path.
// An existing file is replaced.
func SQLite(ctx context.Context, path string, t *table.Table, p *schema.TableProfile, opts SQLiteOptions) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tableName := "data"
	if opts.TableName != "" {
		tableName = Identifier(opts.TableName)
	}
	if tableName == "metadata" || tableName == "column_profiles" {
		tableName += "_data"
	}

	if err := writeMetadata(ctx, tx, t, tableName, opts.SourceName); err != nil {
		return err
	}
	if p != nil {
		if err := writeProfiles(ctx, tx, p); err != nil {
			return err
		}
	}
	if err := writeData(ctx, tx, t, tableName); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Identifier turns a column label into a snake_case SQL identifier.
// Labels without any letters or digits become "column".
func Identifier(name string) string {
	id := strcase.ToSnake(strings.TrimSpace(name))
	id = strings.Map(func(r rune) rune {
		switch {
		case r == '_', unicode.IsDigit(r):
			return r
		case unicode.IsLetter(r):
			return unicode.ToLower(r)
		default:
			return '_'
		}
	}, id)
	id = strings.Trim(id, "_")
	for strings.Contains(id, "__") {
		id = strings.ReplaceAll(id, "__", "_")
	}
	if id == "" {
		return "column"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "c_" + id
	}
	return id
}

// columnIdentifiers returns unique identifiers for every column.
func columnIdentifiers(names []string) []string {
	ids := make([]string, len(names))
	for i, name := range names {
		ids[i] = Identifier(name)
	}
	return table.Dedupe(ids, func(id string, n int) string {
		return id + "_" + strconv.Itoa(n)
	})
}

func quote(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func writeMetadata(ctx context.Context, tx *sql.Tx, t *table.Table, tableName, source string) error {
	if _, err := tx.ExecContext(ctx, `CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}
	metadata := [][2]string{
		{"created_at", time.Now().UTC().Format(time.RFC3339)},
		{"source", source},
		{"data_table", tableName},
		{"rows", strconv.Itoa(t.Rows())},
		{"columns", strconv.Itoa(t.Width())},
	}
	for _, kv := range metadata {
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to insert metadata: %w", err)
		}
	}
	return nil
}

func writeProfiles(ctx context.Context, tx *sql.Tx, p *schema.TableProfile) error {
	if _, err := tx.ExecContext(ctx, `CREATE TABLE column_profiles (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		non_null_count INTEGER NOT NULL,
		null_count INTEGER NOT NULL,
		unique_count INTEGER NOT NULL,
		profile_json TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create column_profiles table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO column_profiles
		(position, name, type, non_null_count, null_count, unique_count, profile_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, name := range p.Order {
		c := p.Columns[name]
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal profile of %q: %w", name, err)
		}
		if _, err := stmt.ExecContext(ctx, i, c.Name, string(c.Type), c.NonNullCount, c.NullCount, c.UniqueCount, string(raw)); err != nil {
			return fmt.Errorf("failed to insert profile of %q: %w", name, err)
		}
	}
	return nil
}

func writeData(ctx context.Context, tx *sql.Tx, t *table.Table, tableName string) error {
	ids := columnIdentifiers(t.Names())
	if len(ids) == 0 {
		return nil
	}

	defs := make([]string, len(ids))
	for i, col := range t.Columns {
		sqlType := "TEXT"
		if col.Kind == table.KindNumeric {
			sqlType = "REAL"
		}
		defs[i] = quote(ids[i]) + " " + sqlType
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quote(tableName), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create data table: %w", err)
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = quote(id)
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(tableName), strings.Join(quoted, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "))

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]interface{}, len(ids))
	for r := 0; r < t.Rows(); r++ {
		for c, col := range t.Columns {
			args[c] = cellValue(col, r)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", r+1, err)
		}
	}
	return nil
}
