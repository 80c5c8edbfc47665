package export

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// EXPORT TESTS
// ============================================================================

var ordersCSV = []byte(`Order ID,Customer Name,Amount,Fecha de Pedido
1,Ana,10.5,2024-02-01
2,,7,2024-02-03
3,Luis,,2024-02-04
`)

func loadOrders(t *testing.T) (*table.Table, *schema.TableProfile) {
	t.Helper()
	tbl, err := table.LoadCSV(ordersCSV)
	require.NoError(t, err)
	return tbl, schema.Analyze(tbl)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	assert.Equal(t, "translated_data.csv", FileName(FormatCSV))
	assert.Equal(t, "analysis_report.txt", FileName(FormatReport))
	assert.Equal(t, "text/csv", ContentType(FormatCSV))
}

func TestCSVAndReport(t *testing.T) {
	tbl, p := loadOrders(t)

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, tbl))
	assert.Equal(t, string(ordersCSV), buf.String())

	buf.Reset()
	require.NoError(t, Report(&buf, p))
	assert.Equal(t, schema.GenerateReport(p), buf.String())
}

func TestXLSX(t *testing.T) {
	tbl, p := loadOrders(t)

	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, tbl, p, map[string]string{"Customer Name": "Cliente"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{dataSheet, profileSheet}, f.GetSheetList())

	rows, err := f.GetRows(dataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Order ID", "Customer Name", "Amount", "Fecha de Pedido"}, rows[0])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "", rows[2][1])

	// Numeric storage is written as numbers.
	cellType, err := f.GetCellType(dataSheet, "C2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)

	profile, err := f.GetRows(profileSheet)
	require.NoError(t, err)
	require.Len(t, profile, 5)
	assert.Equal(t, "Column", profile[0][0])
	assert.Equal(t, []string{"Customer Name", "Cliente", "text"}, profile[2][:3])
	assert.Equal(t, "datetime", profile[4][2])
}

func TestSQLite(t *testing.T) {
	tbl, p := loadOrders(t)
	path := filepath.Join(t.TempDir(), "out", "orders.db")

	ctx := context.Background()
	require.NoError(t, SQLite(ctx, path, tbl, p, SQLiteOptions{TableName: "Orders Export", SourceName: "orders.csv"}))
	// Exporting again replaces the file.
	require.NoError(t, SQLite(ctx, path, tbl, p, SQLiteOptions{TableName: "Orders Export", SourceName: "orders.csv"}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var source, dataTable string
	require.NoError(t, db.QueryRow(`SELECT value FROM metadata WHERE key = 'source'`).Scan(&source))
	require.NoError(t, db.QueryRow(`SELECT value FROM metadata WHERE key = 'data_table'`).Scan(&dataTable))
	assert.Equal(t, "orders.csv", source)
	assert.Equal(t, "orders_export", dataTable)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders_export`).Scan(&count))
	assert.Equal(t, 3, count)

	var total float64
	require.NoError(t, db.QueryRow(`SELECT SUM(amount) FROM orders_export`).Scan(&total))
	assert.Equal(t, 17.5, total)

	var nulls int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders_export WHERE customer_name IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls)

	var typ, raw string
	require.NoError(t, db.QueryRow(`SELECT type, profile_json FROM column_profiles WHERE name = 'Amount'`).Scan(&typ, &raw))
	assert.Equal(t, "numeric", typ)
	assert.Equal(t, 8.75, gjson.Get(raw, "numeric.mean").Float())
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "order_id", Identifier("Order ID"))
	assert.Equal(t, "customer_name", Identifier("CustomerName"))
	assert.Equal(t, "fecha_de_pedido", Identifier("Fecha de Pedido"))
	assert.Equal(t, "cómo_estás", Identifier("¿Cómo estás?"))
	assert.Equal(t, "c_2024_total", Identifier("2024 total"))
	assert.Equal(t, "column", Identifier("???"))

	assert.Equal(t, []string{"a", "a_1", "a_2"}, columnIdentifiers([]string{"a", "A", "a "}))
	assert.Equal(t, []string{"a_1", "a", "a_2"}, columnIdentifiers([]string{"a_1", "a", "A"}))
}

func TestSQLiteIdentifierSuffixInUse(t *testing.T) {
	tbl, err := table.LoadCSV([]byte("a_1,a,A\n1,2,3\n"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ids.db")
	require.NoError(t, SQLite(context.Background(), path, tbl, schema.Analyze(tbl), SQLiteOptions{TableName: "ids"}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var first, second, third int
	require.NoError(t, db.QueryRow(`SELECT a_1, a, a_2 FROM ids`).Scan(&first, &second, &third))
	assert.Equal(t, []int{1, 2, 3}, []int{first, second, third})
}
