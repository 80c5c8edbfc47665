package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ============================================================================
// LOADER TESTS
// ============================================================================

var feedbackCSV = []byte(`Marca temporal,¿Cómo estás?,Puntuación,Fecha
2024/03/01 10:00:00,Muy bien gracias,5,2024-03-01
2024/03/02 11:30:00,,4,2024-03-02
2024/03/03 09:15:00,Regular,,2024-03-03
`)

func TestLoadCSV(t *testing.T) {
	tbl, err := LoadCSV(feedbackCSV)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []string{"Marca temporal", "¿Cómo estás?", "Puntuación", "Fecha"}, tbl.Names())

	answers, ok := tbl.Column("¿Cómo estás?")
	require.True(t, ok)
	assert.Equal(t, KindString, answers.Kind)
	assert.Equal(t, 1, answers.NullCount())
	assert.Equal(t, []string{"Muy bien gracias", "Regular"}, answers.NonNull())

	score, _ := tbl.Column("Puntuación")
	assert.Equal(t, KindNumeric, score.Kind, "all present cells are numbers")
}

func TestLoadCSVLatin1Fallback(t *testing.T) {
	// "café" and "niño" encoded as ISO-8859-1.
	data := []byte("word\ncaf\xe9\nni\xf1o\n")

	tbl, err := LoadCSV(data)
	require.NoError(t, err)

	col, _ := tbl.Column("word")
	assert.Equal(t, []string{"café", "niño"}, col.NonNull())
}

func TestLoadCSVStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,name\n1,a\n")...)

	tbl, err := LoadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, tbl.Names())
}

func TestLoadCSVHeaders(t *testing.T) {
	tbl, err := LoadCSV([]byte(" a ,,a,a\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Column_2", "a.1", "a.2"}, tbl.Names())
}

func TestLoadCSVHeaderSuffixInUse(t *testing.T) {
	tbl, err := LoadCSV([]byte("a.1,a,a\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.1", "a", "a.2"}, tbl.Names())

	tbl, err = LoadCSV([]byte("a,a,a.1\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.2", "a.1"}, tbl.Names())
}

func TestLoadCSVMissingValues(t *testing.T) {
	data := []byte("score,amount\n1,NaN\nN/A,2\n3,3\n")

	tbl, err := LoadCSV(data)
	require.NoError(t, err)
	score, _ := tbl.Column("score")
	amount, _ := tbl.Column("amount")
	assert.Equal(t, KindNumeric, score.Kind)
	assert.Equal(t, KindNumeric, amount.Kind)
	assert.Equal(t, 1, score.NullCount())
	assert.Equal(t, 1, amount.NullCount())

	tbl, err = LoadCSV(data, WithNAValues("N/A"))
	require.NoError(t, err)
	amount, _ = tbl.Column("amount")
	assert.Equal(t, 0, amount.NullCount(), "NaN is a value once the set is replaced")

	tbl, err = LoadCSV(data, WithNAValues())
	require.NoError(t, err)
	score, _ = tbl.Column("score")
	assert.Equal(t, KindString, score.Kind)
}

func TestLoadCSVShortRowsArePadded(t *testing.T) {
	tbl, err := LoadCSV([]byte("a,b,c\n1\n1,2,3\n"))
	require.NoError(t, err)

	c, _ := tbl.Column("c")
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Cells[0].Valid)
	assert.NoError(t, tbl.Validate())
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(nil)
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = LoadCSV([]byte("a,b\n1,2,3\n"))
	require.Error(t, err, "rows wider than the header are rejected")

	_, err = LoadCSV([]byte("a,b\n\"unterminated,2\n"))
	require.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Score"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Ana", 9.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Luis", 7}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	tbl, err := Load("scores.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Score"}, tbl.Names())
	assert.Equal(t, 2, tbl.Rows())

	score, _ := tbl.Column("Score")
	assert.Equal(t, KindNumeric, score.Kind)
}

func TestLoadRejectsLegacyXLS(t *testing.T) {
	_, err := Load("old.xls", []byte("whatever"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl, err := LoadCSV(feedbackCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	again, err := LoadCSV(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, tbl.Names(), again.Names())
	assert.Equal(t, tbl.Rows(), again.Rows())
	assert.True(t, strings.HasPrefix(buf.String(), "Marca temporal,¿Cómo estás?"))
}
