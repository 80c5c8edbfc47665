package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// ANALYZER + REPORT TESTS
// ============================================================================

var surveyCSV = []byte(`Fecha,¿Cómo estás?,Puntuación,Vacía
2024-03-01,Muy bien gracias,5,
2024-03-05,,4,
2024-03-11,Regular,3,
`)

func loadSurvey(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.LoadCSV(surveyCSV)
	require.NoError(t, err)
	return tbl
}

func TestAnalyze(t *testing.T) {
	p := Analyze(loadSurvey(t))

	assert.Equal(t, 3, p.RowCount)
	assert.Equal(t, 4, p.ColumnCount)
	assert.Equal(t, []string{"¿Cómo estás?"}, p.TextColumns)
	assert.Equal(t, []string{"Puntuación"}, p.NumericColumns)
	assert.Equal(t, []string{"Fecha"}, p.DateColumns)
	assert.Equal(t, 4, p.MissingTotal, "one blank answer plus three blank cells")

	empty, ok := p.Column("Vacía")
	require.True(t, ok)
	assert.Equal(t, TypeEmpty, empty.Type)
	assert.Nil(t, empty.Numeric)
	assert.Nil(t, empty.Text)
	assert.Nil(t, empty.Datetime)
	assert.Equal(t, []string{"Vacía"}, p.ColumnsOfType(TypeEmpty))
}

func TestNumericStats(t *testing.T) {
	p := ProfileColumn(table.NewColumn("n", []string{"4", "", "1", "3", "2"}))
	require.NotNil(t, p.Numeric)

	s := p.Numeric
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 2.5, s.Median)
	require.NotNil(t, s.StdDev)
	assert.InDelta(t, 1.2910, *s.StdDev, 1e-4)

	single := ProfileColumn(table.NewColumn("one", []string{"7"}))
	assert.Nil(t, single.Numeric.StdDev, "sample deviation is undefined for one value")
}

func TestNumericStatsSkipNonFinite(t *testing.T) {
	p := ProfileColumn(table.NewColumn("v", []string{"1", "2", "inf"}))
	require.Equal(t, TypeNumeric, p.Type)
	require.NotNil(t, p.Numeric)
	assert.Equal(t, 2, p.Numeric.Count)
	assert.Equal(t, 2.0, p.Numeric.Max)
	assert.Equal(t, 1.5, p.Numeric.Mean)

	huge := ProfileColumn(table.NewColumn("h", []string{"-1.7e308", "1.7e308"}))
	assert.Nil(t, huge.Numeric.StdDev, "overflowing deviation is left out")
}

func TestAnalyzeMissingSentinels(t *testing.T) {
	tbl, err := table.LoadCSV([]byte("score,amount\n1,NaN\nN/A,2\n3,3\n"))
	require.NoError(t, err)

	p := Analyze(tbl)
	assert.Equal(t, []string{"score", "amount"}, p.NumericColumns)
	assert.Equal(t, 2, p.MissingTotal)
	score, _ := p.Column("score")
	assert.Equal(t, 1, score.NullCount)
}

func TestTextStats(t *testing.T) {
	p := ProfileColumn(table.NewColumn("t", []string{"año", "", "hello", "año"}))
	require.NotNil(t, p.Text)

	assert.Equal(t, 3, p.NonNullCount)
	assert.Equal(t, 1, p.NullCount)
	assert.Equal(t, 2, p.UniqueCount)
	assert.Equal(t, 3, p.Text.MinLength, "lengths count characters, not bytes")
	assert.Equal(t, 5, p.Text.MaxLength)
	assert.InDelta(t, 11.0/3.0, p.Text.AvgLength, 1e-9)
	assert.True(t, p.Text.ContainsNonASCII)
	assert.Equal(t, []string{"Spanish"}, p.Text.PotentialLanguages)
}

func TestNonASCIIScansWholeColumn(t *testing.T) {
	values := make([]string, 12)
	for i := range values {
		values[i] = "plain"
	}
	values[11] = "über"

	p := ProfileColumn(table.NewColumn("t", values))
	assert.True(t, p.Text.ContainsNonASCII)
	assert.Equal(t, []string{"English"}, p.Text.PotentialLanguages, "only the first 10 values are sampled")
}

func TestDatetimeStats(t *testing.T) {
	p := Analyze(loadSurvey(t))
	d := p.Columns["Fecha"].Datetime
	require.NotNil(t, d)
	require.NotNil(t, d.DateRangeDays)
	assert.Equal(t, 10, *d.DateRangeDays)
	assert.Equal(t, 1, d.MinDate.Day())
	assert.Equal(t, 11, d.MaxDate.Day())

	// Date-shaped but unparseable values leave the bounds unset.
	bad := ProfileColumn(table.NewColumn("d", []string{"99/99/9999", "88/88/8888"}))
	assert.Equal(t, TypeDatetime, bad.Type)
	assert.Nil(t, bad.Datetime.MinDate)
	assert.Nil(t, bad.Datetime.DateRangeDays)
}

func TestSampleValues(t *testing.T) {
	p := ProfileColumn(table.NewColumn("s", []string{"a", "", "b", "c", "d", "e", "f"}))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, p.SampleValues)
}

func TestAnalyzeZeroRows(t *testing.T) {
	tbl, err := table.LoadCSV([]byte("a,b\n"))
	require.NoError(t, err)

	p := Analyze(tbl)
	assert.Equal(t, 0, p.RowCount)
	assert.Equal(t, 0, p.MissingTotal)
	assert.Equal(t, int64(128), p.MemoryBytes)
	assert.Equal(t, "128 bytes", p.MemoryUsage)
	assert.Equal(t, TypeEmpty, p.Columns["a"].Type)
}

func TestEstimateMemory(t *testing.T) {
	tbl, err := table.New(
		table.NewColumn("s", []string{"abcd", ""}),
		table.NewColumn("n", []string{"1", "2"}),
	)
	require.NoError(t, err)

	// 128 + (16+4) + 8 + 8 + 8
	assert.Equal(t, int64(172), EstimateMemory(tbl))
}

func TestFormatMemory(t *testing.T) {
	assert.Equal(t, "0 bytes", FormatMemory(0))
	assert.Equal(t, "1023 bytes", FormatMemory(1023))
	assert.Equal(t, "1.0 KB", FormatMemory(1024))
	assert.Equal(t, "1.5 KB", FormatMemory(1536))
	assert.Equal(t, "1024.0 KB", FormatMemory(1024*1024-1))
	assert.Equal(t, "2.0 MB", FormatMemory(2*1024*1024))
}

func TestGenerateReport(t *testing.T) {
	report := GenerateReport(Analyze(loadSurvey(t)))

	expectedHead := strings.Join([]string{
		"CSV DATA ANALYSIS REPORT",
		"==============================",
		"Total Rows: 3",
		"Total Columns: 4",
	}, "\n")
	assert.True(t, strings.HasPrefix(report, expectedHead))

	assert.Contains(t, report, "COLUMN BREAKDOWN:\n--------------------\nText Columns: 1\n  - ¿Cómo estás?\nNumeric Columns: 1\n  - Puntuación\nDate Columns: 1\n  - Fecha\n")
	assert.Contains(t, report, "\n\nColumn: ¿Cómo estás?\n  Type: text\n  Non-null Count: 2\n  Null Count: 1\n  Unique Count: 2\n  Sample Values: ['Muy bien gracias', 'Regular']")
	assert.Contains(t, report, "  Sample Values: [5, 4, 3]")
	assert.Contains(t, report, "  Sample Values: []")
	assert.Contains(t, report, "  Date Range: 2024-03-01 to 2024-03-11 (10 days)")
	assert.False(t, strings.HasSuffix(report, "\n"))

	// Columns keep table order.
	assert.Less(t, strings.Index(report, "Column: Fecha"), strings.Index(report, "Column: Vacía"))
}

func TestGenerateReportIsDeterministic(t *testing.T) {
	p := Analyze(loadSurvey(t))
	first := GenerateReport(p)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, GenerateReport(p))
	}
	assert.Equal(t, first, GenerateReport(Analyze(loadSurvey(t))))
}

func TestQuoteSample(t *testing.T) {
	assert.Equal(t, `'plain'`, quoteSample("plain"))
	assert.Equal(t, `"it's"`, quoteSample("it's"))
	assert.Equal(t, `'say "it\'s"'`, quoteSample(`say "it's"`))
	assert.Equal(t, `'a\nb'`, quoteSample("a\nb"))
}
