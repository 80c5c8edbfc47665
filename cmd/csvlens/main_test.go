package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/spektr-org/csvlens/translator"
)

const feedbackCSV = `¿Qué opinas?,nota,fecha
Me gusta mucho,9,2024-03-01
No,4,2024-03-02
Está bien,7,2024-03-05
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "")
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze(t *testing.T) {
	path := writeFile(t, "feedback.csv", feedbackCSV)

	out, _, err := run(t, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "feedback.csv")
	assert.Contains(t, out, "¿Qué opinas?")
	assert.Contains(t, out, "datetime")
	assert.Contains(t, out, "2024-03-01 … 2024-03-05 (4 days)")

	out, _, err = run(t, "analyze", "--json", path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.Get(out, "totalRows").Int())
	assert.Equal(t, "numeric", gjson.Get(out, "columns.nota.type").String())
}

func TestReport(t *testing.T) {
	path := writeFile(t, "feedback.csv", feedbackCSV)

	out, _, err := run(t, "report", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CSV DATA ANALYSIS REPORT\n"))
	assert.Contains(t, out, "Text Columns: 1\n  - ¿Qué opinas?")
}

func TestTranslateWithoutService(t *testing.T) {
	path := writeFile(t, "feedback.csv", feedbackCSV)

	out, stderr, err := run(t, "translate", path, "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No translation service configured")
	assert.Contains(t, stderr, "0 translated, 1 skipped, 2 failed")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "¿Qué opinas?,nota,fecha,¿Qué opinas?_original", lines[0])
	assert.Equal(t, translator.UnavailablePrefix+"Me gusta mucho,9,2024-03-01,Me gusta mucho", lines[1])

	_, _, err = run(t, "translate", path, "--lang", "tlh")
	assert.Error(t, err)
}

func TestChart(t *testing.T) {
	path := writeFile(t, "feedback.csv", feedbackCSV)

	out, _, err := run(t, "chart", path, "--kind", "bar", "--column", "nota", "--top", "2")
	require.NoError(t, err)
	assert.Equal(t, "Top 2 Values: nota", gjson.Get(out, "title").String())

	_, _, err = run(t, "chart", path, "--kind", "histogram", "--column", "missing")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	path := writeFile(t, "feedback.csv", feedbackCSV)
	dir := t.TempDir()

	for _, format := range []string{"csv", "report", "xlsx", "sqlite"} {
		out := filepath.Join(dir, "out."+format)
		_, stderr, err := run(t, "export", path, "--format", format, "--out", out)
		require.NoError(t, err, format)
		assert.Contains(t, stderr, "written to "+out)

		info, err := os.Stat(out)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, feedbackCSV, string(data))

	_, _, err = run(t, "export", path, "--format", "pdf")
	assert.Error(t, err)
}

func TestLanguages(t *testing.T) {
	out, _, err := run(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "Japanese")
	assert.Contains(t, out, "zh")
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, "analyze", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
