package translator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// ORCHESTRATION TESTS
// ============================================================================

// fakeService upper-cases text and records every request.
type fakeService struct {
	mu     sync.Mutex
	calls  []string
	fail   func(text string) bool
	detect string
}

func (f *fakeService) Translate(_ context.Context, text, target, source string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if source != AutoDetect {
		return "", errors.New("expected auto-detect source")
	}
	if f.fail != nil && f.fail(text) {
		return "", errors.New("provider exploded")
	}
	return strings.ToUpper(text) + "@" + target, nil
}

func (f *fakeService) Detect(_ context.Context, text string) (string, error) {
	if f.detect == "" {
		return "", errors.New("no idea")
	}
	return f.detect, nil
}

func (f *fakeService) Name() string { return "fake" }

func (f *fakeService) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestTranslator(svc Service, opts ...Option) *Translator {
	return New(svc, append([]Option{WithCallInterval(0)}, opts...)...)
}

func TestTranslateValueLengthBoundary(t *testing.T) {
	svc := &fakeService{}
	tr := newTestTranslator(svc)
	ctx := context.Background()

	col := &table.Column{Name: "c", Cells: []table.Cell{
		table.Str("Hi"), table.Str(""), table.Str("  "), table.Null(), table.Str("OK"), table.Str(" abc "),
	}}

	var out []table.Cell
	for _, cell := range col.Cells {
		out = append(out, tr.TranslateValue(ctx, cell, "es"))
	}

	assert.Equal(t, table.Str("Hi"), out[0])
	assert.Equal(t, table.Str(""), out[1])
	assert.Equal(t, table.Str("  "), out[2])
	assert.Equal(t, table.Null(), out[3])
	assert.Equal(t, table.Str("OK"), out[4])
	assert.Equal(t, table.Str("ABC@es"), out[5], "length exactly 3 is translated, trimmed")

	assert.Equal(t, []string{"abc"}, svc.sent())
}

func TestTranslateTextCountsCharacters(t *testing.T) {
	svc := &fakeService{}
	tr := newTestTranslator(svc)

	// Two characters, four bytes.
	assert.Equal(t, "ñé", tr.TranslateText(context.Background(), "ñé", "en"))
	assert.Empty(t, svc.sent())
}

func TestTranslateTable(t *testing.T) {
	svc := &fakeService{}
	tr := newTestTranslator(svc)

	tbl, err := table.LoadCSV([]byte("id,¿Cómo estás?,score\n1,muy bien,5\n2,,4\n3,ok,3\n"))
	require.NoError(t, err)

	var progress [][2]int
	res, err := tr.TranslateTable(context.Background(), tbl, []string{"¿Cómo estás?", "nope"}, "en", func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "¿Cómo estás?", "score", "¿Cómo estás?_original"}, res.Table.Names())
	assert.Equal(t, []string{"¿Cómo estás?"}, res.Columns)
	assert.Equal(t, []string{"nope"}, res.Missing)
	assert.Equal(t, 1, res.Translated)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)

	translated, _ := res.Table.Column("¿Cómo estás?")
	assert.Equal(t, []table.Cell{table.Str("MUY BIEN@en"), table.Null(), table.Str("ok")}, translated.Cells)

	original, _ := res.Table.Column("¿Cómo estás?_original")
	source, _ := tbl.Column("¿Cómo estás?")
	assert.Equal(t, source.Cells, original.Cells)
	assert.Equal(t, source.Kind, original.Kind)

	assert.Equal(t, "¿CÓMO ESTÁS?@en", res.Labels["¿Cómo estás?"])

	// Two non-null cells, then the completion call.
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}, {2, 2}}, progress)

	// Input is untouched.
	assert.Equal(t, 3, tbl.Width())
	assert.Equal(t, "muy bien", source.Cells[0].Value)
}

func TestTranslateTableOriginalNameTaken(t *testing.T) {
	tr := newTestTranslator(&fakeService{})

	tbl, err := table.New(
		table.NewColumn("note", []string{"hello"}),
		table.NewColumn("note_original", []string{"earlier"}),
	)
	require.NoError(t, err)

	res, err := tr.TranslateTable(context.Background(), tbl, []string{"note", "note"}, "fr", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"note", "note_original", "note_original_1"}, res.Table.Names())
	assert.Equal(t, map[string]string{"note": "note_original_1"}, res.Originals)

	existing, _ := res.Table.Column("note_original")
	assert.Equal(t, "earlier", existing.Cells[0].Value)
	kept, _ := res.Table.Column("note_original_1")
	assert.Equal(t, "hello", kept.Cells[0].Value)
	assert.Equal(t, 1, res.Translated, "duplicate selections are processed once")
}

func TestTranslateTableRejectsUnknownLanguage(t *testing.T) {
	tr := newTestTranslator(&fakeService{})
	tbl, err := table.New(table.NewColumn("a", []string{"hello"}))
	require.NoError(t, err)

	_, err = tr.TranslateTable(context.Background(), tbl, []string{"a"}, "xx", nil)
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestFallbackWithoutService(t *testing.T) {
	tr := newTestTranslator(nil)
	ctx := context.Background()

	assert.False(t, tr.Available())
	assert.Equal(t, "[Translation unavailable] hello", tr.TranslateText(ctx, "  hello ", "es"))
	assert.Equal(t, "Hi", tr.TranslateText(ctx, "Hi", "es"))
	assert.Equal(t, "unknown", tr.Detect(ctx, "hola"))
	assert.Contains(t, tr.Info(), "No translation service configured")
	assert.True(t, errors.Is(tr.Probe(ctx), ErrUnavailable))
}

func TestPerValueFailureDoesNotAbortSiblings(t *testing.T) {
	svc := &fakeService{fail: func(text string) bool { return text == "bad value" }}
	tr := newTestTranslator(svc)

	tbl, err := table.New(table.NewColumn("t", []string{"good one", "bad value", "another"}))
	require.NoError(t, err)

	res, err := tr.TranslateTable(context.Background(), tbl, []string{"t"}, "de", nil)
	require.NoError(t, err)

	col, _ := res.Table.Column("t")
	assert.Equal(t, []string{"GOOD ONE@de", "[Translation unavailable] bad value", "ANOTHER@de"}, col.NonNull())
	assert.Equal(t, 2, res.Translated)
	assert.Equal(t, 1, res.Failed)
}

func TestBreakerTripsIntoFallback(t *testing.T) {
	svc := &fakeService{fail: func(string) bool { return true }}
	tr := newTestTranslator(svc, WithBreaker(2, time.Hour))

	values := []string{"one", "two", "three", "four"}
	out := tr.BatchTranslate(context.Background(), values, "es", 3)

	for i, v := range values {
		assert.Equal(t, UnavailablePrefix+v, out[i])
	}
	assert.Len(t, svc.sent(), 2, "calls stop once the breaker opens")
	assert.False(t, tr.Available())
	assert.Contains(t, tr.Info(), "degraded")
}

func TestProbeFailureDegrades(t *testing.T) {
	svc := &fakeService{fail: func(string) bool { return true }}
	tr := newTestTranslator(svc)

	err := tr.Probe(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, tr.Available())
	assert.Contains(t, tr.Info(), "initialization failed")

	assert.Equal(t, UnavailablePrefix+"hello", tr.TranslateText(context.Background(), "hello", "es"))
	assert.Len(t, svc.sent(), 1, "only the probe reached the provider")
}

func TestDetect(t *testing.T) {
	tr := newTestTranslator(&fakeService{detect: "es"})
	assert.Equal(t, "es", tr.Detect(context.Background(), "hola amigo"))
	assert.Equal(t, "unknown", tr.Detect(context.Background(), "   "))

	tr = newTestTranslator(&fakeService{})
	assert.Equal(t, "unknown", tr.Detect(context.Background(), "hola"))
}

func TestBatchTranslatePreservesOrder(t *testing.T) {
	tr := newTestTranslator(&fakeService{})
	out := tr.BatchTranslate(context.Background(), []string{"abc", "x", "def", "", "ghi"}, "en", 2)
	assert.Equal(t, []string{"ABC@en", "x", "DEF@en", "", "GHI@en"}, out)
	assert.Empty(t, tr.BatchTranslate(context.Background(), nil, "en", 0))
}

func TestLabelKeywordsAreConfigurable(t *testing.T) {
	svc := &fakeService{}
	tr := newTestTranslator(svc, WithLabelKeywords([]string{"Comentario"}))

	tbl, err := table.New(
		table.NewColumn("comentarios", []string{"excelente"}),
		table.NewColumn("texto libre", []string{"bueno"}),
	)
	require.NoError(t, err)

	res, err := tr.TranslateTable(context.Background(), tbl, []string{"comentarios", "texto libre"}, "en", nil)
	require.NoError(t, err)

	assert.Contains(t, res.Labels, "comentarios")
	assert.NotContains(t, res.Labels, "texto libre", "default keywords were replaced")
}

func TestLabelMatcher(t *testing.T) {
	m := NewLabelMatcher(DefaultLabelKeywords)

	assert.True(t, m.Matches("Why?"))
	assert.True(t, m.Matches("¿Qué"))
	assert.True(t, m.Matches("Texto Original"))
	assert.True(t, m.Matches("POR FAVOR describe"))
	assert.True(t, m.Matches("Cómo te sientes"))
	assert.False(t, m.Matches("Score"))
	assert.False(t, m.Matches("Marca temporal"))

	assert.False(t, NewLabelMatcher([]string{"", "  "}).Matches("anything"))
}

func TestSupportedLanguages(t *testing.T) {
	require.Len(t, SupportedLanguages, 10)
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "Spanish", LanguageName("ES"))
	assert.Equal(t, "Chinese", LanguageName("zh"))
	assert.Equal(t, "", LanguageName("xx"))

	assert.NoError(t, ValidateLanguage("ko"))
	assert.True(t, errors.Is(ValidateLanguage("klingon"), ErrUnsupportedLanguage))

	m := LanguageMap()
	assert.Equal(t, "Japanese", m["ja"])
	assert.Equal(t, "Portuguese", m["pt"])
}
