package translator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// TRANSLATION ORCHESTRATION
// ============================================================================
// Per-value rule:
//   absent              → unchanged, never sent
//   blank after trim    → unchanged, never sent
//   < 3 chars after trim → unchanged, never sent
//   otherwise           → Translate(trimmed, target, auto)
//
// A failing value becomes UnavailablePrefix + trimmed and its siblings
// carry on. Repeated failures open the breaker, after which values fall
// back without calling the provider.
// ============================================================================

// minTranslatableLength is the shortest trimmed value worth sending.
const minTranslatableLength = 3

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeTranslated
	outcomeFailed
)

// Translator applies the translation rules over values and tables.
type Translator struct {
	svc       Service
	available bool
	log       logger.Logger
	labels    LabelMatcher
	limiter   *rate.Limiter
	breaker   *breaker

	calls    stats.Measurement
	failures stats.Measurement
	skipped  stats.Measurement
}

// New creates a Translator. A nil svc yields a translator that is always
// in degraded mode.
func New(svc Service, opts ...Option) *Translator {
	o := applyOptions(opts)

	limit := rate.Inf
	if o.callInterval > 0 {
		limit = rate.Every(o.callInterval)
	}

	name := "none"
	if svc != nil {
		name = svc.Name()
	}
	tags := stats.Tags{"service": name}

	return &Translator{
		svc:       svc,
		available: svc != nil,
		log:       o.log,
		labels:    NewLabelMatcher(o.labelKeywords),
		limiter:   rate.NewLimiter(limit, 1),
		breaker:   newBreaker(name, o.consecutiveFailures, o.breakerTimeout, o.log),
		calls:     o.stats.NewTaggedStat("csvlens_translator_calls", stats.CountType, tags),
		failures:  o.stats.NewTaggedStat("csvlens_translator_failures", stats.CountType, tags),
		skipped:   o.stats.NewTaggedStat("csvlens_translator_skipped", stats.CountType, tags),
	}
}

// Probe checks the service with a trivial request. On failure the
// translator switches to degraded mode for the rest of its life.
func (t *Translator) Probe(ctx context.Context) error {
	if t.svc == nil {
		t.available = false
		return ErrUnavailable
	}
	if _, err := t.svc.Translate(ctx, "test", "en", AutoDetect); err != nil {
		t.available = false
		t.log.Warnn("translation service initialization failed",
			logger.NewStringField("service", t.svc.Name()),
			logger.NewErrorField(err),
		)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Available reports whether values are currently sent to a provider.
func (t *Translator) Available() bool {
	return t.available && !t.breaker.isOpen()
}

// Info returns a human-readable status line.
func (t *Translator) Info() string {
	switch {
	case t.svc == nil:
		return "⚠️ No translation service configured. Set GOOGLE_TRANSLATE_API_KEY to enable translation"
	case !t.available:
		return fmt.Sprintf("❌ %s service initialization failed", t.svc.Name())
	case t.breaker.isOpen():
		return fmt.Sprintf("⚠️ %s service degraded after repeated failures", t.svc.Name())
	default:
		return fmt.Sprintf("✅ %s service is available", t.svc.Name())
	}
}

// TranslateText applies the per-value rule to a single string.
func (t *Translator) TranslateText(ctx context.Context, text, target string) string {
	out, _ := t.translate(ctx, text, target)
	return out
}

// TranslateValue applies the per-value rule to a cell. Absent cells are
// returned unchanged.
func (t *Translator) TranslateValue(ctx context.Context, cell table.Cell, target string) table.Cell {
	if !cell.Valid {
		return cell
	}
	out, _ := t.translate(ctx, cell.Value, target)
	return table.Str(out)
}

func (t *Translator) translate(ctx context.Context, text, target string) (string, outcome) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < minTranslatableLength {
		t.skipped.Increment()
		return text, outcomeSkipped
	}

	if !t.available {
		t.failures.Increment()
		return UnavailablePrefix + trimmed, outcomeFailed
	}

	out, err := t.breaker.call(func() (string, error) {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", err
		}
		t.calls.Increment()
		return t.svc.Translate(ctx, trimmed, target, AutoDetect)
	})
	if err != nil {
		t.failures.Increment()
		if !isRejected(err) {
			t.log.Warnn("translation failed",
				logger.NewStringField("text", truncate(trimmed, 50)),
				logger.NewErrorField(err),
			)
		}
		return UnavailablePrefix + trimmed, outcomeFailed
	}
	return out, outcomeTranslated
}

// TranslateTable returns a copy of tbl with the selected columns translated
// into target. Each translated column keeps its position; its untouched
// values are appended as "<name>_original", or "<name>_original_N" when
// that name is taken. Unknown columns are logged and skipped. progress may
// be nil.
func (t *Translator) TranslateTable(ctx context.Context, tbl *table.Table, columns []string, target string, progress ProgressFunc) (*Result, error) {
	if err := ValidateLanguage(target); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(int, int) {}
	}

	res := &Result{
		Table:     tbl.Clone(),
		Labels:    map[string]string{},
		Originals: map[string]string{},
		Columns:   []string{},
		Missing:   []string{},
		Target:    target,
	}

	var selected []*table.Column
	for _, name := range lo.Uniq(columns) {
		col, ok := tbl.Column(name)
		if !ok {
			t.log.Warnn("column not found",
				logger.NewStringField("column", name),
			)
			res.Missing = append(res.Missing, name)
			continue
		}
		selected = append(selected, col)
	}

	total := 0
	for _, col := range selected {
		total += col.Len() - col.NullCount()
	}

	start := time.Now()
	done := 0
	for _, src := range selected {
		t.log.Infon("translating column",
			logger.NewStringField("column", src.Name),
			logger.NewStringField("target", target),
		)

		if t.labels.Matches(src.Name) {
			res.Labels[src.Name] = t.TranslateText(ctx, src.Name, target)
		}

		dst, _ := res.Table.Column(src.Name)
		for i, cell := range src.Cells {
			if !cell.Valid {
				continue
			}
			out, oc := t.translate(ctx, cell.Value, target)
			dst.Cells[i] = table.Str(out)
			switch oc {
			case outcomeTranslated:
				res.Translated++
			case outcomeFailed:
				res.Failed++
			default:
				res.Skipped++
			}
			done++
			progress(done, total)
		}
		dst.Kind = table.InferKind(dst.Cells)

		keep := OriginalColumnName(src.Name)
		for n := 1; res.Table.Has(keep); n++ {
			keep = fmt.Sprintf("%s_%d", OriginalColumnName(src.Name), n)
		}
		if err := res.Table.AddColumn(src.Clone(keep)); err != nil {
			return nil, fmt.Errorf("failed to keep original values of %q: %w", src.Name, err)
		}
		res.Originals[src.Name] = keep
		res.Columns = append(res.Columns, src.Name)
	}
	progress(total, total)

	t.log.Infon("translation completed",
		logger.NewIntField("columns", int64(len(res.Columns))),
		logger.NewIntField("translated", int64(res.Translated)),
		logger.NewIntField("skipped", int64(res.Skipped)),
		logger.NewIntField("failed", int64(res.Failed)),
		logger.NewDurationField("elapsed", time.Since(start)),
	)
	return res, nil
}

// Detect returns the language code of text, or "unknown" when the text is
// blank, the service is unavailable or the call fails.
func (t *Translator) Detect(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !t.Available() {
		return "unknown"
	}
	code, err := t.svc.Detect(ctx, trimmed)
	if err != nil || code == "" {
		return "unknown"
	}
	return code
}

// BatchTranslate translates texts in batches of batchSize, preserving
// order. Throttling applies between every call.
func (t *Translator) BatchTranslate(ctx context.Context, texts []string, target string, batchSize int) []string {
	if batchSize <= 0 {
		batchSize = 10
	}
	out := make([]string, 0, len(texts))
	for _, batch := range lo.Chunk(texts, batchSize) {
		for _, text := range batch {
			out = append(out, t.TranslateText(ctx, text, target))
		}
	}
	return out
}
