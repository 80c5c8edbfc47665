package chart

import (
	"fmt"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// CHART BUILDER — Produces a Spec from a Request and a Table
// ============================================================================
// Build never panics on data problems. Unknown kinds and unknown columns
// come back as Err results; selections with no usable data come back as
// placeholder specs. A cell that fails numeric or date coercion is
// dropped on its own; the rest of the column is still used.
// ============================================================================

const defaultHeight = 400

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Build produces a chart for req over t.
func Build(req Request, t *table.Table) Result {
	if t == nil {
		return Result{Err: "no table loaded"}
	}

	for _, name := range req.columns() {
		if !t.Has(name) {
			return Result{Err: fmt.Sprintf("column %q not found", name)}
		}
	}

	var spec *Spec
	switch req.Kind {
	case KindHistogram:
		if req.Column == "" {
			return Result{Err: "histogram requires a column"}
		}
		spec = buildHistogram(t, req.Column)
	case KindHeatmap:
		spec = buildHeatmap(t)
	case KindScatter:
		if req.X == "" || req.Y == "" {
			return Result{Err: "scatter requires x and y columns"}
		}
		spec = buildScatter(t, req.X, req.Y, req.Color)
	case KindBox:
		if req.Column == "" {
			return Result{Err: "box plot requires a column"}
		}
		spec = buildBox(t, req.Column, req.GroupBy)
	case KindBar:
		if req.Column == "" {
			return Result{Err: "value counts require a column"}
		}
		spec = buildValueCounts(t, req.Column, req.TopN)
	case KindLine:
		if req.Date == "" || req.Value == "" {
			return Result{Err: "time series requires date and value columns"}
		}
		spec = buildTimeSeries(t, req.Date, req.Value)
	case KindTextLength:
		if req.Column == "" {
			return Result{Err: "text length analysis requires a column"}
		}
		spec = buildTextLength(t, req.Column)
	default:
		return Result{Err: fmt.Sprintf("unknown chart kind %q", req.Kind)}
	}

	return Result{Spec: spec}
}

// columns returns every non-empty column name the request refers to.
func (r Request) columns() []string {
	var out []string
	for _, name := range []string{r.Column, r.X, r.Y, r.Color, r.GroupBy, r.Date, r.Value} {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func placeholder(kind Kind, title, message string) *Spec {
	return &Spec{
		Kind:        kind,
		Title:       title,
		Height:      defaultHeight,
		Placeholder: true,
		Message:     message,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

// numbers coerces every cell, dropping the ones that fail.
func numbers(col *table.Column) []float64 {
	out := make([]float64, 0, col.Len())
	for _, cell := range col.Cells {
		if f, ok := cell.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}
