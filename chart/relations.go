package chart

import (
	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// RELATIONS — Correlation heatmap and scatter
// ============================================================================

// buildHeatmap correlates every column with numeric storage. Each pair
// uses only the rows where both sides parse.
func buildHeatmap(t *table.Table) *Spec {
	var cols []*table.Column
	for _, c := range t.Columns {
		if c.Kind == table.KindNumeric {
			cols = append(cols, c)
		}
	}
	if len(cols) < 2 {
		return placeholder(KindHeatmap, "Correlation Matrix", "Need at least 2 numeric columns for correlation analysis")
	}

	m := &Matrix{
		Labels: make([]string, len(cols)),
		Values: make([][]*float64, len(cols)),
	}
	for i, c := range cols {
		m.Labels[i] = c.Name
		m.Values[i] = make([]*float64, len(cols))
	}

	for i := range cols {
		for j := i; j < len(cols); j++ {
			xs, ys := pairs(cols[i], cols[j])
			r, ok := pearson(xs, ys)
			if !ok {
				continue
			}
			r = RoundTo2(r)
			m.Values[i][j] = &r
			m.Values[j][i] = &r
		}
	}

	return &Spec{
		Kind:   KindHeatmap,
		Title:  "Correlation Matrix",
		XAxis:  "Variables",
		YAxis:  "Variables",
		Height: defaultHeight,
		Matrix: m,
	}
}

// pairs returns values of rows where both columns coerce to numbers.
func pairs(a, b *table.Column) ([]float64, []float64) {
	var xs, ys []float64
	for i := 0; i < a.Len() && i < b.Len(); i++ {
		x, okX := a.Cells[i].Float()
		y, okY := b.Cells[i].Float()
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// buildScatter plots y against x, one series per color value. Rows with a
// missing x, y or color are dropped. More than 10 points adds a trend line
// fitted over all of them.
func buildScatter(t *table.Table, x, y, color string) *Spec {
	xc, _ := t.Column(x)
	yc, _ := t.Column(y)
	var cc *table.Column
	if color != "" {
		cc, _ = t.Column(color)
	}

	groups := map[string]int{}
	var series []Series
	var xs, ys []float64

	for i := 0; i < t.Rows(); i++ {
		xv, okX := xc.Cells[i].Float()
		yv, okY := yc.Cells[i].Float()
		if !okX || !okY {
			continue
		}

		name := y
		if cc != nil {
			cell := cc.Cells[i]
			if !cell.Valid {
				continue
			}
			name = cell.Value
		}

		idx, ok := groups[name]
		if !ok {
			idx = len(series)
			groups[name] = idx
			series = append(series, Series{Name: name})
		}
		series[idx].Points = append(series[idx].Points, Point{X: xv, Y: yv})
		xs = append(xs, xv)
		ys = append(ys, yv)
	}

	if len(xs) == 0 {
		return placeholder(KindScatter, "Scatter: "+x+" vs "+y, "No valid data points for scatter plot")
	}

	colors := assignColors(len(series))
	for i := range series {
		series[i].Color = colors[i]
	}

	spec := &Spec{
		Kind:       KindScatter,
		Title:      x + " vs " + y,
		XAxis:      x,
		YAxis:      y,
		Height:     defaultHeight,
		Series:     series,
		Colors:     colors,
		ShowLegend: cc != nil,
	}
	if len(xs) > 10 {
		if trend, ok := ols(xs, ys); ok {
			spec.Trend = trend
		}
	}
	return spec
}
