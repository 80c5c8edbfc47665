package chart

import (
	"fmt"
	"sort"

	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// CATEGORICAL & TEMPORAL — Box plot, value counts, time series
// ============================================================================

const defaultTopN = 10

// buildBox summarizes a numeric column, optionally per group. Groups keep
// first-appearance order; rows with a missing group are dropped.
func buildBox(t *table.Table, column, groupBy string) *Spec {
	col, _ := t.Column(column)

	title := "Box Plot: " + column
	var names []string
	grouped := map[string][]float64{}

	if groupBy == "" {
		names = []string{column}
		grouped[column] = numbers(col)
	} else {
		title = "Box Plot: " + column + " by " + groupBy
		gc, _ := t.Column(groupBy)
		for i, cell := range col.Cells {
			v, ok := cell.Float()
			g := gc.Cells[i]
			if !ok || !g.Valid {
				continue
			}
			if _, seen := grouped[g.Value]; !seen {
				names = append(names, g.Value)
			}
			grouped[g.Value] = append(grouped[g.Value], v)
		}
	}

	var boxes []Box
	for _, name := range names {
		if values := grouped[name]; len(values) > 0 {
			boxes = append(boxes, summarize(name, values))
		}
	}
	if len(boxes) == 0 {
		return placeholder(KindBox, "Box Plot: "+column, "No valid numeric data for box plot")
	}

	return &Spec{
		Kind:       KindBox,
		Title:      title,
		XAxis:      groupBy,
		YAxis:      column,
		Height:     defaultHeight,
		Boxes:      boxes,
		Colors:     assignColors(len(boxes)),
		ShowLegend: groupBy != "",
	}
}

// summarize computes quartiles with linear interpolation and whiskers at
// the furthest values within 1.5 IQR of the box.
func summarize(name string, values []float64) Box {
	sorted := sortedCopy(values)
	q1, q3 := quantile(sorted, 0.25), quantile(sorted, 0.75)
	iqr := q3 - q1
	lowFence, highFence := q1-1.5*iqr, q3+1.5*iqr

	b := Box{
		Name:         name,
		Count:        len(sorted),
		Q1:           q1,
		Median:       quantile(sorted, 0.5),
		Q3:           q3,
		Mean:         mean(sorted),
		LowerWhisker: q1,
		UpperWhisker: q3,
		Outliers:     []float64{},
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.LowerWhisker {
			b.LowerWhisker = v
		}
		if v > b.UpperWhisker {
			b.UpperWhisker = v
		}
	}
	return b
}

// buildValueCounts charts the most frequent values. Ties keep the order
// in which values first appear.
func buildValueCounts(t *table.Table, column string, topN int) *Spec {
	if topN <= 0 {
		topN = defaultTopN
	}
	col, _ := t.Column(column)

	counts := map[string]int{}
	var order []string
	for _, v := range col.NonNull() {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return placeholder(KindBar, "Value Counts: "+column, "No data available for value counts")
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}

	points := make([]Point, len(order))
	for i, v := range order {
		points[i] = Point{Label: v, X: float64(i), Y: float64(counts[v])}
	}

	return &Spec{
		Kind:   KindBar,
		Title:  fmt.Sprintf("Top %d Values: %s", len(order), column),
		XAxis:  column,
		YAxis:  "Count",
		Height: defaultHeight,
		Series: []Series{{Name: column, Color: defaultColors[0], Points: points}},
		Colors: assignColors(1),
	}
}

// buildTimeSeries plots value against date, dropping rows where either
// fails to parse, ordered by date with ties in row order.
func buildTimeSeries(t *table.Table, date, value string) *Spec {
	dc, _ := t.Column(date)
	vc, _ := t.Column(value)

	var points []Point
	for i := 0; i < t.Rows(); i++ {
		ts, okT := dc.Cells[i].Time()
		v, okV := vc.Cells[i].Float()
		if !okT || !okV {
			continue
		}
		points = append(points, Point{Time: &ts, X: float64(ts.Unix()), Y: v})
	}

	title := "Time Series: " + value + " over " + date
	if len(points) == 0 {
		return placeholder(KindLine, title, "No valid time series data available")
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(*points[j].Time)
	})

	return &Spec{
		Kind:   KindLine,
		Title:  title,
		XAxis:  date,
		YAxis:  value,
		Height: defaultHeight,
		Series: []Series{{Name: value, Color: defaultColors[0], Points: points}},
		Colors: assignColors(1),
	}
}
