package chart

import (
	"fmt"
	"unicode/utf8"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// DISTRIBUTIONS — Histogram and text-length histogram
// ============================================================================

func buildHistogram(t *table.Table, column string) *Spec {
	col, _ := t.Column(column)
	values := numbers(col)
	if len(values) == 0 {
		return placeholder(KindHistogram, "Histogram: "+column, "No numeric data available for visualization")
	}

	m, med := schema.Mean(values), schema.Median(values)
	return &Spec{
		Kind:       KindHistogram,
		Title:      "Distribution of " + column,
		XAxis:      column,
		YAxis:      "Count",
		Height:     defaultHeight,
		Bins:       histogram(values, binCount(len(values), 10, 10, 50)),
		Colors:     assignColors(1),
		ShowLegend: true,
		Annotations: []Annotation{
			{Axis: "x", Value: m, Text: fmt.Sprintf("Mean: %.2f", m), Dash: "dash", Color: "red"},
			{Axis: "x", Value: med, Text: fmt.Sprintf("Median: %.2f", med), Dash: "dot", Color: "blue"},
		},
	}
}

func buildTextLength(t *table.Table, column string) *Spec {
	col, _ := t.Column(column)
	lengths := make([]float64, 0, col.Len())
	for _, v := range col.NonNull() {
		lengths = append(lengths, float64(utf8.RuneCountInString(v)))
	}
	if len(lengths) == 0 {
		return placeholder(KindTextLength, "Text Length Analysis: "+column, "No text data available for analysis")
	}

	m, med := schema.Mean(lengths), schema.Median(lengths)
	return &Spec{
		Kind:       KindTextLength,
		Title:      "Text Length Distribution: " + column,
		XAxis:      "Text Length (characters)",
		YAxis:      "Frequency",
		Height:     defaultHeight,
		Bins:       histogram(lengths, binCount(len(lengths), 20, 10, 30)),
		Colors:     assignColors(1),
		ShowLegend: true,
		Annotations: []Annotation{
			{Axis: "x", Value: m, Text: fmt.Sprintf("Mean: %.1f", m), Dash: "dash", Color: "red"},
			{Axis: "x", Value: med, Text: fmt.Sprintf("Median: %.1f", med), Dash: "dot", Color: "blue"},
		},
	}
}
