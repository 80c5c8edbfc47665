package chart

import "time"

// ============================================================================
// CHART TYPES
// ============================================================================
// A Spec describes what to draw, never how. Renderers (CLI tables, a web
// frontend) read the series, bins, boxes or matrix that match Kind.
// ============================================================================

// Kind names a chart builder.
type Kind string

const (
	KindHistogram  Kind = "histogram"
	KindHeatmap    Kind = "heatmap"
	KindScatter    Kind = "scatter"
	KindBox        Kind = "box"
	KindBar        Kind = "bar"
	KindLine       Kind = "line"
	KindTextLength Kind = "text_length"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindHistogram, KindHeatmap, KindScatter, KindBox, KindBar, KindLine, KindTextLength}

// Request selects a chart kind and the columns it reads.
//
//	histogram, box, bar, text_length: Column (box: optional GroupBy)
//	scatter: X, Y, optional Color
//	line:    Date, Value
//	heatmap: no columns; all numeric columns are used
type Request struct {
	Kind    Kind   `json:"kind"`
	Column  string `json:"column,omitempty"`
	X       string `json:"x,omitempty"`
	Y       string `json:"y,omitempty"`
	Color   string `json:"color,omitempty"`
	GroupBy string `json:"groupBy,omitempty"`
	Date    string `json:"date,omitempty"`
	Value   string `json:"value,omitempty"`
	TopN    int    `json:"topN,omitempty"`
}

// Result is either a Spec or an error message. A Spec may itself be a
// placeholder when the selection yields no usable data.
type Result struct {
	Spec *Spec  `json:"spec,omitempty"`
	Err  string `json:"error,omitempty"`
}

// Ok reports whether the result carries a spec.
func (r Result) Ok() bool { return r.Spec != nil && r.Err == "" }

// Message returns the text to show instead of a chart, if any.
func (r Result) Message() string {
	if r.Err != "" {
		return r.Err
	}
	if r.Spec != nil && r.Spec.Placeholder {
		return r.Spec.Message
	}
	return ""
}

// Spec defines a chart.
type Spec struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XAxis  string `json:"xAxis,omitempty"`
	YAxis  string `json:"yAxis,omitempty"`
	Height int    `json:"height"`

	Series      []Series     `json:"series,omitempty"`
	Bins        []Bin        `json:"bins,omitempty"`
	Boxes       []Box        `json:"boxes,omitempty"`
	Matrix      *Matrix      `json:"matrix,omitempty"`
	Trend       *Trend       `json:"trend,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Colors      []string     `json:"colors,omitempty"`
	ShowLegend  bool         `json:"showLegend"`

	// Placeholder specs carry only a title and a message.
	Placeholder bool   `json:"placeholder,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Series is a named list of points.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point is one datum. Bar charts use Label, line charts use Time.
type Point struct {
	Label string     `json:"label,omitempty"`
	Time  *time.Time `json:"time,omitempty"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
}

// Bin is a histogram bucket covering [Start, End). The last bin is closed.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Box is a five-number summary with outliers.
type Box struct {
	Name         string    `json:"name"`
	Count        int       `json:"count"`
	LowerWhisker float64   `json:"lowerWhisker"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	UpperWhisker float64   `json:"upperWhisker"`
	Mean         float64   `json:"mean"`
	Outliers     []float64 `json:"outliers"`
}

// Matrix is a labelled square matrix. Nil cells are undefined correlations.
type Matrix struct {
	Labels []string     `json:"labels"`
	Values [][]*float64 `json:"values"`
}

// Trend is an ordinary least squares fit y = Slope*x + Intercept.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// Annotation is a reference line drawn over the chart.
type Annotation struct {
	Axis  string  `json:"axis"` // "x" for vertical lines
	Value float64 `json:"value"`
	Text  string  `json:"text"`
	Dash  string  `json:"dash,omitempty"`
	Color string  `json:"color,omitempty"`
}
