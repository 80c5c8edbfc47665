package chart

import (
	"math"
	"sort"
)

// ============================================================================
// STATISTICS — Helpers shared by the builders
// ============================================================================

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// quantile uses linear interpolation between closest ranks over sorted data.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// pearson returns the correlation of paired samples, or false when fewer
// than two pairs exist or either side has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0, false
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	r := sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

// ols fits y = slope*x + intercept. It fails when x has zero variance.
func ols(xs, ys []float64) (*Trend, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return nil, false
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 {
		return nil, false
	}
	slope := sxy / sxx
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return nil, false
	}
	t := &Trend{Slope: slope, Intercept: my - slope*mx, R2: 1}
	if syy > 0 {
		t.R2 = (sxy * sxy) / (sxx * syy)
	}
	return t, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// histogram splits values into nbins equal-width bins over [min, max].
// A constant sample gets a single bin. Non-finite values are ignored.
func histogram(values []float64, nbins int) []Bin {
	values = finite(values)
	if len(values) == 0 {
		return nil
	}
	sorted := sortedCopy(values)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	width := (hi - lo) / float64(nbins)
	if lo == hi || nbins < 1 || math.IsInf(width, 0) || width == 0 {
		return []Bin{{Start: lo, End: hi, Count: len(values)}}
	}

	bins := make([]Bin, nbins)
	for i := range bins {
		bins[i].Start = lo + float64(i)*width
		bins[i].End = lo + float64(i+1)*width
	}
	bins[nbins-1].End = hi

	for _, v := range values {
		i := int((v - lo) / width)
		switch {
		case i >= nbins:
			i = nbins - 1
		case i < 0:
			i = 0
		}
		bins[i].Count++
	}
	return bins
}

func finite(values []float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// binCount clamps n/divisor into [minBins, maxBins].
func binCount(n, divisor, minBins, maxBins int) int {
	b := n / divisor
	if b < minBins {
		b = minBins
	}
	if b > maxBins {
		b = maxBins
	}
	return b
}
