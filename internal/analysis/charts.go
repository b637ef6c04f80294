package analysis

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/cancerlens/internal/dataset"
)

// ErrSameField is returned when a pair view is requested for one field twice.
var ErrSameField = errors.New("pair view needs two different fields")

// Histogram holds equal-width bins: Counts[i] covers [Edges[i], Edges[i+1]).
// The last bin also includes its upper edge.
type Histogram struct {
	Field  string    `json:"field"`
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// BuildHistogram bins values into the given number of equal-width bins
// spanning their min and max. A zero-width range is widened by 0.5 each side.
// NaN and Inf values are not counted.
func BuildHistogram(field string, values []float64, bins int) Histogram {
	if bins <= 0 {
		bins = 10
	}
	h := Histogram{Field: field, Counts: make([]int, bins)}
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	values = finite
	if len(values) == 0 {
		return h
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h.Edges = make([]float64, bins+1)
	floats.Span(h.Edges, lo, hi)
	h.Edges[0], h.Edges[bins] = lo, hi

	// stat.Histogram treats the last divider as exclusive.
	dividers := append([]float64(nil), h.Edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	counts := stat.Histogram(nil, dividers, sorted, nil)
	for i, c := range counts {
		h.Counts[i] = int(c)
	}
	return h
}

// ValueCount is one bar or pie slice.
type ValueCount struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// ValueCounts tallies distinct values, most frequent first, ties by value.
func ValueCounts(values []float64) []ValueCount {
	counts := map[float64]int{}
	for _, v := range values {
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c, Share: float64(c) / float64(len(values))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// BoxStats summarizes one box of a box plot.
type BoxStats struct {
	Group        float64   `json:"group"`
	N            int       `json:"n"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// GroupBox computes box-plot statistics of value for each distinct group,
// ordered by group value. Whiskers reach the furthest points within 1.5·IQR.
func GroupBox(f *dataset.Frame, group, value string) ([]BoxStats, error) {
	g, err := f.Column(group)
	if err != nil {
		return nil, err
	}
	v, err := f.Column(value)
	if err != nil {
		return nil, err
	}
	buckets := map[float64][]float64{}
	for i := range g {
		buckets[g[i]] = append(buckets[g[i]], v[i])
	}
	keys := make([]float64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]BoxStats, 0, len(keys))
	for _, k := range keys {
		vals := buckets[k]
		sort.Float64s(vals)
		q1, q3 := quantile(vals, 0.25), quantile(vals, 0.75)
		iqr := q3 - q1
		loFence, hiFence := q1-1.5*iqr, q3+1.5*iqr
		b := BoxStats{
			Group: k, N: len(vals),
			Min: vals[0], Q1: q1, Median: quantile(vals, 0.5), Q3: q3, Max: vals[len(vals)-1],
			LowerWhisker: q1, UpperWhisker: q3,
			Outliers: []float64{},
		}
		for _, x := range vals {
			switch {
			case x < loFence || x > hiFence:
				b.Outliers = append(b.Outliers, x)
			default:
				b.LowerWhisker = math.Min(b.LowerWhisker, x)
				b.UpperWhisker = math.Max(b.UpperWhisker, x)
			}
		}
		out = append(out, b)
	}
	return out, nil
}

// CountTable is a contingency table: Counts[i][j] counts rows with
// row value Rows[i] and hue value Hues[j].
type CountTable struct {
	RowField string    `json:"row_field"`
	HueField string    `json:"hue_field"`
	Rows     []float64 `json:"rows"`
	Hues     []float64 `json:"hues"`
	Counts   [][]int   `json:"counts"`
}

// CrossTab counts co-occurrences of two columns, both axes sorted ascending.
func CrossTab(f *dataset.Frame, row, hue string) (CountTable, error) {
	r, err := f.Column(row)
	if err != nil {
		return CountTable{}, err
	}
	h, err := f.Column(hue)
	if err != nil {
		return CountTable{}, err
	}
	t := CountTable{RowField: row, HueField: hue, Rows: distinct(r), Hues: distinct(h)}
	ri, hi := indexOf(t.Rows), indexOf(t.Hues)
	t.Counts = make([][]int, len(t.Rows))
	for i := range t.Counts {
		t.Counts[i] = make([]int, len(t.Hues))
	}
	for i := range r {
		t.Counts[ri[r[i]]][hi[h[i]]]++
	}
	return t, nil
}

// PairView is the data behind a scatter plot of two fields.
type PairView struct {
	X       string    `json:"x"`
	Y       string    `json:"y"`
	XValues []float64 `json:"x_values"`
	YValues []float64 `json:"y_values"`
	// Pearson is NaN when either field is constant or fewer than two rows exist.
	Pearson float64 `json:"pearson"`
}

// Pair returns the scatter data and Pearson correlation of x against y.
func Pair(f *dataset.Frame, x, y string) (PairView, error) {
	if x == y {
		return PairView{}, ErrSameField
	}
	xs, err := f.Column(x)
	if err != nil {
		return PairView{}, err
	}
	ys, err := f.Column(y)
	if err != nil {
		return PairView{}, err
	}
	p := PairView{X: x, Y: y, XValues: xs, YValues: ys, Pearson: math.NaN()}
	if len(xs) >= 2 && stat.Variance(xs, nil) > 0 && stat.Variance(ys, nil) > 0 {
		p.Pearson = stat.Correlation(xs, ys, nil)
	}
	return p, nil
}

func distinct(vals []float64) []float64 {
	seen := map[float64]struct{}{}
	out := []float64{}
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func indexOf(vals []float64) map[float64]int {
	m := make(map[float64]int, len(vals))
	for i, v := range vals {
		m[v] = i
	}
	return m
}
