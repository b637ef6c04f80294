package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/cancerlens/internal/dataset"
)

// SummaryRow holds the descriptive statistics of one column.
type SummaryRow struct {
	Label    string  `json:"label"`
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	P25      float64 `json:"p25"`
	P50      float64 `json:"p50"`
	P75      float64 `json:"p75"`
}

// Describe computes one SummaryRow per frame column, in column order.
// Row i is labelled labels[i]; callers must pass exactly one label per column.
// Columns without values yield NaN for every statistic.
func Describe(f *dataset.Frame, labels []string) []SummaryRow {
	out := make([]SummaryRow, 0, f.NumCols())
	for i, name := range f.Columns {
		label := name
		if i < len(labels) {
			label = labels[i]
		}
		row := describeColumn(f.Data[i])
		row.Label = label
		row.Column = name
		out = append(out, row)
	}
	return out
}

func describeColumn(vals []float64) SummaryRow {
	if len(vals) == 0 {
		nan := math.NaN()
		return SummaryRow{
			Mean: nan, Median: nan, Mode: nan, StdDev: nan, Variance: nan,
			Min: nan, Max: nan, Range: nan, P25: nan, P50: nan, P75: nan,
		}
	}
	data := stats.Float64Data(vals)
	// Errors below only signal empty input, ruled out above.
	mean, _ := data.Mean()
	median, _ := data.Median()
	variance, _ := stats.PopulationVariance(data)
	std, _ := stats.StandardDeviationPopulation(data)
	lo, _ := data.Min()
	hi, _ := data.Max()

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return SummaryRow{
		Count:    len(vals),
		Mean:     mean,
		Median:   median,
		Mode:     firstMode(data, sorted[0]),
		StdDev:   std,
		Variance: variance,
		Min:      lo,
		Max:      hi,
		Range:    hi - lo,
		P25:      quantile(sorted, 0.25),
		P50:      quantile(sorted, 0.50),
		P75:      quantile(sorted, 0.75),
	}
}

// firstMode returns the smallest of the most frequent values. When every
// value occurs once they all tie, so the smallest value wins.
func firstMode(data stats.Float64Data, smallest float64) float64 {
	modes, err := data.Mode()
	if err != nil || len(modes) == 0 {
		return smallest
	}
	sort.Float64s(modes)
	return modes[0]
}

// quantile interpolates linearly between closest ranks; sorted must be ascending.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
