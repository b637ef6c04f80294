package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// SummaryHeaders are the column titles used by every summary rendering.
var SummaryHeaders = []string{
	"Category", "Mean", "Median", "Mode", "Standard Deviation", "Variance",
	"Min", "Max", "Range", "25th Percentile", "50th Percentile", "75th Percentile",
}

// Values returns the statistics of r in SummaryHeaders order, label excluded.
func (r SummaryRow) Values() []float64 {
	return []float64{r.Mean, r.Median, r.Mode, r.StdDev, r.Variance, r.Min, r.Max, r.Range, r.P25, r.P50, r.P75}
}

// Markdown renders the statistics table as a markdown pipe table.
func Markdown(rows []SummaryRow) string {
	var b strings.Builder
	writeRow(&b, SummaryHeaders)
	sep := make([]string, len(SummaryHeaders))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, r := range rows {
		cells := []string{safeName(r.Label)}
		for _, v := range r.Values() {
			cells = append(cells, FormatStat(v))
		}
		writeRow(&b, cells)
	}
	return b.String()
}

// PreviewMarkdown renders the first rows of a frame under its column names.
func PreviewMarkdown(columns []string, rows [][]float64) string {
	var b strings.Builder
	header := make([]string, len(columns))
	sep := make([]string, len(columns))
	for i, c := range columns {
		header[i] = safeName(c)
		sep[i] = "---"
	}
	writeRow(&b, header)
	writeRow(&b, sep)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatStat(v)
		}
		writeRow(&b, cells)
	}
	return b.String()
}

// WriteCSV writes the statistics table with a header row.
func WriteCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Label}
		for _, v := range r.Values() {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatStat prints up to four decimals without trailing zeros.
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(c))
	}
	b.WriteString(" |\n")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
