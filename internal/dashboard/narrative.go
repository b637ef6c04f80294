package dashboard

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/KaramelBytes/cancerlens/internal/analysis"
	"github.com/KaramelBytes/cancerlens/internal/dataset"
	"github.com/KaramelBytes/cancerlens/internal/pipeline"
)

// renderMarkdown converts narrative markdown to HTML. Raw HTML in the source is skipped.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

// encodingSentence spells out the label codes actually assigned, e.g.
// "High = 0, Low = 1, Medium = 2".
func encodingSentence(enc dataset.Encoding) string {
	parts := make([]string, len(enc.Labels))
	for code, label := range enc.Labels {
		parts[code] = fmt.Sprintf("%s = %d", label, code)
	}
	return strings.Join(parts, ", ")
}

func introText(rep *pipeline.Report, idColumn string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The dataset **%s** holds **%d** patient records with **%d** analysed fields covering demographics, environmental exposure and symptoms. ",
		rep.Source, rep.Frame.NumRows(), rep.Frame.NumCols())
	fmt.Fprintf(&b, "The **%s** field was removed because it carries no analytical meaning.\n\n", idColumn)
	if len(rep.Encoding.Labels) > 0 {
		fmt.Fprintf(&b, "The **%s** field was label encoded in alphabetical order of its values: %s.", rep.Encoding.Column, encodingSentence(rep.Encoding))
	}
	return b.String()
}

func statsText(rep *pipeline.Report) string {
	if rep.Frame.NumRows() == 0 {
		return "The dataset has no rows, so every statistic is undefined (NaN)."
	}
	var b strings.Builder
	b.WriteString("Descriptive statistics were computed for every field: _mean, median, mode, standard deviation, variance, range and quartiles_.")
	for _, r := range rep.Summary {
		if r.Column == "Age" {
			fmt.Fprintf(&b, " Patients are **%s** years old on average (youngest %s, oldest %s).", analysis.FormatStat(r.Mean), analysis.FormatStat(r.Min), analysis.FormatStat(r.Max))
		}
		if r.Column == rep.Encoding.Column && len(rep.Encoding.Labels) > 0 {
			fmt.Fprintf(&b, " The encoded severity averages **%s** on a 0 to %d scale.", analysis.FormatStat(r.Mean), len(rep.Encoding.Labels)-1)
		}
	}
	return b.String()
}

func countsText(field string, counts []analysis.ValueCount) string {
	if len(counts) == 0 {
		return ""
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s %s: **%d** (%.1f%%)", field, analysis.FormatStat(c.Value), c.Count, c.Share*100)
	}
	return strings.Join(parts, "; ") + "."
}

func crossTabText(ct analysis.CountTable, enc dataset.Encoding) string {
	if len(ct.Rows) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Severity codes: %s. ", encodingSentence(enc))
	for i, row := range ct.Rows {
		best, bestCount := 0, -1
		for j, c := range ct.Counts[i] {
			if c > bestCount {
				best, bestCount = j, c
			}
		}
		label := analysis.FormatStat(ct.Hues[best])
		if l, ok := enc.Label(int(ct.Hues[best])); ok {
			label = l
		}
		fmt.Fprintf(&b, "For %s %s the most common severity is **%s** (%d patients). ", ct.RowField, analysis.FormatStat(row), label, bestCount)
	}
	return strings.TrimSpace(b.String())
}
