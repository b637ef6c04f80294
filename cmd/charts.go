package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cancerlens/internal/analysis"
	"github.com/KaramelBytes/cancerlens/internal/pipeline"
	"github.com/KaramelBytes/cancerlens/internal/utils"
)

var (
	chartKind  string
	chartField string
	chartGroup string
	chartValue string
	chartRow   string
	chartHue   string
	chartX     string
	chartY     string
	chartBins  int
)

var chartsCmd = &cobra.Command{
	Use:   "charts [file]",
	Short: "Emit chart data (histogram, counts, box, crosstab, pair) as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToLower(strings.TrimSpace(chartKind))
		if err := checkChartFlags(kind); err != nil {
			return err
		}
		rep, err := buildReport(cmd.Context(), args)
		if err != nil {
			return err
		}
		v, err := chartData(rep, kind)
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func checkChartFlags(kind string) error {
	need := map[string][]string{
		"histogram": {"field"},
		"counts":    {"field"},
		"box":       {"group", "value"},
		"crosstab":  {"row", "hue"},
		"pair":      {"x", "y"},
	}
	flags, ok := need[kind]
	if !ok {
		return fmt.Errorf("unsupported --kind: %s (use histogram|counts|box|crosstab|pair)", chartKind)
	}
	vals := map[string]string{
		"field": chartField, "group": chartGroup, "value": chartValue,
		"row": chartRow, "hue": chartHue, "x": chartX, "y": chartY,
	}
	for _, f := range flags {
		if vals[f] == "" {
			return fmt.Errorf("--kind %s requires --%s", kind, f)
		}
	}
	return nil
}

func chartData(rep *pipeline.Report, kind string) (any, error) {
	switch kind {
	case "histogram":
		vals, err := rep.Frame.Column(chartField)
		if err != nil {
			return nil, err
		}
		bins := chartBins
		if bins <= 0 {
			bins = cfg.HistogramBins
		}
		return analysis.BuildHistogram(chartField, vals, bins), nil
	case "counts":
		vals, err := rep.Frame.Column(chartField)
		if err != nil {
			return nil, err
		}
		return map[string]any{"field": chartField, "counts": analysis.ValueCounts(vals)}, nil
	case "box":
		boxes, err := analysis.GroupBox(rep.Frame, chartGroup, chartValue)
		if err != nil {
			return nil, err
		}
		return map[string]any{"group": chartGroup, "value": chartValue, "boxes": boxes}, nil
	case "crosstab":
		return analysis.CrossTab(rep.Frame, chartRow, chartHue)
	default:
		p, err := analysis.Pair(rep.Frame, chartX, chartY)
		if err != nil {
			return nil, fmt.Errorf("pair %s/%s: %w", chartX, chartY, err)
		}
		return p, nil
	}
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	f := chartsCmd.Flags()
	f.StringVarP(&chartKind, "kind", "k", "", "chart: histogram | counts | box | crosstab | pair")
	f.StringVar(&chartField, "field", "", "histogram/counts: column to chart")
	f.StringVar(&chartGroup, "group", "", "box: grouping column")
	f.StringVar(&chartValue, "value", "", "box: value column")
	f.StringVar(&chartRow, "row", "", "crosstab: row column")
	f.StringVar(&chartHue, "hue", "", "crosstab: hue column")
	f.StringVar(&chartX, "x", "", "pair: x column")
	f.StringVar(&chartY, "y", "", "pair: y column")
	f.IntVar(&chartBins, "bins", 0, "histogram: number of bins (default from config)")
}
