package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cancerlens/internal/analysis"
	"github.com/KaramelBytes/cancerlens/internal/utils"
)

var (
	descFormat     string
	descOutputPath string
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Print descriptive statistics for every prepared column",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(descFormat))
		switch format {
		case "", "md", "markdown":
			format = "markdown"
		case "csv", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|csv|json)", descFormat)
		}

		rep, err := buildReport(cmd.Context(), args)
		if err != nil {
			return err
		}

		var out []byte
		switch format {
		case "markdown":
			out = []byte(analysis.Markdown(rep.Summary))
		case "csv":
			var buf bytes.Buffer
			if err := analysis.WriteCSV(&buf, rep.Summary); err != nil {
				return err
			}
			out = buf.Bytes()
		case "json":
			b, err := utils.PrettyJSON(rep.Summary)
			if err != nil {
				return err
			}
			out = append(b, '\n')
		}

		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary of %d columns to %s\n", len(rep.Summary), descOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descFormat, "format", "f", "markdown", "output format: markdown | csv | json")
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary")
}
