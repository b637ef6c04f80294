package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/cancerlens/internal/analysis"
)

var previewRows int

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Show the first rows of the prepared dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := buildReport(cmd.Context(), args)
		if err != nil {
			return err
		}
		n := cfg.PreviewRows
		if cmd.Flags().Changed("rows") {
			if previewRows < 0 {
				return fmt.Errorf("invalid --rows: %d", previewRows)
			}
			n = previewRows
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d rows, %d columns\n\n", rep.Source, rep.Frame.NumRows(), rep.Frame.NumCols())
		fmt.Fprint(out, analysis.PreviewMarkdown(rep.Frame.Columns, rep.Frame.Head(n)))
		if len(rep.Encoding.Labels) > 0 {
			fmt.Fprintf(out, "\n%s encoding:", rep.Encoding.Column)
			for code, label := range rep.Encoding.Labels {
				fmt.Fprintf(out, " %s=%d", label, code)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", 5, "number of rows to show (default from config)")
}
