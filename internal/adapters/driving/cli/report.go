package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hearth-labs/hearth-cli/internal/adapters/driven/storage/sqlite"
)

var (
	flagReportOut   string
	flagReportLimit int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise the results database of an output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir := settings.OutputDir
		if flagReportOut != "" {
			outputDir = flagReportOut
		}

		store, err := sqlite.NewOutcomeStore(outputDir)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		summary, err := store.Summary(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Records:   %d\n", summary.Total)
		fmt.Fprintf(out, "Succeeded: %d\n", summary.Succeeded)
		fmt.Fprintf(out, "Failed:    %d\n", summary.Failed)

		if summary.Failed > 0 {
			byCat, err := store.FailuresByCategory(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Failures by category:")
			cats := make([]string, 0, len(byCat))
			for c := range byCat {
				cats = append(cats, c)
			}
			sort.Strings(cats)
			for _, c := range cats {
				fmt.Fprintf(out, "  %-12s %d\n", c, byCat[c])
			}
		}

		if flagReportLimit > 0 {
			records, err := store.List(ctx, flagReportLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Most recent:")
			for _, rec := range records {
				line := fmt.Sprintf("  %-7s %s", rec.Status, rec.Filename)
				if rec.ErrorType != nil {
					line += " (" + *rec.ErrorType + ")"
				}
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "",
		"output directory holding the results database")
	reportCmd.Flags().IntVarP(&flagReportLimit, "limit", "n", 0,
		"also list the N most recent records")
	rootCmd.AddCommand(reportCmd)
}
