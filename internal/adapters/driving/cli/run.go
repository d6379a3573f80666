package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearth-labs/hearth-cli/internal/adapters/driven/storage/sqlite"
	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/services"
	"github.com/hearth-labs/hearth-cli/internal/logger"
)

var (
	flagRunOut     string
	flagRunWorkers int
	flagRunMode    string
)

var runCmd = &cobra.Command{
	Use:   "run [file|dir ...]",
	Short: "Translate source documents as a parallel batch",
	Long: `Translate the given .h2k files (directories are scanned recursively)
into HPXML documents. Outcomes are appended to processing_results.db in the
output directory; re-running over the same inputs appends fresh records and
regenerates the same target documents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	runCmd.Flags().StringVarP(&flagRunOut, "out", "o", "",
		"output directory for target documents and the results database")
	runCmd.Flags().IntVarP(&flagRunWorkers, "workers", "w", 0,
		"worker pool size (default: CPUs-1)")
	runCmd.Flags().StringVarP(&flagRunMode, "mode", "m", "",
		"translation mode: as_built or reference")
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	outputDir, workers, mode, err := runOptions(cmd)
	if err != nil {
		return err
	}

	// Mapping tables are validated in full before any document is touched.
	reg, err := loadMappings()
	if err != nil {
		return err
	}

	log := logger.L()
	translator := services.NewTranslationService(reg, mode, log)
	batch := services.NewBatchService(translator, sqlite.Open, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := batch.Status()
				if !st.Running {
					return
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "\rprocessed %d/%d (failed %d)",
					st.Processed, st.Total, st.Failed)
			}
		}
	}()

	summary, runErr := batch.Run(ctx, args, outputDir, workers)
	stop()
	<-progressDone
	fmt.Fprintln(cmd.ErrOrStderr())

	if summary != nil {
		printSummary(cmd, summary)
	}
	if runErr != nil {
		return runErr
	}
	if summary.Failed > 0 || summary.Unrecorded > 0 {
		return fmt.Errorf("%d document(s) failed, %d unrecorded",
			summary.Failed, summary.Unrecorded)
	}
	return nil
}

// runOptions resolves flags against the settings file; flags win.
func runOptions(cmd *cobra.Command) (outputDir string, workers int, mode domain.TranslationMode, err error) {
	outputDir = settings.OutputDir
	if flagRunOut != "" {
		outputDir = flagRunOut
	}

	workers = settings.Workers
	if cmd.Flags().Changed("workers") {
		workers = flagRunWorkers
	}

	m := settings.Mode
	if flagRunMode != "" {
		m = flagRunMode
	}
	mode = domain.TranslationMode(m)
	if !mode.IsValid() {
		return "", 0, "", fmt.Errorf("unknown mode %q (expected as_built or reference)", m)
	}
	return outputDir, workers, mode, nil
}

func printSummary(cmd *cobra.Command, s *domain.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Succeeded:  %d\n", s.Succeeded)
	fmt.Fprintf(out, "Failed:     %d\n", s.Failed)
	if s.Unrecorded > 0 {
		fmt.Fprintf(out, "Unrecorded: %d\n", s.Unrecorded)
	}
	if len(s.ByCategory) > 0 {
		fmt.Fprintln(out, "Failures by category:")
		cats := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(out, "  %-12s %d\n", c, s.ByCategory[c])
		}
	}
}
