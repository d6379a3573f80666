package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hearth-labs/hearth-cli/internal/adapters/driven/storage/sqlite"
	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/services"
	"github.com/hearth-labs/hearth-cli/internal/logger"
)

var (
	flagWatchOut  string
	flagWatchMode string
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Translate source documents as they appear in a directory",
	Long: `Watch an intake directory and translate each new .h2k file after it
settles. Runs until interrupted. Outcomes are appended to the same results
database the batch runner uses.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir := settings.OutputDir
		if flagWatchOut != "" {
			outputDir = flagWatchOut
		}

		m := settings.Mode
		if flagWatchMode != "" {
			m = flagWatchMode
		}
		mode := domain.TranslationMode(m)
		if !mode.IsValid() {
			return fmt.Errorf("unknown mode %q (expected as_built or reference)", m)
		}

		reg, err := loadMappings()
		if err != nil {
			return err
		}

		log := logger.L()
		translator := services.NewTranslationService(reg, mode, log)
		watcher := services.NewWatchService(translator, sqlite.Open, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (Ctrl-C to stop)\n", args[0])
		return watcher.Watch(ctx, args[0], outputDir)
	},
}

func init() {
	watchCmd.Flags().StringVarP(&flagWatchOut, "out", "o", "",
		"output directory for target documents and the results database")
	watchCmd.Flags().StringVarP(&flagWatchMode, "mode", "m", "",
		"translation mode: as_built or reference")
	rootCmd.AddCommand(watchCmd)
}
