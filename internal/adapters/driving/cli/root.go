// Package cli implements the hearth command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hearth-labs/hearth-cli/internal/adapters/driven/config/file"
	"github.com/hearth-labs/hearth-cli/internal/logger"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
)

var (
	// Persistent flags.
	flagVerbose    bool
	flagLogFile    string
	flagConfigPath string
	flagTablesDir  string

	// settings are loaded once per invocation, before any subcommand runs.
	settings file.Settings
)

// loadMappings returns the registry: the built-in embedded tables, or the
// tables in --tables when given. A malformed table is fatal here, before
// any document is touched.
func loadMappings() (*mappings.Registry, error) {
	if flagTablesDir != "" {
		return mappings.Load(os.DirFS(flagTablesDir))
	}
	return mappings.Default()
}

var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "Translate H2K building models to HPXML",
	Long: `hearth translates HOT2000 (.h2k) building energy models into HPXML
documents for downstream simulation, either one at a time, as a parallel
batch, or continuously from a watched intake directory. Every processed
document leaves exactly one outcome record in a SQLite results database
next to the generated output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = file.Load(flagConfigPath)
		if err != nil {
			return err
		}

		level := "info"
		if flagVerbose {
			level = "debug"
		}
		logFile := settings.LogFile
		if flagLogFile != "" {
			logFile = flagLogFile
		}
		logger.Init(logger.Config{
			Level:      level,
			LogFile:    logFile,
			MaxSizeMB:  settings.MaxSizeMB,
			MaxBackups: settings.MaxBackups,
			MaxAgeDays: settings.MaxAgeDays,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "",
		"write rotated JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "",
		"settings file (default: ./hearth.toml, then user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagTablesDir, "tables", "",
		"directory of mapping tables overriding the built-in set")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
