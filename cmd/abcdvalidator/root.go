package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/itaxotools/abcd-validator/internal/config"
	"github.com/itaxotools/abcd-validator/internal/converter"
	"github.com/itaxotools/abcd-validator/internal/history"
	"github.com/itaxotools/abcd-validator/internal/session"
	"github.com/itaxotools/abcd-validator/internal/tui"
	"github.com/itaxotools/abcd-validator/internal/watcher"
)

var (
	flagSpecimenFile     string
	flagMeasurementFile  string
	flagMultimediaFile   string
	flagMultimediaFolder string
)

var rootCmd = &cobra.Command{
	Use:   "abcdvalidator",
	Short: "Validate biodiversity data tables against the ABCD schema",
	Long: `Validates specimen, measurement and multimedia tables against the
ABCD (Access to Biological Collection Data) schema and reports every
problem found as a warning or error.

With no arguments, launches the interactive interface where inputs can
be browsed and selected. Any path supplied on the command line
pre-populates the corresponding selection.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagSpecimenFile, "specimen-file", "s", "", "Path to the specimen table")
	rootCmd.PersistentFlags().StringVarP(&flagMeasurementFile, "measurement-file", "m", "", "Path to the measurement table")
	rootCmd.PersistentFlags().StringVarP(&flagMultimediaFile, "multimedia-file", "x", "", "Path to the multimedia table")
	rootCmd.PersistentFlags().StringVarP(&flagMultimediaFolder, "multimedia-folder", "f", "", "Path to the folder holding the multimedia files")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// newSession builds a session from the loaded configuration and the
// command-line path flags. The returned store is nil when history is
// disabled or unavailable.
func newSession(cfg *config.Config, extra ...session.Option) (*session.Session, *history.Store) {
	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = history.Open(history.DefaultPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: run history unavailable: %v\n", err)
			store = nil
		} else if cfg.History.KeepDays > 0 {
			store.Prune(time.Duration(cfg.History.KeepDays) * 24 * time.Hour)
		}
	}

	opts := []session.Option{
		session.WithConverterOutput(cfg.Converter.Verbose, cfg.Converter.OutFile),
	}
	if store != nil {
		opts = append(opts, session.WithHistory(store))
	}
	opts = append(opts, extra...)

	s := session.New(converter.NewCSV(), opts...)
	s.SetPaths(flagSpecimenFile, flagMeasurementFile, flagMultimediaFile, flagMultimediaFolder)
	return s, store
}

// runInteractive launches the TUI.
func runInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Terminal output belongs to the TUI; session troubleshooting goes to a
	// file under the user data dir.
	debug, err := session.NewDebugLogger(session.DefaultDebugLogPath())
	if err != nil {
		debug = session.NopLogger()
	}
	defer debug.Close()

	s, store := newSession(cfg, session.WithDebugLogger(debug))
	defer s.Close()
	if store != nil {
		defer store.Close()
	}

	var w *watcher.Watcher
	if cfg.Watch.Enabled {
		w, err = watcher.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: input watching unavailable: %v\n", err)
		} else {
			defer w.Close()
			paths := make([]string, 0, 4)
			for _, p := range s.PathProperties() {
				paths = append(paths, p.Get())
			}
			w.SetPaths(paths)
		}
	}

	return tui.Run(s, w, cfg.TUI.Glyphs)
}
