package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/itaxotools/abcd-validator/internal/config"
	"github.com/itaxotools/abcd-validator/pkg/models"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the given tables without the interactive interface",
	Long: `Runs one validation over the tables given by the path flags and
prints every diagnostic to the terminal.

All four paths are required. The multimedia folder defaults to the
directory of the multimedia table when not given explicitly.

Exits with a non-zero status when any diagnostics were reported.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "Also write the diagnostics to this file")
}

func runValidate() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s, store := newSession(cfg)
	defer s.Close()
	if store != nil {
		defer store.Close()
	}

	if !s.Ready.Get() {
		return fmt.Errorf("all of --specimen-file, --measurement-file and --multimedia-file are required")
	}
	if err := s.Start(); err != nil {
		return fmt.Errorf("start validation: %w", err)
	}

	res := <-s.Results()
	s.Finish(res)

	errorLine := color.New(color.FgRed)
	warningLine := color.New(color.FgYellow)
	for i := 0; i < s.Logs.Count(); i++ {
		entry := s.Logs.At(i)
		switch entry.Severity {
		case models.SeverityError:
			errorLine.Println(entry.String())
		case models.SeverityWarning:
			warningLine.Println(entry.String())
		default:
			fmt.Println(entry.String())
		}
	}

	if validateOutput != "" {
		if err := s.SaveLogs(validateOutput); err != nil {
			return fmt.Errorf("write diagnostics: %w", err)
		}
		fmt.Printf("Diagnostics written to %s\n", validateOutput)
	}

	if s.Logs.Count() > 0 {
		var warnings, errors int
		for i := 0; i < s.Logs.Count(); i++ {
			if s.Logs.At(i).Severity == models.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
		fmt.Printf("\nValidation completed: %d errors, %d warnings\n", errors, warnings)
		os.Exit(1)
	}

	color.New(color.FgGreen).Println("Validation completed with no issues")
	return nil
}
