package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/itaxotools/abcd-validator/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent validation runs",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := history.Open(history.DefaultPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening run history: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
			os.Exit(1)
		}
		if len(runs) == 0 {
			fmt.Println("No validation runs recorded yet")
			return
		}

		ok := color.New(color.FgGreen)
		failed := color.New(color.FgRed)
		for _, run := range runs {
			verdict := failed.Sprintf("%d errors, %d warnings", run.Errors, run.Warnings)
			if run.Success {
				verdict = ok.Sprint("ok")
			}
			fmt.Printf("%s  %-30s  %s\n",
				run.StartedAt.Format("2006-01-02 15:04:05"),
				filepath.Base(run.SpecimenFile),
				verdict)
		}
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
}
