package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itaxotools/abcd-validator/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	Long: `Displays the effective configuration.

Configuration is read from ` + "`" + `config.yaml` + "`" + ` in the user config
directory, with ABCD_VALIDATOR_* environment variables taking
precedence. Use "config init" to write a default configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("converter.verbose: %t\n", cfg.Converter.Verbose)
		fmt.Printf("converter.out_file: %s\n", cfg.Converter.OutFile)
		fmt.Printf("watch.enabled: %t\n", cfg.Watch.Enabled)
		fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
		fmt.Printf("history.keep_days: %d\n", cfg.History.KeepDays)
		fmt.Printf("\nConfig file: %s\n", config.UserConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.UserConfigPath()
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
