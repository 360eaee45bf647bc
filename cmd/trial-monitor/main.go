// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trial-monitor CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the trial-monitor CLI.
var rootCmd = &cobra.Command{
	Use:   "trial-monitor",
	Short: "Match product sheets against the ClinicalTrials.gov registry",
	Long: `trial-monitor reads an Excel workbook of pharmaceutical products, searches
the ClinicalTrials.gov registry for each product, keeps studies with sites
in the US, Canada, or Europe, and writes a deduplicated Excel report with
one sheet per input sheet.

Runs can be recorded into a local history database; the history subcommand
reports phase and status movement between runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trial-monitor.yaml or ~/.config/trial-monitor/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trial-monitor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trial-monitor"))
		}
	}

	viper.SetEnvPrefix("TRIAL_MONITOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	// Interrupt cancels between rows, never mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
