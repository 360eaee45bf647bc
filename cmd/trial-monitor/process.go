// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trial-monitor/internal/history"
	"github.com/pdiddy/trial-monitor/internal/httputil"
	"github.com/pdiddy/trial-monitor/internal/pipeline"
	"github.com/pdiddy/trial-monitor/internal/registry"
	"github.com/pdiddy/trial-monitor/internal/report"
	"github.com/pdiddy/trial-monitor/internal/workbook"
	"github.com/pdiddy/trial-monitor/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process <workbook.xlsx>",
	Short: "Run the trial-matching pipeline over an input workbook",
	Long: `Process loads every sheet of the workbook, validates its columns, queries
the registry for each product row, and writes a timestamped Excel report
with one deduplicated sheet per valid input sheet.

A sheet missing its ID column ("TC Scrape Number" or "bioTRAK Product ID")
or the Product Name / Original Phase columns is reported and skipped; the
remaining sheets still run.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("out-dir", "", "directory for the output workbook (default: output)")
	processCmd.Flags().String("sheets", "", "comma-separated sheet names to process (default: all)")
	processCmd.Flags().Int("page-size", 0, "registry page size (default: 1000)")
	processCmd.Flags().Duration("timeout", 0, "per-request HTTP timeout (default: 30s)")
	processCmd.Flags().String("results-file", "", "also save results to this YAML file")
	processCmd.Flags().Bool("record", false, "record the run into the history database")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	cfg := loadConfig(cmd)

	wb, err := workbook.Load(inputPath)
	if err != nil {
		return err
	}

	selected := selectedSheets(cmd, wb)
	if len(selected) == 0 {
		return fmt.Errorf("no sheets selected in %s", inputPath)
	}

	client := registry.NewClient(httputil.NewClient(cfg.Registry.HTTPConfig), cfg.Registry)

	results := make(map[string][]types.Trial)
	var order []string
	for _, sheet := range selected {
		if err := sheet.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v (sheet skipped)\n", err)
			continue
		}
		rows, err := sheet.InputRows()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v (sheet skipped)\n", err)
			continue
		}

		fmt.Printf("Processing sheet %q (%d rows)\n", sheet.Name, len(rows))
		trials, err := pipeline.ProcessSheet(cmd.Context(), rows, client, os.Stdout)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("cancelled during sheet %q", sheet.Name)
			}
			return err
		}
		results[sheet.Name] = trials
		order = append(order, sheet.Name)
	}

	if len(order) == 0 {
		return fmt.Errorf("no valid sheets in %s", inputPath)
	}

	if err := os.MkdirAll(cfg.Report.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outPath := report.OutputPath(cfg.Report.OutDir, time.Now())
	if err := report.Write(results, order, outPath); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", outPath)

	if resultsFile, _ := cmd.Flags().GetString("results-file"); resultsFile != "" {
		if err := report.WriteResults(resultsFile, inputPath, results, order); err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", resultsFile)
	}

	if record, _ := cmd.Flags().GetBool("record"); record {
		if err := recordRun(cmd.Context(), cfg.History, results, order, inputPath); err != nil {
			return err
		}
		fmt.Printf("Run recorded in %s\n", cfg.History.HistoryDir)
	}

	return nil
}

// recordRun stores each sheet's deduplicated trials as a history run.
func recordRun(ctx context.Context, cfg types.HistoryConfig, results map[string][]types.Trial, order []string, sourceFile string) error {
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, name := range order {
		if _, err := store.Record(ctx, name, report.Dedup(results[name]), sourceFile); err != nil {
			return err
		}
	}
	return nil
}

// selectedSheets returns the sheets named by --sheets, or all of them.
func selectedSheets(cmd *cobra.Command, wb *workbook.Workbook) []workbook.Sheet {
	names, _ := cmd.Flags().GetString("sheets")
	if names == "" {
		return wb.Sheets
	}

	wanted := make(map[string]struct{})
	for _, n := range strings.Split(names, ",") {
		wanted[strings.TrimSpace(n)] = struct{}{}
	}

	var selected []workbook.Sheet
	for _, s := range wb.Sheets {
		if _, ok := wanted[s.Name]; ok {
			selected = append(selected, s)
		}
	}
	return selected
}

// loadConfig merges flags over config-file and environment settings.
func loadConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Registry: types.RegistryConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("registry.timeout"),
				UserAgent: viper.GetString("registry.user_agent"),
			},
			BaseURL:  viper.GetString("registry.base_url"),
			PageSize: viper.GetInt("registry.page_size"),
		},
		Report:  types.ReportConfig{OutDir: viper.GetString("report.out_dir")},
		History: types.HistoryConfig{HistoryDir: viper.GetString("history.history_dir")},
	}

	if pageSize, _ := cmd.Flags().GetInt("page-size"); pageSize > 0 {
		cfg.Registry.PageSize = pageSize
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Registry.Timeout = timeout
	}
	if outDir, _ := cmd.Flags().GetString("out-dir"); outDir != "" {
		cfg.Report.OutDir = outDir
	}
	if cfg.Report.OutDir == "" {
		cfg.Report.OutDir = "output"
	}
	if cfg.History.HistoryDir == "" {
		cfg.History.HistoryDir = "history"
	}
	return cfg
}
