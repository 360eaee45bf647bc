// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trial-monitor/internal/history"
	"github.com/pdiddy/trial-monitor/internal/report"
	"github.com/pdiddy/trial-monitor/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the run-history database (record, changes, export)",
	Long: `History manages a local SQLite database of recorded pipeline runs. Use
subcommands to record a saved results file, list phase and status changes
between the two most recent runs of a sheet, or export the latest runs.`,
}

// --- record subcommand ---

var historyRecordCmd = &cobra.Command{
	Use:   "record <results.yaml>",
	Short: "Record a saved results file as a new run",
	Long: `Record reads a YAML results file (written by process --results-file) and
stores each of its sheets as a new run in the history database.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryRecord,
}

func runHistoryRecord(cmd *cobra.Command, args []string) error {
	rf, err := report.ReadResults(args[0])
	if err != nil {
		return err
	}

	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	for _, sheet := range rf.Sheets {
		if _, err := store.Record(cmd.Context(), sheet.Name, sheet.Trials, args[0]); err != nil {
			return err
		}
		fmt.Printf("recorded %s (%d trials)\n", sheet.Name, len(sheet.Trials))
	}
	return nil
}

// --- changes subcommand ---

var historyChangesCmd = &cobra.Command{
	Use:   "changes <sheet>",
	Short: "Show phase and status movement since the previous run",
	Long: `Changes compares the sheet's two most recent recorded runs and lists
trials whose registry phase or overall status moved, plus trials that
appeared for the first time.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryChanges,
}

func runHistoryChanges(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	changes, err := store.Changes(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println("No changes.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-30s  %-8s  %-20s  %s\n",
		"NCT Number", "Product", "Field", "Previous", "Current")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, c := range changes {
		product := c.ProductName
		if len(product) > 30 {
			product = product[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-30s  %-8s  %-20s  %s\n",
			c.NCTNumber, product, c.Field, c.Previous, c.Current)
	}
	fmt.Fprintf(os.Stdout, "\n%d changes\n", len(changes))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the latest run per sheet to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Exported to export.yaml")
	case "json":
		if err := store.ExportJSON(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Exported to export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

func historyConfig(cmd *cobra.Command) types.HistoryConfig {
	historyDir, _ := cmd.Flags().GetString("history-dir")
	if historyDir == "" {
		historyDir = viper.GetString("history.history_dir")
	}
	if historyDir == "" {
		historyDir = "history"
	}
	return types.HistoryConfig{HistoryDir: historyDir}
}

func init() {
	historyCmd.PersistentFlags().String("history-dir", "", "history database directory (default: history)")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyRecordCmd)
	historyCmd.AddCommand(historyChangesCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
