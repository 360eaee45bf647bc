// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes matched trials to Excel workbooks and YAML
// results files.
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

// Dedup removes later duplicates of the same NCT number, preserving
// input order. The same trial may match several products; the report
// keeps the first occurrence per sheet.
func Dedup(trials []types.Trial) []types.Trial {
	seen := make(map[string]struct{}, len(trials))
	deduped := make([]types.Trial, 0, len(trials))
	for _, t := range trials {
		if _, ok := seen[t.NCTNumber]; ok {
			continue
		}
		seen[t.NCTNumber] = struct{}{}
		deduped = append(deduped, t)
	}
	return deduped
}

// OutputPath returns the timestamped workbook path inside outDir.
func OutputPath(outDir string, now time.Time) string {
	return filepath.Join(outDir, fmt.Sprintf("trial_report_%s.xlsx", now.Format("20060102_150405")))
}

// Write deduplicates each sheet's trials and saves the workbook to path.
// Sheets are emitted in the given order with the sheet names of the
// input workbook. A sheet with no surviving trials is still written
// with its header row, so the output shape always mirrors the input.
// The workbook is assembled fully in memory and flushed once; a write
// failure leaves no partial file behind beyond what the filesystem
// itself does.
func Write(sheets map[string][]types.Trial, order []string, path string) error {
	if len(order) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("creating sheet %q: %w", name, err)
			}
		}

		if err := setRow(f, name, 1, types.TrialHeader()); err != nil {
			return err
		}
		for j, trial := range Dedup(sheets[name]) {
			if err := setRow(f, name, j+2, trial.Row()); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
		return fmt.Errorf("writing row %d of sheet %q: %w", row, sheet, err)
	}
	return nil
}
