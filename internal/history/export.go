// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

// ExportEntry holds the latest recorded run for one sheet.
type ExportEntry struct {
	Sheet      string        `json:"sheet" yaml:"sheet"`
	RecordedAt time.Time     `json:"recorded_at" yaml:"recorded_at"`
	Trials     []types.Trial `json:"trials" yaml:"trials"`
}

// ExportYAML writes the latest run per sheet to historyDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.historyDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the latest run per sheet to historyDir/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.historyDir, "export.json"), data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	// Latest run per sheet.
	rows, err := s.db.QueryContext(ctx,
		`SELECT sheet, MAX(id), recorded_at FROM runs GROUP BY sheet ORDER BY sheet`)
	if err != nil {
		return nil, fmt.Errorf("querying latest runs: %w", err)
	}
	defer rows.Close()

	type latestRun struct {
		sheet      string
		runID      int64
		recordedAt string
	}
	var latest []latestRun
	for rows.Next() {
		var lr latestRun
		if err := rows.Scan(&lr.sheet, &lr.runID, &lr.recordedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		latest = append(latest, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var entries []ExportEntry
	for _, lr := range latest {
		trials, _, err := s.runTrialsOrdered(ctx, lr.runID)
		if err != nil {
			return nil, err
		}
		entry := ExportEntry{Sheet: lr.sheet, Trials: trials}
		if t, parseErr := time.Parse(time.RFC3339, lr.recordedAt); parseErr == nil {
			entry.RecordedAt = t
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
