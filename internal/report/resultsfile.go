// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

// ResultsFile is the on-disk YAML snapshot of one pipeline run. It can
// be inspected by hand or fed to `trial-monitor history record`.
type ResultsFile struct {
	Workbook string         `yaml:"workbook"`
	Sheets   []SheetResults `yaml:"sheets"`
	Summary  RunSummary     `yaml:"summary"`
}

// SheetResults holds one sheet's deduplicated trials.
type SheetResults struct {
	Name   string        `yaml:"name"`
	Trials []types.Trial `yaml:"trials"`
}

// RunSummary stores run statistics and a timestamp.
type RunSummary struct {
	Sheets    int       `yaml:"sheets"`
	Trials    int       `yaml:"trials"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResults saves the run's sheets to a YAML file at path. Trials are
// deduplicated the same way the Excel report is, so both outputs agree.
func WriteResults(path, workbook string, sheets map[string][]types.Trial, order []string) error {
	rf := ResultsFile{Workbook: workbook}
	total := 0
	for _, name := range order {
		trials := Dedup(sheets[name])
		total += len(trials)
		rf.Sheets = append(rf.Sheets, SheetResults{Name: name, Trials: trials})
	}
	rf.Summary = RunSummary{
		Sheets:    len(order),
		Trials:    total,
		Timestamp: time.Now(),
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results file %s: %w", path, err)
	}
	return nil
}

// ReadResults loads a results file written by WriteResults.
func ReadResults(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file %s: %w", path, err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file %s: %w", path, err)
	}
	return &rf, nil
}
