// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

func trial(nctID, product string) types.Trial {
	return types.Trial{
		IDValue:     "P1",
		ProductName: product,
		NCTNumber:   nctID,
		SponsorName: "Acme",
		Status:      "RECRUITING",
	}
}

func TestDedup_FirstOccurrenceWins(t *testing.T) {
	in := []types.Trial{
		trial("NCT001", "Aspirin"),
		trial("NCT002", "Aspirin"),
		trial("NCT001", "Ibuprofen"), // same trial matched by another product
		trial("NCT003", "Ibuprofen"),
		trial("NCT002", "Paracetamol"),
	}

	out := Dedup(in)
	require.Len(t, out, 3)
	assert.Equal(t, "NCT001", out[0].NCTNumber)
	assert.Equal(t, "Aspirin", out[0].ProductName, "first occurrence must survive")
	assert.Equal(t, "NCT002", out[1].NCTNumber)
	assert.Equal(t, "NCT003", out[2].NCTNumber)
}

func TestDedup_Idempotent(t *testing.T) {
	in := []types.Trial{trial("NCT001", "Aspirin"), trial("NCT001", "Aspirin")}
	once := Dedup(in)
	twice := Dedup(once)
	assert.Equal(t, once, twice)
}

func TestDedup_Empty(t *testing.T) {
	assert.Empty(t, Dedup(nil))
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)
	got := OutputPath("out", now)
	assert.Equal(t, filepath.Join("out", "trial_report_20260829_143005.xlsx"), got)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	sheets := map[string][]types.Trial{
		"Products": {
			trial("NCT001", "Aspirin"),
			trial("NCT001", "Aspirin"), // duplicate, removed on write
			trial("NCT002", "Ibuprofen"),
		},
		"Empty": nil,
	}

	require.NoError(t, Write(sheets, []string{"Products", "Empty"}, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Products", "Empty"}, f.GetSheetList())

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two deduplicated trials")
	assert.Equal(t, types.TrialHeader(), rows[0])
	assert.Equal(t, "NCT001", rows[1][5])
	assert.Equal(t, "NCT002", rows[2][5])

	// An empty sheet still carries its header row.
	emptyRows, err := f.GetRows("Empty")
	require.NoError(t, err)
	require.Len(t, emptyRows, 1)
	assert.Equal(t, types.TrialHeader(), emptyRows[0])
}

func TestWrite_NoSheets(t *testing.T) {
	err := Write(nil, nil, filepath.Join(t.TempDir(), "report.xlsx"))
	require.Error(t, err)
}

func TestResultsFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")
	sheets := map[string][]types.Trial{
		"Products": {trial("NCT001", "Aspirin"), trial("NCT001", "Aspirin")},
	}

	require.NoError(t, WriteResults(path, "input.xlsx", sheets, []string{"Products"}))

	rf, err := ReadResults(path)
	require.NoError(t, err)
	assert.Equal(t, "input.xlsx", rf.Workbook)
	require.Len(t, rf.Sheets, 1)
	assert.Equal(t, "Products", rf.Sheets[0].Name)
	require.Len(t, rf.Sheets[0].Trials, 1, "results file dedups like the report")
	assert.Equal(t, 1, rf.Summary.Trials)
	assert.False(t, rf.Summary.Timestamp.IsZero())
}
