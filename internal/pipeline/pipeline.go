// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline matches input product rows against registry studies.
// For each row it drives the registry client, keeps studies with sites
// in the monitored regions, and flattens them into report records.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/trial-monitor/internal/registry"
	"github.com/pdiddy/trial-monitor/pkg/types"
)

// Fetcher retrieves all studies matching a search term. Implemented by
// registry.Client; tests substitute a mock.
type Fetcher interface {
	FetchStudies(ctx context.Context, term string) ([]registry.Study, error)
}

// ProcessSheet runs the pipeline over one sheet's rows, in input order,
// and returns every matched trial. Progress and absorbed errors are
// written to w. Error handling follows a strict hierarchy: a row without
// an external ID is skipped with a warning; a study that fails
// normalization is dropped alone; a registry failure mid-search
// abandons the remaining pages for that row but keeps what arrived and
// moves on to the next row. Only context cancellation stops the sheet,
// and only at row boundaries.
func ProcessSheet(ctx context.Context, rows []types.InputRow, fetcher Fetcher, w io.Writer) ([]types.Trial, error) {
	var results []types.Trial

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		if row.ExternalID == "" {
			fmt.Fprintf(w, "warning: skipping row %d (%s): missing external ID\n",
				row.SheetRow, row.ProductName)
			continue
		}

		studies, err := fetcher.FetchStudies(ctx, row.ProductName)
		if err != nil {
			fmt.Fprintf(w, "error: search for %q stopped early: %v (keeping %d studies)\n",
				row.ProductName, err, len(studies))
		}

		matched := 0
		for _, st := range studies {
			if !IsRelevant(st.Countries()) {
				continue
			}
			trial, err := Normalize(st, row.ExternalID, row.ProductName, row.OriginalPhase)
			if err != nil {
				fmt.Fprintf(w, "error: dropping study for %q: %v\n", row.ProductName, err)
				continue
			}
			results = append(results, trial)
			matched++
		}
		fmt.Fprintf(w, "%s: %d studies, %d in monitored regions\n",
			row.ProductName, len(studies), matched)
	}

	return results, nil
}
