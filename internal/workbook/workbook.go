// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook reads input Excel workbooks and resolves the columns
// the pipeline needs.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

// Column labels recognized in input sheets. The ID labels are matched by
// substring because source sheets decorate them ("TC Scrape Number
// (Duplicates Removed)").
const (
	colProductName   = "Product Name"
	colOriginalPhase = "Original Phase"
)

var idColumnLabels = []string{"TC Scrape Number", "bioTRAK Product ID"}

// Sheet is one input sheet: a header row and its data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Workbook holds all sheets of an input file in workbook order.
type Workbook struct {
	Path   string
	Sheets []Sheet
}

// Load reads every sheet of the workbook at path. The first row of each
// sheet is its header. A workbook that cannot be opened or read is a
// sheet-level fatal error for the whole run.
func Load(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &Workbook{Path: path}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}

		sheet := Sheet{Name: name}
		if len(rows) > 0 {
			sheet.Headers = rows[0]
			sheet.Rows = rows[1:]
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// FindIDColumn resolves the sheet's external-ID column by substring
// match against the recognized labels. The second return value reports
// whether a match was found; without one the sheet must not be
// processed.
func FindIDColumn(headers []string) (string, bool) {
	for _, label := range idColumnLabels {
		for _, h := range headers {
			if strings.Contains(h, label) {
				return h, true
			}
		}
	}
	return "", false
}

// Validate checks that the sheet carries the required columns: an
// ID-bearing column plus Product Name and Original Phase (both matched
// by substring, like the ID labels).
func (s Sheet) Validate() error {
	if _, ok := FindIDColumn(s.Headers); !ok {
		return fmt.Errorf("sheet %q must contain one of: %s",
			s.Name, strings.Join(idColumnLabels, ", "))
	}
	for _, required := range []string{colProductName, colOriginalPhase} {
		if columnIndex(s.Headers, required) < 0 {
			return fmt.Errorf("sheet %q is missing required column %q", s.Name, required)
		}
	}
	return nil
}

// InputRows converts the sheet's data rows into pipeline input. The
// caller must have validated the sheet first. Rows with an empty product
// name carry no searchable term and are dropped here; rows with an
// empty external ID are kept so the pipeline can log the skip.
func (s Sheet) InputRows() ([]types.InputRow, error) {
	idHeader, ok := FindIDColumn(s.Headers)
	if !ok {
		return nil, fmt.Errorf("sheet %q has no ID column", s.Name)
	}
	idIdx := columnIndex(s.Headers, idHeader)
	productIdx := columnIndex(s.Headers, colProductName)
	phaseIdx := columnIndex(s.Headers, colOriginalPhase)
	if productIdx < 0 || phaseIdx < 0 {
		return nil, fmt.Errorf("sheet %q is missing required columns", s.Name)
	}

	var rows []types.InputRow
	for i, cells := range s.Rows {
		product := strings.TrimSpace(cell(cells, productIdx))
		if product == "" {
			continue
		}
		rows = append(rows, types.InputRow{
			ProductName:   product,
			ExternalID:    strings.TrimSpace(cell(cells, idIdx)),
			OriginalPhase: cell(cells, phaseIdx),
			SheetRow:      i + 2, // 1-based, after the header row
		})
	}
	return rows, nil
}

// columnIndex returns the index of the first header containing label,
// or -1.
func columnIndex(headers []string, label string) int {
	for i, h := range headers {
		if strings.Contains(h, label) {
			return i
		}
	}
	return -1
}

// cell returns cells[i], tolerating the short rows excelize produces
// when trailing cells are empty.
func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
