// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFindIDColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    string
		wantOK  bool
	}{
		{"exact scrape number", []string{"Product Name", "TC Scrape Number"}, "TC Scrape Number", true},
		{"decorated scrape number", []string{"TC Scrape Number (Duplicates Removed)"}, "TC Scrape Number (Duplicates Removed)", true},
		{"biotrak id", []string{"Product Name", "bioTRAK Product ID"}, "bioTRAK Product ID", true},
		{"scrape number preferred over biotrak", []string{"bioTRAK Product ID", "TC Scrape Number"}, "TC Scrape Number", true},
		{"no id column", []string{"Product Name", "Original Phase"}, "", false},
		{"empty headers", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindIDColumn(tt.headers)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		wantErr string
	}{
		{"valid", []string{"Product Name", "Original Phase", "TC Scrape Number"}, ""},
		{"substring-matched columns", []string{"Product Name (INN)", "Original Phase*", "bioTRAK Product ID v2"}, ""},
		{"no id column", []string{"Product Name", "Original Phase"}, "must contain one of"},
		{"no product name", []string{"Original Phase", "TC Scrape Number"}, "Product Name"},
		{"no original phase", []string{"Product Name", "TC Scrape Number"}, "Original Phase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Sheet{Name: "S1", Headers: tt.headers}.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestInputRows(t *testing.T) {
	sheet := Sheet{
		Name:    "Products",
		Headers: []string{"Product Name", "Original Phase", "TC Scrape Number", "Notes"},
		Rows: [][]string{
			{"Aspirin", "II", "P1", "note"},
			{"  Ibuprofen  ", "III", "P2"}, // short row, trailing cell omitted
			{"", "II", "P3"},               // no product name: dropped
			{"Paracetamol", "I"},           // no ID: kept, pipeline logs the skip
		},
	}

	rows, err := sheet.InputRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Aspirin", rows[0].ProductName)
	assert.Equal(t, "P1", rows[0].ExternalID)
	assert.Equal(t, "II", rows[0].OriginalPhase)
	assert.Equal(t, 2, rows[0].SheetRow)

	assert.Equal(t, "Ibuprofen", rows[1].ProductName, "product name should be trimmed")
	assert.Equal(t, "P2", rows[1].ExternalID)

	assert.Equal(t, "Paracetamol", rows[2].ProductName)
	assert.Empty(t, rows[2].ExternalID)
	assert.Equal(t, 5, rows[2].SheetRow)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Products"))
	require.NoError(t, f.SetSheetRow("Products", "A1",
		&[]interface{}{"Product Name", "Original Phase", "TC Scrape Number"}))
	require.NoError(t, f.SetSheetRow("Products", "A2",
		&[]interface{}{"Aspirin", "II", "P1"}))
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Load(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	products := wb.Sheets[0]
	assert.Equal(t, "Products", products.Name)
	assert.Equal(t, []string{"Product Name", "Original Phase", "TC Scrape Number"}, products.Headers)
	require.Len(t, products.Rows, 1)
	assert.Equal(t, "Aspirin", products.Rows[0][0])

	empty := wb.Sheets[1]
	assert.Equal(t, "Empty", empty.Name)
	assert.Empty(t, empty.Headers)
	assert.Empty(t, empty.Rows)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening workbook")
}
