// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the trial-monitor pipeline.
package types

import "strconv"

// InputRow is one product row read from an input sheet.
type InputRow struct {
	// ProductName is the intervention search term sent to the registry.
	ProductName string `json:"product_name" yaml:"product_name"`

	// ExternalID is the opaque identifier from the source sheet. Rows
	// without one are skipped with a warning.
	ExternalID string `json:"external_id" yaml:"external_id"`

	// OriginalPhase is passed through to the output unchanged.
	OriginalPhase string `json:"original_phase" yaml:"original_phase"`

	// SheetRow is the 1-based row number in the source sheet, kept for
	// log messages only.
	SheetRow int `json:"sheet_row,omitempty" yaml:"sheet_row,omitempty"`
}

// Trial is one normalized study record matched against an input row.
// Field order here defines the column order of the output report.
type Trial struct {
	// IDValue is the external identifier copied from the input row.
	IDValue string `json:"id_value" yaml:"id_value"`

	// ProductName is the search term that matched this study.
	ProductName string `json:"product_name" yaml:"product_name"`

	// RegistryProductName is the comma-joined intervention names as the
	// registry records them.
	RegistryProductName string `json:"registry_product_name" yaml:"registry_product_name"`

	// OriginalPhase is the phase label from the input row, untouched.
	OriginalPhase string `json:"original_phase" yaml:"original_phase"`

	// RegistryPhase is the first design phase the registry lists, or
	// "Not Available".
	RegistryPhase string `json:"registry_phase" yaml:"registry_phase"`

	// NCTNumber is the registry's unique study identifier and the
	// dedup key for the report.
	NCTNumber string `json:"nct_number" yaml:"nct_number"`

	// SponsorName is the lead sponsor's name.
	SponsorName string `json:"sponsor_name" yaml:"sponsor_name"`

	// Status is the overall recruitment status (e.g. "RECRUITING").
	Status string `json:"status" yaml:"status"`

	// Location is the comma-joined distinct country names of the
	// study's sites.
	Location string `json:"location" yaml:"location"`

	// StartDate and EndDate are the study start and completion dates as
	// the registry formats them, or "Not Available".
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`

	// IsFDARegulated reports whether the study involves an FDA-regulated
	// drug. Missing oversight data means false.
	IsFDARegulated bool `json:"is_fda_regulated" yaml:"is_fda_regulated"`

	// Conditions is the comma-joined condition names.
	Conditions string `json:"conditions" yaml:"conditions"`
}

// TrialHeader lists the report column names in output order.
func TrialHeader() []string {
	return []string{
		"ID",
		"Product Name",
		"Product Name on CT.gov",
		"Original Phase",
		"Phase on CT.gov",
		"NCT Number",
		"Sponsor Name",
		"Status on CT.gov",
		"Location on CT.gov",
		"Trial Start Date",
		"Trial End Date",
		"Is FDA Regulated Drug",
		"Conditions",
	}
}

// Row returns the trial's cell values in the same order as TrialHeader.
func (t Trial) Row() []string {
	return []string{
		t.IDValue,
		t.ProductName,
		t.RegistryProductName,
		t.OriginalPhase,
		t.RegistryPhase,
		t.NCTNumber,
		t.SponsorName,
		t.Status,
		t.Location,
		t.StartDate,
		t.EndDate,
		strconv.FormatBool(t.IsFDARegulated),
		t.Conditions,
	}
}
