// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/trial-monitor/internal/registry"
	"github.com/pdiddy/trial-monitor/pkg/types"
)

// mockFetcher returns canned studies per term and records the terms asked.
type mockFetcher struct {
	studies map[string][]registry.Study
	errs    map[string]error
	terms   []string
}

func (m *mockFetcher) FetchStudies(_ context.Context, term string) ([]registry.Study, error) {
	m.terms = append(m.terms, term)
	return m.studies[term], m.errs[term]
}

func relevantStudy(nctID, country string) registry.Study {
	return registry.Study{ProtocolSection: registry.ProtocolSection{
		Identification:       registry.IdentificationModule{NCTID: nctID},
		Status:               registry.StatusModule{OverallStatus: "RECRUITING"},
		SponsorCollaborators: registry.SponsorCollaboratorsModule{LeadSponsor: registry.Sponsor{Name: "Acme"}},
		ContactsLocations: registry.ContactsLocationsModule{
			Locations: []registry.Location{{Country: country}},
		},
	}}
}

func TestProcessSheet_SkipsRowWithoutID(t *testing.T) {
	fetcher := &mockFetcher{studies: map[string][]registry.Study{
		"Ibuprofen": {relevantStudy("NCT002", "Canada")},
	}}
	rows := []types.InputRow{
		{ProductName: "Aspirin", OriginalPhase: "II", SheetRow: 2}, // no ID
		{ProductName: "Ibuprofen", ExternalID: "P2", OriginalPhase: "III", SheetRow: 3},
	}

	var log strings.Builder
	trials, err := ProcessSheet(context.Background(), rows, fetcher, &log)
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}

	if len(trials) != 1 || trials[0].IDValue != "P2" {
		t.Fatalf("expected only the second row's trial, got %+v", trials)
	}
	if !strings.Contains(log.String(), "warning") || !strings.Contains(log.String(), "missing external ID") {
		t.Errorf("skip should be logged as a warning, log = %q", log.String())
	}
	// The skipped row must not reach the registry.
	if len(fetcher.terms) != 1 || fetcher.terms[0] != "Ibuprofen" {
		t.Errorf("expected one fetch for Ibuprofen, got %v", fetcher.terms)
	}
}

func TestProcessSheet_FiltersByRegion(t *testing.T) {
	fetcher := &mockFetcher{studies: map[string][]registry.Study{
		"Aspirin": {
			relevantStudy("NCT001", "Germany"),
			relevantStudy("NCT002", "Japan"),
			relevantStudy("NCT003", "United States"),
		},
	}}
	rows := []types.InputRow{{ProductName: "Aspirin", ExternalID: "P1", OriginalPhase: "II"}}

	var log strings.Builder
	trials, err := ProcessSheet(context.Background(), rows, fetcher, &log)
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}

	if len(trials) != 2 {
		t.Fatalf("expected 2 trials in monitored regions, got %d", len(trials))
	}
	if trials[0].NCTNumber != "NCT001" || trials[1].NCTNumber != "NCT003" {
		t.Errorf("unexpected trials: %s, %s", trials[0].NCTNumber, trials[1].NCTNumber)
	}
}

func TestProcessSheet_DropsMalformedStudyOnly(t *testing.T) {
	bad := relevantStudy("", "France") // missing nctId fails normalization
	fetcher := &mockFetcher{studies: map[string][]registry.Study{
		"Aspirin": {bad, relevantStudy("NCT002", "France")},
	}}
	rows := []types.InputRow{{ProductName: "Aspirin", ExternalID: "P1"}}

	var log strings.Builder
	trials, err := ProcessSheet(context.Background(), rows, fetcher, &log)
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}
	if len(trials) != 1 || trials[0].NCTNumber != "NCT002" {
		t.Fatalf("expected the well-formed study to survive, got %+v", trials)
	}
	if !strings.Contains(log.String(), "dropping study") {
		t.Errorf("drop should be logged, log = %q", log.String())
	}
}

func TestProcessSheet_SearchFailureKeepsPartialAndContinues(t *testing.T) {
	fetcher := &mockFetcher{
		studies: map[string][]registry.Study{
			"Aspirin":   {relevantStudy("NCT001", "Germany")},
			"Ibuprofen": {relevantStudy("NCT002", "Canada")},
		},
		errs: map[string]error{
			"Aspirin": fmt.Errorf("registry returned HTTP 500 for %q", "Aspirin"),
		},
	}
	rows := []types.InputRow{
		{ProductName: "Aspirin", ExternalID: "P1"},
		{ProductName: "Ibuprofen", ExternalID: "P2"},
	}

	var log strings.Builder
	trials, err := ProcessSheet(context.Background(), rows, fetcher, &log)
	if err != nil {
		t.Fatalf("search failures must not propagate: %v", err)
	}

	// Both the partial batch and the next row's results survive.
	if len(trials) != 2 {
		t.Fatalf("expected 2 trials, got %d", len(trials))
	}
	if !strings.Contains(log.String(), "stopped early") {
		t.Errorf("search failure should be logged, log = %q", log.String())
	}
	if len(fetcher.terms) != 2 {
		t.Errorf("the failing row must not abort the sheet, fetched %v", fetcher.terms)
	}
}

func TestProcessSheet_CancellationAtRowBoundary(t *testing.T) {
	fetcher := &mockFetcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []types.InputRow{{ProductName: "Aspirin", ExternalID: "P1"}}
	_, err := ProcessSheet(ctx, rows, fetcher, &strings.Builder{})
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(fetcher.terms) != 0 {
		t.Errorf("cancelled sheet should not fetch, got %v", fetcher.terms)
	}
}

func TestProcessSheet_EndToEnd(t *testing.T) {
	// One product, one single-page result in Germany, minimal fields.
	st := registry.Study{ProtocolSection: registry.ProtocolSection{
		Identification:       registry.IdentificationModule{NCTID: "NCT001"},
		Status:               registry.StatusModule{OverallStatus: "RECRUITING"},
		SponsorCollaborators: registry.SponsorCollaboratorsModule{LeadSponsor: registry.Sponsor{Name: "Acme"}},
		ContactsLocations: registry.ContactsLocationsModule{
			Locations: []registry.Location{{Country: "Germany"}},
		},
	}}
	fetcher := &mockFetcher{studies: map[string][]registry.Study{"Aspirin": {st}}}
	rows := []types.InputRow{{ProductName: "Aspirin", ExternalID: "P1", OriginalPhase: "II"}}

	trials, err := ProcessSheet(context.Background(), rows, fetcher, &strings.Builder{})
	if err != nil {
		t.Fatalf("ProcessSheet: %v", err)
	}
	if len(trials) != 1 {
		t.Fatalf("expected 1 trial, got %d", len(trials))
	}

	got := trials[0]
	want := types.Trial{
		IDValue:       "P1",
		ProductName:   "Aspirin",
		OriginalPhase: "II",
		RegistryPhase: "Not Available",
		NCTNumber:     "NCT001",
		SponsorName:   "Acme",
		Status:        "RECRUITING",
		Location:      "Germany",
		StartDate:     "Not Available",
		EndDate:       "Not Available",
	}
	if got != want {
		t.Errorf("trial = %+v, want %+v", got, want)
	}
}
