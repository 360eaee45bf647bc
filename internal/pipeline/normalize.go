// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/trial-monitor/internal/registry"
	"github.com/pdiddy/trial-monitor/pkg/types"
)

// notAvailable fills optional scalar fields the registry omitted.
const notAvailable = "Not Available"

// unknownIntervention fills an intervention entry with no name.
const unknownIntervention = "Unknown intervention"

// Normalize flattens one raw study into a Trial tagged with the input
// row's identifier, product name, and phase. Optional sections default
// rather than fail. The NCT number, lead sponsor name, and overall
// status are contractual fields of the registry: if any is missing the
// record is unusable and an error is returned so the caller can skip
// just this study.
func Normalize(st registry.Study, idValue, productName, originalPhase string) (types.Trial, error) {
	ps := st.ProtocolSection

	nctID := ps.Identification.NCTID
	if nctID == "" {
		return types.Trial{}, fmt.Errorf("study has no nctId")
	}
	sponsor := ps.SponsorCollaborators.LeadSponsor.Name
	if sponsor == "" {
		return types.Trial{}, fmt.Errorf("study %s has no lead sponsor name", nctID)
	}
	status := ps.Status.OverallStatus
	if status == "" {
		return types.Trial{}, fmt.Errorf("study %s has no overall status", nctID)
	}

	phase := notAvailable
	if len(ps.Design.Phases) > 0 {
		phase = ps.Design.Phases[0]
	}

	startDate := ps.Status.StartDateStruct.Date
	if startDate == "" {
		startDate = notAvailable
	}
	endDate := ps.Status.CompletionDateStruct.Date
	if endDate == "" {
		endDate = notAvailable
	}

	return types.Trial{
		IDValue:             idValue,
		ProductName:         productName,
		RegistryProductName: joinInterventions(ps.ArmsInterventions.Interventions),
		OriginalPhase:       originalPhase,
		RegistryPhase:       phase,
		NCTNumber:           nctID,
		SponsorName:         sponsor,
		Status:              status,
		Location:            joinCountries(st.Countries()),
		StartDate:           startDate,
		EndDate:             endDate,
		IsFDARegulated:      ps.Oversight.IsFDARegulatedDrug,
		Conditions:          strings.Join(ps.Conditions.Conditions, ", "),
	}, nil
}

// joinInterventions comma-joins intervention names, substituting a
// placeholder for unnamed entries.
func joinInterventions(interventions []registry.Intervention) string {
	names := make([]string, len(interventions))
	for i, iv := range interventions {
		if iv.Name != "" {
			names[i] = iv.Name
		} else {
			names[i] = unknownIntervention
		}
	}
	return strings.Join(names, ", ")
}

// joinCountries comma-joins the distinct countries in sorted order so
// the output is deterministic.
func joinCountries(countries map[string]struct{}) string {
	names := make([]string, 0, len(countries))
	for c := range countries {
		names = append(names, c)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
