// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

// Study is one raw study record from the registry's v2 API. Only the
// fields the pipeline reads are declared; optional sections are value
// structs so a missing JSON key decodes to a zero value instead of
// requiring nil checks downstream.
type Study struct {
	ProtocolSection ProtocolSection `json:"protocolSection"`
}

// ProtocolSection groups the per-study modules of the v2 schema.
type ProtocolSection struct {
	Identification       IdentificationModule       `json:"identificationModule"`
	Status               StatusModule               `json:"statusModule"`
	SponsorCollaborators SponsorCollaboratorsModule `json:"sponsorCollaboratorsModule"`
	Design               DesignModule               `json:"designModule"`
	Oversight            OversightModule            `json:"oversightModule"`
	Conditions           ConditionsModule           `json:"conditionsModule"`
	ContactsLocations    ContactsLocationsModule    `json:"contactsLocationsModule"`
	ArmsInterventions    ArmsInterventionsModule    `json:"armsInterventionsModule"`
}

// IdentificationModule carries the study's NCT number.
type IdentificationModule struct {
	NCTID string `json:"nctId"`
}

// StatusModule carries recruitment status and key dates.
type StatusModule struct {
	OverallStatus        string     `json:"overallStatus"`
	StartDateStruct      DateStruct `json:"startDateStruct"`
	CompletionDateStruct DateStruct `json:"completionDateStruct"`
}

// DateStruct wraps a registry date string ("2024-01" or "2024-01-15").
type DateStruct struct {
	Date string `json:"date"`
}

// SponsorCollaboratorsModule carries the lead sponsor.
type SponsorCollaboratorsModule struct {
	LeadSponsor Sponsor `json:"leadSponsor"`
}

// Sponsor is a sponsoring organization.
type Sponsor struct {
	Name string `json:"name"`
}

// DesignModule carries the study's phase list.
type DesignModule struct {
	Phases []string `json:"phases"`
}

// OversightModule carries regulatory flags.
type OversightModule struct {
	IsFDARegulatedDrug bool `json:"isFdaRegulatedDrug"`
}

// ConditionsModule lists the conditions under study.
type ConditionsModule struct {
	Conditions []string `json:"conditions"`
}

// ContactsLocationsModule lists study sites.
type ContactsLocationsModule struct {
	Locations []Location `json:"locations"`
}

// Location is one study site; only the country matters here.
type Location struct {
	Country string `json:"country"`
}

// ArmsInterventionsModule lists the study's interventions.
type ArmsInterventionsModule struct {
	Interventions []Intervention `json:"interventions"`
}

// Intervention is one study arm intervention.
type Intervention struct {
	Name string `json:"name"`
}

// Countries returns the distinct, non-empty country names across the
// study's locations.
func (s Study) Countries() map[string]struct{} {
	countries := make(map[string]struct{})
	for _, loc := range s.ProtocolSection.ContactsLocations.Locations {
		if loc.Country != "" {
			countries[loc.Country] = struct{}{}
		}
	}
	return countries
}
