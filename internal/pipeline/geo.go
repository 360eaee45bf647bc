// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

// europeanCountries is the fixed allow-list of European countries,
// including Iceland, Norway, and Switzerland alongside EU members.
var europeanCountries = map[string]struct{}{
	"Austria":        {},
	"Belgium":        {},
	"Bulgaria":       {},
	"Croatia":        {},
	"Cyprus":         {},
	"Czech Republic": {},
	"Denmark":        {},
	"Estonia":        {},
	"Finland":        {},
	"France":         {},
	"Germany":        {},
	"Greece":         {},
	"Hungary":        {},
	"Iceland":        {},
	"Ireland":        {},
	"Italy":          {},
	"Latvia":         {},
	"Lithuania":      {},
	"Luxembourg":     {},
	"Malta":          {},
	"Netherlands":    {},
	"Norway":         {},
	"Poland":         {},
	"Portugal":       {},
	"Romania":        {},
	"Slovakia":       {},
	"Slovenia":       {},
	"Spain":          {},
	"Sweden":         {},
	"Switzerland":    {},
	"United Kingdom": {},
}

// IsRelevant reports whether any of the study's countries falls in the
// monitored regions: United States, Canada, or Europe. An empty set is
// never relevant.
func IsRelevant(countries map[string]struct{}) bool {
	for c := range countries {
		if c == "United States" || c == "Canada" {
			return true
		}
		if _, ok := europeanCountries[c]; ok {
			return true
		}
	}
	return false
}
