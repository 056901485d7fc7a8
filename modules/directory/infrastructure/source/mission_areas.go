package source

import (
	"strings"
	"unicode"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

type missionArea struct {
	name     string
	keywords []string
}

// missionAreaCatalogue is ordered; inferred areas are reported in this order.
var missionAreaCatalogue = []missionArea{
	{"Aviation", []string{"aviation", "rotary", "helicopter", "aircraft", "FVL", "FARA", "FLRAA"}},
	{"Missiles", []string{"missile", "rocket", "ATACMS", "Patriot", "THAAD", "HIMARS", "PrSM"}},
	{"Ground Combat", []string{"vehicle", "tank", "armor", "Bradley", "Abrams", "Stryker", "AMPV"}},
	{"C5ISR", []string{"C5ISR", "C4ISR", "command", "control", "communications", "intelligence", "surveillance", "reconnaissance", "radar", "sensor"}},
	{"Cyber", []string{"cyber", "network", "electronic warfare", "EW", "information warfare"}},
	{"Space", []string{"space", "satellite", "GPS", "launch", "orbital"}},
	{"Maritime", []string{"ship", "submarine", "naval", "maritime", "carrier", "destroyer", "frigate"}},
	{"Long-Range Fires", []string{"long-range", "fires", "artillery", "howitzer", "ERCA", "LRPF"}},
	{"Air Defense", []string{"air defense", "SHORAD", "IFPC", "counter-UAS", "C-UAS"}},
	{"Logistics", []string{"logistics", "sustainment", "supply", "maintenance", "ammunition"}},
	{"SOF", []string{"special operations", "SOF", "special forces"}},
	{"Nuclear", []string{"nuclear", "strategic", "deterrent", "ICBM", "triad"}},
	{"Unmanned", []string{"unmanned", "UAS", "UAV", "drone", "autonomous", "robotics"}},
}

// shortKeyword is the length up to which keywords must match a whole word.
const shortKeyword = 4

// InferMissionAreas derives a comma-joined mission area from the descriptive
// text of a record. Returns "" when nothing matches.
func InferMissionAreas(r person.Record) string {
	text := strings.ToLower(strings.Join([]string{
		r.Position, r.OrganizationName, r.OrganizationAbbreviation, r.ParentOrganization,
		r.Portfolio, r.KeyPrograms, r.Notes,
	}, " "))
	if strings.TrimSpace(text) == "" {
		return ""
	}
	words := wordSet(text)

	var found []string
	for _, area := range missionAreaCatalogue {
		for _, kw := range area.keywords {
			kw = strings.ToLower(kw)
			var hit bool
			if len(kw) <= shortKeyword {
				_, hit = words[kw]
			} else {
				hit = strings.Contains(text, kw)
			}
			if hit {
				found = append(found, area.name)
				break
			}
		}
	}
	return strings.Join(found, ", ")
}

func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
