package services

import (
	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

// Criteria combines categories with AND and the values of one category with OR.
// An empty category does not constrain the result.
type Criteria struct {
	Services      []string `json:"services,omitempty"`
	PositionTypes []string `json:"position_types,omitempty"`
	Statuses      []string `json:"statuses,omitempty"`
	MissionAreas  []string `json:"mission_areas,omitempty"`
	Locations     []string `json:"locations,omitempty"`
}

func (c Criteria) IsEmpty() bool {
	return len(c.Services) == 0 &&
		len(c.PositionTypes) == 0 &&
		len(c.Statuses) == 0 &&
		len(c.MissionAreas) == 0 &&
		len(c.Locations) == 0
}

type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	if len(values) == 0 {
		return nil
	}
	s := make(valueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s valueSet) has(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

func (s valueSet) overlaps(values []string) bool {
	if s == nil {
		return true
	}
	for _, v := range values {
		if _, ok := s[v]; ok {
			return true
		}
	}
	return false
}

// Filter returns the persons matching c in their input order.
func Filter(persons []person.Person, c Criteria) []person.Person {
	services := newValueSet(c.Services)
	positionTypes := newValueSet(c.PositionTypes)
	statuses := newValueSet(c.Statuses)
	missionAreas := newValueSet(c.MissionAreas)
	locations := newValueSet(c.Locations)

	out := make([]person.Person, 0, len(persons))
	for _, p := range persons {
		if !services.has(string(p.ServiceAgency())) ||
			!positionTypes.has(string(p.PositionType())) ||
			!statuses.has(string(p.Status())) ||
			!locations.has(p.Location()) ||
			!missionAreas.overlaps(p.MissionAreas()) {
			continue
		}
		out = append(out, p)
	}
	return out
}
