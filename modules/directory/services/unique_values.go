package services

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

// UniqueValues returns the distinct non-empty values of field, sorted.
// Mission areas are split into their components first.
func UniqueValues(persons []person.Person, field person.Field) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 32)
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, p := range persons {
		if field == person.FieldMissionArea {
			for _, area := range p.MissionAreas() {
				add(area)
			}
			continue
		}
		add(p.Value(field))
	}
	sort.Strings(out)
	return out
}

// SuggestValues ranks the unique values of field against q for facet typeahead.
// An empty q returns the first limit values in sorted order.
func SuggestValues(persons []person.Person, field person.Field, q string, limit int) []string {
	values := UniqueValues(persons, field)
	if q == "" {
		if limit > 0 && len(values) > limit {
			values = values[:limit]
		}
		return values
	}

	ranks := fuzzy.RankFindNormalizedFold(q, values)
	sort.Stable(ranks)

	out := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, values[rank.OriginalIndex])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func distinct(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
