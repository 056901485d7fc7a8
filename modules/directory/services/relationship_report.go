package services

import (
	"sort"

	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/relationship"
)

type RelationshipIssue struct {
	Child         string `json:"child_entity"`
	Parent        string `json:"parent_entity"`
	Type          string `json:"relationship_type"`
	ChildMissing  bool   `json:"child_missing"`
	ParentMissing bool   `json:"parent_missing"`
}

// RelationshipReport cross-checks the relationship table against the hierarchy.
type RelationshipReport struct {
	Total   int                 `json:"total"`
	Matched int                 `json:"matched"`
	ByType  map[string]int      `json:"by_type"`
	Issues  []RelationshipIssue `json:"issues"`
}

// CheckRelationships reports relationships whose child or parent entity names no
// known organization. Names, abbreviations and declared parent names all count
// as known, compared case-insensitively. The hierarchy is not modified.
func CheckRelationships(h *Hierarchy, rels []relationship.Relationship) RelationshipReport {
	known := make(map[string]struct{}, h.Len()*2)
	add := func(v string) {
		if k := foldKey(v); k != "" {
			known[k] = struct{}{}
		}
	}
	for _, service := range h.Services() {
		for _, o := range h.Organizations(service) {
			add(o.Name)
			add(o.Abbreviation)
			add(o.ParentName)
		}
	}

	report := RelationshipReport{
		Total:  len(rels),
		ByType: map[string]int{},
		Issues: []RelationshipIssue{},
	}
	for _, r := range rels {
		report.ByType[r.RelationshipType()]++
		_, childOK := known[foldKey(r.ChildEntity())]
		_, parentOK := known[foldKey(r.ParentEntity())]
		if childOK && parentOK {
			report.Matched++
			continue
		}
		report.Issues = append(report.Issues, RelationshipIssue{
			Child:         r.ChildEntity(),
			Parent:        r.ParentEntity(),
			Type:          r.RelationshipType(),
			ChildMissing:  !childOK,
			ParentMissing: !parentOK,
		})
	}
	sort.SliceStable(report.Issues, func(i, j int) bool {
		if report.Issues[i].Child != report.Issues[j].Child {
			return report.Issues[i].Child < report.Issues[j].Child
		}
		return report.Issues[i].Parent < report.Issues[j].Parent
	})
	return report
}
