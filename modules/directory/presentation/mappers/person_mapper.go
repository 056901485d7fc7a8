package mappers

import (
	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/relationship"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/viewmodels"
	"github.com/iota-uz/acq-directory/modules/directory/services"
)

func PersonToViewModel(p person.Person) viewmodels.Person {
	return viewmodels.Person{
		ID:                       p.ID(),
		ServiceAgency:            string(p.ServiceAgency()),
		OrganizationType:         p.OrganizationType(),
		OrganizationName:         p.OrganizationName(),
		OrganizationAbbreviation: p.OrganizationAbbreviation(),
		ParentOrganization:       p.ParentOrganization(),
		Portfolio:                p.Portfolio(),
		Name:                     p.Name(),
		RankTitle:                p.RankTitle(),
		Position:                 p.Position(),
		PositionType:             string(p.PositionType()),
		Status:                   string(p.Status()),
		Email:                    p.Email(),
		Phone:                    p.Phone(),
		Location:                 p.Location(),
		Building:                 p.Building(),
		MissionAreas:             nonNil(p.MissionAreas()),
		KeyPrograms:              nonNil(p.KeyProgramList()),
		PageNumber:               p.PageNumber(),
		Section:                  p.Section(),
		LastUpdated:              p.LastUpdated(),
		Notes:                    p.Notes(),
	}
}

func PersonsToViewModels(persons []person.Person) []viewmodels.Person {
	out := make([]viewmodels.Person, len(persons))
	for i, p := range persons {
		out[i] = PersonToViewModel(p)
	}
	return out
}

// PersonsToPage slices persons by offset and limit. An offset past the end
// yields an empty page.
func PersonsToPage(persons []person.Person, limit, offset int) viewmodels.PersonPage {
	total := len(persons)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return viewmodels.PersonPage{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Persons: PersonsToViewModels(persons[start:end]),
	}
}

func SearchResultsToViewModel(query string, results []services.SearchResult) viewmodels.SearchResponse {
	out := make([]viewmodels.SearchResult, len(results))
	for i, r := range results {
		out[i] = viewmodels.SearchResult{
			ID:     r.Person.ID(),
			Score:  r.Score,
			Index:  r.Index,
			Person: PersonToViewModel(r.Person),
		}
	}
	return viewmodels.SearchResponse{Query: query, Results: out}
}

func RelationshipsToViewModels(rels []relationship.Relationship) []viewmodels.Relationship {
	out := make([]viewmodels.Relationship, len(rels))
	for i, r := range rels {
		out[i] = viewmodels.Relationship{
			ChildEntity:      r.ChildEntity(),
			ChildType:        r.ChildType(),
			ParentEntity:     r.ParentEntity(),
			ParentType:       r.ParentType(),
			RelationshipType: r.RelationshipType(),
		}
	}
	return out
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
