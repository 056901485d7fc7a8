package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/organization"
)

func TestBuildHierarchy_ScenarioA(t *testing.T) {
	t.Parallel()

	h := BuildHierarchy([]person.Person{scenarioAPerson()})
	orgs := h.Organizations("Army")
	require.Len(t, orgs, 1)
	assert.Equal(t, "Portfolio Acquisition Executive: LRFE", orgs[0].Name)
	assert.Equal(t, "PAE LRFE", orgs[0].Abbreviation)
	assert.Equal(t, "PAE", orgs[0].Type)
	assert.Len(t, orgs[0].Members, 1)
	assert.Equal(t, []string{"Army"}, h.Services())
}

func TestBuildHierarchy_FirstMemberMetadataWins(t *testing.T) {
	t.Parallel()

	persons := newPersons(
		person.Record{ServiceAgency: "Army", Name: "First", OrganizationName: "Shared Office",
			OrganizationAbbreviation: "SO-1", PositionType: "PAE"},
		person.Record{ServiceAgency: "Army", Name: "Second", OrganizationName: "Shared Office",
			OrganizationAbbreviation: "SO-2", PositionType: "CPE"},
	)
	h := BuildHierarchy(persons)

	orgs := h.Organizations("Army")
	require.Len(t, orgs, 1)
	assert.Equal(t, "PAE", orgs[0].Type)
	assert.Equal(t, "SO-1", orgs[0].Abbreviation)
	assert.Equal(t, []string{"First", "Second"}, []string{orgs[0].Members[0].Name(), orgs[0].Members[1].Name()})
}

func TestBuildHierarchy_PartitionsPersonsByService(t *testing.T) {
	t.Parallel()

	persons := mixedDirectory()
	h := BuildHierarchy(persons)

	for _, service := range h.Services() {
		var want []string
		for _, p := range persons {
			if string(p.ServiceAgency()) == service {
				want = append(want, p.ID())
			}
		}
		var got []string
		for _, o := range h.Organizations(service) {
			for _, m := range o.Members {
				got = append(got, m.ID())
			}
		}
		sort.Strings(want)
		sort.Strings(got)
		assert.Equal(t, want, got, service)
	}
}

func TestBuildHierarchy_OrdersByTypePriorityThenName(t *testing.T) {
	t.Parallel()

	persons := newPersons(
		person.Record{ServiceAgency: "Navy", Name: "a", OrganizationName: "Zulu Office", OrganizationType: "Directorate"},
		person.Record{ServiceAgency: "Navy", Name: "b", OrganizationName: "PM Bravo", OrganizationType: "PM"},
		person.Record{ServiceAgency: "Navy", Name: "c", OrganizationName: "PEO Charlie", OrganizationType: "PEO"},
		person.Record{ServiceAgency: "Navy", Name: "d", OrganizationName: "PM Alpha", OrganizationType: "PM"},
		person.Record{ServiceAgency: "Navy", Name: "e", OrganizationName: "Alpha Office", OrganizationType: "Directorate"},
		person.Record{ServiceAgency: "Navy", Name: "f", OrganizationName: "PAE Delta", OrganizationType: "PAE"},
		person.Record{ServiceAgency: "Navy", Name: "g", OrganizationName: "CPE Echo", OrganizationType: "CPE"},
	)
	h := BuildHierarchy(persons)

	var names []string
	for _, o := range h.Organizations("Navy") {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"PAE Delta", "CPE Echo", "PEO Charlie", "PM Alpha", "PM Bravo", "Alpha Office", "Zulu Office"}, names)
}

func TestBuildHierarchy_OrganizationKeyFallbacks(t *testing.T) {
	t.Parallel()

	persons := newPersons(
		person.Record{ServiceAgency: "DLA", Name: "Parent Only", ParentOrganization: "DLA Acquisition"},
		person.Record{ServiceAgency: "DLA", Name: "Nobody"},
	)
	h := BuildHierarchy(persons)

	_, ok := h.Organization(organization.Key{Service: "DLA", Name: "DLA Acquisition"})
	assert.True(t, ok)
	unassigned, ok := h.Organization(organization.Key{Service: "DLA", Name: organization.Unassigned})
	require.True(t, ok)
	assert.Len(t, unassigned.Members, 1)
}

func TestBuildHierarchy_LinksParentsWithinService(t *testing.T) {
	t.Parallel()

	h := BuildHierarchy(mixedDirectory())

	cpe, ok := h.Organization(organization.Key{Service: "Army", Name: "CPE Soldier"})
	require.True(t, ok)
	pm, ok := h.Organization(organization.Key{Service: "Army", Name: "PM Soldier Lethality"})
	require.True(t, ok)

	require.NotNil(t, pm.Parent)
	assert.Equal(t, cpe.Key, *pm.Parent)
	require.Len(t, cpe.Children, 1)
	assert.Same(t, pm, cpe.Children[0])

	for _, root := range h.Roots("Army") {
		assert.NotEqual(t, pm.Key, root.Key)
	}
	assert.Empty(t, h.BrokenEdges())
}

func TestBuildHierarchy_ResolvesParentByAbbreviation(t *testing.T) {
	t.Parallel()

	persons := newPersons(
		person.Record{ServiceAgency: "Navy", Name: "a", OrganizationName: "Program Executive Office Ships",
			OrganizationAbbreviation: "PEO Ships", OrganizationType: "PEO"},
		person.Record{ServiceAgency: "Navy", Name: "b", OrganizationName: "PMS 400", ParentOrganization: "peo  ships"},
		person.Record{ServiceAgency: "Army", Name: "c", OrganizationName: "Army Office", ParentOrganization: "PEO Ships"},
	)
	h := BuildHierarchy(persons)

	pms, _ := h.Organization(organization.Key{Service: "Navy", Name: "PMS 400"})
	require.NotNil(t, pms.Parent)
	assert.Equal(t, "Program Executive Office Ships", pms.Parent.Name)

	army, _ := h.Organization(organization.Key{Service: "Army", Name: "Army Office"})
	assert.Nil(t, army.Parent, "parents never resolve across services")
}

func TestBuildHierarchy_BreaksCycles(t *testing.T) {
	t.Parallel()

	persons := newPersons(
		person.Record{ServiceAgency: "SOCOM", Name: "a", OrganizationName: "Alpha", ParentOrganization: "Bravo"},
		person.Record{ServiceAgency: "SOCOM", Name: "b", OrganizationName: "Bravo", ParentOrganization: "Alpha"},
		person.Record{ServiceAgency: "SOCOM", Name: "c", OrganizationName: "Self", ParentOrganization: "Self"},
	)
	h := BuildHierarchy(persons)

	require.Len(t, h.BrokenEdges(), 1)
	assert.Equal(t, BrokenEdge{
		Child:  organization.Key{Service: "SOCOM", Name: "Bravo"},
		Parent: organization.Key{Service: "SOCOM", Name: "Alpha"},
	}, h.BrokenEdges()[0])

	var roots []string
	for _, o := range h.Roots("SOCOM") {
		roots = append(roots, o.Name)
	}
	assert.ElementsMatch(t, []string{"Bravo", "Self"}, roots)

	self, _ := h.Organization(organization.Key{Service: "SOCOM", Name: "Self"})
	assert.Nil(t, self.Parent)
}

func TestBuildHierarchy_Empty(t *testing.T) {
	t.Parallel()

	h := BuildHierarchy(nil)
	assert.Empty(t, h.Services())
	assert.Empty(t, h.Organizations("Army"))
	assert.Zero(t, h.Len())
}
