package organization

import (
	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

// Unassigned names the organization of persons with neither an organization
// nor a parent organization.
const Unassigned = "Unassigned"

const otherPriority = 99

var typePriority = map[string]int{
	"PAE": 0,
	"CPE": 1,
	"PEO": 2,
	"PM":  3,
}

// Key identifies an organization within the directory.
type Key struct {
	Service string `json:"service"`
	Name    string `json:"name"`
}

// KeyFor returns the organization key a person belongs to.
func KeyFor(p person.Person) Key {
	name := p.OrganizationName()
	if name == "" {
		name = p.ParentOrganization()
	}
	if name == "" {
		name = Unassigned
	}
	return Key{Service: string(p.ServiceAgency()), Name: name}
}

// Organization groups the persons sharing a (service, organization name) pair.
// Metadata comes from the first member seen.
type Organization struct {
	Key          Key
	Name         string
	Abbreviation string
	Type         string
	Service      string
	ParentName   string
	Parent       *Key
	Children     []*Organization
	Members      []person.Person
}

func New(key Key, first person.Person) *Organization {
	orgType := first.OrganizationType()
	if orgType == "" {
		orgType = string(first.PositionType())
	}
	return &Organization{
		Key:          key,
		Name:         key.Name,
		Abbreviation: first.OrganizationAbbreviation(),
		Type:         orgType,
		Service:      key.Service,
		ParentName:   first.ParentOrganization(),
		Members:      []person.Person{first},
	}
}

func (o *Organization) AddMember(p person.Person) {
	o.Members = append(o.Members, p)
}

// Priority orders organizations by acquisition tier: PAE, CPE, PEO, PM, then the rest.
func (o *Organization) Priority() int {
	return Priority(o.Type)
}

func Priority(orgType string) int {
	if p, ok := typePriority[orgType]; ok {
		return p
	}
	return otherPriority
}

// Less orders by priority, then by name.
func Less(a, b *Organization) bool {
	pa, pb := a.Priority(), b.Priority()
	if pa != pb {
		return pa < pb
	}
	return a.Name < b.Name
}
