package services

import (
	"fmt"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

func newPerson(r person.Record) person.Person {
	return person.New(person.NewID(r, 0), r)
}

func newPersons(records ...person.Record) []person.Person {
	out := make([]person.Person, 0, len(records))
	for i, r := range records {
		out = append(out, person.New(person.NewID(r, i), r))
	}
	return out
}

func scenarioAPerson() person.Person {
	return newPerson(person.Record{
		ServiceAgency:            "Army",
		OrganizationType:         "PAE",
		OrganizationName:         "Portfolio Acquisition Executive: LRFE",
		OrganizationAbbreviation: "PAE LRFE",
		ParentOrganization:       "ASA(ALT)",
		Name:                     "MG John Smith",
		RankTitle:                "MG",
		Position:                 "Portfolio Acquisition Executive",
		PositionType:             "PAE",
		Status:                   "Confirmed",
		Location:                 "Redstone Arsenal",
		MissionArea:              "Long-Range Fires",
		KeyPrograms:              "LRPF, PrSM",
		PageNumber:               102,
	})
}

// mixedDirectory covers several services, statuses and mission areas.
func mixedDirectory() []person.Person {
	return newPersons(
		person.Record{ServiceAgency: "Army", Name: "Alice Adams", Status: "Confirmed", PositionType: "PEO",
			OrganizationName: "PEO Aviation", MissionArea: "Aviation", Location: "Redstone Arsenal", Email: "alice@army.mil"},
		person.Record{ServiceAgency: "Navy", Name: "Bob Brown", Status: "Acting", PositionType: "PM",
			OrganizationName: "PMS 400", MissionArea: "Ships, C4ISR", Location: "Washington Navy Yard"},
		person.Record{ServiceAgency: "Air Force", Name: "Carol Clark", Status: "Confirmed", PositionType: "PEO",
			OrganizationName: "PEO Fighters", MissionArea: "Aviation", Location: "Wright-Patterson AFB"},
		person.Record{ServiceAgency: "Navy", Name: "Dan Davis", Status: "Confirmed", PositionType: "PEO",
			OrganizationName: "PEO Ships", MissionArea: "Ships", Location: "Washington Navy Yard", Phone: "555-0100"},
		person.Record{ServiceAgency: "Army", Name: "Erin Evans", Status: "Nominated", PositionType: "CPE",
			OrganizationName: "CPE Soldier", MissionArea: "Soldier Systems", Location: "Fort Belvoir"},
		person.Record{ServiceAgency: "Army", Name: "Frank Foster", Status: "Confirmed", PositionType: "PM",
			OrganizationName: "PM Soldier Lethality", ParentOrganization: "CPE Soldier", MissionArea: "Soldier Systems, Lethality",
			Location: "Fort Belvoir"},
		person.Record{ServiceAgency: "Marines", Name: "Gina Green", Status: "Vacant", PositionType: "PM",
			OrganizationName: "PM Ground Vehicles", Location: "Quantico"},
	)
}

func bulkPersons(n int, name string) []person.Person {
	records := make([]person.Record, n)
	for i := range records {
		records[i] = person.Record{
			ServiceAgency:    "Army",
			Name:             fmt.Sprintf("%s %03d", name, i),
			OrganizationName: fmt.Sprintf("Office %03d", i),
		}
	}
	return newPersons(records...)
}

func ids(persons []person.Person) []string {
	out := make([]string, len(persons))
	for i, p := range persons {
		out[i] = p.ID()
	}
	return out
}

func resultIDs(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Person.ID()
	}
	return out
}
