package source

import (
	"io"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

type PersonOptions struct {
	// Deduplicate drops later rows repeating (name, position, organization_name).
	Deduplicate bool
	// InferMissionAreas fills a blank mission_area from the keyword catalogue.
	InferMissionAreas bool
	// StrictEnums reports unrecognized position types and statuses as warnings.
	// Values are kept verbatim either way.
	StrictEnums bool
	Logger      logrus.FieldLogger
}

// IngestionReport describes what happened to the rows of the primary table.
type IngestionReport struct {
	Rows                 int            `json:"rows"`
	Accepted             int            `json:"accepted"`
	SkippedRows          int            `json:"skipped_rows"`
	DuplicatesRemoved    int            `json:"duplicates_removed"`
	InferredMissionAreas int            `json:"inferred_mission_areas"`
	UnknownServices      map[string]int `json:"unknown_services"`
	UnknownPositionTypes map[string]int `json:"unknown_position_types"`
	UnknownStatuses      map[string]int `json:"unknown_statuses"`
}

func newIngestionReport() IngestionReport {
	return IngestionReport{
		UnknownServices:      map[string]int{},
		UnknownPositionTypes: map[string]int{},
		UnknownStatuses:      map[string]int{},
	}
}

type PersonTable struct {
	Persons []person.Person
	Report  IngestionReport
}

type dedupeKey struct {
	name, position, organization string
}

// ReadPersons parses the primary table. Columns are matched by header name;
// rows without a name are dropped and counted.
func ReadPersons(r io.Reader, opts PersonOptions) (PersonTable, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	cr := newCSVReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return PersonTable{}, err
	}
	index := headerIndex(header)
	if err := requireHeader(index, string(person.FieldName)); err != nil {
		return PersonTable{}, err
	}

	report := newIngestionReport()
	persons := make([]person.Person, 0, 256)
	occurrences := make(map[string]int)
	ids := make(map[string]struct{})
	seen := make(map[dedupeKey]struct{})

	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return PersonTable{}, errors.Wrapf(err, "line %d", line)
		}
		report.Rows++

		get := cellGetter(index, row)
		rec := recordFromRow(get)
		if rec.Name == "" {
			report.SkippedRows++
			continue
		}

		if opts.Deduplicate {
			key := dedupeKey{name: rec.Name, position: rec.Position, organization: rec.OrganizationName}
			if _, dup := seen[key]; dup {
				report.DuplicatesRemoved++
				continue
			}
			seen[key] = struct{}{}
		}

		if opts.InferMissionAreas && rec.MissionArea == "" {
			if inferred := InferMissionAreas(rec); inferred != "" {
				rec.MissionArea = inferred
				report.InferredMissionAreas++
			}
		}

		rec = rec.Normalize()
		trackUnknowns(&report, get, rec)

		fp := person.Fingerprint(rec)
		occ := occurrences[fp]
		id := person.NewID(rec, occ)
		for {
			if _, taken := ids[id]; !taken {
				break
			}
			occ++
			id = person.NewID(rec, occ)
		}
		occurrences[fp] = occ + 1
		ids[id] = struct{}{}

		persons = append(persons, person.New(id, rec))
	}

	report.Accepted = len(persons)
	if report.SkippedRows > 0 {
		log.WithField("skipped", report.SkippedRows).Info("ingestion: dropped rows without a name")
	}
	level := logrus.DebugLevel
	if opts.StrictEnums {
		level = logrus.WarnLevel
	}
	for v, n := range report.UnknownPositionTypes {
		log.WithFields(logrus.Fields{"position_type": v, "count": n}).Log(level, "ingestion: unrecognized position type kept verbatim")
	}
	for v, n := range report.UnknownStatuses {
		log.WithFields(logrus.Fields{"status": v, "count": n}).Log(level, "ingestion: unrecognized status kept verbatim")
	}
	return PersonTable{Persons: persons, Report: report}, nil
}

func recordFromRow(get func(string) string) person.Record {
	page, err := strconv.Atoi(get(string(person.FieldPageNumber)))
	if err != nil {
		page = 0
	}
	return person.Record{
		ServiceAgency:            get(string(person.FieldServiceAgency)),
		OrganizationType:         get(string(person.FieldOrganizationType)),
		OrganizationName:         get(string(person.FieldOrganizationName)),
		OrganizationAbbreviation: get(string(person.FieldOrganizationAbbreviation)),
		ParentOrganization:       get(string(person.FieldParentOrganization)),
		Portfolio:                get(string(person.FieldPortfolio)),
		Name:                     get(string(person.FieldName)),
		RankTitle:                get(string(person.FieldRankTitle)),
		Position:                 get(string(person.FieldPosition)),
		PositionType:             get(string(person.FieldPositionType)),
		Status:                   get(string(person.FieldStatus)),
		Email:                    get(string(person.FieldEmail)),
		Phone:                    get(string(person.FieldPhone)),
		Location:                 get(string(person.FieldLocation)),
		Building:                 get(string(person.FieldBuilding)),
		MissionArea:              get(string(person.FieldMissionArea)),
		KeyPrograms:              get(string(person.FieldKeyPrograms)),
		PageNumber:               page,
		Section:                  get(string(person.FieldSection)),
		LastUpdated:              get(string(person.FieldLastUpdated)),
		Notes:                    get(string(person.FieldNotes)),
	}
}

func trackUnknowns(report *IngestionReport, get func(string) string, rec person.Record) {
	if raw := get(string(person.FieldServiceAgency)); raw != "" && rec.ServiceAgency == string(person.ServiceUnknown) {
		report.UnknownServices[raw]++
	}
	if pt := person.PositionType(rec.PositionType); !pt.IsKnown() {
		report.UnknownPositionTypes[rec.PositionType]++
	}
	if st := person.Status(rec.Status); !st.IsKnown() {
		report.UnknownStatuses[rec.Status]++
	}
}
