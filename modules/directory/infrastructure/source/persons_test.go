package source

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

const scenarioHeader = "service_agency,organization_type,organization_name,organization_abbreviation," +
	"parent_organization,portfolio,name,rank_title,position,position_type,status,email,phone," +
	"location,mission_area,key_programs,page_number\n"

const scenarioARow = `Army,PAE,"Portfolio Acquisition Executive: LRFE",PAE LRFE,ASA(ALT),,MG John Smith,MG,` +
	`Portfolio Acquisition Executive,PAE,Confirmed,,,Redstone Arsenal,Long-Range Fires,"LRPF, PrSM",102` + "\n"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestReadPersons_ScenarioA(t *testing.T) {
	t.Parallel()

	table, err := ReadPersons(strings.NewReader(scenarioHeader+scenarioARow), PersonOptions{Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, table.Persons, 1)

	p := table.Persons[0]
	assert.Equal(t, person.ServiceArmy, p.ServiceAgency())
	assert.Equal(t, person.PositionTypePAE, p.PositionType())
	assert.Equal(t, person.StatusConfirmed, p.Status())
	assert.Equal(t, "Portfolio Acquisition Executive: LRFE", p.OrganizationName())
	assert.Equal(t, "PAE LRFE", p.OrganizationAbbreviation())
	assert.Equal(t, "ASA(ALT)", p.ParentOrganization())
	assert.Equal(t, "MG John Smith", p.Name())
	assert.Equal(t, "Redstone Arsenal", p.Location())
	assert.Equal(t, []string{"Long-Range Fires"}, p.MissionAreas())
	assert.Equal(t, []string{"LRPF", "PrSM"}, p.KeyProgramList())
	assert.Equal(t, 102, p.PageNumber())
	assert.Equal(t, "", p.Building())
	assert.True(t, strings.HasPrefix(p.ID(), "mg-john-smith-"))
	assert.Equal(t, 1, table.Report.Accepted)
}

func TestReadPersons_DropsBlankNames(t *testing.T) {
	t.Parallel()

	input := "name,service_agency\n" +
		"Jane Doe,Navy\n" +
		"   ,Army\n" +
		",Army\n" +
		"John Roe,Army\n"
	table, err := ReadPersons(strings.NewReader(input), PersonOptions{Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, table.Persons, 2)
	assert.Equal(t, "Jane Doe", table.Persons[0].Name())
	assert.Equal(t, "John Roe", table.Persons[1].Name())
	assert.Equal(t, 4, table.Report.Rows)
	assert.Equal(t, 2, table.Report.SkippedRows)
}

func TestReadPersons_HeaderOrderAndDefaults(t *testing.T) {
	t.Parallel()

	input := "\xEF\xBB\xBF Page_Number ,status,name,position_type,service_agency,unused\n" +
		"abc,,Jane Doe,,Space  Force,x\n" +
		"7,Acting,John Roe,PM,Coast Guard\n"
	table, err := ReadPersons(strings.NewReader(input), PersonOptions{Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, table.Persons, 2)

	jane := table.Persons[0]
	assert.Equal(t, 0, jane.PageNumber())
	assert.Equal(t, person.StatusConfirmed, jane.Status())
	assert.Equal(t, person.PositionTypeOther, jane.PositionType())
	assert.Equal(t, person.ServiceSpaceForce, jane.ServiceAgency())

	john := table.Persons[1]
	assert.Equal(t, 7, john.PageNumber())
	assert.Equal(t, person.StatusActing, john.Status())
	assert.Equal(t, person.ServiceUnknown, john.ServiceAgency())
	assert.Equal(t, 1, table.Report.UnknownServices["Coast Guard"])
}

func TestReadPersons_UnusualEnumsPassThrough(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.WarnLevel)

	input := "name,position_type,status\nJane,PAEE,On Leave\n"
	table, err := ReadPersons(strings.NewReader(input), PersonOptions{Logger: log, StrictEnums: true})
	require.NoError(t, err)
	require.Len(t, table.Persons, 1)
	assert.Equal(t, person.PositionType("PAEE"), table.Persons[0].PositionType())
	assert.Equal(t, person.Status("On Leave"), table.Persons[0].Status())
	assert.Equal(t, 1, table.Report.UnknownPositionTypes["PAEE"])
	assert.Equal(t, 1, table.Report.UnknownStatuses["On Leave"])
	assert.Contains(t, buf.String(), "unrecognized position type")
}

func TestReadPersons_DuplicatesGetDistinctStableIDs(t *testing.T) {
	t.Parallel()

	input := "name,organization_name,position\n" +
		"Jane Doe,PEO Aviation,PEO\n" +
		"Jane Doe,PEO Aviation,PEO\n"

	first, err := ReadPersons(strings.NewReader(input), PersonOptions{Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, first.Persons, 2)
	assert.NotEqual(t, first.Persons[0].ID(), first.Persons[1].ID())

	second, err := ReadPersons(strings.NewReader(input), PersonOptions{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, first.Persons[0].ID(), second.Persons[0].ID())
	assert.Equal(t, first.Persons[1].ID(), second.Persons[1].ID())

	deduped, err := ReadPersons(strings.NewReader(input), PersonOptions{Logger: quietLogger(), Deduplicate: true})
	require.NoError(t, err)
	require.Len(t, deduped.Persons, 1)
	assert.Equal(t, 1, deduped.Report.DuplicatesRemoved)
}

func TestReadPersons_InferMissionAreas(t *testing.T) {
	t.Parallel()

	input := "name,position,organization_name,mission_area\n" +
		"Jane,Program Manager,PM Unmanned Aircraft Systems,\n" +
		"John,Program Manager,PM Whatever,Cyber\n"
	table, err := ReadPersons(strings.NewReader(input), PersonOptions{Logger: quietLogger(), InferMissionAreas: true})
	require.NoError(t, err)
	require.Len(t, table.Persons, 2)
	assert.Equal(t, []string{"Aviation", "Unmanned"}, table.Persons[0].MissionAreas())
	assert.Equal(t, []string{"Cyber"}, table.Persons[1].MissionAreas())
	assert.Equal(t, 1, table.Report.InferredMissionAreas)
}

func TestInferMissionAreas_ShortKeywordsMatchWholeWords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  person.Record
		want string
	}{
		{"sof as a word", person.Record{OrganizationName: "PEO SOF Warrior"}, "SOF"},
		{"sof inside a word", person.Record{Position: "Software Engineering Director"}, ""},
		{"ew inside a word", person.Record{Position: "Crew Systems Lead", Notes: "new hire"}, ""},
		{"ew as a word", person.Record{OrganizationName: "PM EW & Cyber"}, "Cyber"},
		{"gps as a word", person.Record{Position: "GPS User Equipment lead"}, "Space"},
		{"ship inside a word", person.Record{Position: "Shipbuilding Director"}, ""},
		{"long keyword inside a word", person.Record{OrganizationName: "Submarines Program Office"}, "Maritime"},
		{"hyphenated word stays whole", person.Record{OrganizationName: "C-UAS Task Force"}, "Air Defense"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, InferMissionAreas(tc.rec))
		})
	}
}

func TestReadPersons_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ReadPersons(strings.NewReader(""), PersonOptions{Logger: quietLogger()})
	require.ErrorIs(t, err, ErrMissingHeader)

	_, err = ReadPersons(strings.NewReader("service_agency,position\nArmy,PM\n"), PersonOptions{Logger: quietLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required header column: name")

	_, err = ReadPersons(strings.NewReader("name,notes\nJane,\"unterminated\n"), PersonOptions{Logger: quietLogger()})
	require.Error(t, err)
}
