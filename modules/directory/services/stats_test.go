package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func TestComputeStats_ScenarioA(t *testing.T) {
	t.Parallel()

	stats := ComputeStats([]person.Person{scenarioAPerson()}, 0)
	assert.Equal(t, 1, stats.TotalRecords)
	assert.Equal(t, map[string]int{"Army": 1}, stats.ByService)
	assert.Equal(t, map[string]int{"PAE": 1}, stats.ByPositionType)
	assert.Equal(t, map[string]int{"Long-Range Fires": 1}, stats.ByMissionArea)
	assert.Equal(t, FieldCompleteness{Count: 0, Percentage: 0}, stats.FieldsPopulated["email"])
	assert.Equal(t, FieldCompleteness{Count: 1, Percentage: 100}, stats.FieldsPopulated["location"])
}

func TestComputeStats_Totals(t *testing.T) {
	t.Parallel()

	persons := append(mixedDirectory(), newPersons(
		person.Record{ServiceAgency: "Army", Name: "Repeat", MissionArea: "Ships, Ships, Aviation"},
	)...)
	stats := ComputeStats(persons, 4)

	assert.Equal(t, 8, stats.TotalRecords)
	assert.Equal(t, 4, stats.TotalRelationships)
	assert.Equal(t, stats.TotalRecords, sum(stats.ByService))
	assert.Equal(t, stats.TotalRecords, sum(stats.ByStatus))
	assert.Equal(t, stats.TotalRecords, sum(stats.ByPositionType))
	assert.Greater(t, sum(stats.ByMissionArea), stats.TotalRecords-2)
	for area, n := range stats.ByMissionArea {
		assert.LessOrEqual(t, n, stats.TotalRecords, area)
	}
	assert.Equal(t, 3, stats.ByMissionArea["Ships"])
	assert.Equal(t, 3, stats.ByMissionArea["Aviation"])

	require.Len(t, stats.FieldsPopulated, len(CompletenessFields))
	for field, c := range stats.FieldsPopulated {
		assert.GreaterOrEqual(t, c.Percentage, 0.0, field)
		assert.LessOrEqual(t, c.Percentage, 100.0, field)
	}
	assert.Equal(t, FieldCompleteness{Count: 8, Percentage: 100}, stats.FieldsPopulated["name"])
	assert.Equal(t, FieldCompleteness{Count: 1, Percentage: 12.5}, stats.FieldsPopulated["phone"])
}

func TestComputeStats_EmptyInput(t *testing.T) {
	t.Parallel()

	stats := ComputeStats(nil, 0)
	assert.Zero(t, stats.TotalRecords)
	assert.Empty(t, stats.ByService)
	for field, c := range stats.FieldsPopulated {
		assert.Equal(t, FieldCompleteness{}, c, field)
	}
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		count, total int
		want         float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 16, 6.3},
		{1, 8, 12.5},
		{7, 7, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.count, tc.total), "%d/%d", tc.count, tc.total)
	}
}

func TestQualityReport(t *testing.T) {
	t.Parallel()

	report := NewQualityReport(mixedDirectory(), 2)
	assert.Equal(t, 7, report.TotalRecords)
	require.NotEmpty(t, report.Services)
	assert.Equal(t, CountEntry{Name: "Army", Count: 3}, report.Services[0])
	assert.Equal(t, CountEntry{Name: "Navy", Count: 2}, report.Services[1])
	assert.Equal(t, CountEntry{Name: "Air Force", Count: 1}, report.Services[2])
	assert.Equal(t, CountEntry{Name: "Marines", Count: 1}, report.Services[3])

	require.Len(t, report.Completeness, len(CompletenessFields)+1)
	assert.Equal(t, "service_agency", report.Completeness[0].Field)
	assert.Equal(t, 100.0, report.Completeness[0].Percentage)

	var buf bytes.Buffer
	require.NoError(t, RenderQualityReport(&buf, report))
	out := buf.String()
	assert.Contains(t, out, "Total records:       7")
	assert.Contains(t, out, QualityBar(100))
	assert.Contains(t, out, "By position type:")
	assert.Less(t, strings.Index(out, "Army"), strings.Index(out, "Navy"))
}

func TestQualityBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, strings.Repeat("░", 20), QualityBar(0))
	assert.Equal(t, strings.Repeat("█", 20), QualityBar(100))
	assert.Equal(t, strings.Repeat("█", 2)+strings.Repeat("░", 18), QualityBar(12.5))
}
