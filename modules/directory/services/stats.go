package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

// CompletenessFields are the columns tracked by DataStats.FieldsPopulated.
var CompletenessFields = []person.Field{
	person.FieldName,
	person.FieldRankTitle,
	person.FieldPosition,
	person.FieldEmail,
	person.FieldPhone,
	person.FieldLocation,
	person.FieldOrganizationName,
	person.FieldMissionArea,
}

type FieldCompleteness struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DataStats struct {
	TotalRecords       int                          `json:"total_records"`
	TotalRelationships int                          `json:"total_relationships"`
	ByService          map[string]int               `json:"by_service"`
	ByPositionType     map[string]int               `json:"by_position_type"`
	ByStatus           map[string]int               `json:"by_status"`
	ByMissionArea      map[string]int               `json:"by_mission_area"`
	FieldsPopulated    map[string]FieldCompleteness `json:"fields_populated"`
	GeneratedAt        time.Time                    `json:"generated_at"`
}

// ComputeStats aggregates persons. It accepts any slice, including a filtered view.
func ComputeStats(persons []person.Person, relationshipCount int) DataStats {
	return computeStats(persons, relationshipCount, CompletenessFields)
}

func computeStats(persons []person.Person, relationshipCount int, fields []person.Field) DataStats {
	stats := DataStats{
		TotalRecords:       len(persons),
		TotalRelationships: relationshipCount,
		ByService:          map[string]int{},
		ByPositionType:     map[string]int{},
		ByStatus:           map[string]int{},
		ByMissionArea:      map[string]int{},
		FieldsPopulated:    make(map[string]FieldCompleteness, len(fields)),
		GeneratedAt:        time.Now().UTC(),
	}

	populated := make([]int, len(fields))
	for _, p := range persons {
		stats.ByService[string(p.ServiceAgency())]++
		stats.ByPositionType[string(p.PositionType())]++
		stats.ByStatus[string(p.Status())]++
		for _, area := range distinct(p.MissionAreas()) {
			stats.ByMissionArea[area]++
		}
		for i, f := range fields {
			if p.Value(f) != "" {
				populated[i]++
			}
		}
	}

	for i, f := range fields {
		stats.FieldsPopulated[string(f)] = FieldCompleteness{
			Count:      populated[i],
			Percentage: Percentage(populated[i], len(persons)),
		}
	}
	return stats
}

// Percentage returns count/total*100 rounded to one decimal place, or 0 when total is 0.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		InexactFloat64()
}
