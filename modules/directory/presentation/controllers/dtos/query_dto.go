package dtos

import (
	"strings"

	"github.com/iota-uz/acq-directory/modules/directory/services"
)

const (
	DefaultPageLimit  = 50
	DefaultValueLimit = 10
)

// CriteriaQueryDTO is the filter shared by /persons, /stats and the exports.
// Every facet may repeat: ?service=Army&service=Navy.
type CriteriaQueryDTO struct {
	Service      []string `form:"service" validate:"dive,max=100"`
	PositionType []string `form:"position_type" validate:"dive,max=100"`
	Status       []string `form:"status" validate:"dive,max=100"`
	MissionArea  []string `form:"mission_area" validate:"dive,max=100"`
	Location     []string `form:"location" validate:"dive,max=200"`
}

func (d *CriteriaQueryDTO) ToCriteria() services.Criteria {
	return services.Criteria{
		Services:      compact(d.Service),
		PositionTypes: compact(d.PositionType),
		Statuses:      compact(d.Status),
		MissionAreas:  compact(d.MissionArea),
		Locations:     compact(d.Location),
	}
}

type PersonsQueryDTO struct {
	CriteriaQueryDTO
	Limit  int `form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset int `form:"offset" validate:"min=0"`
}

func (d *PersonsQueryDTO) PageLimit() int {
	if d.Limit == 0 {
		return DefaultPageLimit
	}
	return d.Limit
}

type SearchQueryDTO struct {
	Q string `form:"q" validate:"max=200"`
}

type HierarchyQueryDTO struct {
	Tree bool `form:"tree"`
}

type ValuesQueryDTO struct {
	Q     string `form:"q" validate:"max=200"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

func (d *ValuesQueryDTO) SuggestLimit() int {
	if d.Limit == 0 {
		return DefaultValueLimit
	}
	return d.Limit
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
