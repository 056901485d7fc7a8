package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

const qualityBarWidth = 20

// qualityFields extends CompletenessFields with service_agency.
var qualityFields = append([]person.Field{person.FieldServiceAgency}, CompletenessFields...)

type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CompletenessEntry struct {
	Field      string  `json:"field"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QualityReport is the ordered, printable form of the directory statistics.
type QualityReport struct {
	GeneratedAt        time.Time           `json:"generated_at"`
	TotalRecords       int                 `json:"total_records"`
	TotalRelationships int                 `json:"total_relationships"`
	Services           []CountEntry        `json:"services"`
	PositionTypes      []CountEntry        `json:"position_types"`
	Statuses           []CountEntry        `json:"statuses"`
	Completeness       []CompletenessEntry `json:"completeness"`
}

func NewQualityReport(persons []person.Person, relationshipCount int) QualityReport {
	stats := computeStats(persons, relationshipCount, qualityFields)
	report := QualityReport{
		GeneratedAt:        stats.GeneratedAt,
		TotalRecords:       stats.TotalRecords,
		TotalRelationships: stats.TotalRelationships,
		Services:           sortedCounts(stats.ByService),
		PositionTypes:      sortedCounts(stats.ByPositionType),
		Statuses:           sortedCounts(stats.ByStatus),
		Completeness:       make([]CompletenessEntry, 0, len(qualityFields)),
	}
	for _, f := range qualityFields {
		c := stats.FieldsPopulated[string(f)]
		report.Completeness = append(report.Completeness, CompletenessEntry{
			Field:      string(f),
			Count:      c.Count,
			Percentage: c.Percentage,
		})
	}
	return report
}

// sortedCounts orders by descending count, ties by name.
func sortedCounts(m map[string]int) []CountEntry {
	out := make([]CountEntry, 0, len(m))
	for k, v := range m {
		out = append(out, CountEntry{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// QualityBar renders pct as one filled cell per 5 percent.
func QualityBar(pct float64) string {
	filled := int(pct / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > qualityBarWidth {
		filled = qualityBarWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", qualityBarWidth-filled)
}

func RenderQualityReport(w io.Writer, r QualityReport) error {
	var b strings.Builder
	b.WriteString("DIRECTORY DATA QUALITY REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total records:       %d\n", r.TotalRecords)
	fmt.Fprintf(&b, "Total relationships: %d\n", r.TotalRelationships)

	writeCounts := func(title string, entries []CountEntry) {
		fmt.Fprintf(&b, "\n%s\n", title)
		for _, e := range entries {
			fmt.Fprintf(&b, "  %-36s %6d\n", e.Name, e.Count)
		}
	}
	writeCounts("By service:", r.Services)
	writeCounts("By position type:", r.PositionTypes)
	writeCounts("By status:", r.Statuses)

	b.WriteString("\nField completeness:\n")
	for _, c := range r.Completeness {
		fmt.Fprintf(&b, "  %-26s %s %5.1f%% (%d)\n", c.Field, QualityBar(c.Percentage), c.Percentage, c.Count)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
