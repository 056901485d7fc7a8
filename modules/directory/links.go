package directory

import "github.com/iota-uz/acq-directory/pkg/spotlight"

const APIPrefix = "/directory/api"

var QuickLinks = []*spotlight.QuickLink{
	spotlight.NewQuickLink("Directory statistics", APIPrefix+"/stats").WithKeywords("stats", "counts"),
	spotlight.NewQuickLink("Data quality report", APIPrefix+"/stats/quality").WithKeywords("completeness"),
	spotlight.NewQuickLink("Organization hierarchy", APIPrefix+"/hierarchy?tree=true").WithKeywords("tree", "org chart"),
	spotlight.NewQuickLink("Relationship check", APIPrefix+"/relationships/report").WithKeywords("relationships"),
	spotlight.NewQuickLink("Export CSV", APIPrefix+"/export.csv").WithKeywords("download"),
	spotlight.NewQuickLink("Export Excel", APIPrefix+"/export.xlsx").WithKeywords("download", "xlsx"),
}
