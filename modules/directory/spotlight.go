package directory

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/acq-directory/modules/directory/services"
	"github.com/iota-uz/acq-directory/pkg/spotlight"
)

// organizationDataSource offers the organizations of the current snapshot to
// spotlight, matched on name and abbreviation.
type organizationDataSource struct {
	directory *services.DirectoryService
}

func newOrganizationDataSource(directory *services.DirectoryService) spotlight.DataSource {
	return &organizationDataSource{directory: directory}
}

func (ds *organizationDataSource) Find(_ context.Context, q string) []spotlight.Item {
	h := ds.directory.BuildHierarchy()
	if h == nil || h.Len() == 0 {
		return nil
	}

	var items []spotlight.Item
	var words []string
	for _, service := range h.Services() {
		for _, o := range h.Organizations(service) {
			item := spotlight.NewItem(
				spotlight.KindOrganization,
				o.Name,
				APIPrefix+"/hierarchy/"+url.PathEscape(service)+"?tree=true",
			)
			item.Description = strings.TrimSpace(service + " " + o.Type)
			items = append(items, item)
			words = append(words, strings.TrimSpace(o.Name+" "+o.Abbreviation))
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	out := make([]spotlight.Item, 0, len(ranks))
	for _, rank := range ranks {
		item := items[rank.OriginalIndex]
		item.Distance = rank.Distance
		out = append(out, item)
	}
	return out
}
