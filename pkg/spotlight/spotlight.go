package spotlight

import (
	"context"
	"sort"
	"strings"
	"sync"
)

const DefaultLimit = 20

// DataSource contributes items for a query.
type DataSource interface {
	Find(ctx context.Context, q string) []Item
}

type Spotlight interface {
	Register(ds ...DataSource)
	Find(ctx context.Context, q string) []Item
}

func New() Spotlight {
	return &spotlight{limit: DefaultLimit}
}

type spotlight struct {
	mu          sync.RWMutex
	dataSources []DataSource
	limit       int
}

func (s *spotlight) Register(ds ...DataSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataSources = append(s.dataSources, ds...)
}

// Find merges the items of every data source, closest first. Ties keep the
// registration order of their sources.
func (s *spotlight) Find(ctx context.Context, q string) []Item {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Item{}
	}

	s.mu.RLock()
	sources := append([]DataSource(nil), s.dataSources...)
	s.mu.RUnlock()

	items := make([]Item, 0, s.limit)
	for _, ds := range sources {
		items = append(items, ds.Find(ctx, q)...)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Distance < items[j].Distance })
	if len(items) > s.limit {
		items = items[:s.limit]
	}
	return items
}
