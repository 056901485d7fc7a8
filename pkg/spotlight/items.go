package spotlight

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	KindLink         = "link"
	KindOrganization = "organization"
	KindPerson       = "person"
)

// Item is a single spotlight hit.
type Item struct {
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link"`
	Distance    int    `json:"distance"`
}

// NewItem creates a simple Item with a static label and link.
func NewItem(kind, label, link string) Item {
	return Item{Kind: kind, Label: label, Link: link}
}

func NewQuickLink(label, link string) *QuickLink {
	return &QuickLink{label: label, link: link}
}

type QuickLink struct {
	label    string
	link     string
	keywords []string
}

// WithKeywords adds extra words the link can be found by.
func (i *QuickLink) WithKeywords(words ...string) *QuickLink {
	i.keywords = append(i.keywords, words...)
	return i
}

func (i *QuickLink) Label() string { return i.label }
func (i *QuickLink) Link() string  { return i.link }

type QuickLinks struct {
	items []*QuickLink
}

func (ql *QuickLinks) Find(_ context.Context, q string) []Item {
	if len(ql.items) == 0 {
		return nil
	}
	words := make([]string, len(ql.items))
	for i, it := range ql.items {
		words[i] = strings.TrimSpace(it.label + " " + strings.Join(it.keywords, " "))
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	result := make([]Item, 0, len(ranks))
	for _, rank := range ranks {
		link := ql.items[rank.OriginalIndex]
		item := NewItem(KindLink, link.label, link.link)
		item.Distance = rank.Distance
		result = append(result, item)
	}
	return result
}

func (ql *QuickLinks) Add(links ...*QuickLink) {
	ql.items = append(ql.items, links...)
}

func (ql *QuickLinks) Len() int {
	return len(ql.items)
}
