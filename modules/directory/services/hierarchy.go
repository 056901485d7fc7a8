package services

import (
	"sort"
	"strings"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/organization"
)

// BrokenEdge is a parent link dropped because it closed a cycle.
type BrokenEdge struct {
	Child  organization.Key `json:"child"`
	Parent organization.Key `json:"parent"`
}

// Hierarchy is the per-service organization graph. It is read-only once built.
type Hierarchy struct {
	byService map[string][]*organization.Organization
	roots     map[string][]*organization.Organization
	index     map[organization.Key]*organization.Organization
	broken    []BrokenEdge
}

// BuildHierarchy groups persons into organizations keyed by (service, name),
// then links organizations to their declared parent when the parent resolves
// to another organization of the same service.
func BuildHierarchy(persons []person.Person) *Hierarchy {
	h := &Hierarchy{
		byService: make(map[string][]*organization.Organization),
		roots:     make(map[string][]*organization.Organization),
		index:     make(map[organization.Key]*organization.Organization),
	}

	for _, p := range persons {
		key := organization.KeyFor(p)
		if org, ok := h.index[key]; ok {
			org.AddMember(p)
			continue
		}
		org := organization.New(key, p)
		h.index[key] = org
		h.byService[key.Service] = append(h.byService[key.Service], org)
	}

	for _, service := range h.Services() {
		orgs := h.byService[service]
		sort.SliceStable(orgs, func(i, j int) bool { return organization.Less(orgs[i], orgs[j]) })
		h.linkParents(service, orgs)
	}
	return h
}

func (h *Hierarchy) linkParents(service string, orgs []*organization.Organization) {
	byName := make(map[string]*organization.Organization, len(orgs))
	byAbbrev := make(map[string]*organization.Organization, len(orgs))
	for _, o := range orgs {
		if k := foldKey(o.Name); k != "" {
			if _, ok := byName[k]; !ok {
				byName[k] = o
			}
		}
		if k := foldKey(o.Abbreviation); k != "" {
			if _, ok := byAbbrev[k]; !ok {
				byAbbrev[k] = o
			}
		}
	}

	parent := make(map[*organization.Organization]*organization.Organization, len(orgs))
	for _, o := range orgs {
		k := foldKey(o.ParentName)
		if k == "" {
			continue
		}
		candidate, ok := byName[k]
		if !ok {
			candidate, ok = byAbbrev[k]
		}
		if !ok || candidate == o {
			continue
		}
		parent[o] = candidate
	}

	// visiting=1, done=2
	state := make(map[*organization.Organization]int, len(orgs))
	var visit func(o *organization.Organization)
	visit = func(o *organization.Organization) {
		state[o] = 1
		if p, ok := parent[o]; ok {
			switch state[p] {
			case 1:
				delete(parent, o)
				h.broken = append(h.broken, BrokenEdge{Child: o.Key, Parent: p.Key})
			case 0:
				visit(p)
			}
		}
		state[o] = 2
	}
	for _, o := range orgs {
		if state[o] == 0 {
			visit(o)
		}
	}

	for _, o := range orgs {
		p, ok := parent[o]
		if !ok {
			h.roots[service] = append(h.roots[service], o)
			continue
		}
		key := p.Key
		o.Parent = &key
		p.Children = append(p.Children, o)
	}
}

// ByService returns every organization grouped by service, each list ordered
// by type priority then name.
func (h *Hierarchy) ByService() map[string][]*organization.Organization {
	return h.byService
}

// Organizations returns the ordered organizations of one service.
func (h *Hierarchy) Organizations(service string) []*organization.Organization {
	return h.byService[service]
}

// Roots returns the organizations of a service that have no resolved parent.
func (h *Hierarchy) Roots(service string) []*organization.Organization {
	return h.roots[service]
}

func (h *Hierarchy) Organization(key organization.Key) (*organization.Organization, bool) {
	o, ok := h.index[key]
	return o, ok
}

// Services returns the services present, sorted by name.
func (h *Hierarchy) Services() []string {
	out := make([]string, 0, len(h.byService))
	for s := range h.byService {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (h *Hierarchy) BrokenEdges() []BrokenEdge {
	return h.broken
}

func (h *Hierarchy) Len() int {
	return len(h.index)
}

func foldKey(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}
