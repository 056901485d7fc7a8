package mappers

import (
	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/organization"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/viewmodels"
	"github.com/iota-uz/acq-directory/modules/directory/services"
)

func organizationToViewModel(o *organization.Organization) *viewmodels.Organization {
	vm := &viewmodels.Organization{
		Service:      o.Service,
		Name:         o.Name,
		Abbreviation: o.Abbreviation,
		Type:         o.Type,
		MemberIDs:    make([]string, len(o.Members)),
	}
	if o.Parent != nil {
		vm.Parent = o.Parent.Name
	}
	for i, m := range o.Members {
		vm.MemberIDs[i] = m.ID()
	}
	return vm
}

// organizationTree copies o and its descendants. Children are visited once,
// so a malformed graph cannot recurse forever.
func organizationTree(o *organization.Organization, seen map[organization.Key]bool) *viewmodels.Organization {
	vm := organizationToViewModel(o)
	seen[o.Key] = true
	for _, c := range o.Children {
		if seen[c.Key] {
			continue
		}
		vm.Children = append(vm.Children, organizationTree(c, seen))
	}
	return vm
}

// ServiceHierarchy renders one service. Flat lists every organization in
// hierarchy order; tree nests them under their roots.
func ServiceHierarchy(h *services.Hierarchy, service string, tree bool) viewmodels.ServiceHierarchy {
	out := viewmodels.ServiceHierarchy{Service: service, Organizations: []*viewmodels.Organization{}}
	if !tree {
		for _, o := range h.Organizations(service) {
			out.Organizations = append(out.Organizations, organizationToViewModel(o))
		}
		return out
	}
	seen := make(map[organization.Key]bool)
	for _, root := range h.Roots(service) {
		out.Organizations = append(out.Organizations, organizationTree(root, seen))
	}
	return out
}

func HierarchyToViewModel(h *services.Hierarchy, tree bool) viewmodels.HierarchyResponse {
	resp := viewmodels.HierarchyResponse{
		Services:    make([]viewmodels.ServiceHierarchy, 0, len(h.Services())),
		BrokenEdges: make([]viewmodels.BrokenEdge, 0, len(h.BrokenEdges())),
	}
	for _, s := range h.Services() {
		resp.Services = append(resp.Services, ServiceHierarchy(h, s, tree))
	}
	for _, e := range h.BrokenEdges() {
		resp.BrokenEdges = append(resp.BrokenEdges, viewmodels.BrokenEdge{
			Service: e.Child.Service,
			Child:   e.Child.Name,
			Parent:  e.Parent.Name,
		})
	}
	return resp
}
