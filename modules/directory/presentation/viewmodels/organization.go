package viewmodels

type Organization struct {
	Service      string          `json:"service"`
	Name         string          `json:"name"`
	Abbreviation string          `json:"abbreviation,omitempty"`
	Type         string          `json:"type,omitempty"`
	Parent       string          `json:"parent,omitempty"`
	MemberIDs    []string        `json:"member_ids"`
	Children     []*Organization `json:"children,omitempty"`
}

type ServiceHierarchy struct {
	Service       string          `json:"service"`
	Organizations []*Organization `json:"organizations"`
}

type BrokenEdge struct {
	Service string `json:"service"`
	Child   string `json:"child"`
	Parent  string `json:"parent"`
}

type HierarchyResponse struct {
	Services    []ServiceHierarchy `json:"services"`
	BrokenEdges []BrokenEdge       `json:"broken_edges"`
}
