package viewmodels

type Person struct {
	ID                       string   `json:"id"`
	ServiceAgency            string   `json:"service_agency"`
	OrganizationType         string   `json:"organization_type,omitempty"`
	OrganizationName         string   `json:"organization_name,omitempty"`
	OrganizationAbbreviation string   `json:"organization_abbreviation,omitempty"`
	ParentOrganization       string   `json:"parent_organization,omitempty"`
	Portfolio                string   `json:"portfolio,omitempty"`
	Name                     string   `json:"name"`
	RankTitle                string   `json:"rank_title,omitempty"`
	Position                 string   `json:"position,omitempty"`
	PositionType             string   `json:"position_type"`
	Status                   string   `json:"status"`
	Email                    string   `json:"email,omitempty"`
	Phone                    string   `json:"phone,omitempty"`
	Location                 string   `json:"location,omitempty"`
	Building                 string   `json:"building,omitempty"`
	MissionAreas             []string `json:"mission_areas"`
	KeyPrograms              []string `json:"key_programs"`
	PageNumber               int      `json:"page_number,omitempty"`
	Section                  string   `json:"section,omitempty"`
	LastUpdated              string   `json:"last_updated,omitempty"`
	Notes                    string   `json:"notes,omitempty"`
}

type PersonPage struct {
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
	Persons []Person `json:"persons"`
}

type SearchResult struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Index  int     `json:"index"`
	Person Person  `json:"person"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}
