package viewmodels

import (
	"time"

	"github.com/iota-uz/acq-directory/modules/directory/infrastructure/source"
)

type Health struct {
	State         string     `json:"state"`
	Source        string     `json:"source"`
	Persons       int        `json:"persons"`
	Relationships int        `json:"relationships"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
	Error         string     `json:"error,omitempty"`

	Ingestion *source.IngestionReport `json:"ingestion,omitempty"`
}

type Relationship struct {
	ChildEntity      string `json:"child_entity"`
	ChildType        string `json:"child_type,omitempty"`
	ParentEntity     string `json:"parent_entity"`
	ParentType       string `json:"parent_type,omitempty"`
	RelationshipType string `json:"relationship_type"`
}

type Values struct {
	Field  string   `json:"field"`
	Query  string   `json:"query,omitempty"`
	Values []string `json:"values"`
}
