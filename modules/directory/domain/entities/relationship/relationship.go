package relationship

import "strings"

const (
	TypeReportsTo = "Reports_To"
	TypePartOf    = "Part_Of"
)

// Relationship is one row of the relationship table.
type Relationship struct {
	childEntity      string
	childType        string
	parentEntity     string
	parentType       string
	relationshipType string
}

func New(childEntity, childType, parentEntity, parentType, relationshipType string) Relationship {
	return Relationship{
		childEntity:      strings.TrimSpace(childEntity),
		childType:        strings.TrimSpace(childType),
		parentEntity:     strings.TrimSpace(parentEntity),
		parentType:       strings.TrimSpace(parentType),
		relationshipType: strings.TrimSpace(relationshipType),
	}
}

func (r Relationship) ChildEntity() string      { return r.childEntity }
func (r Relationship) ChildType() string        { return r.childType }
func (r Relationship) ParentEntity() string     { return r.parentEntity }
func (r Relationship) ParentType() string       { return r.parentType }
func (r Relationship) RelationshipType() string { return r.relationshipType }
