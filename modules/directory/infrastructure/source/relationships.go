package source

import (
	"io"

	"github.com/go-faster/errors"

	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/relationship"
)

var relationshipColumns = []string{"child_entity", "child_type", "parent_entity", "parent_type", "relationship_type"}

type RelationshipTable struct {
	Relationships []relationship.Relationship
	Skipped       int
	Duplicates    int
}

// ReadRelationships parses the relationship table. Rows missing either end
// are skipped; repeated (child, parent) pairs keep the first row.
func ReadRelationships(r io.Reader) (RelationshipTable, error) {
	cr := newCSVReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return RelationshipTable{}, err
	}
	index := headerIndex(header)
	if err := requireHeader(index, "child_entity", "parent_entity"); err != nil {
		return RelationshipTable{}, err
	}

	type pair struct{ child, parent string }
	seen := make(map[pair]struct{})
	out := RelationshipTable{Relationships: make([]relationship.Relationship, 0, 64)}

	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return RelationshipTable{}, errors.Wrapf(err, "line %d", line)
		}
		get := cellGetter(index, row)
		rel := relationship.New(
			get(relationshipColumns[0]),
			get(relationshipColumns[1]),
			get(relationshipColumns[2]),
			get(relationshipColumns[3]),
			get(relationshipColumns[4]),
		)
		if rel.ChildEntity() == "" || rel.ParentEntity() == "" {
			out.Skipped++
			continue
		}
		key := pair{rel.ChildEntity(), rel.ParentEntity()}
		if _, dup := seen[key]; dup {
			out.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		out.Relationships = append(out.Relationships, rel)
	}
	return out, nil
}
