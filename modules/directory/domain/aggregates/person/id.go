package person

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	maxSlugLength  = 50
	idSuffixLength = 8
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/iota-uz/acq-directory/person"))

// Slug lower-cases name, organization and position, collapses every run of
// characters outside [a-z0-9] into a single dash and truncates to 50 characters.
func Slug(name, organization, position string) string {
	raw := strings.ToLower(name + "-" + organization + "-" + position)
	var b strings.Builder
	b.Grow(len(raw))
	dash := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimSuffix(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "person"
	}
	return slug
}

// Fingerprint is the canonical text of a normalized record: every column in
// export order joined by the unit separator.
func Fingerprint(r Record) string {
	p := New("", r)
	values := make([]string, len(Fields))
	for i, f := range Fields {
		values[i] = p.Value(f)
	}
	return strings.Join(values, "\x1f")
}

// NewID derives a stable identifier for a record. occurrence disambiguates
// records whose fingerprints are identical and is assigned during ingestion.
func NewID(r Record, occurrence int) string {
	n := r.Normalize()
	data := Fingerprint(n) + "\x1f" + strconv.Itoa(occurrence)
	sum := uuid.NewSHA1(idNamespace, []byte(data))
	suffix := strings.ReplaceAll(sum.String(), "-", "")[:idSuffixLength]
	return Slug(n.Name, n.OrganizationName, n.Position) + "-" + suffix
}
