package services

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
)

const (
	// SearchThreshold is the worst field score still counted as a match (0 = perfect, 1 = none).
	SearchThreshold  = 0.3
	MinQueryLength   = 2
	MaxSearchResults = 50

	perfectMatchScore = 0.001
)

type searchKey struct {
	field  person.Field
	weight float64
}

var searchKeys = []searchKey{
	{person.FieldName, 2.0},
	{person.FieldPosition, 1.5},
	{person.FieldOrganizationName, 1.5},
	{person.FieldOrganizationAbbreviation, 1.2},
	{person.FieldMissionArea, 1.0},
	{person.FieldKeyPrograms, 1.0},
	{person.FieldLocation, 0.8},
	{person.FieldServiceAgency, 0.8},
}

type SearchResult struct {
	Person person.Person
	Score  float64
	Index  int
}

type indexedText struct {
	text   string
	runes  []rune
	starts []int
}

// SearchIndex is a weighted fuzzy index over a fixed person slice.
// It never changes after construction and is safe for concurrent use.
type SearchIndex struct {
	persons     []person.Person
	docs        [][]indexedText
	totalWeight float64
}

func NewSearchIndex(persons []person.Person) *SearchIndex {
	ix := &SearchIndex{
		persons: persons,
		docs:    make([][]indexedText, len(persons)),
	}
	for _, k := range searchKeys {
		ix.totalWeight += k.weight
	}
	for i, p := range persons {
		doc := make([]indexedText, len(searchKeys))
		for k, key := range searchKeys {
			doc[k] = newIndexedText(p.Value(key.field))
		}
		ix.docs[i] = doc
	}
	return ix
}

func (ix *SearchIndex) Len() int {
	return len(ix.persons)
}

// Search ranks persons against query, best match first. Queries shorter than
// MinQueryLength runes return an empty slice.
func (ix *SearchIndex) Search(query string) []SearchResult {
	q := normalizeText(query)
	qLen := utf8.RuneCountInString(q)
	if qLen < MinQueryLength {
		return []SearchResult{}
	}

	results := make([]SearchResult, 0, 64)
	for i, doc := range ix.docs {
		score, ok := ix.scoreDoc(doc, q, qLen)
		if !ok {
			continue
		}
		results = append(results, SearchResult{Person: ix.persons[i], Score: score, Index: i})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score < results[b].Score
	})
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	return results
}

func (ix *SearchIndex) scoreDoc(doc []indexedText, q string, qLen int) (float64, bool) {
	total := 1.0
	matched := false
	for k, key := range searchKeys {
		s := doc[k].score(q, qLen)
		if s > SearchThreshold {
			continue
		}
		matched = true
		if s < perfectMatchScore {
			s = perfectMatchScore
		}
		total *= math.Pow(s, key.weight/ix.totalWeight)
	}
	return total, matched
}

func newIndexedText(v string) indexedText {
	text := normalizeText(v)
	rs := []rune(text)
	starts := make([]int, 0, 8)
	for i, r := range rs {
		if !isWordRune(r) {
			continue
		}
		if i == 0 || !isWordRune(rs[i-1]) {
			starts = append(starts, i)
		}
	}
	return indexedText{text: text, runes: rs, starts: starts}
}

// score is 0 for a substring hit, otherwise the smallest edit distance between
// q and a window starting at a word boundary, divided by the query length.
func (t indexedText) score(q string, qLen int) float64 {
	if t.text == "" {
		return 1
	}
	if strings.Contains(t.text, q) {
		return 0
	}
	best := 1.0
	for _, start := range t.starts {
		for l := qLen - 1; l <= qLen+1; l++ {
			end := start + l
			last := end >= len(t.runes)
			if last {
				end = len(t.runes)
			}
			d := levenshtein.ComputeDistance(q, string(t.runes[start:end]))
			if s := float64(d) / float64(qLen); s < best {
				best = s
			}
			if last {
				break
			}
		}
	}
	return best
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// normalizeText lower-cases, strips diacritics and collapses whitespace.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
