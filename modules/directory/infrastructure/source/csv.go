package source

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
)

var ErrMissingHeader = errors.New("missing header")

func newCSVReader(r io.Reader) *csv.Reader {
	br := stripUTF8BOM(bufio.NewReader(r))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false
	return cr
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, errors.Wrap(err, "read header")
	}
	for i := range h {
		h[i] = strings.ToLower(strings.TrimSpace(h[i]))
		if !utf8.ValidString(h[i]) {
			return nil, errors.New("invalid header encoding")
		}
	}
	return h, nil
}

func headerIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := m[name]; dup {
			continue
		}
		m[name] = i
	}
	return m
}

func requireHeader(index map[string]int, required ...string) error {
	for _, req := range required {
		if _, ok := index[req]; !ok {
			return errors.Errorf("missing required header column: %s", req)
		}
	}
	return nil
}

// cellGetter returns the trimmed cell of the named column, or "" when the
// column is absent or the row is short.
func cellGetter(index map[string]int, row []string) func(name string) string {
	return func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
}
