package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const (
	DefaultPersonsFile       = "dow_directory_extracted.csv"
	DefaultRelationshipsFile = "dow_directory_relationships.csv"
)

var ErrTableNotFound = errors.New("table not found")

// Source opens the static text of a named table.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// FileSource reads tables from a local directory.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrTableNotFound, "open %s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

func (s *FileSource) String() string {
	return "file://" + s.Dir
}

// HTTPSource fetches tables hosted as static files below a base URL.
type HTTPSource struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid source url: %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{baseURL: u, httpClient: client}, nil
}

func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(name, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", u.String())
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, errors.Wrapf(ErrTableNotFound, "fetch %s", u.String())
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_ = resp.Body.Close()
		return nil, errors.Errorf("fetch %s: unexpected status %d", u.String(), resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *HTTPSource) String() string {
	return s.baseURL.String()
}

// New picks an HTTP source when sourceURL is set and a file source otherwise.
func New(dataDir, sourceURL string) (Source, error) {
	if strings.TrimSpace(sourceURL) != "" {
		return NewHTTPSource(sourceURL, nil)
	}
	if strings.TrimSpace(dataDir) == "" {
		dataDir = "."
	}
	return NewFileSource(dataDir), nil
}
