package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/relationship"
	"github.com/iota-uz/acq-directory/modules/directory/infrastructure/source"
	"github.com/iota-uz/acq-directory/pkg/eventbus"
)

const (
	TablePersons       = "persons"
	TableRelationships = "relationships"
)

var tracer = otel.Tracer("acq-directory/services")

// ErrNotLoaded is returned by lookups made before a successful load.
var ErrNotLoaded = errors.New("directory not loaded")

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// LoadError names the table whose fetch or parse failed.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// DirectorySource supplies both tables. *source.Loader implements it.
type DirectorySource interface {
	Persons(ctx context.Context) (source.PersonTable, error)
	Relationships(ctx context.Context) (source.RelationshipTable, error)
	String() string
}

// Snapshot is an immutable view of one load. A failed load yields an empty
// snapshot with Err set.
type Snapshot struct {
	Persons            []person.Person
	Relationships      []relationship.Relationship
	Hierarchy          *Hierarchy
	Index              *SearchIndex
	Stats              DataStats
	Ingestion          source.IngestionReport
	RelationshipReport RelationshipReport
	LoadedAt           time.Time
	Err                error

	byID map[string]int
}

func newSnapshot(persons []person.Person, table source.RelationshipTable, report source.IngestionReport) *Snapshot {
	h := BuildHierarchy(persons)
	s := &Snapshot{
		Persons:            persons,
		Relationships:      table.Relationships,
		Hierarchy:          h,
		Index:              NewSearchIndex(persons),
		Stats:              ComputeStats(persons, len(table.Relationships)),
		Ingestion:          report,
		RelationshipReport: CheckRelationships(h, table.Relationships),
		LoadedAt:           time.Now().UTC(),
		byID:               make(map[string]int, len(persons)),
	}
	for i, p := range persons {
		s.byID[p.ID()] = i
	}
	return s
}

func emptySnapshot(err error) *Snapshot {
	s := newSnapshot(nil, source.RelationshipTable{}, source.IngestionReport{})
	s.LoadedAt = time.Time{}
	s.Err = err
	return s
}

// Loaded reports whether the snapshot came from a successful load.
func (s *Snapshot) Loaded() bool {
	return s.Err == nil && !s.LoadedAt.IsZero()
}

func (s *Snapshot) Person(id string) (person.Person, bool) {
	i, ok := s.byID[id]
	if !ok {
		return person.Person{}, false
	}
	return s.Persons[i], true
}

func (s *Snapshot) Search(query string) []SearchResult {
	start := time.Now()
	results := s.Index.Search(query)
	if len(query) >= MinQueryLength {
		recordSearch(len(results), time.Since(start).Seconds())
	}
	return results
}

func (s *Snapshot) Filter(c Criteria) []person.Person {
	return Filter(s.Persons, c)
}

// FilteredStats returns the precomputed statistics for empty criteria and
// recomputes them for a filtered view otherwise.
func (s *Snapshot) FilteredStats(c Criteria) DataStats {
	if c.IsEmpty() {
		return s.Stats
	}
	return ComputeStats(Filter(s.Persons, c), len(s.Relationships))
}

// Values lists every distinct value of field when q is blank and the closest
// limit suggestions for q otherwise.
func (s *Snapshot) Values(field person.Field, q string, limit int) []string {
	if strings.TrimSpace(q) == "" {
		return UniqueValues(s.Persons, field)
	}
	return SuggestValues(s.Persons, field, q, limit)
}

func (s *Snapshot) QualityReport() QualityReport {
	return NewQualityReport(s.Persons, len(s.Relationships))
}

type DirectoryServiceOptions struct {
	// LoadTimeout bounds a single Load; zero means no extra deadline.
	LoadTimeout time.Duration
}

type DirectoryService struct {
	src       DirectorySource
	opts      DirectoryServiceOptions
	publisher eventbus.EventBus
	log       logrus.FieldLogger

	loadMu sync.Mutex

	mu       sync.RWMutex
	snapshot *Snapshot
	state    State
}

func NewDirectoryService(src DirectorySource, opts DirectoryServiceOptions, publisher eventbus.EventBus, logger *logrus.Logger) *DirectoryService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &DirectoryService{
		src:       src,
		opts:      opts,
		publisher: publisher,
		log:       logger.WithField("component", "directory"),
		state:     StateIdle,
	}
	s.snapshot = emptySnapshot(nil)
	return s
}

// Load fetches both tables concurrently and swaps in a new snapshot. On
// failure the directory is left empty and the returned error is a *LoadError.
// Concurrent calls are serialized.
func (s *DirectoryService) Load(ctx context.Context) (*Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LoadTimeout)
		defer cancel()
	}
	ctx, span := tracer.Start(ctx, "directory.Load",
		trace.WithAttributes(attribute.String("directory.source", s.src.String())),
	)
	defer span.End()

	s.setState(StateLoading)
	start := time.Now()

	var (
		persons source.PersonTable
		rels    source.RelationshipTable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.src.Persons(gctx)
		if err != nil {
			return &LoadError{Table: TablePersons, Err: err}
		}
		persons = t
		return nil
	})
	g.Go(func() error {
		t, err := s.src.Relationships(gctx)
		if err != nil {
			return &LoadError{Table: TableRelationships, Err: err}
		}
		rels = t
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return s.fail(err, time.Since(start))
	}

	snap := newSnapshot(persons.Persons, rels, persons.Report)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.snapshot = snap
	s.state = StateReady
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int("directory.persons", len(snap.Persons)),
		attribute.Int("directory.relationships", len(snap.Relationships)),
	)
	recordLoad(true, elapsed.Seconds())
	recordSnapshot(snap)

	s.log.WithFields(logrus.Fields{
		"persons":       len(snap.Persons),
		"relationships": len(snap.Relationships),
		"skipped_rows":  snap.Ingestion.SkippedRows,
		"organizations": snap.Hierarchy.Len(),
		"duration":      elapsed.String(),
	}).Info("directory loaded")

	s.publish(&DirectoryLoadedEvent{
		EventID:       uuid.New(),
		Source:        s.src.String(),
		Persons:       len(snap.Persons),
		Relationships: len(snap.Relationships),
		SkippedRows:   snap.Ingestion.SkippedRows,
		Duration:      elapsed,
		LoadedAt:      snap.LoadedAt,
	})
	return snap, nil
}

// Reload is Load without the snapshot result.
func (s *DirectoryService) Reload(ctx context.Context) error {
	_, err := s.Load(ctx)
	return err
}

func (s *DirectoryService) fail(err error, elapsed time.Duration) (*Snapshot, error) {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = &LoadError{Err: err}
	}
	snap := emptySnapshot(loadErr)

	s.mu.Lock()
	s.snapshot = snap
	s.state = StateFailed
	s.mu.Unlock()

	recordLoad(false, elapsed.Seconds())
	recordSnapshot(snap)
	s.log.WithError(loadErr.Err).WithField("table", loadErr.Table).Error("directory load failed")

	s.publish(&DirectoryLoadFailedEvent{
		EventID:  uuid.New(),
		Source:   s.src.String(),
		Table:    loadErr.Table,
		Err:      loadErr,
		FailedAt: time.Now().UTC(),
	})
	return snap, loadErr
}

func (s *DirectoryService) publish(event interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}

func (s *DirectoryService) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Snapshot returns the current snapshot; it is never nil.
func (s *DirectoryService) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *DirectoryService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *DirectoryService) Source() string {
	return s.src.String()
}

func (s *DirectoryService) LoadAll() []person.Person {
	return s.Snapshot().Persons
}

func (s *DirectoryService) GetByID(id string) (person.Person, error) {
	snap := s.Snapshot()
	if p, ok := snap.Person(id); ok {
		return p, nil
	}
	if !snap.Loaded() {
		return person.Person{}, ErrNotLoaded
	}
	return person.Person{}, person.ErrNotFound
}

func (s *DirectoryService) Relationships() []relationship.Relationship {
	return s.Snapshot().Relationships
}

func (s *DirectoryService) BuildHierarchy() *Hierarchy {
	return s.Snapshot().Hierarchy
}

func (s *DirectoryService) Search(query string) []SearchResult {
	return s.Snapshot().Search(query)
}

func (s *DirectoryService) Filter(c Criteria) []person.Person {
	return s.Snapshot().Filter(c)
}

func (s *DirectoryService) Stats(c Criteria) DataStats {
	return s.Snapshot().FilteredStats(c)
}

func (s *DirectoryService) UniqueValues(field person.Field) []string {
	return UniqueValues(s.Snapshot().Persons, field)
}

func (s *DirectoryService) SuggestValues(field person.Field, q string, limit int) []string {
	return SuggestValues(s.Snapshot().Persons, field, q, limit)
}

func (s *DirectoryService) QualityReport() QualityReport {
	return s.Snapshot().QualityReport()
}
