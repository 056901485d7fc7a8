package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
	"github.com/iota-uz/acq-directory/modules/directory/domain/entities/relationship"
	"github.com/iota-uz/acq-directory/modules/directory/infrastructure/source"
	"github.com/iota-uz/acq-directory/pkg/eventbus"
)

type stubSource struct {
	mu        sync.Mutex
	persons   []person.Person
	rels      []relationship.Relationship
	personErr error
	relErr    error
}

func (s *stubSource) Persons(context.Context) (source.PersonTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.personErr != nil {
		return source.PersonTable{}, s.personErr
	}
	return source.PersonTable{
		Persons: s.persons,
		Report:  source.IngestionReport{Rows: len(s.persons) + 1, Accepted: len(s.persons), SkippedRows: 1},
	}, nil
}

func (s *stubSource) Relationships(context.Context) (source.RelationshipTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.relErr != nil {
		return source.RelationshipTable{}, s.relErr
	}
	return source.RelationshipTable{Relationships: s.rels}, nil
}

func (s *stubSource) String() string { return "stub" }

func (s *stubSource) set(fn func(s *stubSource)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func newStubSource() *stubSource {
	return &stubSource{
		persons: mixedDirectory(),
		rels: []relationship.Relationship{
			relationship.New("PM Soldier Lethality", "PM", "CPE Soldier", "CPE", relationship.TypeReportsTo),
		},
	}
}

func TestDirectoryService_BeforeLoad(t *testing.T) {
	t.Parallel()

	svc := NewDirectoryService(newStubSource(), DirectoryServiceOptions{}, nil, discardLogger())
	snap := svc.Snapshot()
	require.NotNil(t, snap)
	assert.False(t, snap.Loaded())
	assert.Equal(t, StateIdle, svc.State())
	assert.Empty(t, svc.LoadAll())
	assert.Empty(t, svc.Search("army"))
	assert.Empty(t, svc.BuildHierarchy().Services())

	_, err := svc.GetByID("anything")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestDirectoryService_Load(t *testing.T) {
	t.Parallel()

	publisher := eventbus.NewEventPublisher(discardLogger())
	var loaded *DirectoryLoadedEvent
	publisher.Subscribe(func(e *DirectoryLoadedEvent) { loaded = e })

	src := newStubSource()
	svc := NewDirectoryService(src, DirectoryServiceOptions{}, publisher, discardLogger())

	snap, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Loaded())
	assert.Same(t, snap, svc.Snapshot())
	assert.Equal(t, StateReady, svc.State())

	assert.Len(t, svc.LoadAll(), 7)
	assert.Len(t, svc.Relationships(), 1)
	assert.Equal(t, 7, svc.Stats(Criteria{}).TotalRecords)
	assert.Equal(t, 1, svc.Stats(Criteria{}).TotalRelationships)
	assert.Equal(t, 3, svc.Stats(Criteria{Services: []string{"Army"}}).TotalRecords)
	assert.Equal(t, 1, snap.RelationshipReport.Matched)
	assert.Equal(t, 1, snap.Ingestion.SkippedRows)
	assert.Equal(t, []string{"Air Force", "Army", "Marines", "Navy"}, svc.UniqueValues(person.FieldServiceAgency))
	assert.Len(t, svc.Filter(Criteria{Statuses: []string{"Confirmed"}}), 4)

	results := svc.Search("foster")
	require.NotEmpty(t, results)
	assert.Equal(t, "Frank Foster", results[0].Person.Name())

	first := svc.LoadAll()[0]
	got, err := svc.GetByID(first.ID())
	require.NoError(t, err)
	assert.Equal(t, first, got)
	_, err = svc.GetByID("missing")
	assert.ErrorIs(t, err, person.ErrNotFound)

	require.NotNil(t, loaded)
	assert.Equal(t, 7, loaded.Persons)
	assert.Equal(t, 1, loaded.Relationships)
	assert.Equal(t, "stub", loaded.Source)
}

func TestDirectoryService_LoadFailureLeavesEmptySnapshot(t *testing.T) {
	t.Parallel()

	publisher := eventbus.NewEventPublisher(discardLogger())
	var failed *DirectoryLoadFailedEvent
	publisher.Subscribe(func(e *DirectoryLoadFailedEvent) { failed = e })

	src := newStubSource()
	svc := NewDirectoryService(src, DirectoryServiceOptions{}, publisher, discardLogger())
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	cause := errors.New("connection refused")
	src.set(func(s *stubSource) { s.relErr = cause })

	snap, err := svc.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, TableRelationships, loadErr.Table)
	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.HasPrefix(err.Error(), "load relationships:"))

	assert.Equal(t, StateFailed, svc.State())
	assert.False(t, snap.Loaded())
	assert.Same(t, snap, svc.Snapshot())
	assert.Empty(t, svc.LoadAll(), "no partial data survives a failed load")
	assert.Zero(t, svc.Stats(Criteria{}).TotalRecords)

	require.NotNil(t, failed)
	assert.Equal(t, TableRelationships, failed.Table)

	_, err = svc.GetByID("anything")
	assert.ErrorIs(t, err, ErrNotLoaded)

	src.set(func(s *stubSource) { s.relErr = nil })
	require.NoError(t, svc.Reload(context.Background()))
	assert.Equal(t, StateReady, svc.State())
	assert.Len(t, svc.LoadAll(), 7)
}

func TestDirectoryService_IndependentInstances(t *testing.T) {
	t.Parallel()

	a := NewDirectoryService(newStubSource(), DirectoryServiceOptions{}, nil, discardLogger())
	other := newStubSource()
	other.persons = []person.Person{scenarioAPerson()}
	b := NewDirectoryService(other, DirectoryServiceOptions{}, nil, discardLogger())

	_, err := a.Load(context.Background())
	require.NoError(t, err)
	_, err = b.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, a.LoadAll(), 7)
	assert.Len(t, b.LoadAll(), 1)
}

func TestDirectoryService_LoadFromFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, source.DefaultPersonsFile, "name,service_agency,organization_name,status\n"+
		"Jane Doe,Navy,PEO Ships,\n"+
		",Army,Nowhere,\n"+
		"John Roe,Army,PEO Aviation,Acting\n")
	writeFile(t, dir, source.DefaultRelationshipsFile, "child_entity,child_type,parent_entity,parent_type,relationship_type\n"+
		"PEO Ships,PEO,ASN(RDA),ASN,Reports_To\n")

	loader := source.NewLoader(source.NewFileSource(dir), source.LoaderOptions{Persons: source.PersonOptions{Logger: discardLogger()}})
	svc := NewDirectoryService(loader, DirectoryServiceOptions{}, nil, discardLogger())

	snap, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Persons, 2)
	assert.Len(t, snap.Relationships, 1)
	assert.Equal(t, 1, snap.Ingestion.SkippedRows)
	assert.Equal(t, []string{"Army", "Navy"}, snap.Hierarchy.Services())

	again, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ids(snap.Persons), ids(again.Persons), "ids are stable across loads")
}

func TestDirectoryService_MissingTableFails(t *testing.T) {
	t.Parallel()

	loader := source.NewLoader(source.NewFileSource(t.TempDir()), source.LoaderOptions{})
	svc := NewDirectoryService(loader, DirectoryServiceOptions{}, nil, discardLogger())

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrTableNotFound)
	assert.Equal(t, StateFailed, svc.State())
}

func TestSnapshot_QueriesStayOnTheirOwnLoad(t *testing.T) {
	t.Parallel()

	src := newStubSource()
	svc := NewDirectoryService(src, DirectoryServiceOptions{}, nil, discardLogger())
	held, err := svc.Load(context.Background())
	require.NoError(t, err)

	src.set(func(s *stubSource) { s.personErr = errors.New("timeout") })
	_, err = svc.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, svc.Filter(Criteria{}))

	assert.True(t, held.Loaded())
	assert.Len(t, held.Filter(Criteria{}), 7)
	assert.Len(t, held.Filter(Criteria{Statuses: []string{"Confirmed"}}), 4)
	assert.Equal(t, 7, held.FilteredStats(Criteria{}).TotalRecords)
	assert.Equal(t, 3, held.FilteredStats(Criteria{Services: []string{"Army"}}).TotalRecords)
	assert.Equal(t, 7, held.QualityReport().TotalRecords)
	assert.Equal(t, []string{"Air Force", "Army", "Marines", "Navy"}, held.Values(person.FieldServiceAgency, " ", 1))
	assert.Equal(t, []string{"Navy"}, held.Values(person.FieldServiceAgency, "nav", 10))

	results := held.Search("foster")
	require.NotEmpty(t, results)
	assert.Equal(t, "Frank Foster", results[0].Person.Name())
}
