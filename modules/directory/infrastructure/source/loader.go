package source

import (
	"context"

	"github.com/go-faster/errors"
)

type LoaderOptions struct {
	PersonsFile       string
	RelationshipsFile string
	Persons           PersonOptions
}

// Loader reads both directory tables from a Source.
type Loader struct {
	src  Source
	opts LoaderOptions
}

func NewLoader(src Source, opts LoaderOptions) *Loader {
	if opts.PersonsFile == "" {
		opts.PersonsFile = DefaultPersonsFile
	}
	if opts.RelationshipsFile == "" {
		opts.RelationshipsFile = DefaultRelationshipsFile
	}
	return &Loader{src: src, opts: opts}
}

func (l *Loader) Persons(ctx context.Context) (PersonTable, error) {
	rc, err := l.src.Open(ctx, l.opts.PersonsFile)
	if err != nil {
		return PersonTable{}, err
	}
	defer rc.Close()

	table, err := ReadPersons(rc, l.opts.Persons)
	if err != nil {
		return PersonTable{}, errors.Wrapf(err, "parse %s", l.opts.PersonsFile)
	}
	return table, nil
}

func (l *Loader) Relationships(ctx context.Context) (RelationshipTable, error) {
	rc, err := l.src.Open(ctx, l.opts.RelationshipsFile)
	if err != nil {
		return RelationshipTable{}, err
	}
	defer rc.Close()

	table, err := ReadRelationships(rc)
	if err != nil {
		return RelationshipTable{}, errors.Wrapf(err, "parse %s", l.opts.RelationshipsFile)
	}
	return table, nil
}

func (l *Loader) String() string {
	return l.src.String()
}
