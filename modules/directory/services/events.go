package services

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryLoadedEvent is published after a snapshot has been swapped in.
type DirectoryLoadedEvent struct {
	EventID       uuid.UUID
	Source        string
	Persons       int
	Relationships int
	SkippedRows   int
	Duration      time.Duration
	LoadedAt      time.Time
}

// DirectoryLoadFailedEvent is published when a load leaves the directory empty.
type DirectoryLoadFailedEvent struct {
	EventID  uuid.UUID
	Source   string
	Table    string
	Err      error
	FailedAt time.Time
}
