package services

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const DefaultSearchDebounce = 150 * time.Millisecond

type Searcher interface {
	Search(query string) []SearchResult
}

// SearchUpdate is delivered once per settled query.
type SearchUpdate struct {
	Query      string
	Results    []SearchResult
	Generation uint64
}

type SearchSessionOptions struct {
	Delay time.Duration
	// OnResult runs serialized with other deliveries; it must not call SetQuery.
	OnResult func(SearchUpdate)
}

// SearchSession debounces typeahead input. Every SetQuery cancels the pending
// evaluation; only the latest query can publish results.
type SearchSession struct {
	searcher Searcher
	delay    time.Duration
	onResult func(SearchUpdate)

	deliverMu sync.Mutex

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	pending    bool
	running    int
	latest     SearchUpdate
	closed     bool
}

func NewSearchSession(searcher Searcher, opts SearchSessionOptions) *SearchSession {
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &SearchSession{
		searcher: searcher,
		delay:    delay,
		onResult: opts.OnResult,
		latest:   SearchUpdate{Results: []SearchResult{}},
	}
}

func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		s.pending = false
		s.mu.Unlock()
		s.deliver(gen, SearchUpdate{Query: query, Results: []SearchResult{}, Generation: gen})
		return
	}

	s.pending = true
	s.timer = time.AfterFunc(s.delay, func() { s.run(gen, query) })
	s.mu.Unlock()
}

func (s *SearchSession) run(gen uint64, query string) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	s.running++
	s.mu.Unlock()

	results := s.searcher.Search(query)

	s.mu.Lock()
	s.running--
	s.mu.Unlock()

	s.deliver(gen, SearchUpdate{Query: query, Results: results, Generation: gen})
}

// deliver publishes update unless a newer query has been scheduled since.
func (s *SearchSession) deliver(gen uint64, update SearchUpdate) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.latest = update
	cb := s.onResult
	s.mu.Unlock()

	if cb != nil {
		cb(update)
	}
}

// Latest returns the most recently published update.
func (s *SearchSession) Latest() SearchUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// IsPending reports whether a query is waiting for the debounce window to elapse.
func (s *SearchSession) IsPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// IsSearching reports whether an evaluation is executing.
func (s *SearchSession) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running > 0
}

// Close cancels any pending evaluation and drops later results.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
