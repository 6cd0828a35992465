package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrStale indicates a refresh completed after a newer one already installed
// its snapshot; the stale result is discarded rather than applied.
var ErrStale = errors.New("dataset: refresh superseded by a newer one")

// ErrNoData indicates no snapshot has been loaded yet.
var ErrNoData = errors.New("dataset: no snapshot loaded")

// Store holds the current dataset snapshot. There is exactly one writer path
// (Refresh/Install); readers receive the snapshot value and never observe a
// partially-replaced dataset. Out-of-order fetch completions are resolved by
// a monotonic version token: only the newest issued refresh may install.
type Store struct {
	mu      sync.RWMutex
	snap    *Snapshot
	issued  int64 // last version handed to a refresh attempt
	applied int64 // version of the installed snapshot

	source Source
	clock  func() time.Time
	log    zerolog.Logger
}

// NewStore constructs a Store bound to the given source. clock may be nil
// (defaults to time.Now); tests inject a fixed clock.
func NewStore(source Source, clock func() time.Time, log zerolog.Logger) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{source: source, clock: clock, log: log}
}

// Snapshot returns the current snapshot, or ErrNoData before the first load.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNoData
	}
	return s.snap, nil
}

// Refresh fetches from the configured source and atomically installs the
// result as the new snapshot. Headers and records are always replaced
// together. On fetch failure nothing is installed and the previous snapshot
// stays current. A refresh whose fetch finishes after a newer refresh has
// installed returns ErrStale and its result is dropped.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	s.issued++
	version := s.issued
	s.mu.Unlock()

	attempt := uuid.NewString()
	s.log.Info().Str("attempt", attempt).Int64("version", version).Str("source", s.source.Name()).Msg("refresh started")

	headers, rows, err := s.source.Fetch(ctx)
	if err != nil {
		s.log.Error().Str("attempt", attempt).Err(err).Msg("refresh failed")
		return nil, err
	}

	snap, err := s.install(headers, rows, version, s.source.Name())
	if err != nil {
		s.log.Warn().Str("attempt", attempt).Int64("version", version).Msg("refresh result discarded as stale")
		return nil, err
	}
	s.log.Info().Str("attempt", attempt).Int64("version", version).Int("records", len(rows)).Msg("refresh complete")
	return snap, nil
}

// Install replaces the snapshot with externally-loaded data (e.g. a local
// workbook). The same version ordering applies.
func (s *Store) Install(headers []string, rows []Record, source string) (*Snapshot, error) {
	s.mu.Lock()
	s.issued++
	version := s.issued
	s.mu.Unlock()
	return s.install(headers, rows, version, source)
}

func (s *Store) install(headers []string, rows []Record, version int64, source string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version <= s.applied {
		return nil, ErrStale
	}
	snap := &Snapshot{
		Headers:   headers,
		Records:   rows,
		Version:   version,
		FetchedAt: s.clock(),
		Source:    source,
	}
	s.applied = version
	s.snap = snap
	return snap, nil
}
