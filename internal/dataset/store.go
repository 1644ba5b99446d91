package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	cerrors "cloudeng.io/errors"

	"calview/internal/config"
	"calview/internal/dates"
	"calview/internal/ics"
	appLog "calview/internal/log"
	"calview/internal/model"
)

// sourceData is the last good load of one source.
type sourceData struct {
	items  []model.Item
	events []ics.ParsedEvent
	kind   model.Kind
}

// Stats describes the current snapshot.
type Stats struct {
	Version  uint64    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
	Sources  int       `json:"sources"`
	Items    int       `json:"items"`
	Events   int       `json:"events"`
}

// Store holds the items of every configured source. Reads take a snapshot
// under a read lock; Reload swaps in new data and bumps Version, which the
// rendering layer uses as its cache key.
type Store struct {
	sources []config.SourceConfig
	fetcher *ics.Fetcher
	loc     *time.Location

	// reloadMu serializes Reload; mu guards the snapshot.
	reloadMu sync.Mutex
	mu       sync.RWMutex
	data     map[string]sourceData
	version  uint64
	loadedAt time.Time
}

// New creates an empty Store; call Reload to populate it. loc is the
// display timezone used when expanding ICS occurrences.
func New(sources []config.SourceConfig, fetcher *ics.Fetcher, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	if fetcher == nil {
		fetcher = ics.NewFetcher("", 0)
	}
	return &Store{
		sources: sources,
		fetcher: fetcher,
		loc:     loc,
		data:    make(map[string]sourceData, len(sources)),
	}
}

// Location returns the display timezone.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Version increases by one on every Reload.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Stats returns counters for the current snapshot.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Version: s.version, LoadedAt: s.loadedAt, Sources: len(s.data)}
	for _, d := range s.data {
		st.Items += len(d.items)
		st.Events += len(d.events)
	}
	return st
}

// Reload reads every source. A source that fails keeps its previous data;
// its error is logged and returned as part of a cloudeng.io/errors.M while
// the remaining sources still load.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.mu.RLock()
	next := make(map[string]sourceData, len(s.sources))
	for id, d := range s.data {
		next[id] = d
	}
	s.mu.RUnlock()

	var errs cerrors.M
	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := s.load(ctx, src)
		if err != nil {
			appLog.Error("dataset source failed", err, "id", src.ID, "format", src.Format)
			errs.Append(fmt.Errorf("source %s: %w", src.ID, err))
			continue
		}
		next[src.ID] = d
	}

	s.mu.Lock()
	s.data = next
	s.version++
	s.loadedAt = time.Now()
	version := s.version
	s.mu.Unlock()

	appLog.Info("dataset reloaded", "version", version, "sources", len(s.sources))
	return errs.Err()
}

func (s *Store) load(ctx context.Context, src config.SourceConfig) (sourceData, error) {
	switch src.Format {
	case config.FormatYAML:
		items, err := LoadFile(src.Path, src.ID)
		if err != nil {
			return sourceData{}, err
		}
		return sourceData{items: items}, nil
	case config.FormatICS:
		kind, err := model.ParseKind(src.Kind)
		if err != nil {
			return sourceData{}, err
		}
		res, err := s.fetcher.Fetch(ctx, ics.Source{ID: src.ID, Location: src.Location()})
		if err != nil {
			return sourceData{}, err
		}
		events, err := ics.Parse(res.Source, res.Body)
		if err != nil {
			return sourceData{}, err
		}
		return sourceData{events: events, kind: kind}, nil
	default:
		return sourceData{}, fmt.Errorf("unknown format %q", src.Format)
	}
}

// Items returns every item touching p: static dataset items as loaded
// (the core builders drop what falls outside p) followed by the ICS
// occurrences expanded for p. Sources keep their configured order.
func (s *Store) Items(p dates.Period) ([]model.Item, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Item
	for _, src := range s.sources {
		d, ok := s.data[src.ID]
		if !ok {
			continue
		}
		out = append(out, d.items...)
		if len(d.events) == 0 {
			continue
		}
		res, err := ics.Expand(d.events, ics.ExpandConfig{
			Location: s.loc,
			Period:   p,
			Kind:     d.kind,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, res.Items...)
	}
	if out == nil {
		out = []model.Item{}
	}
	return out, nil
}
