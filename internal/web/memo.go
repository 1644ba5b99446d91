package web

import (
	"calview/internal/dates"
	appLog "calview/internal/log"
	"calview/internal/model"
)

// memoKey identifies one built view. Layouts are pure functions of these
// inputs, so a hit can be served as is.
type memoKey struct {
	view    string
	kind    model.Kind
	period  dates.Period
	version uint64
	today   dates.Date
}

// maxMemoEntries bounds the cache; browsing many months only keeps the
// most recent ones around.
const maxMemoEntries = 64

func (s *Server) memoGet(k memoKey) (any, bool) {
	s.memoMu.RLock()
	defer s.memoMu.RUnlock()
	v, ok := s.memo[k]
	if ok {
		appLog.Debug("api memo hit", "view", k.view, "month", k.period.String(), "version", k.version)
	}
	return v, ok
}

// memoPut stores v. Entries built from an older dataset version or for a
// previous day are dropped first.
func (s *Server) memoPut(k memoKey, v any) {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	for old := range s.memo {
		if old.version != k.version || old.today != k.today {
			delete(s.memo, old)
		}
	}
	if len(s.memo) >= maxMemoEntries {
		clear(s.memo)
	}
	s.memo[k] = v
}

func (s *Server) memoLen() int {
	s.memoMu.RLock()
	defer s.memoMu.RUnlock()
	return len(s.memo)
}
