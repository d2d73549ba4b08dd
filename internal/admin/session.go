package admin

import (
	"maps"
	"sync"
	"time"

	"injdash/internal/probe"
)

// Session is the dashboard state that outlives a single request: the result
// of the last batch probe. It is handed to every page render explicitly.
type Session struct {
	mu        sync.RWMutex
	results   probe.Results
	checkedAt time.Time
}

func NewSession() *Session { return &Session{} }

func (s *Session) SetProbe(res probe.Results, at time.Time) {
	s.mu.Lock()
	s.results = maps.Clone(res)
	s.checkedAt = at
	s.mu.Unlock()
}

// Probe returns a copy of the last batch result; ok is false if no batch has
// run yet.
func (s *Session) Probe() (res probe.Results, at time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		return nil, time.Time{}, false
	}
	return maps.Clone(s.results), s.checkedAt, true
}
