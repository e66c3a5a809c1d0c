package pipeline

import (
	"sync"
	"time"
)

// Stats counts pipeline activity for the status API. Written by the
// pipeline, read by HTTP handlers.
type Stats struct {
	mu                sync.Mutex
	runsStarted       int
	runsCompleted     int
	articlesPublished int
	lastRun           time.Time
}

type StatsSnapshot struct {
	RunsStarted       int        `json:"runs_started"`
	RunsCompleted     int        `json:"runs_completed"`
	ArticlesPublished int        `json:"articles_published"`
	LastRun           *time.Time `json:"last_run,omitempty"`
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) runStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runsStarted++
	s.lastRun = time.Now()
}

func (s *Stats) runCompleted(published int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runsCompleted++
	s.articlesPublished += published
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := StatsSnapshot{
		RunsStarted:       s.runsStarted,
		RunsCompleted:     s.runsCompleted,
		ArticlesPublished: s.articlesPublished,
	}
	if !s.lastRun.IsZero() {
		lastRun := s.lastRun
		snapshot.LastRun = &lastRun
	}
	return snapshot
}
