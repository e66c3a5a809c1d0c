package seenset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// maxEntries caps snapshot growth; beyond it the oldest half is dropped.
const maxEntries = 1000

// snapshot is the persisted form: the full membership list plus the time of
// the last rewrite. The file is rewritten in full on every mutation.
type snapshot struct {
	URLs        []string  `json:"urls"`
	LastUpdated time.Time `json:"last_updated"`
}

// Store is the durable set of article links already delivered to the channel.
// A link enters the set only after a successful delivery, never merely after
// collection or generation: a failed delivery leaves the article eligible for
// a later run, a successful one is never delivered twice.
type Store struct {
	mu    sync.Mutex
	path  string
	links []string
	index map[string]bool
}

// Load reads the snapshot at path. A missing or unreadable file yields an
// empty set; losing the file only risks re-delivery, never a crash.
func Load(path string) *Store {
	s := &Store{
		path:  path,
		index: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read seen-articles snapshot, starting empty", "path", path, "error", err)
		}
		return s
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("Corrupt seen-articles snapshot, starting empty", "path", path, "error", err)
		return s
	}

	for _, link := range snap.URLs {
		if !s.index[link] {
			s.index[link] = true
			s.links = append(s.links, link)
		}
	}

	slog.Info("Seen-articles snapshot loaded", "path", path, "entries", len(s.links))
	return s
}

// Contains reports whether link was already delivered.
func (s *Store) Contains(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[link]
}

// Add records a delivered link and immediately rewrites the snapshot. Called
// once per successful delivery, so a crash loses at most the entry being
// written, never previously confirmed deliveries.
func (s *Store) Add(link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.index[link] {
		s.index[link] = true
		s.links = append(s.links, link)
		s.trim()
	}

	return s.flush()
}

// Len returns the current number of recorded links.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// trim drops the oldest half once the set exceeds maxEntries. Insertion
// order doubles as age order because links are only ever appended.
func (s *Store) trim() {
	if len(s.links) <= maxEntries {
		return
	}

	dropped := s.links[:len(s.links)/2]
	s.links = append([]string(nil), s.links[len(s.links)/2:]...)
	for _, link := range dropped {
		delete(s.index, link)
	}

	slog.Info("Seen-articles set trimmed", "dropped", len(dropped), "kept", len(s.links))
}

func (s *Store) flush() error {
	snap := snapshot{
		URLs:        s.links,
		LastUpdated: time.Now(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}
