// Package idcache maps content ids back to the source URLs they were
// scraped from. The mapping lives for the process lifetime only; a miss is
// never fatal because callers can rebuild a URL from the id's slug.
package idcache

import "sync"

// Store is the id -> source URL mapping written by the catalog pass and
// read by detail and stream resolution. Implementations must be safe for
// concurrent use; last write wins on duplicate ids.
type Store interface {
	Put(id, url string)
	Get(id string) (string, bool)
}

// NewMemory returns an unbounded in-memory Store with no expiry.
func NewMemory() Store {
	return &memoryStore{entries: make(map[string]string)}
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func (s *memoryStore) Put(id, url string) {
	if id == "" || url == "" {
		return
	}
	s.mu.Lock()
	s.entries[id] = url
	s.mu.Unlock()
}

func (s *memoryStore) Get(id string) (string, bool) {
	s.mu.RLock()
	url, ok := s.entries[id]
	s.mu.RUnlock()
	return url, ok
}
