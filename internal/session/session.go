// Package session holds per-session symbol caches. A cache is created on the
// first lookup for a session id and destroyed by Reset or by an idle Sweep.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Cache maps trimmed raw input to a resolved symbol for one session.
type Cache interface {
	Get(raw string) (string, bool)
	Put(raw, symbol string)
	Clear()
}

// Store owns the caches of all sessions.
type Store interface {
	// Session returns the cache for id, creating it if needed, and marks the session active.
	Session(id string) Cache
	// Reset clears the cache of id.
	Reset(id string) error
	// Sweep drops sessions idle for longer than idle and reports how many went.
	Sweep(idle time.Duration) (int, error)
	Close() error
}

// NewID returns a fresh session id.
func NewID() string { return uuid.NewString() }

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache creates an empty MemoryCache.
func NewCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) Get(raw string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[raw]
	return s, ok
}

func (c *MemoryCache) Put(raw, symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[raw] = symbol
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type memorySession struct {
	cache    *MemoryCache
	lastSeen time.Time
}

// MemoryStore keeps sessions in memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession), now: time.Now}
}

func (s *MemoryStore) Session(id string) Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &memorySession{cache: NewCache()}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.now()
	return sess.cache
}

func (s *MemoryStore) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.cache.Clear()
	}
	return nil
}

func (s *MemoryStore) Sweep(idle time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) Close() error { return nil }
