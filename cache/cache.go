// Package cache holds a small bounded TTL cache for API responses.
package cache

import (
	"sync"
	"time"
)

// Cache is the response-cache capability handed to the API layer.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type entry struct {
	value   any
	expires time.Time
}

// Memory is an in-process Cache with a fixed TTL and a max entry count.
// When full, the entry closest to expiry is evicted.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.entries) >= m.maxEntries {
		m.evict(now)
	}
	m.entries[key] = entry{value: value, expires: now.Add(m.ttl)}
}

// evict removes expired entries, or the soonest-to-expire one when nothing
// has expired yet. Called with the lock held.
func (m *Memory) evict(now time.Time) {
	var oldestKey string
	var oldestExpiry time.Time
	removed := false
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
			removed = true
			continue
		}
		if oldestKey == "" || e.expires.Before(oldestExpiry) {
			oldestKey, oldestExpiry = k, e.expires
		}
	}
	if !removed && oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

// Noop caches nothing. Used in tests.
type Noop struct{}

func (Noop) Get(string) (any, bool) { return nil, false }
func (Noop) Set(string, any)        {}
