package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

func (m *memoryItem) expired(now time.Time) bool { return now.After(m.expireAt) }

// Memory is an in-process Store with TTL expiry and LRU eviction. Used
// when Redis is not configured.
type Memory struct {
	mu      sync.Mutex
	data    map[string]*memoryItem
	access  map[string]time.Time
	maxSize int
	janitor *time.Ticker
	done    chan struct{}
}

// NewMemory creates an in-memory cache holding at most maxSize entries.
func NewMemory(maxSize int, cleanupInterval time.Duration) *Memory {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	m := &Memory{
		data:    make(map[string]*memoryItem),
		access:  make(map[string]time.Time),
		maxSize: maxSize,
		janitor: time.NewTicker(cleanupInterval),
		done:    make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := encodeValue(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok && len(m.data) >= m.maxSize {
		m.evictOldest()
	}
	m.data[key] = &memoryItem{value: b, expireAt: time.Now().Add(ttl)}
	m.access[key] = time.Now()
	return nil
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.data[key]
	if !ok || item.expired(time.Now()) {
		if ok {
			delete(m.data, key)
			delete(m.access, key)
		}
		return ErrCacheMiss
	}
	m.access[key] = time.Now()
	return decodeValue(item.value, dest)
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
		delete(m.access, key)
	}
	return nil
}

// Close stops the cleanup loop.
func (m *Memory) Close() error {
	m.janitor.Stop()
	close(m.done)
	return nil
}

func (m *Memory) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for key, at := range m.access {
		if first || at.Before(oldestTime) {
			oldestKey, oldestTime = key, at
			first = false
		}
	}
	if oldestKey != "" {
		delete(m.data, oldestKey)
		delete(m.access, oldestKey)
	}
}

func (m *Memory) cleanupLoop() {
	for {
		select {
		case <-m.done:
			return
		case now := <-m.janitor.C:
			m.mu.Lock()
			for key, item := range m.data {
				if item.expired(now) {
					delete(m.data, key)
					delete(m.access, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
