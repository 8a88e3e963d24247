package cache

import (
	"context"
	"sync"
	"time"
)

// assetEntry represents a cached asset with expiration
type assetEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryAssetCache implements AssetCache using a bounded in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryAssetCache struct {
	mu         sync.RWMutex
	entries    map[string]assetEntry
	maxEntries int
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewInMemoryAssetCache creates a new in-memory asset cache holding at
// most maxEntries assets. It starts a background goroutine to clean up
// expired entries.
func NewInMemoryAssetCache(maxEntries int) *InMemoryAssetCache {
	if maxEntries <= 0 {
		maxEntries = 256
	}

	c := &InMemoryAssetCache{
		entries:    make(map[string]assetEntry),
		maxEntries: maxEntries,
		stopChan:   make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached bytes for a URL, or (nil, false) on a miss
func (c *InMemoryAssetCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[url]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores the bytes for a URL with a TTL. When the cache is full it
// evicts the entry closest to expiry to make room.
func (c *InMemoryAssetCache) Set(_ context.Context, url string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.maxEntries {
		c.evictSoonestLocked()
	}

	c.entries[url] = assetEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryAssetCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of cached entries (for testing/monitoring)
func (c *InMemoryAssetCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictSoonestLocked removes the entry with the earliest expiration.
// Caller must hold the write lock.
func (c *InMemoryAssetCache) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	for url, e := range c.entries {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim = url
			soonest = e.expiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryAssetCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryAssetCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for url, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, url)
		}
	}
}

var _ AssetCache = (*InMemoryAssetCache)(nil)
