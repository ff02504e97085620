package compute

import "sync"

// Key identifies one cached team-side feature value. AsOf carries the
// matchup date (YYYY-MM-DD): the same feature resolves to a different
// window every day, so values never carry across dates.
type Key struct {
	Team    string
	Season  int
	AsOf    string
	Feature string
}

// Cache stores computed team-side values. Implementations must be safe for
// concurrent use; the computer reads and writes it from request goroutines.
type Cache interface {
	Get(key Key) (float64, bool)
	Upsert(key Key, value float64)
	// InvalidateSeason drops every entry for one season, for use when that
	// season's game logs are re-ingested.
	InvalidateSeason(season int)
}

// MemoryCache is the in-process Cache used by default.
type MemoryCache struct {
	mu     sync.RWMutex
	values map[Key]float64
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[Key]float64)}
}

func (c *MemoryCache) Get(key Key) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *MemoryCache) Upsert(key Key, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *MemoryCache) InvalidateSeason(season int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.values {
		if key.Season == season {
			delete(c.values, key)
		}
	}
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}
