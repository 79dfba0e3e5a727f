package engine

import (
	"fmt"
	"sync"
	"time"
)

// resultCache memoizes calculation results by input tuple. Entries are
// time-boxed and the cache is capacity-bounded with oldest-insertion
// eviction. It is an explicit object owned by the Calculator, not a
// module-level singleton.
type resultCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	now      func() time.Time
	entries  map[string]cacheEntry
	order    []string
}

type cacheEntry struct {
	result   Result
	storedAt time.Time
}

func newResultCache(ttl time.Duration, capacity int) *resultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if capacity <= 0 {
		capacity = 128
	}
	return &resultCache{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		entries:  make(map[string]cacheEntry, capacity),
	}
}

// cacheKey flattens the full input tuple; any field that changes the
// result must appear here.
func cacheKey(cfg Config) string {
	o := cfg.Options
	s := o.Sustainability
	return fmt.Sprintf("%g|%s|%d|%s|%t|%g|%t|%t|%g|%s",
		cfg.KWPerRack, cfg.CoolingType, cfg.TotalRacks,
		o.Redundancy, o.IncludeGenerator, o.BatteryRuntimeMinutes,
		s.EnableWasteHeatRecovery, s.EnableWaterRecycling, s.RenewableEnergyPercentage,
		o.Location)
}

func (c *resultCache) get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return Result{}, false
	}
	return entry.result, true
}

func (c *resultCache) put(key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.capacity && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
}
