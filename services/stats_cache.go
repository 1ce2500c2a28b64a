package services

import (
	"context"
	"lead_funnel_go/models"
	"lead_funnel_go/services/sheets"
	"log"
	"sync"
	"time"
)

// StatsNotifier fans out "a lead was saved" events to subscribers
type StatsNotifier struct {
	mu          sync.Mutex
	version     uint64
	subscribers []func(version uint64)
}

func NewStatsNotifier() *StatsNotifier {
	return &StatsNotifier{}
}

// Subscribe registers fn to run after every Notify
func (n *StatsNotifier) Subscribe(fn func(version uint64)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// Notify bumps the version and calls subscribers outside the lock
func (n *StatsNotifier) Notify() {
	n.mu.Lock()
	n.version++
	version := n.version
	subs := append([]func(uint64){}, n.subscribers...)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(version)
	}
}

// Version returns how many times Notify has run
func (n *StatsNotifier) Version() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.version
}

// StatsCache keeps the last stats and count reads for ttl. Store calls run
// without the lock, so Invalidate never waits on a slow read.
type StatsCache struct {
	store sheets.Store
	ttl   time.Duration
	now   func() time.Time

	mu         sync.Mutex
	generation uint64
	stats      *models.LeadStats
	statsAt    time.Time
	count      int
	hasCount   bool
	countAt    time.Time
}

// NewStatsCache creates a cache over store, invalidated by notifier when given
func NewStatsCache(store sheets.Store, ttl time.Duration, notifier *StatsNotifier) *StatsCache {
	c := &StatsCache{store: store, ttl: ttl, now: time.Now}
	if notifier != nil {
		notifier.Subscribe(func(uint64) { c.Invalidate() })
	}
	return c
}

func (c *StatsCache) fresh(at, now time.Time) bool {
	return c.ttl > 0 && now.Sub(at) < c.ttl
}

// Stats returns cached stats or reads them from the store. Errors are not
// cached, and a read that overlaps an Invalidate is returned but not kept.
func (c *StatsCache) Stats(ctx context.Context) (*models.LeadStats, error) {
	c.mu.Lock()
	now := c.now()
	if c.stats != nil && c.fresh(c.statsAt, now) {
		cached := *c.stats
		c.mu.Unlock()
		return &cached, nil
	}
	generation := c.generation
	c.mu.Unlock()

	stats, err := c.store.Stats(ctx, now)
	if err != nil {
		return nil, err
	}
	log.Printf("[stats] Refreshed from %s: total=%d last30=%d", c.store.Name(), stats.TotalCount, stats.Last30DaysCount)

	c.mu.Lock()
	if c.generation == generation {
		kept := *stats
		c.stats = &kept
		c.statsAt = now
	}
	c.mu.Unlock()

	return stats, nil
}

// Count returns the total lead count from the store's count read
func (c *StatsCache) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	now := c.now()
	if c.hasCount && c.fresh(c.countAt, now) {
		count := c.count
		c.mu.Unlock()
		return count, nil
	}
	generation := c.generation
	c.mu.Unlock()

	count, err := c.store.CountLeads(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if c.generation == generation {
		c.count = count
		c.hasCount = true
		c.countAt = now
	}
	c.mu.Unlock()

	return count, nil
}

// Invalidate drops the cached values and discards reads still in flight
func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.stats = nil
	c.hasCount = false
}
