package cache

import (
	"fmt"
	"sync"
	"time"

	"linernotes/internal/listing"
)

// entry is one rendered listing with its expiration
type entry struct {
	body       []byte
	status     int
	expiration time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expiration)
}

// ListingCache holds rendered listing bodies keyed by catalog version and
// view state. A reload changes the version, so stale renders are never hit.
type ListingCache struct {
	items map[string]*entry
	mutex sync.RWMutex
	ttl   time.Duration
	limit int
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewListingCache creates a cache whose entries live for ttl. At most limit
// entries are kept; a full cache is swept before each insert.
func NewListingCache(ttl time.Duration, limit int) *ListingCache {
	c := &ListingCache{
		items: make(map[string]*entry),
		ttl:   ttl,
		limit: limit,
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	go c.cleanupExpired()

	return c
}

// Key builds the cache key of one rendering
func Key(kind string, version int64, state listing.ViewState, reducedMotion bool) string {
	return fmt.Sprintf("%s|%d|%q|%q|%s|%t", kind, version, state.SearchQuery, state.SelectedGenre, state.SortKey, reducedMotion)
}

// Set stores a rendered body
func (c *ListingCache) Set(key string, status int, body []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	if c.limit > 0 && len(c.items) >= c.limit {
		c.sweep(now)
		if len(c.items) >= c.limit {
			c.items = make(map[string]*entry)
		}
	}

	c.items[key] = &entry{
		body:       body,
		status:     status,
		expiration: now.Add(c.ttl),
	}
}

// Get returns a rendered body and its status code
func (c *ListingCache) Get(key string) ([]byte, int, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.items[key]
	if !ok || e.expired(c.now()) {
		return nil, 0, false
	}
	return e.body, e.status, true
}

// Clear removes every entry
func (c *ListingCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]*entry)
}

// Size returns the number of stored entries, expired ones included
func (c *ListingCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

// Close stops the cleanup goroutine
func (c *ListingCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Done is closed once Close has been called
func (c *ListingCache) Done() <-chan struct{} {
	return c.stop
}

func (c *ListingCache) sweep(now time.Time) {
	for key, e := range c.items {
		if e.expired(now) {
			delete(c.items, key)
		}
	}
}

func (c *ListingCache) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mutex.Lock()
			c.sweep(c.now())
			c.mutex.Unlock()
		}
	}
}
