package maps

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhijithns29/propchain/internal/domain"
	"github.com/abhijithns29/propchain/internal/observability"
)

// CachedMapper wraps a Mapper with an in-memory LRU cache. Driving distances
// and place lookups for the same coordinates repeat heavily across requests
// in the same district.
type CachedMapper struct {
	inner   domain.Mapper
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedMapper creates a cache decorator around a mapper.
func NewCachedMapper(inner domain.Mapper, maxEntries int, metrics *observability.Metrics) *CachedMapper {
	return &CachedMapper{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedMapper) DrivingDistance(ctx context.Context, origin, dest domain.LatLng) (float64, bool, error) {
	key := fmt.Sprintf("drv:%.6f,%.6f|%.6f,%.6f", origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	if v, ok := c.cache.get(key); ok {
		c.metrics.MapsCache.WithLabelValues("driving", "hit").Inc()
		return v.km, v.found, nil
	}
	c.metrics.MapsCache.WithLabelValues("driving", "miss").Inc()

	km, found, err := c.inner.DrivingDistance(ctx, origin, dest)
	if err != nil {
		return km, found, err
	}
	// Only cache resolved routes so transient "no route" responses can be
	// retried.
	if found {
		c.cache.put(key, cachedResult{km: km, found: true})
	}
	return km, found, nil
}

func (c *CachedMapper) NearestPlace(ctx context.Context, around domain.LatLng, radiusMeters int, placeType domain.PlaceType) (domain.LatLng, bool, error) {
	key := fmt.Sprintf("plc:%.6f,%.6f|%d|%s", around.Lat, around.Lng, radiusMeters, placeType)
	if v, ok := c.cache.get(key); ok {
		c.metrics.MapsCache.WithLabelValues("places", "hit").Inc()
		return v.loc, v.found, nil
	}
	c.metrics.MapsCache.WithLabelValues("places", "miss").Inc()

	loc, found, err := c.inner.NearestPlace(ctx, around, radiusMeters, placeType)
	if err != nil {
		return loc, found, err
	}
	if found {
		c.cache.put(key, cachedResult{loc: loc, found: true})
	}
	return loc, found, nil
}

type cachedResult struct {
	km    float64
	loc   domain.LatLng
	found bool
}

// lruCache is a simple thread-safe LRU cache for mapper results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value cachedResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (cachedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return cachedResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value cachedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
