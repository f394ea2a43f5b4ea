package graph

import (
	"container/list"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang/snappy"
)

// Fingerprint returns a stable cache key for a query
func (q Query) Fingerprint() string {
	q = q.WithDefaults()
	from, to := "", ""
	if q.From != nil {
		from = q.From.UTC().Format(time.RFC3339)
	}
	if q.To != nil {
		to = q.To.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%d|%d", q.DatasetScope, from, to, q.EventType, q.MinEdgeWeight, q.LimitNodes)
}

// PayloadCache keeps recently built payloads as snappy-compressed JSON,
// keyed by query fingerprint. Builds over large datasets are expensive and
// investigators toggle between a handful of filter combinations.
type PayloadCache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List // front = most recent
	entries map[string]*list.Element
}

type cacheEntry struct {
	key  string
	blob []byte
}

// NewPayloadCache creates a cache holding up to maxSize payloads
func NewPayloadCache(maxSize int) *PayloadCache {
	if maxSize < 1 {
		maxSize = 16
	}
	return &PayloadCache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Put stores a payload under the query's fingerprint
func (c *PayloadCache) Put(q Query, p *Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	blob := snappy.Encode(nil, data)
	key := q.Fingerprint()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).blob = blob
		c.order.MoveToFront(elem)
		return nil
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, blob: blob})
	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return nil
}

// Get returns the cached payload for the query, or nil on miss.
// The returned payload is a fresh decode, never a shared pointer.
func (c *PayloadCache) Get(q Query) *Payload {
	key := q.Fingerprint()

	c.mu.Lock()
	elem, ok := c.entries[key]
	var blob []byte
	if ok {
		blob = elem.Value.(*cacheEntry).blob
		c.order.MoveToFront(elem)
	}
	c.mu.Unlock()

	if !ok {
		return nil
	}

	data, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// Len returns the number of cached payloads
func (c *PayloadCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
