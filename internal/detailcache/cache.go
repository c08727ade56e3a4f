// Package detailcache memoizes per-document detail records so repeated
// renders of a result set cost zero network calls. Backed by an expirable
// LRU; the default TTL of zero means entries live for the whole session
// and are only replaced by an explicit invalidation or refetch.
package detailcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/docharbor/docsearch/internal/types"
)

// DefaultSize bounds the number of cached detail records per coordinator.
const DefaultSize = 2048

// Fetcher loads detail records for the given document IDs in one batch.
type Fetcher func(ctx context.Context, ids []string) ([]types.DocumentDetail, error)

// Cache is a per-coordinator detail store. It is safe for concurrent use.
type Cache struct {
	lru   *expirable.LRU[string, types.DocumentDetail]
	fetch Fetcher
}

// New constructs a Cache. size <= 0 selects DefaultSize; ttl <= 0 disables
// expiration (session-lifetime entries).
func New(size int, ttl time.Duration, fetch Fetcher) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{
		lru:   expirable.NewLRU[string, types.DocumentDetail](size, nil, ttl),
		fetch: fetch,
	}
}

// GetDetails returns detail records for ids, serving cached entries
// without a network call and fetching the rest as a single batch. Every
// fetched record is written to the cache before the merged map is
// returned.
//
// A failed batch fetch leaves cached entries untouched: the cached subset
// is returned together with the error, and callers must treat missing keys
// as "use record-derived fallback", never as fatal.
func (c *Cache) GetDetails(ctx context.Context, ids []string) (map[string]types.DocumentDetail, error) {
	out := make(map[string]types.DocumentDetail, len(ids))
	var missing []string
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if d, ok := c.lru.Get(id); ok {
			hitsTotal.Inc()
			out[id] = d
			continue
		}
		missesTotal.Inc()
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.fetch(ctx, missing)
	if err != nil {
		return out, err
	}
	now := time.Now()
	for _, d := range fetched {
		if d.DocumentKey == "" {
			continue
		}
		if d.FetchedAt.IsZero() {
			d.FetchedAt = now
		}
		c.lru.Add(d.DocumentKey, d)
		out[d.DocumentKey] = d
	}
	return out, nil
}

// Peek returns the cached entry for id without touching recency or
// issuing a fetch.
func (c *Cache) Peek(id string) (types.DocumentDetail, bool) {
	return c.lru.Peek(id)
}

// Invalidate drops the entries for the given ids. Used by the manual
// refresh path before refetching.
func (c *Cache) Invalidate(ids ...string) {
	for _, id := range ids {
		c.lru.Remove(id)
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
