package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// notFoundSentinel is cached for misses so repeated unknown NDCs do not
// hit the backing catalog
const notFoundSentinel = "__not_found__"

// Cached is a redis read-through wrapper over another Catalog. Lookup
// results (including misses) are cached with a TTL; Search always goes to
// the backing catalog.
type Cached struct {
	next   Catalog
	client *redis.Client
	ttl    time.Duration
}

// NewCached creates a caching catalog in front of next
func NewCached(next Catalog, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, client: client, ttl: ttl}
}

// Lookup implements Catalog
func (c *Cached) Lookup(ctx context.Context, ndc string) (*domain.ProductRecord, error) {
	key := "catalog:ndc:" + ndc

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if val == notFoundSentinel {
			return nil, ErrNotFound
		}
		var rec domain.ProductRecord
		if err := json.Unmarshal([]byte(val), &rec); err == nil {
			return &rec, nil
		}
		// Corrupt cache entry, fall through to the backing catalog
	} else if err != redis.Nil {
		// Redis unavailable: serve from the backing catalog
		return c.next.Lookup(ctx, ndc)
	}

	rec, err := c.next.Lookup(ctx, ndc)
	if err == ErrNotFound {
		_ = c.client.Set(ctx, key, notFoundSentinel, c.ttl).Err()
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rec); err == nil {
		_ = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	return rec, nil
}

// Search implements Catalog
func (c *Cached) Search(ctx context.Context, query string, limit int) ([]domain.ProductRecord, error) {
	return c.next.Search(ctx, query, limit)
}
