package catalog

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/fairyhunter13/shopping-list-service/internal/model"
)

// Cached wraps a Catalog and keeps resolved products for a fixed TTL.
// Absent products are not cached.
type Cached struct {
	next  Catalog
	cache *ttlcache.Cache[string, model.Product]
}

// NewCached returns a caching decorator around next.
func NewCached(next Catalog, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: ttlcache.New[string, model.Product](
			ttlcache.WithTTL[string, model.Product](ttl),
			ttlcache.WithDisableTouchOnHit[string, model.Product](),
		),
	}
}

// Start runs the expired-entry eviction loop until Stop is called.
func (c *Cached) Start() { go c.cache.Start() }

// Stop ends the eviction loop.
func (c *Cached) Stop() { c.cache.Stop() }

func (c *Cached) ProductsBySku(ctx context.Context, skuIDs []string) ([]*model.Product, error) {
	out := make([]*model.Product, len(skuIDs))
	var missing []string
	var missingIdx []int
	for i, sku := range skuIDs {
		if item := c.cache.Get(sku); item != nil {
			p := item.Value()
			out[i] = &p
			continue
		}
		missing = append(missing, sku)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}
	fetched, err := c.next.ProductsBySku(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, p := range fetched {
		if j >= len(missingIdx) {
			break
		}
		if p == nil {
			continue
		}
		c.cache.Set(missing[j], *p, ttlcache.DefaultTTL)
		out[missingIdx[j]] = p
	}
	return out, nil
}
