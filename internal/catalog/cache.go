// In file: internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/logger"
	"github.com/dileep-u-k/cafe-gateway/internal/metrics"
	"github.com/dileep-u-k/cafe-gateway/internal/version"

	"github.com/redis/go-redis/v9"
)

const (
	menuCachePrefix  = "menucache"
	defaultMenuTTL   = 5 * time.Minute
	menuSnapshotName = "all"
)

// CachedStore keeps a JSON snapshot of the full menu in Redis in front of another Store.
// Every write goes to the backing store first and then drops the snapshot. Redis failures
// are logged and the backing store answers instead.
type CachedStore struct {
	next   Store
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ Store = (*CachedStore)(nil)

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = defaultMenuTTL
	}
	return &CachedStore{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "menu_cache"}),
	}
}

func snapshotKey() string {
	return version.GenerateVersionedCacheKey(menuCachePrefix, menuSnapshotName)
}

func (c *CachedStore) ListAll(ctx context.Context) ([]MenuItem, error) {
	key := snapshotKey()
	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []MenuItem
		jsonErr := json.Unmarshal(cached, &items)
		if jsonErr == nil {
			metrics.MenuCacheLookups.WithLabelValues("hit").Inc()
			return items, nil
		}
		c.logger.Warn("discarding undecodable menu snapshot", map[string]interface{}{"error": jsonErr})
	case errors.Is(err, redis.Nil):
		metrics.MenuCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.MenuCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("menu snapshot read failed", map[string]interface{}{"error": err})
	}

	items, err := c.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("menu snapshot write failed", map[string]interface{}{"error": err})
		}
	}
	return items, nil
}

// ListReady is served from the full snapshot so both views stay consistent.
func (c *CachedStore) ListReady(ctx context.Context) ([]MenuItem, error) {
	items, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterReady(items), nil
}

func (c *CachedStore) Get(ctx context.Context, id int64) (*MenuItem, error) {
	return c.next.Get(ctx, id)
}

func (c *CachedStore) Create(ctx context.Context, item *MenuItem) error {
	if err := c.next.Create(ctx, item); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *CachedStore) Update(ctx context.Context, item *MenuItem) error {
	if err := c.next.Update(ctx, item); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *CachedStore) UpdateStatus(ctx context.Context, id int64, status Status) (*MenuItem, error) {
	item, err := c.next.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx)
	return item, nil
}

func (c *CachedStore) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate drops the menu snapshot.
func (c *CachedStore) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, snapshotKey()).Err(); err != nil {
		c.logger.Warn("menu snapshot invalidation failed", map[string]interface{}{"error": err})
	}
}
