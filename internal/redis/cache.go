package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tourbook/internal/domain"
)

// RouteCache caches route records in Redis. Routes are read-mostly:
// every submission, approval and payment operation needs the price and
// discount policy, so a short TTL cache takes that load off Postgres.
type RouteCache struct {
	client *redis.Client
}

// NewRouteCache creates a new RouteCache.
func NewRouteCache(client *redis.Client) *RouteCache {
	return &RouteCache{client: client}
}

const (
	routeCacheTTL    = 5 * time.Minute
	routeCachePrefix = "cache:route:"
)

// Get retrieves a route from cache. A cache miss returns (nil, nil).
func (c *RouteCache) Get(ctx context.Context, routeID string) (*domain.Route, error) {
	data, err := c.client.Get(ctx, routeCachePrefix+routeID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var route domain.Route
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// Set stores a route in cache.
func (c *RouteCache) Set(ctx context.Context, route *domain.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeCachePrefix+route.ID, data, routeCacheTTL).Err()
}

// Invalidate removes a route from cache.
func (c *RouteCache) Invalidate(ctx context.Context, routeID string) error {
	return c.client.Del(ctx, routeCachePrefix+routeID).Err()
}
