package cache

import (
	"context"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const dashboardKeyPrefix = "inventory:dashboard"

// DashboardCache stores the computed inventory dashboard.
type DashboardCache interface {
	GetDashboard(ctx context.Context) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, dashboard *domain.Dashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	store jsonStore[domain.Dashboard]
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewDashboardCacheWithClient(client, ttl), nil
}

// NewDashboardCacheWithClient shares an existing redis connection.
func NewDashboardCacheWithClient(client *redis.Client, ttl time.Duration) DashboardCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisDashboardCache{
		store: jsonStore[domain.Dashboard]{client: client, ttl: ttl, prefix: dashboardKeyPrefix},
	}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDashboard(ctx context.Context) (*domain.Dashboard, bool, error) {
	return c.store.get(ctx, dashboardKeyPrefix)
}

func (c *redisDashboardCache) SetDashboard(ctx context.Context, dashboard *domain.Dashboard) error {
	return c.store.set(ctx, dashboardKeyPrefix, dashboard)
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return c.store.invalidate(ctx)
}

func (n *noopDashboardCache) GetDashboard(ctx context.Context) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDashboard(ctx context.Context, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}
