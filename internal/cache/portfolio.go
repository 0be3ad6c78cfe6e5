package cache

import (
	"context"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/abc"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

const portfolioKeyPrefix = "abc:portfolio"

// PortfolioCache stores ABC analyses keyed by their window length.
type PortfolioCache interface {
	GetPortfolio(ctx context.Context, windowDays int) (*abc.PortfolioSummary, bool, error)
	SetPortfolio(ctx context.Context, windowDays int, summary *abc.PortfolioSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisPortfolioCache struct {
	store jsonStore[abc.PortfolioSummary]
}

type noopPortfolioCache struct{}

func NewPortfolioCache(cfg config.CacheConfig) (PortfolioCache, error) {
	if !cfg.Enabled {
		return &noopPortfolioCache{}, nil
	}

	client, ttl, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewPortfolioCacheWithClient(client, ttl), nil
}

func NewPortfolioCacheWithClient(client *redis.Client, ttl time.Duration) PortfolioCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisPortfolioCache{
		store: jsonStore[abc.PortfolioSummary]{client: client, ttl: ttl, prefix: portfolioKeyPrefix},
	}
}

func NewNoopPortfolioCache() PortfolioCache {
	return &noopPortfolioCache{}
}

func portfolioKey(windowDays int) string {
	return buildKey(portfolioKeyPrefix, map[string]int{"window_days": windowDays})
}

func (c *redisPortfolioCache) GetPortfolio(ctx context.Context, windowDays int) (*abc.PortfolioSummary, bool, error) {
	return c.store.get(ctx, portfolioKey(windowDays))
}

func (c *redisPortfolioCache) SetPortfolio(ctx context.Context, windowDays int, summary *abc.PortfolioSummary) error {
	return c.store.set(ctx, portfolioKey(windowDays), summary)
}

func (c *redisPortfolioCache) InvalidateAll(ctx context.Context) error {
	return c.store.invalidate(ctx)
}

func (n *noopPortfolioCache) GetPortfolio(ctx context.Context, windowDays int) (*abc.PortfolioSummary, bool, error) {
	return nil, false, nil
}

func (n *noopPortfolioCache) SetPortfolio(ctx context.Context, windowDays int, summary *abc.PortfolioSummary) error {
	return nil
}

func (n *noopPortfolioCache) InvalidateAll(ctx context.Context) error {
	return nil
}
