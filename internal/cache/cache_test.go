package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/abc"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func TestDashboardCache_RoundTripAndExpiry(t *testing.T) {
	srv, client := newTestClient(t)
	c := NewDashboardCacheWithClient(client, 30*time.Second)
	ctx := context.Background()

	_, ok, err := c.GetDashboard(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	in := &domain.Dashboard{
		TotalProducts:       50,
		LowStockAlerts:      4,
		TotalInventoryValue: decimal.RequireFromString("1234.50"),
	}
	require.NoError(t, c.SetDashboard(ctx, in))

	out, ok, err := c.GetDashboard(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 50, out.TotalProducts)
	assert.True(t, out.TotalInventoryValue.Equal(in.TotalInventoryValue))

	srv.FastForward(31 * time.Second)
	_, ok, err = c.GetDashboard(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPortfolioCache_KeyedByWindow(t *testing.T) {
	_, client := newTestClient(t)
	c := NewPortfolioCacheWithClient(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetPortfolio(ctx, 90, &abc.PortfolioSummary{TotalProducts: 3, ACount: 1}))

	got, ok, err := c.GetPortfolio(ctx, 90)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got.Count(domain.TierA))

	_, ok, err = c.GetPortfolio(ctx, 30)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll(ctx))
	_, ok, err = c.GetPortfolio(ctx, 90)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_CorruptPayload(t *testing.T) {
	srv, client := newTestClient(t)
	c := NewDashboardCacheWithClient(client, time.Minute)
	require.NoError(t, srv.Set(dashboardKeyPrefix, "{not json"))

	_, ok, err := c.GetDashboard(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewCaches_DisabledReturnsNoop(t *testing.T) {
	d, err := NewDashboardCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, &noopDashboardCache{}, d)

	p, err := NewPortfolioCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	_, ok, err := p.GetPortfolio(context.Background(), 90)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient_UsesConfiguredTTL(t *testing.T) {
	srv := miniredis.RunT(t)
	client, ttl, err := NewRedisClient(config.CacheConfig{RedisURL: "redis://" + srv.Addr(), TTLSeconds: 5})
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 5*time.Second, ttl)

	_, _, err = NewRedisClient(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}
