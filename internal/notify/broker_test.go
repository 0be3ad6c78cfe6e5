package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestMemoryBroker_FanOut(t *testing.T) {
	b := NewMemoryBroker()
	ctx := context.Background()

	first, cancelFirst, err := b.Subscribe(ctx)
	require.NoError(t, err)
	second, cancelSecond, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelSecond()

	event, err := NewEvent(domain.EventStockUpdated, domain.StockUpdated{ProductID: 1, OldStock: 5, NewStock: 3})
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, event))

	assert.Equal(t, domain.EventStockUpdated, receive(t, first).Type)
	got := receive(t, second)
	var payload domain.StockUpdated
	require.NoError(t, got.Decode(&payload))
	assert.Equal(t, 3, payload.NewStock)

	cancelFirst()
	cancelFirst()
	_, ok := <-first
	assert.False(t, ok)

	require.NoError(t, b.Publish(ctx, event))
	assert.Equal(t, domain.EventStockUpdated, receive(t, second).Type)
}

func TestMemoryBroker_CloseEndsSubscriptions(t *testing.T) {
	b := NewMemoryBroker()
	ch, cancel, err := b.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.Close())
	_, ok := <-ch
	assert.False(t, ok)
	cancel()

	late, _, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	_, ok = <-late
	assert.False(t, ok)
}

func TestRedisBroker_PublishSubscribe(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	b := NewRedisBroker(client)
	ctx := context.Background()

	ch, cancel, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel()

	event, err := NewEvent(domain.EventLowStockAlert, domain.LowStockAlert{ProductID: 9, Severity: domain.SeverityCritical})
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, event))

	got := receive(t, ch)
	assert.Equal(t, domain.EventLowStockAlert, got.Type)
	var alert domain.LowStockAlert
	require.NoError(t, got.Decode(&alert))
	assert.Equal(t, int64(9), alert.ProductID)
	assert.Equal(t, domain.SeverityCritical, alert.Severity)
}
