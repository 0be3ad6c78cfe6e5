package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBroker fans events out across processes through redis pub/sub.
type RedisBroker struct {
	client  *redis.Client
	channel string
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client, channel: Channel}
}

func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Subscribe waits for the subscription to be confirmed before returning so
// no event published afterwards is missed.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warn().Err(err).Msg("notify: dropping malformed event")
					continue
				}
				select {
				case out <- event:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				log.Warn().Err(err).Msg("notify: closing subscription failed")
			}
		})
	}
	return out, cancel, nil
}

// Close is a no-op; the client is owned by the caller.
func (b *RedisBroker) Close() error {
	return nil
}
