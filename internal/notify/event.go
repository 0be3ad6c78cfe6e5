// Package notify fans inventory events out to live subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Channel is the redis pub/sub channel carrying inventory events.
const Channel = "inventory:events"

// Event is one message on the inventory stream.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw, Timestamp: time.Now().UTC()}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Broker publishes events and hands out subscriptions. The returned cancel
// func releases the subscription and closes the channel.
type Broker interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
	Close() error
}
