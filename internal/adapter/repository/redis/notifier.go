package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/leadforge/backend/internal/domain"
)

// Notifier implements usecase.Notifier over Redis pub/sub. It replaces
// the push subscriptions of the previous stack: interested clients
// subscribe to a channel and re-fetch through the query API on change.
type Notifier struct {
	client  *redis.Client
	channel string
}

// NewNotifier creates a new Notifier publishing on the given channel.
func NewNotifier(client *redis.Client, channel string) *Notifier {
	if channel == "" {
		channel = "leadforge.events"
	}
	return &Notifier{
		client:  client,
		channel: channel,
	}
}

// Publish sends a change event to subscribers.
func (n *Notifier) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.client.Publish(ctx, n.channel, payload).Err()
}

// Subscribe returns a channel of decoded change events. The returned
// cancel function closes the subscription.
func (n *Notifier) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, func() error) {
	sub := n.client.Subscribe(ctx, n.channel)
	out := make(chan domain.ChangeEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, sub.Close
}
