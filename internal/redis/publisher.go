package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// NotificationChannel is the pub/sub channel delivery workers subscribe to.
const NotificationChannel = "notifications"

// Publisher publishes JSON events on Redis pub/sub.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a new Publisher for channel.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Publish marshals v and publishes it.
func (p *Publisher) Publish(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}
