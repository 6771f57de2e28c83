package display

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironsheep/pixelate/internal/pixelate"
)

// DefaultChannel is the channel refresh events are published on.
const DefaultChannel = "pixelate:refresh"

// DefaultPublishTimeout bounds a single publish so a slow server cannot stall
// a render.
const DefaultPublishTimeout = 500 * time.Millisecond

// RedisNotifier publishes each refresh as a JSON event on a Redis channel.
// Publish failures are logged and dropped.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
	timeout time.Duration
}

// NewRedisNotifier creates a notifier publishing on channel. An empty channel
// means DefaultChannel.
func NewRedisNotifier(redisOpts *redis.Options, channel string) (*RedisNotifier, error) {
	if redisOpts == nil || redisOpts.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{
		rdb:     redis.NewClient(redisOpts),
		channel: channel,
		timeout: DefaultPublishTimeout,
	}, nil
}

// Channel returns the channel events are published on.
func (n *RedisNotifier) Channel() string {
	return n.channel
}

// Ping verifies Redis connectivity.
func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection. Implements io.Closer.
func (n *RedisNotifier) Close() error {
	return n.rdb.Close()
}

// Refresh publishes p.
func (n *RedisNotifier) Refresh(p pixelate.Progress) {
	payload, err := json.Marshal(p)
	if err != nil {
		pixelate.Logger().Warn("marshal refresh event", "job", p.JobID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		pixelate.Logger().Warn("publish refresh event",
			"job", p.JobID, "flush", p.Flush, "channel", n.channel, "error", err)
	}
}
