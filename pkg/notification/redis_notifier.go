package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier pushes messages onto a redis list drained by the out-of-process
// delivery bot. The queue is the only coupling between the core and delivery.
type RedisNotifier struct {
	redis *redis.Client
	queue string
}

func NewRedisNotifier(client *redis.Client, queue string) *RedisNotifier {
	return &RedisNotifier{redis: client, queue: queue}
}

func (n *RedisNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return n.redis.LPush(ctx, n.queue, payload).Err()
}
