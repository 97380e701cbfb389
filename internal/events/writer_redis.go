package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/redis/go-redis/v9"
)

// RedisQueue is a reliable queue over two Redis lists.
// Write: LPUSH queue
// Claim: BRPOPLPUSH queue -> processing
// Ack:   LREM processing
// Messages left in processing by a crashed consumer are moved back by RequeueStale,
// so delivery is at least once.
type RedisQueue struct {
	rdb           *redis.Client
	queueKey      string
	processingKey string
}

func NewRedisQueue(rdb *redis.Client, queueKey, processingKey string) *RedisQueue {
	return &RedisQueue{
		rdb:           rdb,
		queueKey:      queueKey,
		processingKey: processingKey,
	}
}

// Write enqueues the structured-mode envelope. Ordering is by arrival so key is unused.
func (q *RedisQueue) Write(ctx context.Context, _ string, e cloudevents.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.queueKey, payload).Err()
}

// Claim blocks up to timeout for the next payload. It returns redis.Nil when nothing arrived.
func (q *RedisQueue) Claim(ctx context.Context, timeout time.Duration) (string, error) {
	return q.rdb.BRPopLPush(ctx, q.queueKey, q.processingKey, timeout).Result()
}

func (q *RedisQueue) Ack(ctx context.Context, payload string) error {
	return q.rdb.LRem(ctx, q.processingKey, 1, payload).Err()
}

// RequeueStale moves up to max payloads from processing back to the queue.
func (q *RedisQueue) RequeueStale(ctx context.Context, max int64) (int64, error) {
	var moved int64
	for i := int64(0); i < max; i++ {
		_, err := q.rdb.RPopLPush(ctx, q.processingKey, q.queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func (q *RedisQueue) Close(_ context.Context) error {
	return nil
}
