package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"job-hunter-service/internal/events"
)

// ErrNoDelivery means the claim window elapsed without a message.
var ErrNoDelivery = errors.New("no delivery")

// Delivery is one claimed message. Ack must be called exactly once.
type Delivery struct {
	Payload []byte
	ack     func(ctx context.Context) error
}

func NewDelivery(payload []byte, ack func(ctx context.Context) error) *Delivery {
	return &Delivery{Payload: payload, ack: ack}
}

func (d *Delivery) Ack(ctx context.Context) error {
	if d.ack == nil {
		return nil
	}
	return d.ack(ctx)
}

type Source interface {
	Claim(ctx context.Context) (*Delivery, error)
}

// RedisSource claims from the reliable Redis list.
type RedisSource struct {
	queue      *events.RedisQueue
	claimDelay time.Duration
}

func NewRedisSource(queue *events.RedisQueue) *RedisSource {
	return &RedisSource{queue: queue, claimDelay: 5 * time.Second}
}

func (s *RedisSource) Claim(ctx context.Context) (*Delivery, error) {
	payload, err := s.queue.Claim(ctx, s.claimDelay)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoDelivery
		}
		return nil, err
	}
	return NewDelivery([]byte(payload), func(ctx context.Context) error {
		return s.queue.Ack(ctx, payload)
	}), nil
}
