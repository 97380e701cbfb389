// Package cache keeps per-job processing status in Redis hashes and fans out
// status changes over a pub/sub channel.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"job-hunter-service/internal/entity"
)

var ErrNotFound = errors.New("status not found")

const keyPrefix = "job:"

const (
	fieldStatus    = "status"
	fieldProgress  = "progress"
	fieldResult    = "result"
	fieldError     = "error"
	fieldUpdatedAt = "updatedAt"
)

// StatusMessage is published on the status channel after every write.
type StatusMessage struct {
	ID string `json:"id"`
	entity.StatusRecord
}

type StatusCache struct {
	rdb     *redis.Client
	channel string
	ttl     time.Duration
	now     func() time.Time
}

func NewStatusCache(rdb *redis.Client, channel string, ttl time.Duration) *StatusCache {
	return &StatusCache{
		rdb:     rdb,
		channel: channel,
		ttl:     ttl,
		now:     time.Now,
	}
}

func Key(id string) string {
	return keyPrefix + id
}

// GetStatus reads the status hash of a job. A missing hash yields ErrNotFound.
func (c *StatusCache) GetStatus(ctx context.Context, id string) (*entity.StatusRecord, error) {
	m, err := c.rdb.HGetAll(ctx, Key(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, ErrNotFound
	}
	return normalize(m), nil
}

// SetStatus overwrites the status of a job, refreshes the key TTL and publishes the change.
// Result and error fields absent from rec are cleared.
func (c *StatusCache) SetStatus(ctx context.Context, id string, rec entity.StatusRecord) error {
	if rec.UpdatedAt == "" {
		rec.UpdatedAt = c.now().UTC().Format(time.RFC3339Nano)
	}

	fields := map[string]any{
		fieldStatus:    string(rec.Status),
		fieldUpdatedAt: rec.UpdatedAt,
	}
	var stale []string
	if rec.Progress != nil {
		fields[fieldProgress] = strconv.FormatFloat(*rec.Progress, 'f', -1, 64)
	}
	if len(rec.Result) > 0 {
		fields[fieldResult] = string(rec.Result)
	} else {
		stale = append(stale, fieldResult)
	}
	if rec.Error != "" {
		fields[fieldError] = rec.Error
	} else {
		stale = append(stale, fieldError)
	}

	key := Key(id)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(stale) > 0 {
			pipe.HDel(ctx, key, stale...)
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return err
	}

	payload, err := json.Marshal(StatusMessage{ID: id, StatusRecord: rec})
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, c.channel, payload).Err()
}

// Subscribe delivers status messages to fn until ctx is cancelled.
func (c *StatusCache) Subscribe(ctx context.Context, fn func(StatusMessage)) error {
	ps := c.rdb.Subscribe(ctx, c.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return err
	}

	logger := zap.S().Named("status_subscriber")
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var sm StatusMessage
			if err := json.Unmarshal([]byte(msg.Payload), &sm); err != nil {
				logger.Warnw("discarding malformed status message", "payload", msg.Payload, "error", err)
				continue
			}
			fn(sm)
		}
	}
}

func normalize(m map[string]string) *entity.StatusRecord {
	rec := &entity.StatusRecord{
		Status:    entity.JobStatus(m[fieldStatus]),
		Error:     m[fieldError],
		UpdatedAt: m[fieldUpdatedAt],
	}
	if rec.Status == "" {
		rec.Status = entity.StatusPending
	}

	if raw, ok := m[fieldProgress]; ok {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			rec.Progress = &f
		}
	}

	if raw, ok := m[fieldResult]; ok && raw != "" {
		if json.Valid([]byte(raw)) {
			rec.Result = json.RawMessage(raw)
		} else {
			// keep unparseable results visible as a JSON string
			b, _ := json.Marshal(raw)
			rec.Result = b
		}
	}

	return rec
}
