package events

import (
	"context"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"go.uber.org/zap"

	"job-hunter-service/internal/entity"
	"job-hunter-service/pkg/metrics"
)

// Writer delivers an event to the underlying broker. key is the partitioning key.
type Writer interface {
	Write(ctx context.Context, key string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

// Publisher writes job created events synchronously so the caller sees broker failures.
type Publisher struct {
	writer Writer
	broker string
}

func NewPublisher(w Writer, broker string) *Publisher {
	return &Publisher{writer: w, broker: broker}
}

// PublishJobCreated sends the event keyed by the job url.
func (p *Publisher) PublishJobCreated(ctx context.Context, job entity.JobAd) error {
	e, err := NewJobCreatedEvent(job)
	if err != nil {
		return err
	}

	if err := p.writer.Write(ctx, job.URL, e); err != nil {
		metrics.IncreaseEventsPublishedMetric(p.broker, "error")
		zap.S().Named("event_publisher").Errorw("failed to publish event", "id", job.ID, "broker", p.broker, "error", err)
		return err
	}

	metrics.IncreaseEventsPublishedMetric(p.broker, "ok")
	return nil
}

func (p *Publisher) Close(ctx context.Context) error {
	return p.writer.Close(ctx)
}
