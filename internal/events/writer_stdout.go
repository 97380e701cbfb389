package events

import (
	"context"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"go.uber.org/zap"
)

// StdoutWriter logs events instead of sending them. Used in development.
type StdoutWriter struct{}

func (s *StdoutWriter) Write(_ context.Context, key string, e cloudevents.Event) error {
	zap.S().Named("stdout_writer").Infow("event written", "key", key, "event", e)
	return nil
}

func (s *StdoutWriter) Close(_ context.Context) error {
	return nil
}
