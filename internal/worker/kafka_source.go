package worker

import (
	"context"
	"errors"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaSource adapts a consumer group to Source. Each partition hands over one
// message at a time and commits its offset once the message is acknowledged.
type KafkaSource struct {
	group      sarama.ConsumerGroup
	topic      string
	deliveries chan *Delivery
}

func NewKafkaSource(group sarama.ConsumerGroup, topic string) *KafkaSource {
	return &KafkaSource{
		group:      group,
		topic:      topic,
		deliveries: make(chan *Delivery),
	}
}

// Start joins the group and keeps consuming until ctx is cancelled or the group is closed.
func (s *KafkaSource) Start(ctx context.Context) {
	logger := zap.S().Named("kafka_source")

	go func() {
		for {
			if err := s.group.Consume(ctx, []string{s.topic}, s); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				logger.Errorw("consume error", "topic", s.topic, "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range s.group.Errors() {
			logger.Warnw("consumer group error", "error", err)
		}
	}()
}

func (s *KafkaSource) Claim(ctx context.Context) (*Delivery, error) {
	select {
	case d := <-s.deliveries:
		return d, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *KafkaSource) Close() error {
	return s.group.Close()
}

func (s *KafkaSource) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (s *KafkaSource) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (s *KafkaSource) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			done := make(chan struct{})
			d := NewDelivery(msg.Value, func(context.Context) error {
				sess.MarkMessage(msg, "")
				close(done)
				return nil
			})

			select {
			case s.deliveries <- d:
			case <-sess.Context().Done():
				return nil
			}

			select {
			case <-done:
			case <-sess.Context().Done():
				return nil
			}
		case <-sess.Context().Done():
			return nil
		}
	}
}
