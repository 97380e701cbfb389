package events

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// KafkaWriter sends structured-mode CloudEvents through a synchronous producer.
type KafkaWriter struct {
	producer sarama.SyncProducer
	topic    string
}

// NewSaramaConfig returns the producer and consumer settings shared by the api and the worker.
func NewSaramaConfig(clientID string, version sarama.KafkaVersion) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = version
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	return cfg
}

func NewKafkaWriter(brokers []string, topic string, cfg *sarama.Config) (*KafkaWriter, error) {
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewKafkaWriterFromProducer(producer, topic), nil
}

func NewKafkaWriterFromProducer(producer sarama.SyncProducer, topic string) *KafkaWriter {
	return &KafkaWriter{producer: producer, topic: topic}
}

func (w *KafkaWriter) Write(_ context.Context, key string, e cloudevents.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	_, _, err = w.producer.SendMessage(&sarama.ProducerMessage{
		Topic: w.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte(cloudevents.ApplicationCloudEventsJSON)},
		},
	})
	return err
}

func (w *KafkaWriter) Close(_ context.Context) error {
	return w.producer.Close()
}
