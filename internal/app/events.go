package app

import (
	"github.com/redis/go-redis/v9"

	"job-hunter-service/internal/config"
	"job-hunter-service/internal/events"
)

// NewEventWriter builds the writer for the broker selected by EVENT_BROKER.
// rdb is only used by the redis broker.
func NewEventWriter(cfg *config.Config, rdb *redis.Client) (events.Writer, error) {
	switch cfg.Events.Broker {
	case config.BrokerRedis:
		return events.NewRedisQueue(rdb, cfg.Redis.QueueKey, cfg.Redis.ProcessingKey), nil
	case config.BrokerStdout:
		return &events.StdoutWriter{}, nil
	default:
		version, err := cfg.Events.Kafka.SaramaVersion()
		if err != nil {
			return nil, err
		}
		saramaCfg := events.NewSaramaConfig(cfg.Events.Kafka.ClientID, version)
		return events.NewKafkaWriter(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic, saramaCfg)
	}
}
