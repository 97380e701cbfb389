package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"job-hunter-service/internal/app"
	"job-hunter-service/internal/cache"
	"job-hunter-service/internal/config"
	"job-hunter-service/internal/events"
	"job-hunter-service/internal/worker"
	"job-hunter-service/pkg/log"
)

const requeueBatch = 100

func main() {
	boot := log.Bootstrap("job-hunter-worker")

	cfg, err := config.New()
	if err != nil {
		boot.Fatal("reading configuration", zap.Error(err))
	}

	logger, flush, err := log.Setup(log.Options{
		Service: "job-hunter-worker",
		Level:   cfg.Service.LogLevel,
		Format:  cfg.Service.LogFormat,
	})
	if err != nil {
		boot.Fatal("initializing logger", zap.Error(err))
	}
	defer flush()

	if err := run(cfg); err != nil {
		logger.Fatal("worker stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar := zap.S().Named("worker")

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URI)
	if err != nil {
		return err
	}
	defer rdb.Close()

	source, closeSource, err := newSource(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer closeSource()

	statusCache := cache.NewStatusCache(rdb, cfg.Redis.StatusChannel, cfg.Redis.StatusTTL)
	processor := worker.NewProcessor(store, statusCache)

	sugar.Infow("worker started",
		"workers", cfg.Worker.Workers,
		"broker", cfg.Events.Broker,
		"store", cfg.Store.Driver,
	)
	worker.NewPool(source, processor, cfg.Worker.Workers).Run(ctx)
	sugar.Info("worker stopped")

	return nil
}

// newSource builds the delivery source for EVENT_BROKER. For the redis broker
// it also schedules the reaper that returns unacknowledged payloads to the queue.
func newSource(ctx context.Context, cfg *config.Config, rdb *redis.Client) (worker.Source, func(), error) {
	sugar := zap.S().Named("worker")

	switch cfg.Events.Broker {
	case config.BrokerRedis:
		queue := events.NewRedisQueue(rdb, cfg.Redis.QueueKey, cfg.Redis.ProcessingKey)

		reaper := cron.New()
		_, err := reaper.AddFunc(cfg.Worker.RequeueSchedule, func() {
			n, err := queue.RequeueStale(ctx, requeueBatch)
			if err != nil {
				sugar.Warnw("requeue error", "error", err)
				return
			}
			if n > 0 {
				sugar.Infow("requeued jobs from processing", "count", n)
			}
		})
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REQUEUE_SCHEDULE %q: %w", cfg.Worker.RequeueSchedule, err)
		}
		reaper.Start()

		return worker.NewRedisSource(queue), func() { <-reaper.Stop().Done() }, nil

	case config.BrokerKafka:
		version, err := cfg.Events.Kafka.SaramaVersion()
		if err != nil {
			return nil, nil, err
		}
		saramaCfg := events.NewSaramaConfig(cfg.Events.Kafka.ClientID, version)
		saramaCfg.Consumer.Return.Errors = true

		group, err := sarama.NewConsumerGroup(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Group, saramaCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("joining consumer group %s: %w", cfg.Events.Kafka.Group, err)
		}
		source := worker.NewKafkaSource(group, cfg.Events.Kafka.Topic)
		source.Start(ctx)

		return source, func() {
			if err := source.Close(); err != nil {
				sugar.Warnw("closing consumer group", "error", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("broker %q cannot be consumed by the worker", cfg.Events.Broker)
	}
}
