package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"job-hunter-service/internal/config"
	"job-hunter-service/internal/repository/mongodb"
	"job-hunter-service/internal/repository/postgresql"
	"job-hunter-service/internal/service"
)

// Store is the job store shared by the API and the worker.
type Store interface {
	service.JobRepository
	MarkProcessed(ctx context.Context, id string, at time.Time) error
}

// OpenStore connects the store selected by STORE_DRIVER and prepares its
// schema. The returned function releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	logger := zap.S().Named("store")

	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgresql.NewPool(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := postgresql.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrating postgres: %w", err)
		}
		logger.Infow("store ready", "driver", cfg.Store.Driver)
		return postgresql.NewJobRepository(pool), pool.Close, nil

	default:
		client, err := mongodb.NewClient(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.Warnw("mongo disconnect", "error", err)
			}
		}

		repo := mongodb.NewJobRepository(client.Database(cfg.Store.MongoDB).Collection(cfg.Store.MongoColl))
		if err := repo.EnsureIndexes(ctx, cfg.Store.MongoUniqueURL); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("creating mongo indexes: %w", err)
		}
		logger.Infow("store ready", "driver", cfg.Store.Driver, "db", cfg.Store.MongoDB, "collection", cfg.Store.MongoColl)
		return repo, closeFn, nil
	}
}
