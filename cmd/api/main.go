package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"job-hunter-service/internal/app"
	"job-hunter-service/internal/cache"
	"job-hunter-service/internal/config"
	"job-hunter-service/internal/events"
	"job-hunter-service/internal/service"
	httptransport "job-hunter-service/internal/transport/http"
	"job-hunter-service/internal/validation"
	"job-hunter-service/pkg/log"
	"job-hunter-service/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// @title			Job Hunter API
// @version		1.0
// @description	Tracks job ads and the status of their background analysis.
// @BasePath		/
func main() {
	boot := log.Bootstrap("job-hunter-api")

	cfg, err := config.New()
	if err != nil {
		boot.Fatal("reading configuration", zap.Error(err))
	}

	logger, flush, err := log.Setup(log.Options{
		Service: "job-hunter-api",
		Level:   cfg.Service.LogLevel,
		Format:  cfg.Service.LogFormat,
	})
	if err != nil {
		boot.Fatal("initializing logger", zap.Error(err))
	}
	defer flush()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar := logger.Sugar().Named("api")

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

	writer, err := app.NewEventWriter(cfg, rdb)
	if err != nil {
		return err
	}
	publisher := events.NewPublisher(writer, cfg.Events.Broker)
	defer func() {
		if err := publisher.Close(context.Background()); err != nil {
			sugar.Warnw("closing publisher", "error", err)
		}
	}()

	statusCache := cache.NewStatusCache(rdb, cfg.Redis.StatusChannel, cfg.Redis.StatusTTL)
	subCtx, stopSub := context.WithCancel(ctx)
	subDone := make(chan struct{})
	defer func() {
		stopSub()
		<-subDone
	}()
	go func() {
		defer close(subDone)
		err := statusCache.Subscribe(subCtx, func(msg cache.StatusMessage) {
			sugar.Debugw("status changed", "id", msg.ID, "status", msg.Status)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			sugar.Warnw("status subscription ended", "error", err)
		}
	}()

	jobSvc := service.NewJobService(store, publisher, statusCache)
	handler := httptransport.NewHandler(jobSvc, validation.New())

	mw := metrics.NewMiddleware("job-hunter-api")
	if err := mw.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Service.Addr(),
		Handler: httptransport.Routes(handler, httptransport.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.Service.CorsAllowedOrigins,
			Metrics:        mw,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("api listening", "addr", srv.Addr, "store", cfg.Store.Driver, "broker", cfg.Events.Broker)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sugar.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
