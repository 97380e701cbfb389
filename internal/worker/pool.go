package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ackTimeout     = 5 * time.Second
	processTimeout = 30 * time.Second
)

type Pool struct {
	source    Source
	processor *Processor
	workers   int
}

func NewPool(source Source, processor *Processor, workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		source:    source,
		processor: processor,
		workers:   workers,
	}
}

// Run claims deliveries and fans them out to the workers until ctx is cancelled.
// In-flight deliveries are finished before Run returns.
func (p *Pool) Run(ctx context.Context) {
	logger := zap.S().Named("worker_pool")
	logger.Infow("worker pool started", "workers", p.workers)

	jobCh := make(chan *Delivery)
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for d := range jobCh {
				// A claimed delivery runs to completion even when ctx is cancelled,
				// otherwise it would be acked without a status.
				pctx, pcancel := context.WithTimeout(context.WithoutCancel(ctx), processTimeout)
				if err := p.processor.Process(pctx, d.Payload); err != nil {
					logger.Warnw("process error", "worker", n, "error", err)
				}
				pcancel()

				// Ack regardless of outcome: failures are already recorded as an error status.
				actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ackTimeout)
				if err := d.Ack(actx); err != nil {
					logger.Errorw("ack error", "worker", n, "error", err)
				}
				cancel()
			}
		}(i + 1)
	}

	defer func() {
		close(jobCh)
		wg.Wait()
		logger.Info("worker pool stopped")
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		d, err := p.source.Claim(ctx)
		if err != nil {
			if !errors.Is(err, ErrNoDelivery) && ctx.Err() == nil {
				logger.Warnw("claim error", "error", err)
				time.Sleep(time.Second)
			}
			continue
		}

		select {
		case jobCh <- d:
		case <-ctx.Done():
			return
		}
	}
}
