package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"job-hunter-service/internal/entity"
	"job-hunter-service/internal/events"
	"job-hunter-service/internal/repository"
	"job-hunter-service/pkg/metrics"
)

type JobRepo interface {
	GetByID(ctx context.Context, id string) (*entity.JobAd, error)
	MarkProcessed(ctx context.Context, id string, at time.Time) error
}

type StatusWriter interface {
	SetStatus(ctx context.Context, id string, rec entity.StatusRecord) error
}

const (
	progressStarted = 10
	progressDone    = 100
)

type Processor struct {
	repo   JobRepo
	status StatusWriter
	now    func() time.Time
}

func NewProcessor(repo JobRepo, status StatusWriter) *Processor {
	return &Processor{repo: repo, status: status, now: time.Now}
}

// Process handles one job created event: processing, then success with the
// analysis as result, or error with the failure message.
func (p *Processor) Process(ctx context.Context, payload []byte) error {
	start := p.now()
	logger := zap.S().Named("processor")

	evt, err := events.DecodeJobCreated(payload)
	if err != nil {
		logger.Errorw("dropping undecodable event", "error", err)
		return err
	}
	id := evt.ID

	if err := p.status.SetStatus(ctx, id, entity.StatusRecord{
		Status:   entity.StatusProcessing,
		Progress: progress(progressStarted),
	}); err != nil {
		return fmt.Errorf("set processing status: %w", err)
	}

	result, procErr := p.process(ctx, id)
	if procErr != nil {
		metrics.IncreaseJobsProcessedMetric(string(entity.StatusError))
		if err := p.status.SetStatus(ctx, id, entity.StatusRecord{
			Status: entity.StatusError,
			Error:  procErr.Error(),
		}); err != nil {
			logger.Errorw("set error status", "id", id, "error", err)
		}
		logger.Warnw("job failed", "id", id, "duration_ms", time.Since(start).Milliseconds(), "error", procErr)
		return procErr
	}

	if err := p.status.SetStatus(ctx, id, entity.StatusRecord{
		Status:   entity.StatusSuccess,
		Progress: progress(progressDone),
		Result:   result,
	}); err != nil {
		return fmt.Errorf("set success status: %w", err)
	}

	metrics.IncreaseJobsProcessedMetric(string(entity.StatusSuccess))
	logger.Infow("job processed", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (p *Processor) process(ctx context.Context, id string) (json.RawMessage, error) {
	job, err := p.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("job no longer exists")
		}
		return nil, fmt.Errorf("load job: %w", err)
	}

	now := p.now().UTC()
	out, err := json.Marshal(Analyze(*job, now))
	if err != nil {
		return nil, err
	}

	if err := p.repo.MarkProcessed(ctx, id, now.Truncate(time.Millisecond)); err != nil {
		return nil, fmt.Errorf("mark processed: %w", err)
	}
	return out, nil
}

func progress(v float64) *float64 {
	return &v
}
