package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"job-hunter-service/internal/cache"
	"job-hunter-service/internal/entity"
	"job-hunter-service/internal/repository"
	"job-hunter-service/pkg/metrics"
)

// JobRepository is the Job Store port (implementations: mongodb.JobRepository, postgresql.JobRepository).
type JobRepository interface {
	FindByURL(ctx context.Context, url string) (*entity.JobAd, error)
	Insert(ctx context.Context, job entity.JobAd) error
	List(ctx context.Context, skip, limit int) ([]entity.JobAd, error)
	EstimatedCount(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*entity.JobAd, error)
	Update(ctx context.Context, id string, patch entity.JobAdPatch) (*entity.JobAd, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher announces newly created job ads.
type EventPublisher interface {
	PublishJobCreated(ctx context.Context, job entity.JobAd) error
}

type StatusReader interface {
	GetStatus(ctx context.Context, id string) (*entity.StatusRecord, error)
}

const compensateTimeout = 5 * time.Second

type JobService struct {
	repo      JobRepository
	publisher EventPublisher
	status    StatusReader
	newID     func() string
}

type Option func(*JobService)

func WithIDGenerator(fn func() string) Option {
	return func(s *JobService) {
		s.newID = fn
	}
}

func NewJobService(repo JobRepository, publisher EventPublisher, status StatusReader, opts ...Option) *JobService {
	s := &JobService{
		repo:      repo,
		publisher: publisher,
		status:    status,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateJob stores a validated job ad under a fresh public id and announces it.
// The event is published only after the insert succeeds; when publishing fails
// the insert is rolled back and the caller gets an upstream error.
func (s *JobService) CreateJob(ctx context.Context, in entity.JobAdInput) (*entity.JobAd, error) {
	logger := zap.S().Named("job_service")

	existing, err := s.repo.FindByURL(ctx, in.URL)
	switch {
	case err == nil && existing != nil:
		metrics.IncreaseJobsCreatedMetric("duplicate")
		return nil, NewErrDuplicateJob(in.URL)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		metrics.IncreaseJobsCreatedMetric("error")
		return nil, NewErrUpstream("find job by url", err)
	}

	job := in.NewJobAd(s.newID())

	if err := s.repo.Insert(ctx, job); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.IncreaseJobsCreatedMetric("duplicate")
			return nil, NewErrDuplicateJob(in.URL)
		}
		metrics.IncreaseJobsCreatedMetric("error")
		return nil, NewErrUpstream("insert job", err)
	}

	if err := s.publisher.PublishJobCreated(ctx, job); err != nil {
		metrics.IncreaseJobsCreatedMetric("error")

		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
		defer cancel()
		if delErr := s.repo.Delete(cctx, job.ID); delErr != nil {
			logger.Errorw("failed to roll back job after publish error", "id", job.ID, "error", delErr)
		}
		return nil, NewErrUpstream("publish job created", err)
	}

	metrics.IncreaseJobsCreatedMetric("created")
	logger.Infow("job created", "id", job.ID, "url", job.URL)

	return &job, nil
}

// ListJobs returns one page of job ads, newest first. Total is an estimate.
func (s *JobService) ListJobs(ctx context.Context, page, limit int) (*entity.JobPage, error) {
	page, limit = clampPagination(page, limit)

	items, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, NewErrUpstream("list jobs", err)
	}

	total, err := s.repo.EstimatedCount(ctx)
	if err != nil {
		return nil, NewErrUpstream("count jobs", err)
	}

	if items == nil {
		items = []entity.JobAd{}
	}
	return &entity.JobPage{Items: items, Page: page, Limit: limit, Total: total}, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*entity.JobAd, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, NewErrUpstream("get job", err)
	}
	return job, nil
}

// UpdateJob applies a validated partial update. An empty patch returns the job unchanged.
func (s *JobService) UpdateJob(ctx context.Context, id string, patch entity.JobAdPatch) (*entity.JobAd, error) {
	if patch.Empty() {
		return s.GetJob(ctx, id)
	}

	job, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewErrJobNotFound(id)
		case errors.Is(err, repository.ErrDuplicate) && patch.URL != nil:
			return nil, NewErrDuplicateJob(*patch.URL)
		}
		return nil, NewErrUpstream("update job", err)
	}
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewErrJobNotFound(id)
		}
		return NewErrUpstream("delete job", err)
	}
	zap.S().Named("job_service").Infow("job deleted", "id", id)
	return nil
}

func (s *JobService) GetStatus(ctx context.Context, id string) (*entity.StatusRecord, error) {
	rec, err := s.status.GetStatus(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, NewErrStatusNotFound(id)
		}
		return nil, NewErrUpstream("get status", err)
	}
	return rec, nil
}
