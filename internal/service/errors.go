package service

import (
	"errors"
	"fmt"
)

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id string) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %q not found", id)}
}

type ErrStatusNotFound struct {
	error
}

func NewErrStatusNotFound(id string) *ErrStatusNotFound {
	return &ErrStatusNotFound{fmt.Errorf("no status recorded for job %q", id)}
}

type ErrDuplicateJob struct {
	error
}

func NewErrDuplicateJob(url string) *ErrDuplicateJob {
	return &ErrDuplicateJob{fmt.Errorf("job with url %q already exists", url)}
}

// ErrUpstream wraps a failure of the store, the broker or the status cache.
type ErrUpstream struct {
	error
}

func NewErrUpstream(op string, err error) *ErrUpstream {
	return &ErrUpstream{fmt.Errorf("%s: %w", op, err)}
}

func (e *ErrUpstream) Unwrap() error {
	return errors.Unwrap(e.error)
}
