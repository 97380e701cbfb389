package events

import (
	"encoding/json"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"

	"job-hunter-service/internal/entity"
)

const (
	JobCreatedKind string = "jobhunter.job.created"
	eventSource    string = "job-hunter-api"
)

// NewJobCreatedEvent wraps job in a CloudEvents envelope. The subject is the public id.
func NewJobCreatedEvent(job entity.JobAd) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSource(eventSource)
	e.SetType(JobCreatedKind)
	e.SetSubject(job.ID)
	e.SetTime(time.Now().UTC())
	if err := e.SetData(cloudevents.ApplicationJSON, job); err != nil {
		return e, err
	}
	return e, nil
}

// DecodeJobCreated parses a structured-mode JSON envelope back into the job ad.
func DecodeJobCreated(payload []byte) (*entity.JobAd, error) {
	var e cloudevents.Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if e.Type() != JobCreatedKind {
		return nil, fmt.Errorf("unexpected event type %q", e.Type())
	}

	var job entity.JobAd
	if err := e.DataAs(&job); err != nil {
		return nil, fmt.Errorf("decode event data: %w", err)
	}
	if job.ID == "" {
		return nil, fmt.Errorf("event %s carries no job id", e.ID())
	}
	return &job, nil
}
