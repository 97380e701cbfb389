package entity

import (
	"encoding/json"
	"time"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusSuccess    JobStatus = "success"
	StatusError      JobStatus = "error"
)

// JobAd is a tracked job posting. ID is the public identifier; storage-internal
// identifiers never leave the repository layer.
type JobAd struct {
	ID             string     `json:"id" bson:"id"`
	URL            string     `json:"url" bson:"url"`
	CompanyName    *string    `json:"companyName,omitempty" bson:"companyName,omitempty"`
	RecruiterName  *string    `json:"recruiterName,omitempty" bson:"recruiterName,omitempty"`
	JobTitle       string     `json:"jobTitle" bson:"jobTitle"`
	JobDescription string     `json:"jobDescription" bson:"jobDescription"`
	SalaryStart    *float64   `json:"salaryStart,omitempty" bson:"salaryStart,omitempty"`
	SalaryEnd      *float64   `json:"salaryEnd,omitempty" bson:"salaryEnd,omitempty"`
	OpenDate       *time.Time `json:"openDate,omitempty" bson:"openDate,omitempty"`
	CloseDate      *time.Time `json:"closeDate,omitempty" bson:"closeDate,omitempty"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
}

// JobAdInput is a normalized create payload.
type JobAdInput struct {
	URL            string     `json:"url" validate:"required,url"`
	CompanyName    *string    `json:"companyName,omitempty" validate:"omitnil,min=1"`
	RecruiterName  *string    `json:"recruiterName,omitempty" validate:"omitnil,min=1"`
	JobTitle       string     `json:"jobTitle" validate:"required"`
	JobDescription string     `json:"jobDescription" validate:"required"`
	SalaryStart    *float64   `json:"salaryStart,omitempty" validate:"omitnil,gte=0"`
	SalaryEnd      *float64   `json:"salaryEnd,omitempty" validate:"omitnil,gte=0"`
	OpenDate       *time.Time `json:"openDate,omitempty"`
	CloseDate      *time.Time `json:"closeDate,omitempty"`
}

func (in JobAdInput) NewJobAd(id string) JobAd {
	return JobAd{
		ID:             id,
		URL:            in.URL,
		CompanyName:    in.CompanyName,
		RecruiterName:  in.RecruiterName,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		SalaryStart:    in.SalaryStart,
		SalaryEnd:      in.SalaryEnd,
		OpenDate:       in.OpenDate,
		CloseDate:      in.CloseDate,
	}
}

// JobAdPatch is a normalized partial update. Nil fields were not supplied.
type JobAdPatch struct {
	URL            *string    `json:"url,omitempty" validate:"omitnil,url"`
	CompanyName    *string    `json:"companyName,omitempty" validate:"omitnil,min=1"`
	RecruiterName  *string    `json:"recruiterName,omitempty" validate:"omitnil,min=1"`
	JobTitle       *string    `json:"jobTitle,omitempty" validate:"omitnil,min=1"`
	JobDescription *string    `json:"jobDescription,omitempty" validate:"omitnil,min=1"`
	SalaryStart    *float64   `json:"salaryStart,omitempty" validate:"omitnil,gte=0"`
	SalaryEnd      *float64   `json:"salaryEnd,omitempty" validate:"omitnil,gte=0"`
	OpenDate       *time.Time `json:"openDate,omitempty"`
	CloseDate      *time.Time `json:"closeDate,omitempty"`
}

// Input converts a full set of fields into a create payload. Missing required
// fields become zero values and are caught by validation.
func (p JobAdPatch) Input() JobAdInput {
	in := JobAdInput{
		CompanyName:   p.CompanyName,
		RecruiterName: p.RecruiterName,
		SalaryStart:   p.SalaryStart,
		SalaryEnd:     p.SalaryEnd,
		OpenDate:      p.OpenDate,
		CloseDate:     p.CloseDate,
	}
	if p.URL != nil {
		in.URL = *p.URL
	}
	if p.JobTitle != nil {
		in.JobTitle = *p.JobTitle
	}
	if p.JobDescription != nil {
		in.JobDescription = *p.JobDescription
	}
	return in
}

// Fields returns the supplied fields keyed by their document field name.
func (p JobAdPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.URL != nil {
		out["url"] = *p.URL
	}
	if p.CompanyName != nil {
		out["companyName"] = *p.CompanyName
	}
	if p.RecruiterName != nil {
		out["recruiterName"] = *p.RecruiterName
	}
	if p.JobTitle != nil {
		out["jobTitle"] = *p.JobTitle
	}
	if p.JobDescription != nil {
		out["jobDescription"] = *p.JobDescription
	}
	if p.SalaryStart != nil {
		out["salaryStart"] = *p.SalaryStart
	}
	if p.SalaryEnd != nil {
		out["salaryEnd"] = *p.SalaryEnd
	}
	if p.OpenDate != nil {
		out["openDate"] = *p.OpenDate
	}
	if p.CloseDate != nil {
		out["closeDate"] = *p.CloseDate
	}
	return out
}

func (p JobAdPatch) Empty() bool {
	return len(p.Fields()) == 0
}

// ApplyTo merges the supplied fields into job. ID and ProcessedAt are never touched.
func (p JobAdPatch) ApplyTo(job *JobAd) {
	if p.URL != nil {
		job.URL = *p.URL
	}
	if p.CompanyName != nil {
		job.CompanyName = p.CompanyName
	}
	if p.RecruiterName != nil {
		job.RecruiterName = p.RecruiterName
	}
	if p.JobTitle != nil {
		job.JobTitle = *p.JobTitle
	}
	if p.JobDescription != nil {
		job.JobDescription = *p.JobDescription
	}
	if p.SalaryStart != nil {
		job.SalaryStart = p.SalaryStart
	}
	if p.SalaryEnd != nil {
		job.SalaryEnd = p.SalaryEnd
	}
	if p.OpenDate != nil {
		job.OpenDate = p.OpenDate
	}
	if p.CloseDate != nil {
		job.CloseDate = p.CloseDate
	}
}

type JobPage struct {
	Items []JobAd `json:"items"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int64   `json:"total"`
}

// StatusRecord is the processing status snapshot written by the worker.
type StatusRecord struct {
	Status    JobStatus       `json:"status"`
	Progress  *float64        `json:"progress,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}
