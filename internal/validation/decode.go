package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"job-hunter-service/internal/entity"
)

// Keys that identify a stored document and can never be written by a client.
var identityFields = []string{"id", "publicId", "_id"}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type fieldDecoder func(raw json.RawMessage, p *entity.JobAdPatch) error

var fieldDecoders = map[string]fieldDecoder{
	"url":            stringField(func(p *entity.JobAdPatch, s *string) { p.URL = s }),
	"companyName":    stringField(func(p *entity.JobAdPatch, s *string) { p.CompanyName = s }),
	"recruiterName":  stringField(func(p *entity.JobAdPatch, s *string) { p.RecruiterName = s }),
	"jobTitle":       stringField(func(p *entity.JobAdPatch, s *string) { p.JobTitle = s }),
	"jobDescription": stringField(func(p *entity.JobAdPatch, s *string) { p.JobDescription = s }),
	"salaryStart":    numberField(func(p *entity.JobAdPatch, f *float64) { p.SalaryStart = f }),
	"salaryEnd":      numberField(func(p *entity.JobAdPatch, f *float64) { p.SalaryEnd = f }),
	"openDate":       dateField(func(p *entity.JobAdPatch, t *time.Time) { p.OpenDate = t }),
	"closeDate":      dateField(func(p *entity.JobAdPatch, t *time.Time) { p.CloseDate = t }),
}

var (
	errNotString = errors.New("must be a string")
	errNotNumber = errors.New("must be a number")
	errNotDate   = errors.New("must be a valid date")
)

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, newError(FieldError{Field: "body", Message: "must be a JSON object"})
	}
	return raw, nil
}

// decodeFields coerces every known key and reports unknown keys and nulls.
func decodeFields(raw map[string]json.RawMessage) (entity.JobAdPatch, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		patch entity.JobAdPatch
		errs  []FieldError
	)
	for _, k := range keys {
		dec, ok := fieldDecoders[k]
		if !ok {
			errs = append(errs, FieldError{Field: k, Message: "unknown field"})
			continue
		}
		v := raw[k]
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			errs = append(errs, FieldError{Field: k, Message: "must not be null"})
			continue
		}
		if err := dec(v, &patch); err != nil {
			errs = append(errs, FieldError{Field: k, Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return entity.JobAdPatch{}, newError(errs...)
	}
	return patch, nil
}

func stringField(set func(*entity.JobAdPatch, *string)) fieldDecoder {
	return func(raw json.RawMessage, p *entity.JobAdPatch) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return errNotString
		}
		set(p, &s)
		return nil
	}
}

func numberField(set func(*entity.JobAdPatch, *float64)) fieldDecoder {
	return func(raw json.RawMessage, p *entity.JobAdPatch) error {
		f, err := ParseNumber(raw)
		if err != nil {
			return err
		}
		set(p, &f)
		return nil
	}
}

func dateField(set func(*entity.JobAdPatch, *time.Time)) fieldDecoder {
	return func(raw json.RawMessage, p *entity.JobAdPatch) error {
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		set(p, &t)
		return nil
	}
}

// ParseNumber accepts a JSON number or a numeric string.
func ParseNumber(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errNotNumber
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	return f, nil
}

// ParseDate accepts RFC3339 strings, plain dates and epoch milliseconds.
// Timestamps are normalized to UTC with millisecond precision so they
// survive a round trip through the store unchanged.
func ParseDate(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return checkYear(t.UTC().Truncate(time.Millisecond))
			}
		}
		return time.Time{}, errNotDate
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, errNotDate
	}
	if ms < float64(minDateMillis) || ms > float64(maxDateMillis) {
		return time.Time{}, errNotDate
	}
	return checkYear(time.UnixMilli(int64(ms)).UTC())
}

// Dates must stay within the years JSON and BSON timestamps can encode.
var (
	minDateMillis = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxDateMillis = time.Date(9999, time.December, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli()
)

func checkYear(t time.Time) (time.Time, error) {
	if t.Year() < 0 || t.Year() > 9999 {
		return time.Time{}, errNotDate
	}
	return t, nil
}
