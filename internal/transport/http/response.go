package httptransport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"job-hunter-service/internal/service"
	"job-hunter-service/internal/validation"
)

type apiError struct {
	Message   string                  `json:"message"`
	RequestID string                  `json:"request_id,omitempty"`
	Errors    []validation.FieldError `json:"errors,omitempty"`
}

// writeJSON checks that v encodes before anything is written, so an encoding
// failure is reported as a generic 500 instead of render's plain error text.
func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	if _, err := json.Marshal(v); err != nil {
		writeServiceErr(w, r, fmt.Errorf("encode response: %w", err))
		return
	}
	render.Status(r, code)
	render.JSON(w, r, v)
}

func writeErr(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, r, code, apiError{Message: msg, RequestID: middleware.GetReqID(r.Context())})
}

// writeServiceErr maps service and validation errors onto status codes.
// Upstream failures are logged and reported without detail.
func writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr      *validation.Error
		dup       *service.ErrDuplicateJob
		notFound  *service.ErrJobNotFound
		noStatus  *service.ErrStatusNotFound
		tooLarge  *http.MaxBytesError
		requestID = middleware.GetReqID(r.Context())
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusBadRequest, apiError{
			Message:   "validation failed",
			RequestID: requestID,
			Errors:    verr.Fields,
		})
	case errors.As(err, &tooLarge):
		writeErr(w, r, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.As(err, &dup):
		writeErr(w, r, http.StatusConflict, dup.Error())
	case errors.As(err, &notFound):
		writeErr(w, r, http.StatusNotFound, "job not found")
	case errors.As(err, &noStatus):
		writeErr(w, r, http.StatusNotFound, "status not found")
	default:
		zap.S().Named("http").Errorw("request failed", "request_id", requestID, "method", r.Method, "path", r.URL.Path, "error", err)
		writeErr(w, r, http.StatusInternalServerError, "internal server error")
	}
}
