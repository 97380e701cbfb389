package httptransport

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"job-hunter-service/internal/service"
	"job-hunter-service/internal/validation"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	jobSvc    *service.JobService
	validator *validation.Validator
}

func NewHandler(jobSvc *service.JobService, validator *validation.Validator) *Handler {
	return &Handler{jobSvc: jobSvc, validator: validator}
}

// handle adapts an error-returning handler; errors are written by writeServiceErr.
func handle(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeServiceErr(w, r, err)
		}
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

type healthResp struct {
	Status string `json:"status"`
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} healthResp
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResp{Status: "OK"})
}

// CreateJob godoc
// @Summary Create a job ad
// @Description Validates the ad, stores it under a new public id and publishes a job created event.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body entity.JobAdInput true "job ad"
// @Success 201 {object} entity.JobAd
// @Failure 400 {object} apiError
// @Failure 409 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs [post]
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	in, err := h.validator.DecodeCreate(body)
	if err != nil {
		return err
	}

	job, err := h.jobSvc.CreateJob(r.Context(), in)
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusCreated, job)
	return nil
}

// ListJobs godoc
// @Summary List job ads
// @Description Newest first. total is an estimate of the collection size.
// @Tags jobs
// @Produce json
// @Param page query int false "page number, from 1" default(1)
// @Param limit query int false "page size, 1..100" default(20)
// @Success 200 {object} entity.JobPage
// @Failure 500 {object} apiError
// @Router /jobs [get]
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	page, limit := service.ParsePagination(q.Get("page"), q.Get("limit"))

	res, err := h.jobSvc.ListJobs(r.Context(), page, limit)
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, res)
	return nil
}

// GetJob godoc
// @Summary Get job ad by public id
// @Tags jobs
// @Produce json
// @Param id path string true "public id"
// @Success 200 {object} entity.JobAd
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs/{id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) error {
	job, err := h.jobSvc.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, job)
	return nil
}

// UpdateJob godoc
// @Summary Partially update a job ad
// @Description Only supplied fields change. id, publicId and _id in the body are ignored.
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "public id"
// @Param request body entity.JobAdPatch true "fields to change"
// @Success 200 {object} entity.JobAd
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Failure 409 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs/{id} [patch]
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	patch, err := h.validator.DecodePatch(body)
	if err != nil {
		return err
	}

	job, err := h.jobSvc.UpdateJob(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, job)
	return nil
}

// DeleteJob godoc
// @Summary Delete a job ad
// @Tags jobs
// @Param id path string true "public id"
// @Success 204
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs/{id} [delete]
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) error {
	if err := h.jobSvc.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GetJobStatus godoc
// @Summary Get processing status
// @Description Status written by the worker. result is returned as JSON, or as a string when it does not parse.
// @Tags jobs
// @Produce json
// @Param id path string true "public id"
// @Success 200 {object} entity.StatusRecord
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs/{id}/status [get]
func (h *Handler) GetJobStatus(w http.ResponseWriter, r *http.Request) error {
	rec, err := h.jobSvc.GetStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, rec)
	return nil
}
