package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"job-hunter-service/internal/cache"
	"job-hunter-service/internal/entity"
	"job-hunter-service/internal/repository"
	"job-hunter-service/internal/service"
	httptransport "job-hunter-service/internal/transport/http"
	"job-hunter-service/internal/validation"
)

// ---- fakes ----

type memRepo struct {
	mu      sync.Mutex
	jobs    []entity.JobAd // insertion order
	listErr error
}

func (r *memRepo) index(id string) int {
	for i, j := range r.jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}

func (r *memRepo) FindByURL(_ context.Context, url string) (*entity.JobAd, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.URL == url {
			cp := j
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) Insert(_ context.Context, job entity.JobAd) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *memRepo) List(_ context.Context, skip, limit int) ([]entity.JobAd, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []entity.JobAd{}
	for i := len(r.jobs) - 1 - skip; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.jobs[i])
	}
	return out, nil
}

func (r *memRepo) EstimatedCount(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.JobAd, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	cp := r.jobs[i]
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, id string, patch entity.JobAdPatch) (*entity.JobAd, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	patch.ApplyTo(&r.jobs[i])
	cp := r.jobs[i]
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.jobs = append(r.jobs[:i], r.jobs[i+1:]...)
	return nil
}

type publisherStub struct {
	published []entity.JobAd
	err       error
}

func (p *publisherStub) PublishJobCreated(_ context.Context, job entity.JobAd) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, job)
	return nil
}

type statusStub map[string]*entity.StatusRecord

func (s statusStub) GetStatus(_ context.Context, id string) (*entity.StatusRecord, error) {
	rec, ok := s[id]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return rec, nil
}

// ---- helpers ----

func newTestRouter(repo service.JobRepository, pub service.EventPublisher, status service.StatusReader) http.Handler {
	n := 0
	svc := service.NewJobService(repo, pub, status, service.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	}))
	h := httptransport.NewHandler(svc, validation.New())
	return httptransport.Routes(h, httptransport.RouterOptions{})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return v
}

type errorBody struct {
	Message   string                  `json:"message"`
	RequestID string                  `json:"request_id"`
	Errors    []validation.FieldError `json:"errors"`
}

const validJob = `{"url":"https://x.test/1","jobTitle":"Engineer","jobDescription":"desc","salaryStart":100,"salaryEnd":200}`

// ---- tests ----

func TestHTTP_Health(t *testing.T) {
	router := newTestRouter(&memRepo{}, &publisherStub{}, statusStub{})

	rr := do(t, router, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decode[map[string]string](t, rr); got["status"] != "OK" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestHTTP_CreateGetDelete(t *testing.T) {
	repo := &memRepo{}
	pub := &publisherStub{}
	router := newTestRouter(repo, pub, statusStub{})

	rr := do(t, router, http.MethodPost, "/jobs", validJob)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", rr.Code, rr.Body.String())
	}
	created := decode[entity.JobAd](t, rr)
	if created.ID == "" || created.URL != "https://x.test/1" {
		t.Fatalf("unexpected created job: %+v", created)
	}

	if len(pub.published) != 1 || pub.published[0].ID != created.ID {
		t.Fatalf("expected one event for %s, got %#v", created.ID, pub.published)
	}

	rr = do(t, router, http.MethodGet, "/jobs/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}
	got := decode[map[string]any](t, rr)
	if got["id"] != created.ID || got["salaryEnd"] != float64(200) {
		t.Fatalf("unexpected job: %v", got)
	}
	if _, ok := got["_id"]; ok {
		t.Fatalf("internal id leaked: %v", got)
	}

	rr = do(t, router, http.MethodDelete, "/jobs/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d, body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, router, http.MethodGet, "/jobs/"+created.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}

	rr = do(t, router, http.MethodDelete, "/jobs/"+created.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rr.Code)
	}
}

func TestHTTP_CreateJob_400_ListsFieldErrors(t *testing.T) {
	pub := &publisherStub{}
	router := newTestRouter(&memRepo{}, pub, statusStub{})

	rr := do(t, router, http.MethodPost, "/jobs", `{"url":"https://x.test/1","jobTitle":"Engineer","jobDescription":"desc","salaryStart":300,"salaryEnd":200}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body=%s", rr.Code, rr.Body.String())
	}

	resp := decode[errorBody](t, rr)
	if resp.Message != "validation failed" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "salaryEnd" || resp.Errors[0].Message != "salaryEnd must be larger than salaryStart." {
		t.Fatalf("unexpected errors: %#v", resp.Errors)
	}
	if len(pub.published) != 0 {
		t.Fatal("invalid input must not publish")
	}
}

func TestHTTP_CreateJob_400_InvalidJSON(t *testing.T) {
	router := newTestRouter(&memRepo{}, &publisherStub{}, statusStub{})

	rr := do(t, router, http.MethodPost, "/jobs", `{"url":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_CreateJob_409_DuplicateURL(t *testing.T) {
	pub := &publisherStub{}
	router := newTestRouter(&memRepo{}, pub, statusStub{})

	if rr := do(t, router, http.MethodPost, "/jobs", validJob); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	rr := do(t, router, http.MethodPost, "/jobs", validJob)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d, body=%s", rr.Code, rr.Body.String())
	}
	if len(pub.published) != 1 {
		t.Fatalf("duplicate must not publish, got %d events", len(pub.published))
	}
}

func TestHTTP_CreateJob_500_PublishFailureRollsBack(t *testing.T) {
	repo := &memRepo{}
	router := newTestRouter(repo, &publisherStub{err: errors.New("broker down")}, statusStub{})

	rr := do(t, router, http.MethodPost, "/jobs", validJob)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d, body=%s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "broker down") {
		t.Fatalf("upstream detail leaked: %s", rr.Body.String())
	}
	if len(repo.jobs) != 0 {
		t.Fatalf("expected rollback, store has %d jobs", len(repo.jobs))
	}
}

func TestHTTP_ListJobs_NewestFirstAndClamped(t *testing.T) {
	repo := &memRepo{}
	router := newTestRouter(repo, &publisherStub{}, statusStub{})

	for i := 1; i <= 3; i++ {
		body := fmt.Sprintf(`{"url":"https://x.test/%d","jobTitle":"Engineer","jobDescription":"desc"}`, i)
		if rr := do(t, router, http.MethodPost, "/jobs", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed %d: expected 201, got %d", i, rr.Code)
		}
	}

	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
		wantURLs  []string
	}{
		{"", 1, 20, []string{"https://x.test/3", "https://x.test/2", "https://x.test/1"}},
		{"?page=2&limit=2", 2, 2, []string{"https://x.test/1"}},
		{"?page=0&limit=0", 1, 1, []string{"https://x.test/3"}},
		{"?page=-4&limit=1000", 1, 100, []string{"https://x.test/3", "https://x.test/2", "https://x.test/1"}},
		{"?page=abc&limit=xyz", 1, 20, []string{"https://x.test/3", "https://x.test/2", "https://x.test/1"}},
		{"?page=9", 9, 20, nil},
	}

	for _, tt := range tests {
		t.Run("query"+tt.query, func(t *testing.T) {
			rr := do(t, router, http.MethodGet, "/jobs"+tt.query, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			page := decode[entity.JobPage](t, rr)
			if page.Page != tt.wantPage || page.Limit != tt.wantLimit || page.Total != 3 {
				t.Fatalf("unexpected page meta: %+v", page)
			}
			if len(page.Items) != len(tt.wantURLs) {
				t.Fatalf("expected %d items, got %d", len(tt.wantURLs), len(page.Items))
			}
			for i, u := range tt.wantURLs {
				if page.Items[i].URL != u {
					t.Fatalf("item %d: expected %s, got %s", i, u, page.Items[i].URL)
				}
			}
		})
	}
}

func TestHTTP_ListJobs_EmptyItemsIsArray(t *testing.T) {
	router := newTestRouter(&memRepo{}, &publisherStub{}, statusStub{})

	rr := do(t, router, http.MethodGet, "/jobs", "")
	if !strings.Contains(rr.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", rr.Body.String())
	}
}

func TestHTTP_ListJobs_500_StoreFailure(t *testing.T) {
	router := newTestRouter(&memRepo{listErr: errors.New("db down")}, &publisherStub{}, statusStub{})

	rr := do(t, router, http.MethodGet, "/jobs", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if resp := decode[errorBody](t, rr); resp.RequestID == "" || resp.Message != "internal server error" {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}

func TestHTTP_UpdateJob(t *testing.T) {
	repo := &memRepo{}
	router := newTestRouter(repo, &publisherStub{}, statusStub{})

	created := decode[entity.JobAd](t, do(t, router, http.MethodPost, "/jobs", validJob))

	t.Run("partial update keeps other fields", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/jobs/"+created.ID, `{"companyName":"ACME","salaryEnd":250}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
		}
		got := decode[entity.JobAd](t, rr)
		if got.CompanyName == nil || *got.CompanyName != "ACME" || *got.SalaryEnd != 250 || *got.SalaryStart != 100 || got.JobTitle != "Engineer" {
			t.Fatalf("unexpected job after patch: %+v", got)
		}
	})

	t.Run("public id cannot change", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/jobs/"+created.ID, `{"id":"hijack","publicId":"hijack","jobTitle":"Lead"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
		}
		got := decode[entity.JobAd](t, rr)
		if got.ID != created.ID || got.JobTitle != "Lead" {
			t.Fatalf("unexpected job after patch: %+v", got)
		}
	})

	t.Run("empty patch returns job unchanged", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/jobs/"+created.ID, `{}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("invalid field", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/jobs/"+created.ID, `{"salaryStart":"lots"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("missing job", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/jobs/missing", `{"jobTitle":"Lead"}`)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})
}

func TestHTTP_GetJobStatus(t *testing.T) {
	progress := 100.0
	status := statusStub{
		"done": {Status: entity.StatusSuccess, Progress: &progress, Result: json.RawMessage(`{"ok":true}`)},
		"raw":  {Status: entity.StatusSuccess, Result: json.RawMessage(`"not json"`)},
	}
	router := newTestRouter(&memRepo{}, &publisherStub{}, status)

	rr := do(t, router, http.MethodGet, "/jobs/done/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	got := decode[map[string]any](t, rr)
	if got["status"] != "success" || got["progress"] != float64(100) {
		t.Fatalf("unexpected status: %v", got)
	}
	if res, ok := got["result"].(map[string]any); !ok || res["ok"] != true {
		t.Fatalf("expected parsed result, got %v", got["result"])
	}

	got = decode[map[string]any](t, do(t, router, http.MethodGet, "/jobs/raw/status", ""))
	if got["result"] != "not json" {
		t.Fatalf("expected raw string result, got %v", got["result"])
	}

	rr = do(t, router, http.MethodGet, "/jobs/unknown/status", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHTTP_RequestIDHeaderIsEchoed(t *testing.T) {
	router := newTestRouter(&memRepo{}, &publisherStub{}, statusStub{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/missing", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := decode[errorBody](t, rr); got.RequestID != "req-123" {
		t.Fatalf("expected request id req-123, got %q", got.RequestID)
	}
}

func TestHTTP_UnknownRoutesAnswerJSON(t *testing.T) {
	router := newTestRouter(&memRepo{}, &publisherStub{}, statusStub{})

	rr := do(t, router, http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if got := decode[errorBody](t, rr); got.Message != "not found" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}

	rr = do(t, router, http.MethodPut, "/jobs/abc", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestHTTP_OutOfRangeDatesAreRejected(t *testing.T) {
	repo := &memRepo{}
	pub := &publisherStub{}
	router := newTestRouter(repo, pub, statusStub{})

	rr := do(t, router, http.MethodPost, "/jobs", `{"url":"https://x.test/1","jobTitle":"Engineer","jobDescription":"desc","openDate":1e15}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body=%s", rr.Code, rr.Body.String())
	}
	if len(repo.jobs) != 0 || len(pub.published) != 0 {
		t.Fatalf("rejected job must not be stored or published")
	}

	created := decode[entity.JobAd](t, do(t, router, http.MethodPost, "/jobs", validJob))
	rr = do(t, router, http.MethodPatch, "/jobs/"+created.ID, `{"closeDate":1e15}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, router, http.MethodGet, "/jobs/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_UnencodableResponseIsGeneric500(t *testing.T) {
	far := time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC)
	repo := &memRepo{jobs: []entity.JobAd{{
		ID: "legacy", URL: "https://x.test/legacy", JobTitle: "Engineer", JobDescription: "desc", OpenDate: &far,
	}}}
	router := newTestRouter(repo, &publisherStub{}, statusStub{})

	for _, path := range []string{"/jobs/legacy", "/jobs"} {
		rr := do(t, router, http.MethodGet, path, "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, rr.Code)
		}
		if got := decode[errorBody](t, rr); got.Message != "internal server error" {
			t.Fatalf("%s: unexpected body %s", path, rr.Body.String())
		}
	}
}
