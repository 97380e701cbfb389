package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-hunter-service/internal/validation"
)

type fakeAPI struct {
	created []map[string]any
	hits    int
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.created = append(f.created, body)
		body["id"] = "job-1"
		writeJSON(w, http.StatusCreated, body)
	})
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{"id": "job-1", "url": "https://x.test/1", "jobTitle": "Backend Engineer", "jobDescription": "Go", "companyName": "Zeta"},
				{"id": "job-2", "url": "https://x.test/2", "jobTitle": "Data Engineer", "jobDescription": "SQL", "companyName": "Acme"},
			},
			"page":  1,
			"limit": 20,
			"total": 2,
		})
	})
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		if r.PathValue("id") != "job-1" {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "job not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "job-1", "url": "https://x.test/1", "jobTitle": "Backend Engineer", "jobDescription": "Go",
		})
	})
	mux.HandleFunc("DELETE /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /jobs/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		if r.PathValue("id") != "job-1" {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "status not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "progress": 100})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreate_FromFlags(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	out, err := execute(t, NewCmdCreate(),
		"-u", srv.URL,
		"--url", "https://x.test/1",
		"--title", "Backend Engineer",
		"--description", "Go services",
		"--salary-start", "100",
		"--open-date", "2026-01-02",
	)
	require.NoError(t, err)
	assert.Equal(t, "job/job-1 created\n", out)

	require.Len(t, api.created, 1)
	body := api.created[0]
	assert.Equal(t, "https://x.test/1", body["url"])
	assert.Equal(t, "Backend Engineer", body["jobTitle"])
	assert.Equal(t, 100.0, body["salaryStart"])
	assert.Equal(t, "2026-01-02T00:00:00Z", body["openDate"])
	assert.NotContains(t, body, "companyName")
	assert.NotContains(t, body, "salaryEnd")
}

func TestCreate_FromFile(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	path := filepath.Join(t.TempDir(), "job.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"url":"https://x.test/9","jobTitle":"SRE","jobDescription":"on call","companyName":"Acme"}`), 0o600))

	out, err := execute(t, NewCmdCreate(), "-u", srv.URL, "-f", path, "-o", "json")
	require.NoError(t, err)

	var job map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &job))
	assert.Equal(t, "job-1", job["id"])
	assert.Equal(t, "Acme", job["companyName"])
}

func TestCreate_ValidatesLocally(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	_, err := execute(t, NewCmdCreate(),
		"-u", srv.URL,
		"--url", "not a url",
		"--title", "Engineer",
		"--description", "desc",
	)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "got %v", err)

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "must be a valid URL", fields["url"])
	assert.Zero(t, api.hits)
}

func TestCreate_RequiresInput(t *testing.T) {
	_, err := execute(t, NewCmdCreate())
	assert.ErrorContains(t, err, "either --file or job ad flags are required")

	_, err = execute(t, NewCmdCreate(), "-f", "job.json", "--title", "x")
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestGet(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	t.Run("single job as yaml", func(t *testing.T) {
		out, err := execute(t, NewCmdGet(), "-u", srv.URL, "job-1", "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "jobTitle: Backend Engineer")
		assert.Contains(t, out, "id: job-1")
	})

	t.Run("list as table", func(t *testing.T) {
		out, err := execute(t, NewCmdGet(), "-u", srv.URL)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.Contains(t, lines[1], "job-1")
		assert.Contains(t, lines[2], "Acme")
		assert.Contains(t, out, "page 1, limit 20, about 2 jobs")
	})

	t.Run("missing job", func(t *testing.T) {
		_, err := execute(t, NewCmdGet(), "-u", srv.URL, "nope")
		assert.ErrorContains(t, err, "404")
	})

	t.Run("unknown output", func(t *testing.T) {
		_, err := execute(t, NewCmdGet(), "-u", srv.URL, "-o", "xml")
		assert.ErrorContains(t, err, "output format must be one of json, yaml")
	})
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	out, err := execute(t, NewCmdDelete(), "-u", srv.URL, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job/job-1 deleted\n", out)
}

func TestStatus(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	out, err := execute(t, NewCmdStatus(), "-u", srv.URL, "job-1")
	require.NoError(t, err)
	assert.Contains(t, out, "status: success")
	assert.Contains(t, out, "progress: 100")

	out, err = execute(t, NewCmdStatus(), "-u", srv.URL, "job-2")
	require.NoError(t, err)
	assert.Equal(t, "status: pending\n", out)
}

func TestDashboard(t *testing.T) {
	api := &fakeAPI{}
	srv := api.server(t)

	out, err := execute(t, NewCmdDashboard(), "-u", srv.URL, "--sort", "company", "--tz", "UTC")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[1], "job-2")
	assert.Contains(t, lines[1], "pending")
	assert.Contains(t, lines[2], "job-1")
	assert.Contains(t, lines[2], "success")

	out, err = execute(t, NewCmdDashboard(), "-u", srv.URL, "--filter", "zeta")
	require.NoError(t, err)
	assert.Contains(t, out, "job-1")
	assert.NotContains(t, out, "job-2")
	assert.Contains(t, out, "1 of 2 rows")
}

func TestDashboard_RejectsBadOptions(t *testing.T) {
	_, err := execute(t, NewCmdDashboard(), "--sort", "salary")
	assert.ErrorContains(t, err, "sort column must be one of")

	_, err = execute(t, NewCmdDashboard(), "--tz", "Mars/Olympus")
	assert.ErrorContains(t, err, "invalid time zone")
}
