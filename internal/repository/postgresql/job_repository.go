package postgresql

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"job-hunter-service/internal/entity"
	"job-hunter-service/internal/repository"
)

const uniqueViolation = "23505"

const jobColumns = `public_id, url, company_name, recruiter_name, job_title, job_description,
salary_start, salary_end, open_date, close_date, processed_at`

// patchColumns maps document field names onto table columns.
var patchColumns = map[string]string{
	"url":            "url",
	"companyName":    "company_name",
	"recruiterName":  "recruiter_name",
	"jobTitle":       "job_title",
	"jobDescription": "job_description",
	"salaryStart":    "salary_start",
	"salaryEnd":      "salary_end",
	"openDate":       "open_date",
	"closeDate":      "close_date",
}

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Insert(ctx context.Context, job entity.JobAd) error {
	const q = `
INSERT INTO job_ads (public_id, url, company_name, recruiter_name, job_title, job_description,
	salary_start, salary_end, open_date, close_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, q,
		job.ID, job.URL, job.CompanyName, job.RecruiterName, job.JobTitle, job.JobDescription,
		job.SalaryStart, job.SalaryEnd, job.OpenDate, job.CloseDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return errors.Wrap(err, "insert job")
	}
	return nil
}

func (r *JobRepository) FindByURL(ctx context.Context, url string) (*entity.JobAd, error) {
	q := `SELECT ` + jobColumns + ` FROM job_ads WHERE url = $1 ORDER BY seq LIMIT 1;`
	return r.queryOne(ctx, q, url)
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.JobAd, error) {
	q := `SELECT ` + jobColumns + ` FROM job_ads WHERE public_id = $1;`
	return r.queryOne(ctx, q, id)
}

func (r *JobRepository) queryOne(ctx context.Context, q string, args ...any) (*entity.JobAd, error) {
	job, err := scanJob(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "query job")
	}
	return job, nil
}

func (r *JobRepository) List(ctx context.Context, skip, limit int) ([]entity.JobAd, error) {
	q := `SELECT ` + jobColumns + ` FROM job_ads ORDER BY seq DESC OFFSET $1 LIMIT $2;`

	rows, err := r.pool.Query(ctx, q, skip, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	defer rows.Close()

	jobs := []entity.JobAd{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan job")
		}
		jobs = append(jobs, *job)
	}
	return jobs, errors.Wrap(rows.Err(), "list jobs")
}

// EstimatedCount reads the planner statistics and falls back to an exact
// count when the table has never been analyzed.
func (r *JobRepository) EstimatedCount(ctx context.Context) (int64, error) {
	const q = `SELECT reltuples::bigint FROM pg_class WHERE oid = 'job_ads'::regclass;`

	var n int64
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "estimate job count")
	}
	if n >= 0 {
		return n, nil
	}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM job_ads;`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count jobs")
	}
	return n, nil
}

func (r *JobRepository) Update(ctx context.Context, id string, patch entity.JobAdPatch) (*entity.JobAd, error) {
	q, args := buildUpdate(id, patch.Fields())

	job, err := scanJob(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, repository.ErrNotFound
		case isUniqueViolation(err):
			return nil, repository.ErrDuplicate
		}
		return nil, errors.Wrap(err, "update job")
	}
	return job, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_ads WHERE public_id = $1;`, id)
	if err != nil {
		return errors.Wrap(err, "delete job")
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkProcessed records the first processing time. Later calls keep the original value.
func (r *JobRepository) MarkProcessed(ctx context.Context, id string, at time.Time) error {
	const q = `
UPDATE job_ads SET processed_at = COALESCE(processed_at, $2), updated_at = now()
WHERE public_id = $1;
`
	tag, err := r.pool.Exec(ctx, q, id, at)
	if err != nil {
		return errors.Wrap(err, "mark job processed")
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// buildUpdate renders an UPDATE for the supplied fields in a stable column order.
func buildUpdate(id string, fields map[string]any) (string, []any) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := patchColumns[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	args := []any{id}
	sets := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		args = append(args, fields[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", patchColumns[k], len(args)))
	}
	sets = append(sets, "updated_at = now()")

	q := `UPDATE job_ads SET ` + strings.Join(sets, ", ") +
		` WHERE public_id = $1 RETURNING ` + jobColumns + `;`
	return q, args
}

func scanJob(row pgx.Row) (*entity.JobAd, error) {
	var job entity.JobAd
	if err := row.Scan(
		&job.ID,
		&job.URL,
		&job.CompanyName,   // NULL => nil
		&job.RecruiterName, // NULL => nil
		&job.JobTitle,
		&job.JobDescription,
		&job.SalaryStart,
		&job.SalaryEnd,
		&job.OpenDate,
		&job.CloseDate,
		&job.ProcessedAt,
	); err != nil {
		return nil, err
	}

	for _, t := range []*time.Time{job.OpenDate, job.CloseDate, job.ProcessedAt} {
		if t != nil {
			*t = t.UTC()
		}
	}
	return &job, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
