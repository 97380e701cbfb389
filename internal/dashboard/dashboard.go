// Package dashboard renders job ads with their processing status as a table.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/thoas/go-funk"
	"golang.org/x/sync/errgroup"

	"job-hunter-service/internal/entity"
)

const (
	DefaultStatusTimeout = 5 * time.Second
	DefaultTimeZone      = "Australia/Melbourne"

	timeLayout = "2 Jan 2006, 3:04 pm"
	missing    = "-"
)

// Columns lists the sortable columns in display order.
var Columns = []string{
	"url", "company", "recruiter", "title", "salaryStart", "salaryEnd",
	"openDate", "closeDate", "processedAt", "status",
}

type StatusFetcher interface {
	GetStatus(ctx context.Context, id string) (*entity.StatusRecord, error)
}

type Row struct {
	Job    entity.JobAd
	Status string
}

type Options struct {
	StatusTimeout time.Duration
	// IsNotFound tells a missing status apart from a failed fetch.
	IsNotFound func(error) bool
}

// Build fetches the status of every job in parallel. A missing status shows as
// pending; any other failure fails the whole build.
func Build(ctx context.Context, jobs []entity.JobAd, fetcher StatusFetcher, opts Options) ([]Row, error) {
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = DefaultStatusTimeout
	}

	rows := make([]Row, len(jobs))
	g, gctx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, opts.StatusTimeout)
			defer cancel()

			rows[i] = Row{Job: job, Status: string(entity.StatusPending)}

			rec, err := fetcher.GetStatus(cctx, job.ID)
			if err != nil {
				if opts.IsNotFound != nil && opts.IsNotFound(err) {
					return nil
				}
				return fmt.Errorf("status of job %s: %w", job.ID, err)
			}
			if rec.Status != "" {
				rows[i].Status = string(rec.Status)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Filter keeps rows where any displayed cell contains q, ignoring case.
func Filter(rows []Row, q string, loc *time.Location) []Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}

	out := []Row{}
	for _, r := range rows {
		for _, cell := range r.cells(loc) {
			if strings.Contains(strings.ToLower(cell), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Sort orders rows by column. Missing values sort last in either direction.
func Sort(rows []Row, column string, desc bool) error {
	if !funk.ContainsString(Columns, column) {
		return fmt.Errorf("unknown sort column %q, must be one of %s", column, strings.Join(Columns, ", "))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].key(column), rows[j].key(column)
		switch {
		case a.missing && b.missing:
			return false
		case a.missing:
			return false
		case b.missing:
			return true
		}
		if desc {
			return b.less(a)
		}
		return a.less(b)
	})
	return nil
}

// Render writes rows as an aligned table.
func Render(w io.Writer, rows []Row, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tURL\tCOMPANY\tRECRUITER\tTITLE\tSALARY START\tSALARY END\tOPEN\tCLOSE\tPROCESSED\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.Job.ID, strings.Join(r.cells(loc), "\t"))
	}
	return tw.Flush()
}

func FormatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return missing
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeLayout)
}

func (r Row) cells(loc *time.Location) []string {
	return []string{
		r.Job.URL,
		str(r.Job.CompanyName),
		str(r.Job.RecruiterName),
		r.Job.JobTitle,
		num(r.Job.SalaryStart),
		num(r.Job.SalaryEnd),
		FormatTime(r.Job.OpenDate, loc),
		FormatTime(r.Job.CloseDate, loc),
		FormatTime(r.Job.ProcessedAt, loc),
		r.Status,
	}
}

type sortKey struct {
	missing bool
	s       string
	f       float64
	t       time.Time
	kind    int
}

const (
	kindString = iota
	kindNumber
	kindTime
)

func (k sortKey) less(o sortKey) bool {
	switch k.kind {
	case kindNumber:
		return k.f < o.f
	case kindTime:
		return k.t.Before(o.t)
	default:
		return k.s < o.s
	}
}

func (r Row) key(column string) sortKey {
	strKey := func(s string) sortKey {
		return sortKey{missing: s == "", s: strings.ToLower(s)}
	}
	numKey := func(f *float64) sortKey {
		if f == nil {
			return sortKey{missing: true, kind: kindNumber}
		}
		return sortKey{f: *f, kind: kindNumber}
	}
	timeKey := func(t *time.Time) sortKey {
		if t == nil {
			return sortKey{missing: true, kind: kindTime}
		}
		return sortKey{t: *t, kind: kindTime}
	}

	switch column {
	case "url":
		return strKey(r.Job.URL)
	case "company":
		return strKey(deref(r.Job.CompanyName))
	case "recruiter":
		return strKey(deref(r.Job.RecruiterName))
	case "title":
		return strKey(r.Job.JobTitle)
	case "salaryStart":
		return numKey(r.Job.SalaryStart)
	case "salaryEnd":
		return numKey(r.Job.SalaryEnd)
	case "openDate":
		return timeKey(r.Job.OpenDate)
	case "closeDate":
		return timeKey(r.Job.CloseDate)
	case "processedAt":
		return timeKey(r.Job.ProcessedAt)
	default:
		return strKey(r.Status)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func str(s *string) string {
	if s == nil || *s == "" {
		return missing
	}
	return *s
}

func num(f *float64) string {
	if f == nil {
		return missing
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
