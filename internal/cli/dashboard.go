package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	"job-hunter-service/internal/client"
	"job-hunter-service/internal/dashboard"
)

type DashboardOptions struct {
	GlobalOptions

	Page          int
	Limit         int
	Sort          string
	Desc          bool
	Filter        string
	TimeZone      string
	StatusTimeout time.Duration

	location *time.Location
}

func DefaultDashboardOptions() *DashboardOptions {
	return &DashboardOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Page:          1,
		Limit:         20,
		TimeZone:      dashboard.DefaultTimeZone,
		StatusTimeout: dashboard.DefaultStatusTimeout,
	}
}

func NewCmdDashboard() *cobra.Command {
	o := DefaultDashboardOptions()
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "List job ads together with their processing status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *DashboardOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.IntVar(&o.Page, "page", o.Page, "Page to show")
	fs.IntVar(&o.Limit, "limit", o.Limit, "Page size (1-100)")
	fs.StringVar(&o.Sort, "sort", o.Sort, fmt.Sprintf("Sort by column. One of: (%s).", strings.Join(dashboard.Columns, ", ")))
	fs.BoolVar(&o.Desc, "desc", o.Desc, "Sort in descending order")
	fs.StringVar(&o.Filter, "filter", o.Filter, "Only show rows containing this text (case-insensitive)")
	fs.StringVar(&o.TimeZone, "tz", o.TimeZone, "Time zone used to display dates")
	fs.DurationVar(&o.StatusTimeout, "status-timeout", o.StatusTimeout, "Timeout of each per-row status request")
}

func (o *DashboardOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	loc, err := time.LoadLocation(o.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", o.TimeZone, err)
	}
	o.location = loc
	return nil
}

func (o *DashboardOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Sort != "" && !funk.ContainsString(dashboard.Columns, o.Sort) {
		return fmt.Errorf("sort column must be one of %s", strings.Join(dashboard.Columns, ", "))
	}
	return nil
}

func (o *DashboardOptions) Run(ctx context.Context, out io.Writer) error {
	c := o.Client()

	page, err := c.ListJobs(ctx, o.Page, o.Limit)
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	rows, err := dashboard.Build(ctx, page.Items, c, dashboard.Options{
		StatusTimeout: o.StatusTimeout,
		IsNotFound:    client.IsNotFound,
	})
	if err != nil {
		return fmt.Errorf("loading statuses: %w", err)
	}

	rows = dashboard.Filter(rows, o.Filter, o.location)
	if o.Sort != "" {
		if err := dashboard.Sort(rows, o.Sort, o.Desc); err != nil {
			return err
		}
	}

	if err := dashboard.Render(out, rows, o.location); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d of %d rows, page %d, about %d jobs\n", len(rows), len(page.Items), page.Page, page.Total)
	return nil
}
