package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"job-hunter-service/internal/dashboard"
	"job-hunter-service/internal/entity"
)

type GetOptions struct {
	GlobalOptions

	Output string
	Page   int
	Limit  int
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Page:          1,
		Limit:         20,
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get [ID]",
		Short: "Display one job ad or a page of job ads.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")
	fs.IntVar(&o.Page, "page", o.Page, "Page to list")
	fs.IntVar(&o.Limit, "limit", o.Limit, "Page size (1-100)")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *GetOptions) Run(ctx context.Context, out io.Writer, args []string) error {
	c := o.Client()

	if len(args) == 1 {
		job, err := c.GetJob(ctx, args[0])
		if err != nil {
			return fmt.Errorf("reading job/%s: %w", args[0], err)
		}
		if ok, err := printStructured(out, o.Output, job); ok {
			return err
		}
		return printJobsTable(out, *job)
	}

	page, err := c.ListJobs(ctx, o.Page, o.Limit)
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}
	if ok, err := printStructured(out, o.Output, page); ok {
		return err
	}
	if err := printJobsTable(out, page.Items...); err != nil {
		return err
	}
	fmt.Fprintf(out, "\npage %d, limit %d, about %d jobs\n", page.Page, page.Limit, page.Total)
	return nil
}

func printJobsTable(out io.Writer, jobs ...entity.JobAd) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tURL\tPROCESSED")
	for _, j := range jobs {
		company := "-"
		if j.CompanyName != nil {
			company = *j.CompanyName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.ID, j.JobTitle, company, j.URL, dashboard.FormatTime(j.ProcessedAt, nil))
	}
	return w.Flush()
}
