package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"job-hunter-service/internal/validation"
)

type CreateOptions struct {
	GlobalOptions

	File   string
	Output string

	URL            string
	CompanyName    string
	RecruiterName  string
	JobTitle       string
	JobDescription string
	SalaryStart    float64
	SalaryEnd      float64
	OpenDate       string
	CloseDate      string

	// fields holds the form flags that were set, keyed by document field name.
	fields map[string]any
}

var formFlags = map[string]string{
	"url":          "url",
	"company":      "companyName",
	"recruiter":    "recruiterName",
	"title":        "jobTitle",
	"description":  "jobDescription",
	"salary-start": "salaryStart",
	"salary-end":   "salaryEnd",
	"open-date":    "openDate",
	"close-date":   "closeDate",
}

func DefaultCreateOptions() *CreateOptions {
	return &CreateOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdCreate() *cobra.Command {
	o := DefaultCreateOptions()
	cmd := &cobra.Command{
		Use:   "create [-f FILE | --url URL --title TITLE --description TEXT ...]",
		Short: "Create a job ad.",
		Long: `Create a job ad from a JSON document or from flags.
The job ad is validated locally before it is sent. Use -f - to read the document from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *CreateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.File, "file", "f", o.File, "Path of a JSON job ad, or - for stdin")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")

	fs.StringVar(&o.URL, "url", o.URL, "Link to the job posting")
	fs.StringVar(&o.CompanyName, "company", o.CompanyName, "Company name")
	fs.StringVar(&o.RecruiterName, "recruiter", o.RecruiterName, "Recruiter name")
	fs.StringVar(&o.JobTitle, "title", o.JobTitle, "Job title")
	fs.StringVar(&o.JobDescription, "description", o.JobDescription, "Job description")
	fs.Float64Var(&o.SalaryStart, "salary-start", o.SalaryStart, "Lower bound of the salary range")
	fs.Float64Var(&o.SalaryEnd, "salary-end", o.SalaryEnd, "Upper bound of the salary range")
	fs.StringVar(&o.OpenDate, "open-date", o.OpenDate, "Date the ad opened (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&o.CloseDate, "close-date", o.CloseDate, "Date the ad closes (YYYY-MM-DD or RFC 3339)")
}

func (o *CreateOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}

	values := map[string]any{
		"url":          o.URL,
		"company":      o.CompanyName,
		"recruiter":    o.RecruiterName,
		"title":        o.JobTitle,
		"description":  o.JobDescription,
		"salary-start": o.SalaryStart,
		"salary-end":   o.SalaryEnd,
		"open-date":    o.OpenDate,
		"close-date":   o.CloseDate,
	}
	o.fields = map[string]any{}
	for flag, field := range formFlags {
		if cmd.Flags().Changed(flag) {
			o.fields[field] = values[flag]
		}
	}
	return nil
}

func (o *CreateOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.File != "" && len(o.fields) > 0 {
		return fmt.Errorf("--file cannot be combined with job ad flags")
	}
	if o.File == "" && len(o.fields) == 0 {
		return fmt.Errorf("either --file or job ad flags are required")
	}
	return validateOutput(o.Output)
}

func (o *CreateOptions) Run(ctx context.Context, out io.Writer, in io.Reader) error {
	body, err := o.document(in)
	if err != nil {
		return err
	}

	input, err := validation.New().DecodeCreate(body)
	if err != nil {
		return err
	}

	job, err := o.Client().CreateJob(ctx, input)
	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}

	if ok, err := printStructured(out, o.Output, job); ok {
		return err
	}
	fmt.Fprintf(out, "job/%s created\n", job.ID)
	return nil
}

func (o *CreateOptions) document(in io.Reader) ([]byte, error) {
	switch o.File {
	case "":
		return json.Marshal(o.fields)
	case "-":
		body, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading job ad: %w", err)
		}
		return body, nil
	default:
		body, err := os.ReadFile(o.File)
		if err != nil {
			return nil, fmt.Errorf("reading job ad: %w", err)
		}
		return body, nil
	}
}
