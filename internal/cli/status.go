package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"job-hunter-service/internal/client"
	"job-hunter-service/internal/entity"
)

type StatusOptions struct {
	GlobalOptions

	Output string
}

func DefaultStatusOptions() *StatusOptions {
	return &StatusOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdStatus() *cobra.Command {
	o := DefaultStatusOptions()
	cmd := &cobra.Command{
		Use:   "status ID",
		Short: "Show the processing status of a job ad.",
		Args:  cobra.ExactArgs(1),
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

func (o *StatusOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")
}

func (o *StatusOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *StatusOptions) Run(ctx context.Context, out io.Writer, args []string) error {
	rec, err := o.Client().GetStatus(ctx, args[0])
	if err != nil {
		if !client.IsNotFound(err) {
			return fmt.Errorf("reading status of job/%s: %w", args[0], err)
		}
		rec = &entity.StatusRecord{Status: entity.StatusPending}
	}

	if ok, err := printStructured(out, o.Output, rec); ok {
		return err
	}

	fmt.Fprintf(out, "status: %s\n", rec.Status)
	if rec.Progress != nil {
		fmt.Fprintf(out, "progress: %g\n", *rec.Progress)
	}
	if rec.Error != "" {
		fmt.Fprintf(out, "error: %s\n", rec.Error)
	}
	if len(rec.Result) > 0 {
		fmt.Fprintf(out, "result: %s\n", rec.Result)
	}
	return nil
}
