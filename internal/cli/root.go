package cli

import (
	"github.com/spf13/cobra"
)

func NewJobCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobctl [flags] [options]",
		Short: "jobctl manages tracked job ads.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(NewCmdCreate())
	cmd.AddCommand(NewCmdGet())
	cmd.AddCommand(NewCmdDelete())
	cmd.AddCommand(NewCmdStatus())
	cmd.AddCommand(NewCmdDashboard())

	return cmd
}
