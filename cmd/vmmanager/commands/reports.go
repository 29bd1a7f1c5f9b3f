package commands

import (
	"github.com/spf13/cobra"

	"github.com/vlabs/vmmanager/cmd/vmmanager/handlers"
)

// Reports returns the command group for archived run reports.
func Reports() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect archived lab run reports",
		Long: `Inspect the run reports uploaded to the archive bucket.

Requires archive.bucket to be configured.`,
	}

	cmd.AddCommand(reportsList())
	cmd.AddCommand(reportsShow())

	return cmd
}

func reportsList() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list <lab-url|repo>",
		Short: "List the archived reports of a lab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ReportsList(cmd.Context(), configPath, args[0])
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}

func reportsShow() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Print one archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ReportsShow(cmd.Context(), configPath, args[0])
		},
	}
	addConfigFlag(cmd, &configPath)
	return cmd
}
