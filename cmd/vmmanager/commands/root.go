// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the vmmanager CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vmmanager",
		Short:         "Test lab repositories and probe lab hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(TestLab())
	cmd.AddCommand(Probe())
	cmd.AddCommand(Serve())
	cmd.AddCommand(Reports())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// addConfigFlag binds the shared --config flag.
func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", "", "Path to configuration file (default: vmmanager.yaml)")
}
