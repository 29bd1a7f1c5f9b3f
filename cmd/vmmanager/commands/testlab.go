package commands

import (
	"github.com/spf13/cobra"

	"github.com/vlabs/vmmanager/cmd/vmmanager/handlers"
)

// TestLab returns the command that tests one lab repository.
//
// Flags:
//
//	--version, -V: Branch, tag or commit to check out
//	--tui: Show a live stage dashboard when stdout is a terminal
//	--config, -c: Path to configuration file
func TestLab() *cobra.Command {
	var (
		configPath string
		version    string
		useTUI     bool
	)

	cmd := &cobra.Command{
		Use:   "test-lab <lab-url>",
		Short: "Synchronize, validate, install and build a lab",
		Long: `Test a lab repository.

The repository is cloned into the lab cache, or pulled when a working copy
already exists. When --version is given it is checked out. The lab
specification is then validated and the lab's installer and build steps
are run in order. The first failing stage stops the run.

The command prints "Success" or "Test lab failed" and exits non-zero on
failure.

Examples:
  # Test the default branch
  vmmanager test-lab https://github.com/example/web-lab.git

  # Test a tag with the live dashboard
  vmmanager test-lab https://github.com/example/web-lab.git --version v1.2.0 --tui`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.TestLab(cmd.Context(), configPath, args[0], version, useTUI)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&version, "version", "V", "", "Branch, tag or commit to check out")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Show a live stage dashboard")

	return cmd
}
