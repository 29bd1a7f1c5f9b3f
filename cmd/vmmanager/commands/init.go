package commands

import (
	"github.com/spf13/cobra"

	"github.com/vlabs/vmmanager/cmd/vmmanager/handlers"
	"github.com/vlabs/vmmanager/internal/config"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "vmmanager.yaml")
//	--advanced, -a: Also configure remote probes, the report archive and redis locks
//	--full, -f: Output full YAML with all options (default: minimal output)
func Init() *cobra.Command {
	var (
		outputPath string
		advanced   bool
		fullOutput bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a vmmanager configuration",
		Long: `Interactively create a vmmanager configuration file.

The wizard asks about:

  - The lab repository cache and the lab specification path
  - The shell running installer and build steps
  - Log file and level
  - The HTTP API address and metrics

Use --advanced to also configure SSH probes against a remote VM,
the S3 run report archive and redis-backed run locks.

By default only values that differ from the defaults are written.
Use --full to write every option.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, advanced, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Output file path")
	cmd.Flags().BoolVarP(&advanced, "advanced", "a", false, "Show advanced configuration options")
	cmd.Flags().BoolVarP(&fullOutput, "full", "f", false, "Output full YAML with all options")

	return cmd
}
