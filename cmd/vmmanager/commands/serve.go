package commands

import (
	"github.com/spf13/cobra"

	"github.com/vlabs/vmmanager/cmd/vmmanager/handlers"
)

// Serve returns the command that runs the HTTP API.
func Serve() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve lab tests and probes over HTTP",
		Long: `Run the vmmanager HTTP API until interrupted.

Endpoints:
  POST /api/1.0/execute/testlab   lab_src_url, version
  GET  /api/1.0/info/<probe>
  GET  /metrics                   when server.metrics is enabled
  GET  /healthz

Runs of the same lab are serialized. Configure lock.redis_addr to
serialize them across several servers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), configPath)
		},
	}

	addConfigFlag(cmd, &configPath)

	return cmd
}
