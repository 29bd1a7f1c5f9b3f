package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlabs/vmmanager/cmd/vmmanager/handlers"
	"github.com/vlabs/vmmanager/internal/probe"
)

// Probe returns the command that answers host health probes.
func Probe() *cobra.Command {
	var configPath string

	names := append(probe.Names(), handlers.AllProbes)

	cmd := &cobra.Command{
		Use:   "probe <name>",
		Short: "Run a host health probe",
		Long: fmt.Sprintf(`Run a host health probe and print its raw output.

Probes: %s.

Probes run on this host, or over SSH when remote.host is configured.
A failing probe prints "Error executing the command: <detail>".`, strings.Join(names, ", ")),
		ValidArgs: names,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Probe(cmd.Context(), configPath, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)

	return cmd
}
