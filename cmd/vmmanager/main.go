// Package main is the entry point for the vmmanager CLI.
//
// vmmanager tests lab repositories: it synchronizes a lab's git repository
// into a local cache, validates its lab specification and runs the lab's
// installer and build steps. It also answers host health probes and can
// serve both over HTTP.
//
// Commands: init, test-lab, probe, serve, reports.
//
// For detailed usage information, run:
//
//	vmmanager --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vlabs/vmmanager/cmd/vmmanager/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
