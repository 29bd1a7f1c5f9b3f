package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/vlabs/vmmanager/internal/lock"
	"github.com/vlabs/vmmanager/internal/server"
)

// Listener serves until its context is done. Implemented by server.Server.
type Listener interface {
	Listen(ctx context.Context) error
}

// newServer creates the HTTP API - can be replaced in tests.
var newServer = func(cfg server.Config, tester server.LabTester, probes server.ProbeRunner, locker lock.Locker, log logr.Logger) Listener {
	return server.New(cfg, tester, probes, locker, log)
}

// Serve runs the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, configPath string) error {
	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if err := checkLabPrereqs(rt.cfg.Shell).Error(); err != nil {
		return err
	}

	prober, err := rt.prober()
	if err != nil {
		return err
	}

	srv := newServer(server.Config{
		Address:       rt.cfg.Server.Address,
		EnableMetrics: rt.cfg.Server.Metrics,
		AccessLog:     rt.output,
	}, newLabTester(rt), prober, rt.locker, rt.log)

	fmt.Printf("vmmanager listening on %s\n", rt.cfg.Server.Address)
	if err := srv.Listen(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	fmt.Println("vmmanager stopped")
	return nil
}
