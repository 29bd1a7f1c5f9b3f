package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/provisioning"
	"github.com/vlabs/vmmanager/internal/ui/tui"
	"github.com/vlabs/vmmanager/internal/util/prerequisites"
)

// ErrLabFailed is returned by TestLab when the lab did not pass.
var ErrLabFailed = errors.New(provisioning.MessageFailure)

// Factory function variables for test-lab - can be replaced in tests.
var (
	// checkLabPrereqs verifies git and the step shell are installed.
	checkLabPrereqs = prerequisites.CheckForLabTest

	// runLabTUI runs a lab test behind the stage dashboard.
	runLabTUI = tui.RunLabTUI

	// stdoutIsTerminal reports whether the dashboard can be shown.
	stdoutIsTerminal = func() bool {
		return tui.IsTerminal(os.Stdout)
	}
)

// TestLab tests the lab at url, optionally checking out version first.
// It prints the outcome and returns ErrLabFailed when the lab failed.
func TestLab(ctx context.Context, configPath, url, version string, useTUI bool) error {
	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if err := checkLabPrereqs(rt.cfg.Shell).Error(); err != nil {
		return err
	}

	src := labsync.Source{URL: url, Version: version}
	name := labsync.RepoName(url)
	if name != "" {
		l, err := rt.locker.Acquire(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to lock lab %s: %w", name, err)
		}
		defer func() { _ = l.Release(context.WithoutCancel(ctx)) }()
	}

	var result provisioning.Result
	if useTUI && stdoutIsTerminal() {
		result, err = runLabTUI(ctx, src, func(ctx context.Context, obs provisioning.Observer) provisioning.Result {
			observer := provisioning.MultiObserver{provisioning.NewLogObserver(rt.log), obs}
			return newLabTester(rt, provisioning.WithObserver(observer)).TestLab(ctx, src)
		})
		if err != nil {
			return err
		}
	} else {
		if useTUI {
			rt.log.Info("Stdout is not a terminal, dashboard disabled")
		}
		result = newLabTester(rt).TestLab(ctx, src)
	}

	fmt.Print(tui.RenderResult(result))
	if !result.Success() {
		return fmt.Errorf("%w: %s: %s", ErrLabFailed, result.Stage, result.Reason)
	}
	return nil
}
