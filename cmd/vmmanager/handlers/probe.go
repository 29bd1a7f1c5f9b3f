package handlers

import (
	"context"
	"fmt"

	"github.com/vlabs/vmmanager/internal/probe"
	"github.com/vlabs/vmmanager/internal/ui/tui"
	"github.com/vlabs/vmmanager/internal/util/async"
	"github.com/vlabs/vmmanager/internal/util/prerequisites"
)

// AllProbes runs every probe concurrently; answers print in probe order.
const AllProbes = "all"

// checkProbePrereqs looks up the local probe tools.
var checkProbePrereqs = func() *prerequisites.CheckResults {
	return prerequisites.Check(prerequisites.ProbeTools())
}

// Probe runs the named probe, or every probe concurrently for AllProbes,
// and prints the raw answers in probe order. A failing probe is printed,
// not returned.
func Probe(ctx context.Context, configPath, name string) error {
	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	names := []string{name}
	if name == AllProbes {
		names = probe.Names()
	}

	if !rt.cfg.Remote.Enabled() {
		for _, tool := range checkProbePrereqs().Missing {
			fmt.Printf("Warning: %s not found, %s will fail (%s)\n", tool.Name, tool.Description, tool.InstallHint)
		}
	}

	prober, err := rt.prober()
	if err != nil {
		return err
	}

	tasks := make([]async.Task[string], len(names))
	for i, n := range names {
		tasks[i] = async.Task[string]{Name: n, Func: func(ctx context.Context) (string, error) {
			return prober.Run(ctx, n)
		}}
	}

	outputs, err := async.Collect(ctx, tasks)
	if err != nil {
		return err
	}
	for i, n := range names {
		fmt.Print(tui.RenderProbe(n, outputs[i]))
	}
	return nil
}
