package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/provisioning"
)

// RunFunc runs one lab test reporting phases to obs.
type RunFunc func(ctx context.Context, obs provisioning.Observer) provisioning.Result

// RunLabTUI runs a lab test behind the dashboard. Quitting the dashboard
// cancels the run; the result is returned once the pipeline has stopped.
func RunLabTUI(ctx context.Context, src labsync.Source, run RunFunc, opts ...tea.ProgramOption) (provisioning.Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewLabModel(src)
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)...)

	resultCh := make(chan provisioning.Result, 1)
	go func() {
		result := run(runCtx, NewObserver(p))
		resultCh <- result
		p.Send(FinishedMsg{Result: result})
	}()

	_, err := p.Run()
	cancel()
	result := <-resultCh

	if err != nil {
		return result, fmt.Errorf("TUI error: %w", err)
	}
	return result, nil
}
