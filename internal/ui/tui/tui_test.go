package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/provisioning"
)

var labSrc = labsync.Source{URL: "https://git.example.edu/labs/ds-lab.git", Version: "v1.2"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d), tt.d.String())
	}
}

func TestNewLabModel(t *testing.T) {
	m := NewLabModel(labSrc)

	assert.Equal(t, "ds-lab", m.RepoName)
	require.Len(t, m.Phases, 4)
	keys := []string{}
	for _, p := range m.Phases {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"sync", "spec-load", "install", "build"}, keys)
}

func TestModelUpdatePhase(t *testing.T) {
	m := NewLabModel(labSrc)
	m.now = fixedClock(time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC))

	m.updatePhase(PhaseMsg{Phase: "sync"})
	assert.True(t, m.Phases[0].Active)

	m.updatePhase(PhaseMsg{Phase: "sync", Done: true, Duration: 12 * time.Second})
	assert.True(t, m.Phases[0].Done)
	assert.False(t, m.Phases[0].Active)
	assert.Equal(t, 12*time.Second, m.Phases[0].Duration)

	// jumping ahead completes earlier stages
	m.updatePhase(PhaseMsg{Phase: "install"})
	assert.True(t, m.Phases[1].Done)
	assert.True(t, m.Phases[2].Active)

	m.updatePhase(PhaseMsg{Phase: "install", Err: errors.New("exit status 1")})
	assert.False(t, m.Phases[2].Active)
	assert.EqualError(t, m.Phases[2].Err, "exit status 1")

	// unknown phases are ignored
	m.updatePhase(PhaseMsg{Phase: "deploy"})
}

func TestModelUpdate_FinishedFailure(t *testing.T) {
	m := NewLabModel(labSrc)
	updated, _ := m.Update(PhaseMsg{Phase: "sync"})
	updated, _ = updated.Update(PhaseMsg{Phase: "sync", Err: errors.New("checkout failed")})
	updated, cmd := updated.Update(FinishedMsg{Result: provisioning.Result{
		RunID: "run-1", Stage: provisioning.StageCheckout, Reason: "pathspec 'v9' did not match",
	}})

	final := updated.(Model)
	assert.True(t, final.Done)
	assert.NotNil(t, cmd)
	assert.NotNil(t, final.Phases[0].Err)
	for _, p := range final.Phases[1:] {
		assert.True(t, p.Skipped, p.Key)
	}

	view := final.View()
	assert.Contains(t, view, "Test lab failed")
	assert.Contains(t, view, "[checkout] pathspec 'v9' did not match")
	assert.Contains(t, view, "run: run-1")
	assert.Contains(t, view, skipped)
}

func TestModelUpdate_FinishedSuccess(t *testing.T) {
	m := NewLabModel(labSrc)
	updated, _ := m.Update(FinishedMsg{Result: provisioning.Result{RunID: "run-2"}})

	final := updated.(Model)
	for _, p := range final.Phases {
		assert.True(t, p.Done, p.Key)
	}
	assert.Equal(t, 1.0, calculateProgress(final))
	assert.Contains(t, final.View(), "Success")
}

func TestModelUpdate_KeysAndErrors(t *testing.T) {
	m := NewLabModel(labSrc)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Equal(t, 60, updated.(Model).Width)

	updated, _ = m.Update(ErrMsg{Err: errors.New("terminal gone")})
	assert.Contains(t, updated.(Model).View(), "Error: terminal gone")

	updated, cmd = m.Update(TickMsg{})
	assert.Equal(t, 1, updated.(Model).SpinnerFrame)
	assert.NotNil(t, cmd)
}

func TestCalculateProgress(t *testing.T) {
	m := NewLabModel(labSrc)
	assert.Equal(t, 0.0, calculateProgress(m))

	m.Phases[0].Done = true
	m.Phases[1].Done = true
	assert.InDelta(t, 0.15, calculateProgress(m), 0.001)
}

func TestModelETA(t *testing.T) {
	start := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	m := NewLabModel(labSrc)
	m.now = fixedClock(start)

	m.updatePhase(PhaseMsg{Phase: "sync"})
	m.now = fixedClock(start.Add(5 * time.Second))
	m.updateETA()

	// (20-5) + 1 + 180 + 240
	assert.Equal(t, 436*time.Second, m.EstimatedRemaining)
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestObserver(t *testing.T) {
	sender := &recordingSender{}
	obs := NewObserver(sender)
	start := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	obs.now = fixedClock(start)

	var o provisioning.Observer = obs.WithFields(map[string]string{"run": "r1"})
	o.Printf("ignored %d", 1)
	o.Progress("sync", 1, 4)
	provisioning.LogPhaseStart(o, "sync")
	obs.now = fixedClock(start.Add(3 * time.Second))
	provisioning.LogPhaseComplete(o, "sync", 3*time.Second)
	provisioning.LogPhaseStart(o, "spec-load")
	provisioning.LogPhaseFailed(o, "spec-load", errors.New("Lab spec file not found"))

	require.Len(t, sender.msgs, 4)
	assert.Equal(t, PhaseMsg{Phase: "sync"}, sender.msgs[0])
	assert.Equal(t, PhaseMsg{Phase: "sync", Done: true, Duration: 3 * time.Second}, sender.msgs[1])
	failed := sender.msgs[3].(PhaseMsg)
	assert.Equal(t, "spec-load", failed.Phase)
	assert.EqualError(t, failed.Err, "Lab spec file not found")
}

func TestRenderResult(t *testing.T) {
	ok := RenderResult(provisioning.Result{
		RunID: "run-1", RepoName: "ds-lab",
		Commit: "4b825dc642cb6eb9a060e54bf8d69288fbee4904", Duration: 75 * time.Second,
	})
	assert.Contains(t, ok, "Success")
	assert.Contains(t, ok, "commit: 4b825dc642cb")
	assert.Contains(t, ok, "duration: 1m15s")
	assert.NotContains(t, ok, "stage:")

	failed := RenderResult(provisioning.Result{Stage: provisioning.StageSpecLoad, Reason: "Lab spec file not found"})
	assert.Contains(t, failed, "Test lab failed")
	assert.Contains(t, failed, "stage:  spec-load")
	assert.Contains(t, failed, "reason: Lab spec file not found")
}

func TestRenderProbe(t *testing.T) {
	out := RenderProbe("cpuload", "7.0%\n")
	assert.Contains(t, out, "cpuload")
	assert.Contains(t, out, "7.0%\n")
}

func TestRunLabTUI(t *testing.T) {
	run := func(ctx context.Context, obs provisioning.Observer) provisioning.Result {
		provisioning.LogPhaseStart(obs, "sync")
		provisioning.LogPhaseComplete(obs, "sync", time.Millisecond)
		return provisioning.Result{RunID: "run-3", RepoName: "ds-lab"}
	}

	result, err := RunLabTUI(context.Background(), labSrc, run,
		tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())

	require.NoError(t, err)
	assert.Equal(t, "run-3", result.RunID)
	assert.True(t, result.Success())
}
