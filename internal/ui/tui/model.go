package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vlabs/vmmanager/internal/labsync"
	"github.com/vlabs/vmmanager/internal/provisioning"
	"github.com/vlabs/vmmanager/internal/ui/benchmarks"
)

// StagePhase is one lab test stage as displayed.
type StagePhase struct {
	Name      string
	Key       string
	Done      bool
	Active    bool
	Skipped   bool
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Model is the Bubble Tea model of the lab test dashboard.
type Model struct {
	Source   labsync.Source
	RepoName string

	Phases []StagePhase
	Result *provisioning.Result

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool

	now func() time.Time
}

// NewLabModel creates the dashboard for one lab test.
func NewLabModel(src labsync.Source) Model {
	return Model{
		Source:           src,
		RepoName:         labsync.RepoName(src.URL),
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
		Phases: []StagePhase{
			{Name: "Repository sync", Key: string(provisioning.StageSync)},
			{Name: "Lab spec", Key: string(provisioning.StageSpecLoad)},
			{Name: "Install", Key: string(provisioning.StageInstall)},
			{Name: "Build", Key: string(provisioning.StageBuild)},
		},
		now: time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		m.updateETA()

	case FinishedMsg:
		result := msg.Result
		m.Result = &result
		m.markFinished()
		m.Done = true
		return m, tea.Quit

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := m.phaseIndex(msg.Phase)
	if idx < 0 {
		return
	}

	// Mark previous phases as done
	for i := range idx {
		if !m.Phases[i].Done && m.Phases[i].Err == nil {
			m.Phases[i].Done = true
		}
		m.Phases[i].Active = false
	}

	p := &m.Phases[idx]
	switch {
	case msg.Err != nil:
		p.Err = msg.Err
		p.Active = false
		p.Duration = msg.Duration
	case msg.Done:
		p.Done = true
		p.Active = false
		p.Duration = msg.Duration
	default:
		p.Active = true
		p.StartedAt = m.clock()
	}
}

// markFinished marks the stages that never ran after a failure.
func (m *Model) markFinished() {
	failed := false
	for i := range m.Phases {
		p := &m.Phases[i]
		p.Active = false
		if failed {
			p.Skipped = true
			continue
		}
		if p.Err != nil {
			failed = true
		}
	}
	if m.Result != nil && m.Result.Success() {
		for i := range m.Phases {
			m.Phases[i].Done = true
		}
	}
}

func (m *Model) phaseIndex(key string) int {
	for i, p := range m.Phases {
		if p.Key == key {
			return i
		}
	}
	return -1
}

func (m *Model) updateETA() {
	var current *StagePhase
	var history []benchmarks.PhaseRecord
	for i := range m.Phases {
		p := &m.Phases[i]
		if p.Done {
			history = append(history, benchmarks.PhaseRecord{Phase: p.Key, Duration: p.Duration})
		}
		if p.Active {
			current = p
		}
	}
	if current == nil {
		m.EstimatedRemaining = 0
		return
	}

	elapsed := m.clock().Sub(current.StartedAt)
	m.PerformanceScale = benchmarks.PerformanceScale(current.Key, elapsed, history)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(current.Key, elapsed, history, m.PerformanceScale)
}

func (m *Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
