package tui

import (
	"errors"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vlabs/vmmanager/internal/provisioning"
)

// Sender delivers messages to a running program. Implemented by tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Observer forwards pipeline phase events to the dashboard.
// It implements provisioning.Observer.
type Observer struct {
	send Sender
	now  func() time.Time

	mu      sync.Mutex
	started map[string]time.Time
}

// NewObserver creates an Observer sending to s.
func NewObserver(s Sender) *Observer {
	return &Observer{send: s, now: time.Now, started: make(map[string]time.Time)}
}

// Printf implements provisioning.Logger. The dashboard ignores free text.
func (o *Observer) Printf(string, ...any) {}

// Event implements provisioning.Observer.
func (o *Observer) Event(event provisioning.Event) {
	switch event.Type {
	case provisioning.EventPhaseStarted:
		o.mu.Lock()
		o.started[event.Phase] = o.now()
		o.mu.Unlock()
		o.send.Send(PhaseMsg{Phase: event.Phase})
	case provisioning.EventPhaseCompleted:
		o.send.Send(PhaseMsg{Phase: event.Phase, Done: true, Duration: o.elapsed(event.Phase)})
	case provisioning.EventPhaseFailed:
		msg := strings.TrimPrefix(event.Message, "failed: ")
		o.send.Send(PhaseMsg{Phase: event.Phase, Err: errors.New(msg), Duration: o.elapsed(event.Phase)})
	}
}

// Progress implements provisioning.Observer.
func (o *Observer) Progress(string, int, int) {}

// WithFields implements provisioning.Observer. Fields are not displayed.
func (o *Observer) WithFields(map[string]string) provisioning.Observer {
	return o
}

func (o *Observer) elapsed(phase string) time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	start, ok := o.started[phase]
	if !ok {
		return 0
	}
	return o.now().Sub(start)
}
