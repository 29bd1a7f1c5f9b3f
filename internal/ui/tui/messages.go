// Package tui provides a Bubble Tea dashboard for lab tests and the styled
// plain-text output used when no terminal is attached.
package tui

import (
	"time"

	"github.com/vlabs/vmmanager/internal/provisioning"
)

// PhaseMsg reports a stage starting, finishing or failing.
type PhaseMsg struct {
	Phase    string
	Done     bool
	Err      error
	Duration time.Duration
}

// FinishedMsg carries the result of the run and ends the program.
type FinishedMsg struct {
	Result provisioning.Result
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }
