package provisioning

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/vlabs/vmmanager/internal/labsync"
)

// Context wraps all dependencies and state needed for a pipeline phase.
type Context struct {
	context.Context
	Source   labsync.Source
	State    *State
	Observer Observer
	Log      logr.Logger

	// Recorder may be nil.
	Recorder Recorder
}

// NewContext creates a new pipeline context for src.
func NewContext(ctx context.Context, src labsync.Source, log logr.Logger) *Context {
	return &Context{
		Context:  ctx,
		Source:   src,
		State:    NewState(),
		Observer: NewLogObserver(log),
		Log:      log,
	}
}
