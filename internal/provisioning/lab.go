package provisioning

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/vlabs/vmmanager/internal/actionrunner"
	"github.com/vlabs/vmmanager/internal/labsync"
)

// Pipeline tests labs: sync, spec-load, install, build.
type Pipeline struct {
	sync   Synchronizer
	specs  SpecLoader
	runner actionrunner.Runner
	log    logr.Logger

	observer Observer
	recorder Recorder
	reporter Reporter

	now   func() time.Time
	newID func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver replaces the default log-backed observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// WithRecorder records phase and run timings.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithReporter publishes every finished run.
func WithReporter(r Reporter) Option {
	return func(p *Pipeline) {
		p.reporter = r
	}
}

// newRunID returns a time-ordered UUIDv7, so run ids sort by start time.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewPipeline wires a Pipeline from its collaborators.
func NewPipeline(sync Synchronizer, specs SpecLoader, runner actionrunner.Runner, log logr.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		sync:   sync,
		specs:  specs,
		runner: runner,
		log:    log.WithName("pipeline"),
		now:    time.Now,
		newID:  newRunID,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.observer == nil {
		p.observer = NewLogObserver(p.log)
	}
	return p
}

// Phases returns the phases of one lab test in execution order.
func (p *Pipeline) Phases() []Phase {
	return []Phase{
		&syncPhase{sync: p.sync},
		&specPhase{specs: p.specs},
		&installPhase{runner: p.runner},
		&buildPhase{runner: p.runner},
	}
}

// TestLab synchronizes, validates, installs and builds the lab at src.
// It never returns an error: failures are classified into the Result.
func (p *Pipeline) TestLab(ctx context.Context, src labsync.Source) Result {
	result := Result{
		RunID:     p.newID(),
		Source:    src,
		StartedAt: p.now(),
	}
	log := p.log.WithValues("run", result.RunID, "lab", src.URL, "version", src.Version)

	pctx := NewContext(ctx, src, log)
	pctx.Observer = p.observer.WithFields(map[string]string{"run": result.RunID, "lab": src.URL})
	pctx.Recorder = p.recorder

	pctx.Observer.Event(Event{Type: EventRunStarted, Message: "Testing lab"})
	err := RunPhases(pctx, p.Phases())

	result.RepoName = pctx.State.RepoName
	result.Commit = pctx.State.Commit
	result.Duration = p.now().Sub(result.StartedAt)

	if err != nil {
		result.Stage = StageSync
		result.Reason = err.Error()
		var serr *StageError
		if errors.As(err, &serr) {
			result.Stage = serr.Stage
			result.Reason = serr.Err.Error()
		}
		log.Error(err, "Lab test failed", "stage", string(result.Stage), "repo", result.RepoName)
	} else {
		log.Info("Lab test passed", "repo", result.RepoName, "commit", result.Commit)
	}
	LogRunFinished(pctx.Observer, result)

	if p.recorder != nil {
		p.recorder.ObserveRun(result.RepoName, string(result.Stage), result.Duration)
	}
	if p.reporter != nil {
		if rerr := p.reporter.Report(ctx, result); rerr != nil {
			log.Error(rerr, "Could not publish run report")
		}
	}
	return result
}
