package provisioning

import (
	"context"
	"time"

	"github.com/vlabs/vmmanager/internal/labspec"
	"github.com/vlabs/vmmanager/internal/labsync"
)

// Phase defines the interface for a pipeline phase.
type Phase interface {
	// Name returns the stage name of this phase.
	Name() string

	// Provision executes the logic for this phase.
	Provision(ctx *Context) error
}

// Synchronizer keeps lab working copies up to date.
// Implemented by labsync.Synchronizer.
type Synchronizer interface {
	// Sync clones or pulls src and checks out its version.
	// It returns the repository name even when it fails.
	Sync(ctx context.Context, src labsync.Source) (string, error)

	// RepoPath returns the working copy directory of a repository name.
	RepoPath(name string) string

	// Head returns the commit checked out in a working copy.
	Head(ctx context.Context, name string) (string, error)
}

// SpecLoader reads lab specifications from working copies.
// Implemented by labspec.Loader.
type SpecLoader interface {
	Load(repo string) (*labspec.LabSpec, error)
}

// Recorder receives timing of phases and runs.
// Implemented by metrics.Recorder.
type Recorder interface {
	// ObservePhase records one phase execution; err is nil on success.
	ObservePhase(phase string, d time.Duration, err error)

	// ObserveRun records one lab test. stage is empty on success.
	ObserveRun(repo, stage string, d time.Duration)
}

// Reporter publishes the result of a finished run.
// Implemented by report.Archiver.
type Reporter interface {
	Report(ctx context.Context, result Result) error
}
