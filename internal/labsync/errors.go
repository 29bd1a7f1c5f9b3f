package labsync

import "fmt"

// Stage names the synchronization step that failed.
type Stage string

// Synchronization steps.
const (
	StageClone    Stage = "clone"
	StagePull     Stage = "pull"
	StageCheckout Stage = "checkout"
)

// SyncError reports a failed synchronization step.
type SyncError struct {
	Stage   Stage
	Repo    string
	Version string
	Err     error
}

func (e *SyncError) Error() string {
	if e.Version != "" && e.Stage == StageCheckout {
		return fmt.Sprintf("%s of %s at %s failed: %v", e.Stage, e.Repo, e.Version, e.Err)
	}
	return fmt.Sprintf("%s of %s failed: %v", e.Stage, e.Repo, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
