package provisioning

import "fmt"

// Stage names the pipeline stage a run failed in.
type Stage string

// Pipeline stages.
const (
	StageSync     Stage = "sync"
	StageCheckout Stage = "checkout"
	StageSpecLoad Stage = "spec-load"
	StageInstall  Stage = "install"
	StageBuild    Stage = "build"
)

// StageError reports the stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
