package provisioning

import (
	"time"

	"github.com/vlabs/vmmanager/internal/labsync"
)

// Result messages returned to callers of the lab test entry point.
const (
	MessageSuccess = "Success"
	MessageFailure = "Test lab failed"
)

// Result is the outcome of one lab test. A zero Stage means success.
type Result struct {
	RunID     string
	Source    labsync.Source
	RepoName  string
	Commit    string
	Stage     Stage
	Reason    string
	StartedAt time.Time
	Duration  time.Duration
}

// Success reports whether every stage passed.
func (r Result) Success() bool {
	return r.Stage == ""
}

// String returns the entry point's answer: "Success" or "Test lab failed".
func (r Result) String() string {
	if r.Success() {
		return MessageSuccess
	}
	return MessageFailure
}
