package provisioning

// State holds the shared results of pipeline phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Sync results
	RepoName string
	WorkDir  string
	Commit   string // empty when HEAD could not be resolved

	// Spec results, handed to the Action Runner unchanged
	Installer  any
	BuildSteps any
}

// NewState creates an empty pipeline state.
func NewState() *State {
	return &State{}
}
