// Package provisioning runs the lab test pipeline.
//
// # Phases
//
// A lab test is a fixed sequence of phases, each implementing [Phase]:
//
//   - sync: clone or pull the lab repository and check out the version
//   - spec-load: read the lab specification and project its step sets
//   - install: hand the installer steps to the Action Runner
//   - build: hand the build steps to the Action Runner
//
// [RunPhases] runs them in order and stops at the first failure. Every
// failure is a [*StageError] naming the stage, and [Pipeline.TestLab] turns
// the outcome into a [Result].
//
// # Core Types
//
// Context carries the run's source, state, observer and recorder.
// State accumulates what earlier phases learned (repo name, commit, step sets).
package provisioning
