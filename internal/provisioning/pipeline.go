package provisioning

import (
	"errors"
	"time"
)

// RunPhases executes all phases sequentially and stops at the first failure.
// Errors are returned as *StageError; a phase error that is not one already
// is attributed to the phase's name.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting lab test with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())

		err := phase.Provision(ctx)
		if ctx.Recorder != nil {
			ctx.Recorder.ObservePhase(phase.Name(), time.Since(phaseStart), err)
		}
		if err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			var serr *StageError
			if !errors.As(err, &serr) {
				serr = &StageError{Stage: Stage(phase.Name()), Err: err}
			}
			return serr
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), time.Since(phaseStart))
		ctx.Observer.Progress(phase.Name(), i+1, len(phases))
	}

	ctx.Observer.Printf("Lab test phases completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
