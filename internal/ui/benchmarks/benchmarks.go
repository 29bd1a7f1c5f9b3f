// Package benchmarks provides timing estimates for lab test stages.
package benchmarks

import "time"

// DefaultTimings are typical stage durations of a lab test (seconds).
var DefaultTimings = map[string]int{
	"sync":      20,
	"spec-load": 1,
	"install":   180,
	"build":     240,
}

// PhaseOrder is the sequence of lab test stages for ETA calculation.
var PhaseOrder = []string{
	"sync",
	"spec-load",
	"install",
	"build",
}

// PhaseRecord is the observed duration of a finished stage.
type PhaseRecord struct {
	Phase    string
	Duration time.Duration
}

// EstimateRemaining calculates the estimated time remaining from the
// current stage, the time spent in it and the stages already finished.
func EstimateRemaining(currentPhase string, phaseElapsed time.Duration, history []PhaseRecord) time.Duration {
	return EstimateRemainingWithScale(currentPhase, phaseElapsed, history, PerformanceScale(currentPhase, phaseElapsed, history))
}

// EstimateRemainingWithScale calculates the ETA with a given speed factor.
func EstimateRemainingWithScale(currentPhase string, phaseElapsed time.Duration, history []PhaseRecord, scale float64) time.Duration {
	currentIdx := -1
	for i, p := range PhaseOrder {
		if p == currentPhase {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	var remaining time.Duration
	if expected, ok := DefaultTimings[currentPhase]; ok {
		expectedDur := time.Duration(float64(time.Duration(expected)*time.Second) * scale)
		if expectedDur > phaseElapsed {
			remaining += expectedDur - phaseElapsed
		}
	}

	done := make(map[string]bool, len(history))
	for _, rec := range history {
		done[rec.Phase] = true
	}

	for _, phase := range PhaseOrder[currentIdx+1:] {
		if done[phase] {
			continue
		}
		if expected, ok := DefaultTimings[phase]; ok {
			remaining += time.Duration(float64(time.Duration(expected)*time.Second) * scale)
		}
	}

	return remaining
}

// PerformanceScale derives a speed multiplier from observed versus expected
// durations, clamped to [0.6, 3.0]. A stage that is overrunning counts
// immediately.
func PerformanceScale(currentPhase string, phaseElapsed time.Duration, history []PhaseRecord) float64 {
	var expectedTotal, actualTotal time.Duration

	for _, rec := range history {
		secs, ok := DefaultTimings[rec.Phase]
		if !ok {
			continue
		}
		expectedTotal += time.Duration(secs) * time.Second
		actualTotal += rec.Duration
	}

	if secs, ok := DefaultTimings[currentPhase]; ok && phaseElapsed > 0 {
		expectedCurrent := time.Duration(secs) * time.Second
		if phaseElapsed > expectedCurrent {
			expectedTotal += expectedCurrent
			actualTotal += phaseElapsed
		}
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	return min(max(scale, 0.6), 3.0)
}

// TotalEstimate returns the typical duration of a whole lab test.
func TotalEstimate() time.Duration {
	var total time.Duration
	for _, phase := range PhaseOrder {
		total += time.Duration(DefaultTimings[phase]) * time.Second
	}
	return total
}
