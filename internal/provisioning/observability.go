package provisioning

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-logr/logr"
)

// Logger is the minimal printf-style sink phases write progress to.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer defines the interface for structured observability during a run.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress through the phases
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured pipeline event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "sync", "build")
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of pipeline event.
type EventType string

const (
	// EventRunStarted indicates a lab test has started.
	EventRunStarted EventType = "run.started"
	// EventRunSucceeded indicates every phase of a lab test passed.
	EventRunSucceeded EventType = "run.succeeded"
	// EventRunFailed indicates a lab test stopped at a failed phase.
	EventRunFailed EventType = "run.failed"

	// EventPhaseStarted indicates a phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventProgress indicates progress through the phases.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...), o.keysAndValues(nil)...)
}

// Event implements Observer. Failure events are logged at error level.
func (o *LogObserver) Event(event Event) {
	kv := append([]any{"event", string(event.Type)}, o.keysAndValues(event.Fields)...)
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}

	switch event.Type {
	case EventPhaseFailed, EventRunFailed:
		o.log.Error(nil, event.Message, kv...)
	case EventProgress:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	o.Event(progressEvent(phase, current, total))
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{
		log:           o.log,
		contextFields: mergeFields(o.contextFields, fields),
	}
}

func (o *LogObserver) keysAndValues(extra map[string]string) []any {
	fields := mergeFields(o.contextFields, extra)
	kv := make([]any, 0, 2*len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		kv = append(kv, k, fields[k])
	}
	return kv
}

// MultiObserver fans every call out to several observers.
type MultiObserver []Observer

// Printf implements Logger.
func (m MultiObserver) Printf(format string, v ...any) {
	for _, o := range m {
		o.Printf(format, v...)
	}
}

// Event implements Observer.
func (m MultiObserver) Event(event Event) {
	for _, o := range m {
		o.Event(event)
	}
}

// Progress implements Observer.
func (m MultiObserver) Progress(phase string, current, total int) {
	for _, o := range m {
		o.Progress(phase, current, total)
	}
}

// WithFields implements Observer.
func (m MultiObserver) WithFields(fields map[string]string) Observer {
	out := make(MultiObserver, len(m))
	for i, o := range m {
		out[i] = o.WithFields(fields)
	}
	return out
}

func mergeFields(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}

func progressEvent(phase string, current, total int) Event {
	msg := fmt.Sprintf("Progress: %d/%d", current, total)
	if total > 0 {
		msg = fmt.Sprintf("Progress: %d/%d (%d%%)", current, total, current*100/total)
	}
	return Event{
		Type:    EventProgress,
		Phase:   phase,
		Message: msg,
		Fields: map[string]string{
			"current": fmt.Sprint(current),
			"total":   fmt.Sprint(total),
		},
	}
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogRunFinished logs the outcome of a lab test.
func LogRunFinished(observer Observer, result Result) {
	if result.Success() {
		observer.Event(Event{
			Type:    EventRunSucceeded,
			Message: fmt.Sprintf("%s in %v", MessageSuccess, result.Duration.Round(time.Millisecond)),
		})
		return
	}
	observer.Event(Event{
		Type:    EventRunFailed,
		Phase:   string(result.Stage),
		Message: MessageFailure,
		Fields:  map[string]string{"reason": result.Reason},
	})
}
