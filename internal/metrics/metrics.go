// Package metrics exposes Prometheus metrics for lab tests and probes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every vmmanager metric plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

var (
	// Lab test metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vmmanager",
			Subsystem: "lab",
			Name:      "runs_total",
			Help:      "Total number of lab tests by repository and result",
		},
		[]string{"repo", "result"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vmmanager",
			Subsystem: "lab",
			Name:      "run_duration_seconds",
			Help:      "Duration of lab tests in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
		},
		[]string{"repo"},
	)

	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vmmanager",
			Subsystem: "lab",
			Name:      "phase_duration_seconds",
			Help:      "Duration of lab test phases in seconds by phase and result",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27min
		},
		[]string{"phase", "result"},
	)

	// Probe metrics
	probeCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vmmanager",
			Subsystem: "probe",
			Name:      "calls_total",
			Help:      "Total number of health probe calls by probe and result",
		},
		[]string{"probe", "result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		runsTotal,
		runDuration,
		phaseDuration,
		probeCallsTotal,
	)
}

// Result label values.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// recordRunMetric records a finished lab test. stage is empty on success.
func recordRunMetric(repo, stage string, duration float64) {
	result := resultSuccess
	if stage != "" {
		result = stage
	}
	runsTotal.WithLabelValues(repo, result).Inc()
	runDuration.WithLabelValues(repo).Observe(duration)
}

// recordPhaseMetric records one phase execution.
func recordPhaseMetric(phase string, ok bool, duration float64) {
	phaseDuration.WithLabelValues(phase, resultLabel(ok)).Observe(duration)
}

// recordProbeMetric records one probe call.
func recordProbeMetric(probe string, ok bool) {
	probeCallsTotal.WithLabelValues(probe, resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return resultSuccess
	}
	return resultFailure
}

// Recorder feeds pipeline and probe observations into the registry.
// A disabled Recorder drops everything.
type Recorder struct {
	enabled bool
}

// NewRecorder returns a Recorder; enabled false makes it a no-op.
func NewRecorder(enabled bool) *Recorder {
	return &Recorder{enabled: enabled}
}

// ObservePhase implements provisioning.Recorder.
func (r *Recorder) ObservePhase(phase string, d time.Duration, err error) {
	if r.enabled {
		recordPhaseMetric(phase, err == nil, d.Seconds())
	}
}

// ObserveRun implements provisioning.Recorder. Failed runs are labelled
// with the stage they failed in.
func (r *Recorder) ObserveRun(repo, stage string, d time.Duration) {
	if r.enabled {
		recordRunMetric(repo, stage, d.Seconds())
	}
}

// ObserveProbe implements probe.Recorder.
func (r *Recorder) ObserveProbe(name string, ok bool) {
	if r.enabled {
		recordProbeMetric(name, ok)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
