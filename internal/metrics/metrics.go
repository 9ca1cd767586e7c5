// Package metrics provides a small, backend-agnostic abstraction for recording
// benchmark metrics.
//
//   - It exposes a narrow interface (Backend) focused on counters and timing
//     data.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//
// Concrete systems (Prometheus Pushgateway, DogStatsD) live in subpackages so
// the pipelines depend only on this package.
package metrics

import "time"

// Metric names emitted by this package.
const (
	PhaseTotal    = "moviebench_phase_total"
	PhaseDuration = "moviebench_phase_duration_seconds"
	RowsTotal     = "moviebench_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordPhase records latency and success/failure of one pipeline phase.
func RecordPhase(job, pipeline, phase string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":      job,
		"pipeline": pipeline,
		"phase":    phase,
		"status":   status,
	}

	backend.IncCounter(PhaseTotal, 1, lbls)
	backend.ObserveHistogram(PhaseDuration, d.Seconds(), lbls)
}

// RecordRows increments a row counter for the given pipeline and kind.
//
// Kinds used by the pipelines:
//   - "loaded"
//   - "filtered"
//   - "selected"
//   - "written"
func RecordRows(job, pipeline, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":      job,
		"pipeline": pipeline,
		"kind":     kind,
	})
}
