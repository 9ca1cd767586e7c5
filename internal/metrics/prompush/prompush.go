// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A benchmark run is a short-lived batch process, so metrics are pushed to a
// Pushgateway on Flush instead of being exposed on a scrape endpoint. The
// "job" label becomes the Pushgateway grouping key; pipeline, phase, status
// and kind are carried as metric labels.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"moviebench/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	phaseCounter  *prometheus.CounterVec // moviebench_phase_total
	phaseDuration *prometheus.SummaryVec // moviebench_phase_duration_seconds
	rowCounter    *prometheus.CounterVec // moviebench_rows_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name.
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "moviebench"
	}

	reg := prometheus.NewRegistry()

	phaseCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.PhaseTotal,
			Help: "Pipeline phase executions, partitioned by pipeline, phase and status.",
		},
		[]string{"pipeline", "phase", "status"},
	)
	phaseDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.PhaseDuration,
			Help:       "Duration of pipeline phases in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"pipeline", "phase", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row counts per pipeline and kind (loaded, filtered, selected, written).",
		},
		[]string{"pipeline", "kind"},
	)

	for name, c := range map[string]prometheus.Collector{
		"phase counter": phaseCounter,
		"phase summary": phaseDuration,
		"row counter":   rowCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		phaseCounter:  phaseCounter,
		phaseDuration: phaseDuration,
		rowCounter:    rowCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.PhaseTotal:
		if b.phaseCounter == nil {
			return
		}
		b.phaseCounter.WithLabelValues(labels["pipeline"], labels["phase"], labels["status"]).Add(delta)

	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["pipeline"], labels["kind"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.PhaseDuration || b.phaseDuration == nil {
		return
	}
	b.phaseDuration.WithLabelValues(labels["pipeline"], labels["phase"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
