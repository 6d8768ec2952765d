// Package observability holds the prometheus metrics and otel tracing setup
// shared by the pipeline and the HTTP server.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "autotest"

// Metrics groups every collector the pipeline reports to. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	runsTotal         *prometheus.CounterVec
	runDuration       prometheus.Histogram
	finalCoverage     prometheus.Histogram
	iterationsTotal   prometheus.Counter
	synthCallsTotal   *prometheus.CounterVec
	synthDuration     prometheus.Histogram
	executorRunsTotal *prometheus.CounterVec
	executorDuration  prometheus.Histogram
	analyzerDuration  prometheus.Histogram
	inflightRuns      prometheus.Gauge
}

// NewMetrics registers the pipeline collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by terminal outcome",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full pipeline run",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
		}),
		finalCoverage: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "final_coverage_percent",
			Help:      "Coverage reported at the end of a run",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		iterationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "iterations_total",
			Help:      "Completed pipeline iterations",
		}),
		synthCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "synth",
			Name:      "calls_total",
			Help:      "Synthesis requests by result",
		}, []string{"result"}),
		synthDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "synth",
			Name:      "duration_seconds",
			Help:      "Synthesis latency including retries",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		executorRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "runs_total",
			Help:      "Suite executions by exit status",
		}, []string{"status"}),
		executorDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "duration_seconds",
			Help:      "Suite execution wall time",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		analyzerDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "duration_seconds",
			Help:      "Coverage analysis wall time",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		inflightRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "inflight_runs",
			Help:      "Pipeline runs currently executing",
		}),
	}
}

// RunStarted marks a run as in flight.
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}

	m.inflightRuns.Inc()
}

// RunFinished records the terminal outcome of a run.
func (m *Metrics) RunFinished(outcome string, coverage float64, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.inflightRuns.Dec()
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.finalCoverage.Observe(coverage)
	m.runDuration.Observe(elapsed.Seconds())
}

// IterationCompleted counts one finished iteration.
func (m *Metrics) IterationCompleted() {
	if m == nil {
		return
	}

	m.iterationsTotal.Inc()
}

// SynthesisObserved records one synthesis request.
func (m *Metrics) SynthesisObserved(result string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.synthCallsTotal.WithLabelValues(result).Inc()
	m.synthDuration.Observe(elapsed.Seconds())
}

// ExecutionObserved records one suite execution.
func (m *Metrics) ExecutionObserved(status string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.executorRunsTotal.WithLabelValues(status).Inc()
	m.executorDuration.Observe(elapsed.Seconds())
}

// AnalysisObserved records one coverage analysis.
func (m *Metrics) AnalysisObserved(elapsed time.Duration) {
	if m == nil {
		return
	}

	m.analyzerDuration.Observe(elapsed.Seconds())
}
