package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	metrics.RunStarted()
	metrics.IterationCompleted()
	metrics.IterationCompleted()
	metrics.SynthesisObserved("ok", time.Second)
	metrics.SynthesisObserved("failure", 2*time.Second)
	metrics.ExecutionObserved("passed", time.Second)
	metrics.AnalysisObserved(time.Second)
	metrics.RunFinished("accepted", 100, 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.iterationsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.runsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.synthCallsTotal.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.inflightRuns))

	count, err := testutil.GatherAndCount(reg, "autotest_executor_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var metrics *Metrics

	assert.NotPanics(t, func() {
		metrics.RunStarted()
		metrics.IterationCompleted()
		metrics.SynthesisObserved("ok", time.Second)
		metrics.ExecutionObserved("passed", time.Second)
		metrics.AnalysisObserved(time.Second)
		metrics.RunFinished("abandoned", 0, time.Second)
	})
}

func TestSetupTracing(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		shutdown, err := SetupTracing(false, "dev", &bytes.Buffer{})
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))
	})

	t.Run("enabled exports spans to the writer", func(t *testing.T) {
		previous := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(previous) })

		var buf bytes.Buffer

		shutdown, err := SetupTracing(true, "dev", &buf)
		require.NoError(t, err)

		_, span := otel.Tracer("test").Start(context.Background(), "pipeline.Run")
		span.End()

		require.NoError(t, shutdown(context.Background()))
		assert.True(t, strings.Contains(buf.String(), "pipeline.Run"), buf.String())
	})
}
