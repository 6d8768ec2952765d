// Package controller provides output adapters for displaying pipeline progress and reports.
package controller

import (
	"context"

	m "autotest.dev/pkg/autotest/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeRun
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithRunMode sets the UI to pipeline run mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithViewMode sets the UI to saved report mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

func startConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeRun}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying pipeline progress.
// Implementations can use different output methods (simple text, TUI, logs).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayEstimation(ctx context.Context, report m.CoverageReport, err error) error
	DisplayRunInfo(ctx context.Context, runID string, modules []string, threshold float64, maxIterations int)
	DisplayStateChange(ctx context.Context, iteration int, state m.State)
	DisplayIteration(ctx context.Context, record m.IterationRecord)
	DisplayReport(ctx context.Context, report m.Report) error
	DisplayArtifactHistory(ctx context.Context, module string, diffs []string)
}
