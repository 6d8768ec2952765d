package controller

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "autotest.dev/pkg/autotest/internal/model"
)

// LogUI reports progress as structured log records. It never blocks and is
// safe to share between concurrent runs.
type LogUI struct {
	logger *slog.Logger
}

// NewLogUI creates a LogUI writing to logger, or to slog.Default when nil.
func NewLogUI(logger *slog.Logger) *LogUI {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogUI{logger: logger}
}

// Start implements UI.
func (l *LogUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close implements UI.
func (l *LogUI) Close(context.Context) {}

// Wait implements UI.
func (l *LogUI) Wait(context.Context) {}

// DisplayEstimation logs the static line counts.
func (l *LogUI) DisplayEstimation(ctx context.Context, report m.CoverageReport, err error) error {
	if err != nil {
		l.logger.ErrorContext(ctx, "Estimation failed", "error", err)
		return err
	}

	covered, total := report.Totals()
	l.logger.InfoContext(ctx, "Estimation", "modules", len(report.PerModule), "executable_lines", total, "covered", covered)

	return nil
}

// DisplayRunInfo logs the run parameters.
func (l *LogUI) DisplayRunInfo(ctx context.Context, runID string, modules []string, threshold float64, maxIterations int) {
	l.logger.InfoContext(ctx, "Run accepted", "run", runID, "modules", modules, "threshold", threshold, "max_iterations", maxIterations)
}

// DisplayStateChange logs terminal states only.
func (l *LogUI) DisplayStateChange(ctx context.Context, iteration int, state m.State) {
	if state.Terminal() {
		l.logger.InfoContext(ctx, "Run finished", "state", state.String(), "iteration", iteration)
		return
	}

	l.logger.DebugContext(ctx, "Run state", "state", state.String(), "iteration", iteration)
}

// DisplayIteration logs an iteration summary.
func (l *LogUI) DisplayIteration(ctx context.Context, record m.IterationRecord) {
	l.logger.InfoContext(ctx, "Iteration",
		"index", record.Index,
		"coverage_before", record.CoverageBefore,
		"coverage_after", record.CoverageAfter,
		"status", record.Execution.Status.String(),
		"decision", record.Decision.String(),
		"rejected", len(record.Rejected),
		"synthesis_failures", len(record.SynthesisFailures),
	)
}

// DisplayReport logs the report headline.
func (l *LogUI) DisplayReport(ctx context.Context, report m.Report) error {
	l.logger.InfoContext(ctx, "Report",
		"run", report.RunID,
		"success", report.Success,
		"coverage", report.CoveragePct,
		"iterations", report.Iteration,
		"reason", report.ReviewReason,
	)

	return nil
}

// DisplayArtifactHistory logs how many revisions a test file went through.
func (l *LogUI) DisplayArtifactHistory(ctx context.Context, module string, diffs []string) {
	l.logger.InfoContext(ctx, "Artifact history", "module", module, "revisions", len(diffs))
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI returns the TUI when useTTY is set and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
