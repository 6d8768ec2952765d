package domain

import (
	"fmt"
	"sort"
	"strings"

	m "autotest.dev/pkg/autotest/internal/model"
)

// ReviewInput is the state the Reviewer judges after an iteration.
type ReviewInput struct {
	Iteration     int
	Coverage      m.CoverageReport
	Execution     m.ExecutionResult
	Threshold     float64
	MaxIterations int
	// ConsecutiveCrashes counts consecutive crashed iterations ending with this one.
	ConsecutiveCrashes int
	// BestCoverage is the highest overall percentage seen so far in the run.
	BestCoverage float64
}

// Review decides whether the run continues. It is a pure function.
func Review(in ReviewInput) (m.Decision, string) {
	pct := in.Coverage.OverallPct

	var (
		decision  m.Decision
		rationale string
	)

	switch {
	case in.Coverage.MeetsThreshold(in.Threshold):
		decision = m.Accept
		rationale = fmt.Sprintf("threshold reached at iteration %d (coverage %.2f%% >= %.2f%%)", in.Iteration, pct, in.Threshold)
	case in.Iteration >= in.MaxIterations:
		decision = m.Abandon
		rationale = fmt.Sprintf("iteration budget exhausted, best coverage %.2f%% after %d of %d iterations (threshold %.2f%%)",
			max(in.BestCoverage, pct), in.Iteration, in.MaxIterations, in.Threshold)
	case in.Execution.Status == m.CrashedInfra && in.ConsecutiveCrashes >= 2:
		decision = m.Abandon
		rationale = fmt.Sprintf("executor unstable, aborting: %d consecutive crashes at iteration %d, best coverage %.2f%% (%s)",
			in.ConsecutiveCrashes, in.Iteration, max(in.BestCoverage, pct), in.Execution.CrashReason)
	default:
		decision = m.Continue
		rationale = fmt.Sprintf("coverage %.2f%%, below threshold %.2f%%, %d iterations remaining",
			pct, in.Threshold, in.MaxIterations-in.Iteration)
	}

	return decision, rationale + flaggedSuffix(in.Coverage)
}

func flaggedSuffix(report m.CoverageReport) string {
	flagged := report.Flagged()
	if len(flagged) == 0 {
		return ""
	}

	names := make([]string, 0, len(flagged))
	for name := range flagged {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s (%s)", name, flagged[name])
	}

	return "; not analyzable: " + strings.Join(parts, ", ")
}
