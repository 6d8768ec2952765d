package model

import (
	"math"
	"sort"
)

// ModuleCoverage is the coverage outcome for a single module.
type ModuleCoverage struct {
	Module          string `json:"module"`
	ExecutableLines int    `json:"executable_lines"`
	Uncovered       []int  `json:"uncovered"`
	// Flagged marks modules that could not be instrumented; they count as 0%.
	Flagged    bool   `json:"flagged,omitempty"`
	FlagReason string `json:"flag_reason,omitempty"`
}

// CoveredLines returns the number of executable lines exercised by the suite.
func (m ModuleCoverage) CoveredLines() int {
	return m.ExecutableLines - len(m.Uncovered)
}

// Percent returns the per-module coverage percentage.
func (m ModuleCoverage) Percent() float64 {
	if m.Flagged {
		return 0
	}

	if m.ExecutableLines == 0 {
		return 100
	}

	return RoundPct(float64(m.CoveredLines()) / float64(m.ExecutableLines) * 100)
}

// CoverageReport is the full coverage picture for one suite against one source set.
type CoverageReport struct {
	PerModule  map[string]ModuleCoverage `json:"per_module"`
	OverallPct float64                   `json:"overall_pct"`
}

// NewCoverageReport aggregates per-module results. The overall percentage is
// computed over all executable lines combined, not averaged per module.
func NewCoverageReport(modules []ModuleCoverage) CoverageReport {
	report := CoverageReport{PerModule: make(map[string]ModuleCoverage, len(modules))}

	covered, total := 0, 0

	for _, mod := range modules {
		sort.Ints(mod.Uncovered)
		report.PerModule[mod.Module] = mod
		covered += mod.CoveredLines()
		total += mod.ExecutableLines
	}

	if total == 0 {
		report.OverallPct = 100
		return report
	}

	report.OverallPct = RoundPct(float64(covered) / float64(total) * 100)

	return report
}

// UncoveredLines lists uncovered line numbers per module, omitting fully covered modules.
func (r CoverageReport) UncoveredLines() map[string][]int {
	out := make(map[string][]int)

	for name, mod := range r.PerModule {
		if len(mod.Uncovered) == 0 {
			continue
		}

		lines := make([]int, len(mod.Uncovered))
		copy(lines, mod.Uncovered)
		out[name] = lines
	}

	return out
}

// Flagged returns the modules that failed instrumentation with their reasons.
func (r CoverageReport) Flagged() map[string]string {
	out := make(map[string]string)

	for name, mod := range r.PerModule {
		if mod.Flagged {
			out[name] = mod.FlagReason
		}
	}

	return out
}

// FlaggedNames returns the sorted names of flagged modules.
func (r CoverageReport) FlaggedNames() []string {
	var names []string

	for name, mod := range r.PerModule {
		if mod.Flagged {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// MeetsThreshold compares the exact covered ratio against threshold, so a
// percentage that only rounds up to the threshold does not meet it. A report
// without modules falls back to OverallPct.
func (r CoverageReport) MeetsThreshold(threshold float64) bool {
	covered, total := r.Totals()
	if total == 0 {
		return r.OverallPct >= threshold
	}

	return float64(covered)*100 >= threshold*float64(total)
}

// Totals returns covered and executable line counts across all modules.
func (r CoverageReport) Totals() (covered int, total int) {
	for _, mod := range r.PerModule {
		covered += mod.CoveredLines()
		total += mod.ExecutableLines
	}

	return covered, total
}

// RoundPct rounds a percentage to two decimals.
func RoundPct(pct float64) float64 {
	return math.Round(pct*100) / 100
}
