package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCoverageReport_AggregatesAcrossModules(t *testing.T) {
	report := NewCoverageReport([]ModuleCoverage{
		{Module: "big.go", ExecutableLines: 9, Uncovered: []int{7, 3}},
		{Module: "small.go", ExecutableLines: 1, Uncovered: nil},
	})

	// 8 of 10 lines covered; a per-file average would give 94.44.
	assert.InDelta(t, 80.0, report.OverallPct, 0.001)
	assert.Equal(t, []int{3, 7}, report.PerModule["big.go"].Uncovered)
	assert.Equal(t, map[string][]int{"big.go": {3, 7}}, report.UncoveredLines())

	covered, total := report.Totals()
	assert.Equal(t, 8, covered)
	assert.Equal(t, 10, total)
}

func TestNewCoverageReport_NoExecutableLines(t *testing.T) {
	report := NewCoverageReport([]ModuleCoverage{{Module: "types.go"}})
	assert.Equal(t, 100.0, report.OverallPct)
	assert.Empty(t, report.UncoveredLines())
}

func TestCoverageReport_Flagged(t *testing.T) {
	report := NewCoverageReport([]ModuleCoverage{
		{Module: "ok.go", ExecutableLines: 2},
		{Module: "broken.go", ExecutableLines: 2, Uncovered: []int{1, 2}, Flagged: true, FlagReason: "parse error"},
	})

	assert.Equal(t, 50.0, report.OverallPct)
	assert.Equal(t, map[string]string{"broken.go": "parse error"}, report.Flagged())
	assert.Equal(t, []string{"broken.go"}, report.FlaggedNames())
	assert.Equal(t, 0.0, report.PerModule["broken.go"].Percent())
	assert.Equal(t, 100.0, report.PerModule["ok.go"].Percent())
}

func TestRoundPct(t *testing.T) {
	assert.Equal(t, 66.67, RoundPct(200.0/3.0))
	assert.Equal(t, 0.0, RoundPct(0))
}

func TestCoverageReport_MeetsThresholdUsesExactRatio(t *testing.T) {
	uncovered := make([]int, 5001)
	for i := range uncovered {
		uncovered[i] = i + 1
	}

	// 19999 of 25000 lines is 79.996%, displayed as 80.00.
	report := NewCoverageReport([]ModuleCoverage{{Module: "big.go", ExecutableLines: 25000, Uncovered: uncovered}})

	assert.Equal(t, 80.0, report.OverallPct)
	assert.False(t, report.MeetsThreshold(80))
	assert.True(t, report.MeetsThreshold(79))

	assert.True(t, NewCoverageReport([]ModuleCoverage{{Module: "ok.go", ExecutableLines: 5, Uncovered: []int{1}}}).MeetsThreshold(80))
	assert.True(t, CoverageReport{OverallPct: 90}.MeetsThreshold(80))
}
