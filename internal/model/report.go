package model

// Report is the final document returned to the client for one run.
type Report struct {
	CoveragePct    float64           `json:"coverage_pct"`
	Iteration      int               `json:"iteration"`
	ReviewReason   string            `json:"review_reason"`
	UncoveredLines map[string][]int  `json:"uncovered_lines"`
	TestsCode      string            `json:"tests_code"`
	Success        bool              `json:"success"`
	RunID          string            `json:"run_id"`
	TestsPassed    int               `json:"tests_passed"`
	TestsFailed    int               `json:"tests_failed"`
	FailedTests    []string          `json:"failed_tests"`
	FlaggedModules map[string]string `json:"flagged_modules,omitempty"`
	Iterations     []IterationRecord `json:"iterations"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
