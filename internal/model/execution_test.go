package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionResult_CountsAndFailures(t *testing.T) {
	result := ExecutionResult{
		Tests: map[string]TestCaseResult{
			TestID("calc", "TestAdd"): {Package: "calc", Name: "TestAdd", Outcome: OutcomePass},
			TestID("calc", "TestSub"): {
				Package: "calc", Name: "TestSub", Outcome: OutcomeFail,
				Output: "=== RUN   TestSub\n    calc_test.go:9: got 1, want 2\n--- FAIL: TestSub (0.00s)\n",
			},
			TestID("calc", "TestDiv"): {
				Package: "calc", Name: "TestDiv", Outcome: OutcomeError,
				Output: "=== RUN   TestDiv\npanic: runtime error: integer divide by zero\n",
			},
		},
	}

	passed, failed := result.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{
		"TestDiv: panic: runtime error: integer divide by zero",
		"TestSub: calc_test.go:9: got 1, want 2",
	}, result.FailedTests())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "crashed_infra", CrashedInfra.String())
	assert.Equal(t, "partial_failure", PartialFailure.String())
	assert.Equal(t, "not_run", NotRun.String())
	assert.Equal(t, "error", OutcomeError.String())
	assert.Equal(t, "abandon", Abandon.String())
	assert.Equal(t, "synthesizing", StateSynthesizing.String())
	assert.True(t, StateAccepted.Terminal())
	assert.False(t, StateReviewing.Terminal())
}
