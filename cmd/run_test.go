package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autotest.dev/pkg/autotest/internal/domain"
	domainmocks "autotest.dev/pkg/autotest/internal/domain/mocks"
	m "autotest.dev/pkg/autotest/internal/model"
)

func useWorkflow(t *testing.T, wf domain.Workflow) {
	t.Helper()

	originalWorkflow := workflow
	workflow = wf

	t.Cleanup(func() { workflow = originalWorkflow })
}

func TestRunCmd_Defaults(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _, stderr := newTestRootCmd(t, newRunCmd())

	mockWorkflow.EXPECT().Run(mock.Anything, domain.RunArgs{
		EstimateArgs:  domain.EstimateArgs{Paths: []m.Path{"."}, Exclude: []string{}},
		Output:        m.Path(defaultReportsDir),
		Threshold:     defaultThreshold,
		MaxIterations: defaultMaxIterations,
	}).Return(m.Report{Success: true}, nil).Once()

	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
	assert.Empty(t, stderr.String())
}

func TestRunCmd_FlagsArePassedThrough(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _, _ := newTestRootCmd(t, newRunCmd())

	mockWorkflow.EXPECT().Run(mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Threshold == 90 &&
			args.MaxIterations == 3 &&
			args.Output == m.Path("./out") &&
			len(args.Paths) == 2 && args.Paths[0] == m.Path("./pkg") &&
			len(args.Exclude) == 1 && args.Exclude[0] == "_gen\\.go$"
	})).Return(m.Report{Success: true}, nil).Once()

	cmd.SetArgs([]string{"run", "-t", "90", "--max-iterations", "3", "-o", "./out", "-x", "_gen\\.go$", "./pkg", "./internal"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_ReportsAbandonedRun(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _, stderr := newTestRootCmd(t, newRunCmd())

	mockWorkflow.EXPECT().Run(mock.Anything, mock.Anything).
		Return(m.Report{Success: false, ReviewReason: "iteration budget exhausted"}, nil).Once()

	cmd.SetArgs([]string{"run", "./..."})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "threshold not reached: iteration budget exhausted")
}

func TestRunCmd_PropagatesValidationError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _, _ := newTestRootCmd(t, newRunCmd())

	mockWorkflow.EXPECT().Run(mock.Anything, mock.Anything).
		Return(m.Report{}, &domain.ValidationError{Field: "threshold", Reason: "must be an integer between 50 and 100, got 10"}).Once()

	cmd.SetArgs([]string{"run", "-t", "10"})
	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()
	assert.Equal(t, "run [paths...]", cmd.Use)
	assert.Equal(t, runLongDescription, cmd.Long)

	for _, name := range []string{thresholdFlagName, maxIterationsFlagName, backendFlagName, modelFlagName, sandboxFlagName} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestListCmd_CallsEstimate(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _, _ := newTestRootCmd(t, newListCmd())

	mockWorkflow.EXPECT().Estimate(mock.Anything, domain.EstimateArgs{
		Paths:   []m.Path{"./internal/..."},
		Exclude: []string{"^mock_"},
	}).Return(nil).Once()

	cmd.SetArgs([]string{"list", "-x", "^mock_", "./internal/..."})
	require.NoError(t, cmd.Execute())
}
