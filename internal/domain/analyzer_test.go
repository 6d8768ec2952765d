package domain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autotest.dev/pkg/autotest/internal/adapter"
	"autotest.dev/pkg/autotest/internal/adapter/mocks"
	m "autotest.dev/pkg/autotest/internal/model"
)

const absSource = `package calc

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
`

const absPositiveTest = `package calc

import "testing"

func TestAbsPositive(t *testing.T) {
	if Abs(3) != 3 {
		t.Fatal("want 3")
	}
}
`

const absProfile = `mode: set
autotest.local/sandbox/calc/abs.go:3.21,4.11 1 1
autotest.local/sandbox/calc/abs.go:4.11,6.3 1 0
autotest.local/sandbox/calc/abs.go:7.2,7.10 1 1
`

func mustSources(t *testing.T, modules ...m.SourceModule) m.SourceSet {
	t.Helper()

	sources, err := m.NewSourceSet(modules...)
	require.NoError(t, err)

	return sources
}

func newTestAnalyzer(runner adapter.TestRunnerAdapter) Analyzer {
	return NewAnalyzer(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalGoFileAdapter(), runner, AnalyzerConfig{Timeout: time.Minute}, nil)
}

func TestAnalyzer_Analyze_UsesProfile(t *testing.T) {
	runner := mocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().RunGoTest(mock.Anything, mock.Anything, mock.Anything).RunAndReturn(
		func(_ context.Context, dir m.Path, args []string) (adapter.RunOutput, error) {
			root := string(dir)

			goMod, err := os.ReadFile(filepath.Join(root, "go.mod"))
			require.NoError(t, err)
			assert.Contains(t, string(goMod), "module autotest.local/sandbox")
			assert.Contains(t, string(goMod), "go 1.21")

			assert.FileExists(t, filepath.Join(root, "calc", "abs.go"))
			assert.FileExists(t, filepath.Join(root, "calc", "abs_test.go"))
			assert.FileExists(t, filepath.Join(root, "other", "other.go"))
			assert.NoFileExists(t, filepath.Join(root, "calc", "broken.go"))
			assert.Contains(t, args, "-coverprofile=cover.out")

			require.NoError(t, os.WriteFile(filepath.Join(root, "cover.out"), []byte(absProfile), 0o600))

			return adapter.RunOutput{ExitCode: 0}, nil
		})

	sources := mustSources(t,
		m.SourceModule{Name: "abs.go", Content: []byte(absSource)},
		m.SourceModule{Name: "broken.go", Content: []byte("package calc\n\nfunc {\n")},
		m.SourceModule{Name: "other.go", Content: []byte("package other\n\nfunc One() int {\n\treturn 1\n}\n")},
	)
	suite := m.NewTestSuite(m.TestArtifact{ModuleName: "abs.go", SourceCode: absPositiveTest, OriginIteration: 1})

	report, err := newTestAnalyzer(runner).Analyze(context.Background(), sources, suite)
	require.NoError(t, err)

	abs := report.PerModule["abs.go"]
	assert.Equal(t, 3, abs.ExecutableLines)
	assert.Equal(t, []int{5}, abs.Uncovered)
	assert.False(t, abs.Flagged)

	broken := report.PerModule["broken.go"]
	assert.True(t, broken.Flagged)
	assert.Equal(t, []int{1, 3}, broken.Uncovered)
	assert.Contains(t, broken.FlagReason, "cannot instrument")

	other := report.PerModule["other.go"]
	assert.Equal(t, []int{4}, other.Uncovered)

	// 2 covered out of 3 + 2 + 1 executable lines.
	assert.InDelta(t, 33.33, report.OverallPct, 0.001)
}

func TestAnalyzer_Analyze_BuildFailureFlagsPackage(t *testing.T) {
	runner := mocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().RunGoTest(mock.Anything, mock.Anything, mock.Anything).Return(adapter.RunOutput{
		Stdout:   []byte("FAIL\tautotest.local/sandbox/calc [build failed]\nFAIL\n"),
		Stderr:   []byte("# autotest.local/sandbox/calc\ncalc/abs.go:4:2: undefined: y\n"),
		ExitCode: 1,
	}, nil)

	sources := mustSources(t, m.SourceModule{Name: "abs.go", Content: []byte(absSource)})

	report, err := newTestAnalyzer(runner).Analyze(context.Background(), sources, m.TestSuite{})
	require.NoError(t, err)

	abs := report.PerModule["abs.go"]
	assert.True(t, abs.Flagged)
	assert.Equal(t, "package does not compile: calc/abs.go:4:2: undefined: y", abs.FlagReason)
	assert.Equal(t, []int{4, 5, 7}, abs.Uncovered)
	assert.Equal(t, 0.0, report.OverallPct)
}

func TestAnalyzer_Analyze_FlagsTestedPackageWithoutProfile(t *testing.T) {
	runner := mocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().RunGoTest(mock.Anything, mock.Anything, mock.Anything).Return(adapter.RunOutput{
		Stdout:   []byte("--- FAIL: TestBoom (0.00s)\npanic: boom [recovered]\n\tpanic: boom\n\ngoroutine 7 [running]:\nFAIL\tautotest.local/sandbox/calc\t0.004s\nFAIL\n"),
		ExitCode: 1,
	}, nil)

	sources := mustSources(t,
		m.SourceModule{Name: "abs.go", Content: []byte(absSource)},
		m.SourceModule{Name: "other.go", Content: []byte("package other\n\nfunc One() int {\n\treturn 1\n}\n")},
	)
	suite := m.NewTestSuite(m.TestArtifact{ModuleName: "abs.go", SourceCode: absPositiveTest, OriginIteration: 1})

	report, err := newTestAnalyzer(runner).Analyze(context.Background(), sources, suite)
	require.NoError(t, err)

	abs := report.PerModule["abs.go"]
	assert.True(t, abs.Flagged)
	assert.Equal(t, "test run aborted before writing coverage: panic: boom [recovered]", abs.FlagReason)
	assert.Equal(t, []int{4, 5, 7}, abs.Uncovered)

	// No tests, no profile: plain uncovered.
	other := report.PerModule["other.go"]
	assert.False(t, other.Flagged)
	assert.Equal(t, []int{4}, other.Uncovered)
}

func TestAnalyzer_Analyze_RunnerError(t *testing.T) {
	runner := mocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().RunGoTest(mock.Anything, mock.Anything, mock.Anything).Return(adapter.RunOutput{}, adapter.ErrToolchainUnavailable)

	sources := mustSources(t, m.SourceModule{Name: "abs.go", Content: []byte(absSource)})

	_, err := newTestAnalyzer(runner).Analyze(context.Background(), sources, m.TestSuite{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, adapter.ErrToolchainUnavailable))
}

func TestAnalyzer_Estimate(t *testing.T) {
	sources := mustSources(t,
		m.SourceModule{Name: "abs.go", Content: []byte(absSource)},
		m.SourceModule{Name: "types.go", Content: []byte("package calc\n\ntype Point struct{ X, Y int }\n")},
	)

	report, err := newTestAnalyzer(nil).Estimate(context.Background(), sources)
	require.NoError(t, err)

	assert.Equal(t, 3, report.PerModule["abs.go"].ExecutableLines)
	assert.Equal(t, 0, report.PerModule["types.go"].ExecutableLines)
	assert.Equal(t, 0.0, report.OverallPct)
}

func TestBuildFailures(t *testing.T) {
	output := []byte(strings.Join([]string{
		"# autotest.local/sandbox/calc [autotest.local/sandbox/calc.test]",
		"calc/abs_test.go:7:3: undefined: Sign",
		"calc/abs_test.go:9:3: undefined: Sign",
		"FAIL\tautotest.local/sandbox/calc [build failed]",
		"ok  \tautotest.local/sandbox/other\t0.01s",
		"FAIL",
	}, "\n"))

	sections := buildFailures(output)
	assert.Equal(t, "calc/abs_test.go:7:3: undefined: Sign\ncalc/abs_test.go:9:3: undefined: Sign\n", sections["autotest.local/sandbox/calc"])
	assert.Equal(t, []string{"autotest.local/sandbox/calc"}, failedBuilds(output))
}

func TestPackageDir(t *testing.T) {
	assert.Equal(t, "calc", packageDir("calc"))
	assert.Equal(t, "pkgtestdata", packageDir("testdata"))
	assert.Equal(t, "pkg_x", packageDir("_x"))
}

func requireGo(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
}

func TestAnalyzer_Analyze_RealToolchain(t *testing.T) {
	requireGo(t)

	sources := mustSources(t, m.SourceModule{Name: "abs.go", Content: []byte(absSource)})
	suite := m.NewTestSuite(m.TestArtifact{ModuleName: "abs.go", SourceCode: absPositiveTest, OriginIteration: 1})
	analyzer := newTestAnalyzer(adapter.NewLocalTestRunnerAdapter())

	first, err := analyzer.Analyze(context.Background(), sources, suite)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, first.PerModule["abs.go"].Uncovered)
	assert.InDelta(t, 66.67, first.OverallPct, 0.001)

	second, err := analyzer.Analyze(context.Background(), sources, suite)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	baseline, err := analyzer.Analyze(context.Background(), sources, m.TestSuite{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, baseline.OverallPct)
	assert.Equal(t, []int{4, 5, 7}, baseline.PerModule["abs.go"].Uncovered)
}
