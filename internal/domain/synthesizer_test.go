package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autotest.dev/pkg/autotest/internal/adapter"
	"autotest.dev/pkg/autotest/internal/adapter/mocks"
	m "autotest.dev/pkg/autotest/internal/model"
)

const generatedAbsTest = "Here you go:\n\n```go\npackage calc_test\n\nfunc TestAbsNegative(t *testing.T) {\n\tif Abs(-2) != 2 {\n\t\tt.Fatal(\"want 2\")\n\t}\n}\n```\n"

func absRequest() SynthesisRequest {
	return SynthesisRequest{
		Module:     m.SourceModule{Name: "abs.go", Content: []byte(absSource)},
		Package:    "calc",
		ImportPath: "autotest.local/sandbox/calc",
		Uncovered:  []int{5},
		Scopes:     []m.CodeScope{{Type: m.ScopeFunction, Name: "Abs", StartLine: 3, EndLine: 8}},
		Iteration:  2,
	}
}

func newTestSynthesizer(llm adapter.LLMClient, retries int) Synthesizer {
	return NewSynthesizer(llm, adapter.NewLocalGoFileAdapter(), SynthesizerConfig{
		Timeout: time.Second,
		Retries: retries,
		Backoff: time.Millisecond,
	}, nil)
}

func TestRenderSynthesisPrompt_Golden(t *testing.T) {
	req := SynthesisRequest{
		Module:     m.SourceModule{Name: "abs.go", Content: []byte(absSource)},
		Package:    "calc",
		ImportPath: "autotest.local/sandbox/calc",
		Uncovered:  []int{5, 7},
		Scopes: []m.CodeScope{
			{Type: m.ScopeFunction, Name: "Abs", StartLine: 3, EndLine: 8},
			{Type: m.ScopeFunction, Name: "Other", StartLine: 10, EndLine: 12},
		},
		ExistingTest: absPositiveTest,
		PriorAttempts: []PriorAttempt{{
			Iteration: 1,
			Code:      "package calc\n\nfunc TestX(t *testing.T) {}\n",
			Failure:   "TestX: abs_test.go:3: boom\n",
		}},
		ReservedNames: []string{"Abs", "helper"},
	}

	prompt, err := RenderSynthesisPrompt(req)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "synthesize_prompt", []byte(prompt))
}

func TestRenderSynthesisPrompt_Minimal(t *testing.T) {
	prompt, err := RenderSynthesisPrompt(SynthesisRequest{
		Module:    m.SourceModule{Name: "abs.go", Content: []byte(absSource)},
		Package:   "calc",
		Uncovered: []int{4},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Lines no test executes yet: 4.")
	assert.NotContains(t, prompt, "Functions containing")
	assert.NotContains(t, prompt, "The current abs_test.go")
	assert.NotContains(t, prompt, "already declared")
}

func TestSynthesizer_Synthesize_Success(t *testing.T) {
	llm := mocks.NewMockLLMClient(t)
	llm.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, prompt string, params adapter.GenerationParams) {
			assert.Contains(t, prompt, "abs.go")
			assert.NotEmpty(t, params.System)
			require.NotNil(t, params.Temperature)
		}).
		Return(generatedAbsTest, nil).Once()

	artifact, err := newTestSynthesizer(llm, 2).Synthesize(context.Background(), absRequest())
	require.NoError(t, err)

	assert.Equal(t, "abs.go", artifact.ModuleName)
	assert.Equal(t, 2, artifact.OriginIteration)
	assert.Contains(t, artifact.SourceCode, "package calc\n")
	assert.NotContains(t, artifact.SourceCode, "calc_test")
	assert.Contains(t, artifact.SourceCode, `import "testing"`)
	assert.NotContains(t, artifact.SourceCode, "```")
}

func TestSynthesizer_Synthesize_RetriesMalformedOutput(t *testing.T) {
	llm := mocks.NewMockLLMClient(t)
	llm.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).Return("I cannot help with that.", nil).Once()
	llm.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).Return(generatedAbsTest, nil).Once()

	artifact, err := newTestSynthesizer(llm, 2).Synthesize(context.Background(), absRequest())
	require.NoError(t, err)
	assert.Contains(t, artifact.SourceCode, "TestAbsNegative")
}

func TestSynthesizer_Synthesize_Failures(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		err      error
		reserved []string
		attempts int
		target   error
	}{
		{
			name:     "transient errors exhaust retries",
			err:      errors.New("connection reset"),
			attempts: 3,
		},
		{
			name:     "rejected request is not retried",
			err:      adapter.ErrLLMRejected,
			attempts: 1,
			target:   adapter.ErrLLMRejected,
		},
		{
			name:     "no test function",
			output:   "package calc\n\nfunc helper() {}\n",
			attempts: 3,
			target:   ErrMalformedOutput,
		},
		{
			name:     "third party import",
			output:   "package calc\n\nimport (\n\t\"testing\"\n\n\t\"github.com/stretchr/testify/assert\"\n)\n\nfunc TestAbs(t *testing.T) {\n\tassert.Equal(t, 1, Abs(-1))\n}\n",
			attempts: 3,
			target:   ErrMalformedOutput,
		},
		{
			name:     "redeclared name",
			output:   "package calc\n\nimport \"testing\"\n\nfunc TestAbs(t *testing.T) {}\n",
			reserved: []string{"TestAbs"},
			attempts: 3,
			target:   ErrMalformedOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := mocks.NewMockLLMClient(t)
			llm.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).Return(tt.output, tt.err).Times(tt.attempts)

			req := absRequest()
			req.ReservedNames = tt.reserved

			_, err := newTestSynthesizer(llm, 2).Synthesize(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSynthesis))

			var failure *SynthesisFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, "abs.go", failure.Module)
			assert.Equal(t, tt.attempts, failure.Attempts)

			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), err.Error())
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "go fence", raw: "text\n```go\npackage p\n```\nmore", want: "package p\n"},
		{name: "bare fence", raw: "```\npackage p\n```", want: "package p\n"},
		{name: "no fence", raw: "package p\n", want: "package p\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.raw))
		})
	}
}

func TestForcePackageClause(t *testing.T) {
	assert.Equal(t, "// doc\npackage calc\n\nfunc X() {}", forcePackageClause("// doc\npackage calc_test\n\nfunc X() {}", "calc"))
	assert.Equal(t, "package calc\n\nfunc X() {}", forcePackageClause("func X() {}", "calc"))
}
