package domain

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"golang.org/x/tools/imports"

	"autotest.dev/pkg/autotest/internal/adapter"
	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/internal/observability"
)

//go:embed prompts/synthesize.tmpl
var synthesizePromptText string

var synthesizePrompt = template.Must(template.New("synthesize").Parse(synthesizePromptText))

const synthesizeSystemPrompt = "You are a senior Go engineer. You write focused, deterministic unit tests " +
	"with the standard testing package and reply with Go source only."

var (
	codeFencePattern     = regexp.MustCompile("(?s)```(?:go|golang)?[ \\t]*\\n(.*?)```")
	packageClausePattern = regexp.MustCompile(`(?m)^package\s+\w+`)
)

// ErrMalformedOutput marks a completion that is not a usable test file.
var ErrMalformedOutput = errors.New("malformed test file")

// PriorAttempt is a rejected or failing artifact shown to the model again.
type PriorAttempt struct {
	Iteration int
	Code      string
	Failure   string
}

// SynthesisRequest carries everything needed to generate tests for one module.
type SynthesisRequest struct {
	Module     m.SourceModule
	Package    string
	ImportPath string
	Uncovered  []int
	Scopes     []m.CodeScope
	// PriorAttempts is advisory context, oldest first.
	PriorAttempts []PriorAttempt
	// ExistingTest is the module's active artifact, if any. The new artifact replaces it.
	ExistingTest string
	// ReservedNames are package-scope identifiers declared by other files in the package.
	ReservedNames []string
	Iteration     int
}

// Synthesizer generates a candidate test artifact for one module.
type Synthesizer interface {
	// Synthesize returns a *SynthesisFailure once its retry budget is spent.
	Synthesize(ctx context.Context, req SynthesisRequest) (m.TestArtifact, error)
}

// SynthesizerConfig bounds the external calls.
type SynthesizerConfig struct {
	Timeout       time.Duration
	Retries       int
	Backoff       time.Duration
	RatePerMinute int
	Temperature   float32
}

type synthesizer struct {
	llm     adapter.LLMClient
	goFiles adapter.GoFileAdapter
	limiter *rate.Limiter
	cfg     SynthesizerConfig
	metrics *observability.Metrics
}

// NewSynthesizer constructs a Synthesizer backed by an LLM client.
func NewSynthesizer(llm adapter.LLMClient, goFiles adapter.GoFileAdapter, cfg SynthesizerConfig, metrics *observability.Metrics) Synthesizer {
	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}

	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	return &synthesizer{
		llm:     llm,
		goFiles: goFiles,
		limiter: rate.NewLimiter(limit, max(1, cfg.RatePerMinute/10)),
		cfg:     cfg,
		metrics: metrics,
	}
}

func (s *synthesizer) Synthesize(ctx context.Context, req SynthesisRequest) (m.TestArtifact, error) {
	ctx, span := otel.Tracer(observability.ServiceName).Start(ctx, "synthesizer.Synthesize")
	defer span.End()

	span.SetAttributes(
		attribute.String("module", req.Module.Name),
		attribute.Int("uncovered", len(req.Uncovered)),
		attribute.Int("iteration", req.Iteration),
	)

	start := time.Now()

	prompt, err := RenderSynthesisPrompt(req)
	if err != nil {
		s.metrics.SynthesisObserved("failure", time.Since(start))
		return m.TestArtifact{}, &SynthesisFailure{Module: req.Module.Name, Err: err}
	}

	params := adapter.GenerationParams{System: synthesizeSystemPrompt, Temperature: &s.cfg.Temperature}
	attempts := 0

	operation := func() (m.TestArtifact, error) {
		attempts++

		if err := s.limiter.Wait(ctx); err != nil {
			return m.TestArtifact{}, backoff.Permanent(err)
		}

		callCtx := ctx
		if s.cfg.Timeout > 0 {
			var cancel context.CancelFunc

			callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
		}

		raw, err := s.llm.Generate(callCtx, prompt, params)
		if err != nil {
			if errors.Is(err, adapter.ErrLLMRejected) || ctx.Err() != nil {
				return m.TestArtifact{}, backoff.Permanent(err)
			}

			return m.TestArtifact{}, err
		}

		code, err := s.postProcess(ctx, req, raw)
		if err != nil {
			return m.TestArtifact{}, err
		}

		return m.TestArtifact{ModuleName: req.Module.Name, SourceCode: code, OriginIteration: req.Iteration}, nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	if s.cfg.Backoff > 0 {
		expBackoff.InitialInterval = s.cfg.Backoff
	}

	artifact, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(uint(s.cfg.Retries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.Debug("Retrying synthesis", "module", req.Module.Name, "wait", wait, "error", err)
		}),
	)
	if err != nil {
		slog.Warn("Synthesis failed", "module", req.Module.Name, "attempts", attempts, "error", err)
		s.metrics.SynthesisObserved("failure", time.Since(start))

		return m.TestArtifact{}, &SynthesisFailure{Module: req.Module.Name, Attempts: attempts, Err: err}
	}

	s.metrics.SynthesisObserved("ok", time.Since(start))

	return artifact, nil
}

// postProcess turns a raw completion into a formatted test file or reports
// why it cannot be used.
func (s *synthesizer) postProcess(ctx context.Context, req SynthesisRequest, raw string) (string, error) {
	code := strings.TrimSpace(stripCodeFence(raw))
	if code == "" {
		return "", fmt.Errorf("%w: empty completion", ErrMalformedOutput)
	}

	code = forcePackageClause(code, req.Package)
	fileName := m.TestFileName(req.Module.Name)

	formatted, err := imports.Process(fileName, []byte(code), &imports.Options{Comments: true, TabIndent: true, TabWidth: 8})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	file, err := s.goFiles.Parse(ctx, token.NewFileSet(), fileName, formatted)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	hasTest := false

	for _, name := range s.goFiles.TestFunctions(file) {
		if strings.HasPrefix(name, "Test") {
			hasTest = true
			break
		}
	}

	if !hasTest {
		return "", fmt.Errorf("%w: no Test function", ErrMalformedOutput)
	}

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		first, _, _ := strings.Cut(path, "/")
		if strings.Contains(first, ".") {
			return "", fmt.Errorf("%w: imports non-standard package %q", ErrMalformedOutput, path)
		}
	}

	reserved := make(map[string]bool, len(req.ReservedNames))
	for _, name := range req.ReservedNames {
		reserved[name] = true
	}

	for _, name := range s.goFiles.TopLevelNames(file) {
		if reserved[name] {
			return "", fmt.Errorf("%w: redeclares %s", ErrMalformedOutput, name)
		}
	}

	return string(formatted), nil
}

// stripCodeFence returns the body of the first fenced block, or raw when there is none.
func stripCodeFence(raw string) string {
	if match := codeFencePattern.FindStringSubmatch(raw); match != nil {
		return match[1]
	}

	return raw
}

func forcePackageClause(code, pkg string) string {
	if loc := packageClausePattern.FindStringIndex(code); loc != nil {
		return code[:loc[0]] + "package " + pkg + code[loc[1]:]
	}

	return "package " + pkg + "\n\n" + code
}

type scopeHint struct {
	Name      string
	StartLine int
	EndLine   int
	Lines     string
}

type promptData struct {
	FileName       string
	TestFileName   string
	Package        string
	ImportPath     string
	NumberedSource string
	Uncovered      string
	Scopes         []scopeHint
	ExistingTest   string
	Prior          []PriorAttempt
	Reserved       string
}

// RenderSynthesisPrompt renders the user prompt for one synthesis request.
func RenderSynthesisPrompt(req SynthesisRequest) (string, error) {
	data := promptData{
		FileName:       req.Module.Name,
		TestFileName:   m.TestFileName(req.Module.Name),
		Package:        req.Package,
		ImportPath:     req.ImportPath,
		NumberedSource: numberLines(string(req.Module.Content)),
		Uncovered:      joinInts(req.Uncovered),
		ExistingTest:   strings.TrimSpace(req.ExistingTest),
		Reserved:       strings.Join(req.ReservedNames, ", "),
	}

	for _, scope := range req.Scopes {
		var lines []int

		for _, line := range req.Uncovered {
			if scope.Contains(line) {
				lines = append(lines, line)
			}
		}

		if len(lines) == 0 {
			continue
		}

		data.Scopes = append(data.Scopes, scopeHint{
			Name:      scope.Name,
			StartLine: scope.StartLine,
			EndLine:   scope.EndLine,
			Lines:     joinInts(lines),
		})
	}

	for _, prior := range req.PriorAttempts {
		data.Prior = append(data.Prior, PriorAttempt{
			Iteration: prior.Iteration,
			Code:      strings.TrimSpace(prior.Code),
			Failure:   strings.TrimSpace(prior.Failure),
		})
	}

	var buf bytes.Buffer
	if err := synthesizePrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	return buf.String(), nil
}

func numberLines(src string) string {
	lines := strings.Split(strings.TrimRight(src, "\n"), "\n")

	var b strings.Builder

	for i, line := range lines {
		fmt.Fprintf(&b, "%4d  %s\n", i+1, line)
	}

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ", ")
}
