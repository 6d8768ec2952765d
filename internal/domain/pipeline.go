package domain

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"autotest.dev/pkg/autotest/internal/adapter"
	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/internal/observability"
)

// DefaultMaxPriorAttempts bounds the failure history passed back to the Synthesizer.
const DefaultMaxPriorAttempts = 2

// RunObserver receives progress notifications from a pipeline run. Calls
// happen on the run goroutine; implementations must not block for long.
type RunObserver interface {
	DisplayRunInfo(ctx context.Context, runID string, modules []string, threshold float64, maxIterations int)
	DisplayStateChange(ctx context.Context, iteration int, state m.State)
	DisplayIteration(ctx context.Context, record m.IterationRecord)
}

// PipelineResult is the outcome of one run: the client report plus the suite
// it was computed from.
type PipelineResult struct {
	Report m.Report
	Suite  m.TestSuite
}

// Pipeline drives the analyze, synthesize, execute, review loop.
type Pipeline interface {
	// Run returns an error wrapping ErrPipelineFailed only when not even the
	// baseline coverage can be computed. Every other outcome is a report.
	Run(ctx context.Context, sources m.SourceSet, cfg RunConfig, observers ...RunObserver) (PipelineResult, error)
}

// PipelineConfig holds run-independent settings.
type PipelineConfig struct {
	Parallel         int
	RunTimeout       time.Duration
	MaxPriorAttempts int
}

type pipeline struct {
	analyzer    Analyzer
	synthesizer Synthesizer
	executor    Executor
	goFiles     adapter.GoFileAdapter
	cfg         PipelineConfig
	metrics     *observability.Metrics
}

// NewPipeline wires the four agents into a Pipeline.
func NewPipeline(
	analyzer Analyzer,
	synthesizer Synthesizer,
	executor Executor,
	goFiles adapter.GoFileAdapter,
	cfg PipelineConfig,
	metrics *observability.Metrics,
) Pipeline {
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}

	if cfg.MaxPriorAttempts <= 0 {
		cfg.MaxPriorAttempts = DefaultMaxPriorAttempts
	}

	return &pipeline{
		analyzer:    analyzer,
		synthesizer: synthesizer,
		executor:    executor,
		goFiles:     goFiles,
		cfg:         cfg,
		metrics:     metrics,
	}
}

type snapshot struct {
	suite     m.TestSuite
	coverage  m.CoverageReport
	execution m.ExecutionResult
}

// pipelineRun is the mutable state of a single run. It is owned by the run goroutine.
type pipelineRun struct {
	id        string
	sources   m.SourceSet
	cfg       RunConfig
	layout    *sourceLayout
	observers []RunObserver

	current snapshot
	best    snapshot
	records []m.IterationRecord
	crashes int
	prior   map[string][]PriorAttempt
}

func (r *pipelineRun) setState(ctx context.Context, iteration int, state m.State) {
	slog.Debug("Pipeline state", "run", r.id, "iteration", iteration, "state", state.String())

	for _, o := range r.observers {
		o.DisplayStateChange(ctx, iteration, state)
	}
}

func (r *pipelineRun) remember(module string, attempt PriorAttempt, limit int) {
	attempts := append(r.prior[module], attempt)
	if len(attempts) > limit {
		attempts = attempts[len(attempts)-limit:]
	}

	r.prior[module] = attempts
}

func (p *pipeline) Run(ctx context.Context, sources m.SourceSet, cfg RunConfig, observers ...RunObserver) (PipelineResult, error) {
	run := &pipelineRun{
		id:        uuid.NewString(),
		sources:   sources,
		cfg:       cfg,
		observers: observers,
		prior:     make(map[string][]PriorAttempt),
	}

	ctx, span := otel.Tracer(observability.ServiceName).Start(ctx, "pipeline.Run")
	defer span.End()

	span.SetAttributes(
		attribute.String("run.id", run.id),
		attribute.Int("run.modules", sources.Len()),
		attribute.Float64("run.threshold", cfg.Threshold),
		attribute.Int("run.max_iterations", cfg.MaxIterations),
	)

	if p.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.cfg.RunTimeout)
		defer cancel()
	}

	start := time.Now()

	p.metrics.RunStarted()
	slog.Info("Pipeline run started", "run", run.id, "modules", sources.Names(), "threshold", cfg.Threshold, "max_iterations", cfg.MaxIterations)

	for _, o := range observers {
		o.DisplayRunInfo(ctx, run.id, sources.Names(), cfg.Threshold, cfg.MaxIterations)
	}

	run.setState(ctx, 0, m.StateInit)

	layout, err := newSourceLayout(ctx, p.goFiles, sources)
	if err == nil {
		run.layout = layout
		run.setState(ctx, 0, m.StateAnalyzing)

		run.current.coverage, err = p.analyzer.Analyze(ctx, sources, m.TestSuite{})
	}

	if err != nil {
		slog.Error("Baseline coverage failed", "run", run.id, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "baseline coverage failed")
		p.metrics.RunFinished("failed", 0, time.Since(start))

		return PipelineResult{}, fmt.Errorf("%w: baseline coverage: %w", ErrPipelineFailed, err)
	}

	run.best = run.current

	run.setState(ctx, 0, m.StateReviewing)

	decision, rationale := Review(ReviewInput{
		Iteration:     0,
		Coverage:      run.current.coverage,
		Execution:     run.current.execution,
		Threshold:     cfg.Threshold,
		MaxIterations: cfg.MaxIterations,
		BestCoverage:  run.best.coverage.OverallPct,
	})

	for iteration := 1; decision == m.Continue; iteration++ {
		if err := ctx.Err(); err != nil {
			decision, rationale = m.Abandon, abortRationale(err, iteration-1, run.best.coverage.OverallPct)
			break
		}

		record, ok := p.iterate(ctx, run, iteration)
		if !ok {
			decision, rationale = m.Abandon, abortRationale(ctx.Err(), iteration-1, run.best.coverage.OverallPct)
			break
		}

		decision, rationale = record.Decision, record.Rationale
	}

	final := m.StateAccepted
	if decision != m.Accept {
		final = m.StateAbandoned
	}

	run.setState(ctx, len(run.records), final)

	report := p.report(run, decision, rationale)

	span.SetAttributes(
		attribute.String("run.decision", decision.String()),
		attribute.Float64("run.coverage_pct", report.CoveragePct),
		attribute.Int("run.iterations", report.Iteration),
	)
	p.metrics.RunFinished(final.String(), report.CoveragePct, time.Since(start))
	slog.Info("Pipeline run finished", "run", run.id, "decision", decision.String(), "coverage", report.CoveragePct, "iterations", report.Iteration)

	return PipelineResult{Report: report, Suite: run.best.suite}, nil
}

func abortRationale(err error, iteration int, best float64) string {
	cause := "cancelled"
	if errors.Is(err, context.DeadlineExceeded) {
		cause = "run timeout exceeded"
	}

	return fmt.Sprintf("run aborted (%s) at iteration %d, best coverage %.2f%%", cause, iteration, best)
}

// iterate runs one synthesize, execute, analyze, review cycle. It returns
// false when the run was cancelled before the iteration could complete;
// such an iteration leaves no record.
func (p *pipeline) iterate(ctx context.Context, run *pipelineRun, iteration int) (m.IterationRecord, bool) {
	ctx, span := otel.Tracer(observability.ServiceName).Start(ctx, "pipeline.Iteration")
	defer span.End()

	span.SetAttributes(attribute.Int("iteration", iteration))

	record := m.IterationRecord{Index: iteration, CoverageBefore: run.current.coverage.OverallPct}

	run.setState(ctx, iteration, m.StateSynthesizing)

	artifacts, failures := p.synthesizeAll(ctx, run, iteration)
	if ctx.Err() != nil {
		return m.IterationRecord{}, false
	}

	if len(failures) > 0 {
		record.SynthesisFailures = failures
	}

	execution := m.ExecutionResult{Status: m.NotRun, Tests: map[string]m.TestCaseResult{}}

	if len(artifacts) > 0 {
		execution = p.integrate(ctx, run, iteration, artifacts, &record)
	} else {
		// Crashes only count as consecutive across iterations that executed.
		run.crashes = 0
	}

	if run.current.coverage.OverallPct > run.best.coverage.OverallPct {
		run.best = run.current
	}

	run.setState(ctx, iteration, m.StateReviewing)

	record.CoverageAfter = run.current.coverage.OverallPct
	record.Execution = execution
	record.Decision, record.Rationale = Review(ReviewInput{
		Iteration:          iteration,
		Coverage:           run.current.coverage,
		Execution:          execution,
		Threshold:          run.cfg.Threshold,
		MaxIterations:      run.cfg.MaxIterations,
		ConsecutiveCrashes: run.crashes,
		BestCoverage:       run.best.coverage.OverallPct,
	})

	run.records = append(run.records, record)
	p.metrics.IterationCompleted()

	slog.Info("Iteration completed", "run", run.id, "iteration", iteration,
		"coverage_before", record.CoverageBefore, "coverage_after", record.CoverageAfter,
		"decision", record.Decision.String())

	for _, o := range run.observers {
		o.DisplayIteration(ctx, record)
	}

	return record, true
}

// integrate executes the candidate suite, merges the artifacts that compile
// and re-measures coverage. It returns the execution result that describes
// this iteration.
func (p *pipeline) integrate(ctx context.Context, run *pipelineRun, iteration int, artifacts []m.TestArtifact, record *m.IterationRecord) m.ExecutionResult {
	// In-flight measurements finish under their own timeouts.
	measureCtx := context.WithoutCancel(ctx)

	run.setState(ctx, iteration, m.StateExecuting)

	execution := p.executor.Execute(measureCtx, run.sources, run.current.suite.With(artifacts...))
	if execution.Status == m.CrashedInfra {
		p.discard(ctx, run, artifacts, record, fmt.Errorf("%w: %s", ErrExecutionCrash, execution.CrashReason))
		return execution
	}

	run.crashes = 0

	accepted, rejected := partitionArtifacts(run.layout, artifacts, execution.CollectionErrors)

	for _, artifact := range artifacts {
		if reason, ok := rejected[artifact.ModuleName]; ok {
			run.remember(artifact.ModuleName, PriorAttempt{Iteration: iteration, Code: artifact.SourceCode, Failure: reason}, p.cfg.MaxPriorAttempts)
		}
	}

	if len(rejected) > 0 {
		record.Rejected = rejected
	}

	if len(accepted) == 0 {
		return execution
	}

	next := run.current.suite.With(accepted...)

	if len(rejected) > 0 {
		// The candidate run included files that were dropped; measure the merged suite alone.
		execution = p.executor.Execute(measureCtx, run.sources, next)
		if execution.Status == m.CrashedInfra {
			p.discard(ctx, run, accepted, record, fmt.Errorf("%w: %s", ErrExecutionCrash, execution.CrashReason))
			return execution
		}
	}

	run.setState(ctx, iteration, m.StateAnalyzing)

	coverage, err := p.analyzer.Analyze(measureCtx, run.sources, next)
	if err != nil {
		crash := crashed(fmt.Sprintf("coverage analysis failed: %v", err))
		p.discard(ctx, run, accepted, record, fmt.Errorf("%w: %s", ErrExecutionCrash, crash.CrashReason))

		return crash
	}

	for _, artifact := range accepted {
		failing := failingTestsOf(p.goFiles, run.layout, artifact, execution)
		if failing != "" {
			run.remember(artifact.ModuleName, PriorAttempt{Iteration: iteration, Code: artifact.SourceCode, Failure: failing}, p.cfg.MaxPriorAttempts)
		}

		record.Synthesized = append(record.Synthesized, artifact.ModuleName)
	}

	record.Artifacts = accepted
	run.current = snapshot{suite: next, coverage: coverage, execution: execution}

	return execution
}

// discard drops this iteration's artifacts after an infrastructure failure.
func (p *pipeline) discard(ctx context.Context, run *pipelineRun, artifacts []m.TestArtifact, record *m.IterationRecord, err error) {
	run.crashes++

	slog.Warn("Discarding iteration", "run", run.id, "iteration", record.Index, "consecutive_crashes", run.crashes, "error", err)
	trace.SpanFromContext(ctx).RecordError(err)

	reason := err.Error()

	if record.Rejected == nil {
		record.Rejected = make(map[string]string, len(artifacts))
	}

	for _, artifact := range artifacts {
		record.Rejected[artifact.ModuleName] = reason
	}
}

type synthesisOutcome struct {
	artifact m.TestArtifact
	err      error
}

// synthesizeAll fans out one Synthesizer call per module that still has
// uncovered lines and joins the results.
func (p *pipeline) synthesizeAll(ctx context.Context, run *pipelineRun, iteration int) ([]m.TestArtifact, map[string]string) {
	requests := p.synthesisRequests(ctx, run, iteration)
	outcomes := make([]synthesisOutcome, len(requests))

	var group errgroup.Group
	group.SetLimit(p.cfg.Parallel)

	for i, req := range requests {
		group.Go(func() error {
			artifact, err := p.synthesizer.Synthesize(ctx, req)
			outcomes[i] = synthesisOutcome{artifact: artifact, err: err}

			return nil
		})
	}

	_ = group.Wait()

	var (
		artifacts []m.TestArtifact
		failures  = make(map[string]string)
	)

	for i, outcome := range outcomes {
		module := requests[i].Module.Name

		if outcome.err != nil {
			failures[module] = outcome.err.Error()
			run.remember(module, PriorAttempt{Iteration: iteration, Failure: "no usable test: " + outcome.err.Error()}, p.cfg.MaxPriorAttempts)

			continue
		}

		artifacts = append(artifacts, outcome.artifact)
	}

	return artifacts, failures
}

func (p *pipeline) synthesisRequests(ctx context.Context, run *pipelineRun, iteration int) []SynthesisRequest {
	uncovered := run.current.coverage.UncoveredLines()

	names := make([]string, 0, len(uncovered))
	for name := range uncovered {
		names = append(names, name)
	}

	sort.Strings(names)

	var requests []SynthesisRequest

	for _, name := range names {
		if run.current.coverage.PerModule[name].Flagged {
			continue
		}

		entry, ok := run.layout.module(name)
		if !ok || entry.parseErr != nil {
			continue
		}

		req := SynthesisRequest{
			Module:        entry.module,
			Package:       entry.pkg,
			ImportPath:    entry.importPath(),
			Uncovered:     uncovered[name],
			Scopes:        p.goFiles.ExtractScopes(run.layout.fset, entry.file),
			PriorAttempts: append([]PriorAttempt(nil), run.prior[name]...),
			ReservedNames: p.reservedNames(ctx, run, entry),
			Iteration:     iteration,
		}

		if existing, ok := run.current.suite.ActiveFor(name); ok {
			req.ExistingTest = existing.SourceCode
		}

		requests = append(requests, req)
	}

	return requests
}

// reservedNames lists package-scope identifiers of every other file that
// shares the module's package: the sources and their active test files.
func (p *pipeline) reservedNames(ctx context.Context, run *pipelineRun, target *moduleLayout) []string {
	seen := make(map[string]bool)

	for _, entry := range run.layout.modulesIn(target.dir) {
		for _, name := range p.goFiles.TopLevelNames(entry.file) {
			seen[name] = true
		}

		if entry.module.Name == target.module.Name {
			continue
		}

		artifact, ok := run.current.suite.ActiveFor(entry.module.Name)
		if !ok {
			continue
		}

		file, err := p.goFiles.Parse(ctx, token.NewFileSet(), artifact.FileName(), []byte(artifact.SourceCode))
		if err != nil {
			continue
		}

		for _, name := range p.goFiles.TopLevelNames(file) {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// partitionArtifacts rejects new artifacts that broke their package: it no
// longer compiles, or its test binary panicked and aborted the remaining
// tests. When the output names no file, every new artifact of that package
// is rejected.
func partitionArtifacts(layout *sourceLayout, artifacts []m.TestArtifact, collection []m.CollectionError) ([]m.TestArtifact, map[string]string) {
	rejected := make(map[string]string)

	for _, ce := range collection {
		var inPackage, named []m.TestArtifact

		for _, artifact := range artifacts {
			dir, ok := layout.packageOf(artifact.ModuleName)
			if !ok || dir != ce.Package {
				continue
			}

			inPackage = append(inPackage, artifact)

			for _, file := range ce.TestFiles {
				if file == artifact.FileName() {
					named = append(named, artifact)
					break
				}
			}
		}

		if len(named) == 0 {
			named = inPackage
		}

		reason := "does not compile: " + firstLine(ce.Message)
		if ce.Panicked {
			reason = "test binary panicked: " + firstLine(ce.Message)
		}

		for _, artifact := range named {
			rejected[artifact.ModuleName] = reason
		}
	}

	var accepted []m.TestArtifact

	for _, artifact := range artifacts {
		if _, ok := rejected[artifact.ModuleName]; !ok {
			accepted = append(accepted, artifact)
		}
	}

	return accepted, rejected
}

// failingTestsOf summarizes the non-passing tests declared by one artifact.
func failingTestsOf(goFiles adapter.GoFileAdapter, layout *sourceLayout, artifact m.TestArtifact, execution m.ExecutionResult) string {
	dir, ok := layout.packageOf(artifact.ModuleName)
	if !ok {
		return ""
	}

	file, err := goFiles.Parse(context.Background(), token.NewFileSet(), artifact.FileName(), []byte(artifact.SourceCode))
	if err != nil {
		return ""
	}

	var lines []string

	for _, name := range goFiles.TestFunctions(file) {
		test, ok := execution.Tests[m.TestID(dir, name)]
		if !ok || test.Outcome == m.OutcomePass {
			continue
		}

		lines = append(lines, fmt.Sprintf("%s (%s): %s", name, test.Outcome, m.FirstFailureLine(test.Output)))
	}

	return strings.Join(lines, "\n")
}

func (p *pipeline) report(run *pipelineRun, decision m.Decision, rationale string) m.Report {
	best := run.best
	passed, failed := best.execution.Counts()

	failedTests := best.execution.FailedTests()
	if failedTests == nil {
		failedTests = []string{}
	}

	records := run.records
	if records == nil {
		records = []m.IterationRecord{}
	}

	return m.Report{
		CoveragePct:    best.coverage.OverallPct,
		Iteration:      len(run.records),
		ReviewReason:   rationale,
		UncoveredLines: best.coverage.UncoveredLines(),
		TestsCode:      best.suite.Code(),
		Success:        decision == m.Accept,
		RunID:          run.id,
		TestsPassed:    passed,
		TestsFailed:    failed,
		FailedTests:    failedTests,
		FlaggedModules: best.coverage.Flagged(),
		Iterations:     records,
	}
}
