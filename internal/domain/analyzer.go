package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/tools/cover"

	"autotest.dev/pkg/autotest/internal/adapter"
	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/internal/observability"
)

const coverProfileName = "cover.out"

// Analyzer measures which executable lines of a source set a test suite exercises.
type Analyzer interface {
	// Analyze runs the active suite under coverage instrumentation. Modules
	// that cannot be instrumented are flagged in the report rather than
	// failing the call; an error means the measurement itself broke down.
	Analyze(ctx context.Context, sources m.SourceSet, suite m.TestSuite) (m.CoverageReport, error)

	// Estimate counts executable lines per module without running anything.
	Estimate(ctx context.Context, sources m.SourceSet) (m.CoverageReport, error)
}

// AnalyzerConfig tunes the coverage run.
type AnalyzerConfig struct {
	GoVersion string
	Timeout   time.Duration
}

type analyzer struct {
	fs      adapter.SourceFSAdapter
	goFiles adapter.GoFileAdapter
	runner  adapter.TestRunnerAdapter
	stager  stager
	timeout time.Duration
	metrics *observability.Metrics
}

// NewAnalyzer constructs an Analyzer backed by `go test -coverprofile`.
func NewAnalyzer(fs adapter.SourceFSAdapter, goFiles adapter.GoFileAdapter, runner adapter.TestRunnerAdapter, cfg AnalyzerConfig, metrics *observability.Metrics) Analyzer {
	return &analyzer{
		fs:      fs,
		goFiles: goFiles,
		runner:  runner,
		stager:  newStager(fs, cfg.GoVersion),
		timeout: cfg.Timeout,
		metrics: metrics,
	}
}

func (a *analyzer) Analyze(ctx context.Context, sources m.SourceSet, suite m.TestSuite) (m.CoverageReport, error) {
	ctx, span := otel.Tracer(observability.ServiceName).Start(ctx, "analyzer.Analyze")
	defer span.End()

	start := time.Now()
	defer func() { a.metrics.AnalysisObserved(time.Since(start)) }()

	layout, err := newSourceLayout(ctx, a.goFiles, sources)
	if err != nil {
		return m.CoverageReport{}, err
	}

	root, cleanup, err := a.stager.stage(ctx, layout, suite, "autotest-analyze-*")
	defer cleanup()

	if err != nil {
		return m.CoverageReport{}, err
	}

	runCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	out, err := a.runner.RunGoTest(runCtx, root, []string{
		"-count=1",
		"-vet=off",
		"-covermode=set",
		"-coverprofile=" + coverProfileName,
		"./...",
	})
	if err != nil {
		slog.Error("Coverage run failed", "root", root, "error", err)
		return m.CoverageReport{}, fmt.Errorf("coverage run: %w", err)
	}

	profiles, err := a.readProfiles(ctx, root)
	if err != nil {
		return m.CoverageReport{}, err
	}

	combined := append(append([]byte{}, out.Stdout...), out.Stderr...)
	broken := make(map[string]string)
	sections := buildFailures(combined)

	for _, importPath := range failedBuilds(combined) {
		reason := firstLine(sections[importPath])
		if reason == "" {
			reason = "build failed"
		}

		broken[shortPackage(importPath)] = "package does not compile: " + reason
	}

	covered := profiled(profiles)

	for _, dir := range testedDirs(layout, suite) {
		if _, ok := broken[dir]; ok || covered[dir] {
			continue
		}

		// A test binary that panics exits before writing its profile.
		reason := "test run aborted before writing coverage"
		if line := panicLine(combined); line != "" {
			reason += ": " + line
		}

		broken[dir] = reason
	}

	report := a.measure(layout, profiles, broken)

	span.SetAttributes(
		attribute.Float64("coverage.overall_pct", report.OverallPct),
		attribute.Int("coverage.flagged", len(report.FlaggedNames())),
	)

	slog.Debug("Coverage analyzed", "overall", report.OverallPct, "flagged", report.FlaggedNames())

	return report, nil
}

func (a *analyzer) Estimate(ctx context.Context, sources m.SourceSet) (m.CoverageReport, error) {
	layout, err := newSourceLayout(ctx, a.goFiles, sources)
	if err != nil {
		return m.CoverageReport{}, err
	}

	modules := make([]m.ModuleCoverage, 0, len(layout.names))

	for _, name := range layout.names {
		entry := layout.modules[name]
		if entry.parseErr != nil {
			modules = append(modules, unparseableCoverage(entry))
			continue
		}

		lines := statementLines(a.goFiles.StatementPositions(layout.fset, entry.file))
		modules = append(modules, m.ModuleCoverage{Module: name, ExecutableLines: len(lines), Uncovered: lines})
	}

	return m.NewCoverageReport(modules), nil
}

func (a *analyzer) readProfiles(ctx context.Context, root m.Path) ([]*cover.Profile, error) {
	path := a.fs.JoinPath(ctx, string(root), coverProfileName)

	data, err := a.fs.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read coverage profile: %w", err)
	}

	profiles, err := cover.ParseProfilesFromReader(bytes.NewReader(data))
	if err != nil {
		slog.Error("Failed to parse coverage profile", "path", path, "error", err)
		return nil, fmt.Errorf("parse coverage profile: %w", err)
	}

	return profiles, nil
}

// profiled returns the package directories that appear in the profiles.
func profiled(profiles []*cover.Profile) map[string]bool {
	dirs := make(map[string]bool)

	for _, profile := range profiles {
		rel := shortPackage(profile.FileName)
		if idx := strings.LastIndex(rel, "/"); idx >= 0 {
			dirs[rel[:idx]] = true
		}
	}

	return dirs
}

// testedDirs lists the package directories the active suite has tests in.
func testedDirs(layout *sourceLayout, suite m.TestSuite) []string {
	seen := make(map[string]bool)

	var dirs []string

	for _, artifact := range suite.Active() {
		dir, ok := layout.packageOf(artifact.ModuleName)
		if ok && !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	sort.Strings(dirs)

	return dirs
}

func panicLine(output []byte) string {
	for _, line := range strings.Split(string(output), "\n") {
		if isPanicLine(line) {
			return strings.TrimSpace(line)
		}
	}

	return ""
}

func (a *analyzer) measure(layout *sourceLayout, profiles []*cover.Profile, broken map[string]string) m.CoverageReport {
	byFile := make(map[string]*cover.Profile, len(profiles))
	dirs := profiled(profiles)

	for _, profile := range profiles {
		byFile[shortPackage(profile.FileName)] = profile
	}

	modules := make([]m.ModuleCoverage, 0, len(layout.names))

	for _, name := range layout.names {
		entry := layout.modules[name]

		if entry.parseErr != nil {
			modules = append(modules, unparseableCoverage(entry))
			continue
		}

		positions := a.goFiles.StatementPositions(layout.fset, entry.file)

		if reason, ok := broken[entry.dir]; ok {
			lines := statementLines(positions)
			modules = append(modules, m.ModuleCoverage{
				Module:          name,
				ExecutableLines: len(lines),
				Uncovered:       lines,
				Flagged:         true,
				FlagReason:      reason,
			})

			continue
		}

		if !dirs[entry.dir] {
			lines := statementLines(positions)
			modules = append(modules, m.ModuleCoverage{Module: name, ExecutableLines: len(lines), Uncovered: lines})

			continue
		}

		modules = append(modules, coverLines(name, positions, byFile[entry.dir+"/"+name]))
	}

	return m.NewCoverageReport(modules)
}

// coverLines classifies each statement line as covered when any statement
// starting on it lies in a block that ran. Statements outside every block
// are not instrumented and do not count.
func coverLines(name string, positions []token.Position, profile *cover.Profile) m.ModuleCoverage {
	state := make(map[int]bool)

	for _, pos := range positions {
		block, ok := blockAt(profile, pos)
		if !ok {
			continue
		}

		state[pos.Line] = state[pos.Line] || block.Count > 0
	}

	result := m.ModuleCoverage{Module: name, ExecutableLines: len(state)}

	for line, covered := range state {
		if !covered {
			result.Uncovered = append(result.Uncovered, line)
		}
	}

	sort.Ints(result.Uncovered)

	return result
}

func blockAt(profile *cover.Profile, pos token.Position) (cover.ProfileBlock, bool) {
	if profile == nil {
		return cover.ProfileBlock{}, false
	}

	for _, block := range profile.Blocks {
		afterStart := pos.Line > block.StartLine || (pos.Line == block.StartLine && pos.Column >= block.StartCol)
		beforeEnd := pos.Line < block.EndLine || (pos.Line == block.EndLine && pos.Column < block.EndCol)

		if afterStart && beforeEnd {
			return block, true
		}
	}

	return cover.ProfileBlock{}, false
}

func statementLines(positions []token.Position) []int {
	seen := make(map[int]bool, len(positions))

	var lines []int

	for _, pos := range positions {
		if !seen[pos.Line] {
			seen[pos.Line] = true
			lines = append(lines, pos.Line)
		}
	}

	sort.Ints(lines)

	return lines
}

// unparseableCoverage treats every non-blank, non-comment line as uncovered.
func unparseableCoverage(entry *moduleLayout) m.ModuleCoverage {
	var lines []int

	for i, line := range strings.Split(string(entry.module.Content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		lines = append(lines, i+1)
	}

	err := &AnalysisError{Module: entry.module.Name, Err: entry.parseErr}
	slog.Warn("Module cannot be instrumented", "module", entry.module.Name, "error", err)

	return m.ModuleCoverage{
		Module:          entry.module.Name,
		ExecutableLines: len(lines),
		Uncovered:       lines,
		Flagged:         true,
		FlagReason:      "cannot instrument: " + firstLine(entry.parseErr.Error()),
	}
}
