package domain

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"autotest.dev/pkg/autotest/internal/adapter"
	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/internal/observability"
)

var testFilePattern = regexp.MustCompile(`[\w.-]+_test\.go:\d+`)

// Executor runs a candidate suite once in a fresh sandbox.
type Executor interface {
	// Execute never returns an error: infrastructure failures are reported
	// through the CrashedInfra status of the result.
	Execute(ctx context.Context, sources m.SourceSet, suite m.TestSuite) m.ExecutionResult
}

// ExecutorConfig tunes the execution sandbox.
type ExecutorConfig struct {
	GoVersion string
	Timeout   time.Duration
}

type executor struct {
	goFiles adapter.GoFileAdapter
	runner  adapter.TestRunnerAdapter
	stager  stager
	timeout time.Duration
	metrics *observability.Metrics
}

// NewExecutor constructs an Executor backed by `go test -json`.
func NewExecutor(fs adapter.SourceFSAdapter, goFiles adapter.GoFileAdapter, runner adapter.TestRunnerAdapter, cfg ExecutorConfig, metrics *observability.Metrics) Executor {
	return &executor{
		goFiles: goFiles,
		runner:  runner,
		stager:  newStager(fs, cfg.GoVersion),
		timeout: cfg.Timeout,
		metrics: metrics,
	}
}

func (e *executor) Execute(ctx context.Context, sources m.SourceSet, suite m.TestSuite) m.ExecutionResult {
	ctx, span := otel.Tracer(observability.ServiceName).Start(ctx, "executor.Execute")
	defer span.End()

	start := time.Now()
	result := e.execute(ctx, sources, suite)
	result.Duration = time.Since(start)

	e.metrics.ExecutionObserved(result.Status.String(), result.Duration)

	passed, failed := result.Counts()
	span.SetAttributes(
		attribute.String("execution.status", result.Status.String()),
		attribute.Int("execution.passed", passed),
		attribute.Int("execution.failed", failed),
	)

	return result
}

func (e *executor) execute(ctx context.Context, sources m.SourceSet, suite m.TestSuite) m.ExecutionResult {
	layout, err := newSourceLayout(ctx, e.goFiles, sources)
	if err != nil {
		return crashed(fmt.Sprintf("cannot lay out sources: %v", err))
	}

	root, cleanup, err := e.stager.stage(ctx, layout, suite, "autotest-exec-*")
	defer cleanup()

	if err != nil {
		return crashed(err.Error())
	}

	runCtx := ctx

	if e.timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.runner.RunGoTest(runCtx, root, []string{"-json", "-count=1", "-vet=off", "./..."})
	if err != nil {
		reason := err.Error()
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			reason = fmt.Sprintf("execution exceeded %s timeout", e.timeout)
		}

		slog.Warn("Test execution crashed", "root", root, "error", err)

		result := crashed(reason)
		result.Stdout, result.Stderr = string(out.Stdout), string(out.Stderr)

		return result
	}

	result, events := parseTestEvents(out.Stdout, out.Stderr)
	result.Stdout, result.Stderr = string(out.Stdout), string(out.Stderr)

	if events == 0 && out.ExitCode != 0 {
		reason := fmt.Sprintf("go test exited with code %d without reporting any test event", out.ExitCode)
		if line := firstLine(string(out.Stderr)); line != "" {
			reason += ": " + line
		}

		crash := crashed(reason)
		crash.Stdout, crash.Stderr = result.Stdout, result.Stderr

		return crash
	}

	return result
}

func crashed(reason string) m.ExecutionResult {
	return m.ExecutionResult{
		Status:      m.CrashedInfra,
		Tests:       map[string]m.TestCaseResult{},
		CrashReason: reason,
	}
}

// testEvent is one line of `go test -json` output.
type testEvent struct {
	Action      string
	Package     string
	Test        string
	Output      string
	ImportPath  string
	FailedBuild string
}

type packageState struct {
	output      strings.Builder
	failed      bool
	hasTests    bool
	failedBuild string
	lastTest    string
	// panicTest is the test running when the binary panicked.
	panicTest string
	panicking bool
	panicText strings.Builder
}

// notePanic collects everything the package prints from its first panic line on.
func (p *packageState) notePanic(testID, output string) {
	if !p.panicking && isPanicLine(output) {
		p.panicking = true
		p.panicTest = testID
	}

	if p.panicking {
		p.panicText.WriteString(output)
	}
}

// parseTestEvents folds a test2json stream into an ExecutionResult. Subtest
// output is attributed to the enclosing top-level test. The second return
// value counts the events that could be decoded.
func parseTestEvents(stdout, stderr []byte) (m.ExecutionResult, int) {
	result := m.ExecutionResult{Status: m.Passed, Tests: make(map[string]m.TestCaseResult)}

	var (
		events   int
		packages = make(map[string]*packageState)
		builds   = make(map[string]*strings.Builder)
		tests    = make(map[string]*m.TestCaseResult)
		done     = make(map[string]bool)
	)

	state := func(pkg string) *packageState {
		if packages[pkg] == nil {
			packages[pkg] = &packageState{}
		}

		return packages[pkg]
	}

	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var ev testEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}

		events++

		switch {
		case ev.Action == "build-output" || ev.Action == "build-fail":
			// "pkg [pkg.test]" names the test variant of pkg.
			key, _, _ := strings.Cut(ev.ImportPath, " ")
			if builds[key] == nil {
				builds[key] = &strings.Builder{}
			}

			builds[key].WriteString(ev.Output)
		case ev.Test != "":
			pkg := state(ev.Package)
			pkg.hasTests = true

			top, _, _ := strings.Cut(ev.Test, "/")
			id := m.TestID(shortPackage(ev.Package), top)

			test := tests[id]
			if test == nil {
				test = &m.TestCaseResult{Package: shortPackage(ev.Package), Name: top, Outcome: m.OutcomeError}
				tests[id] = test
			}

			test.Output += ev.Output
			pkg.lastTest = id
			pkg.notePanic(id, ev.Output)

			if ev.Test != top {
				continue
			}

			switch ev.Action {
			case "pass", "skip":
				test.Outcome = m.OutcomePass
				done[id] = true
			case "fail":
				test.Outcome = m.OutcomeFail
				done[id] = true
			}
		default:
			pkg := state(ev.Package)
			pkg.output.WriteString(ev.Output)
			// The trace follows the test's FAIL line, so it arrives as package output.
			pkg.notePanic(pkg.lastTest, ev.Output)

			if ev.Action == "fail" {
				pkg.failed = true
				pkg.failedBuild, _, _ = strings.Cut(ev.FailedBuild, " ")
			}
		}
	}

	for _, pkg := range packages {
		test := tests[pkg.panicTest]
		if !pkg.panicking || test == nil {
			continue
		}

		if !strings.Contains(test.Output, "panic:") {
			test.Output += pkg.panicText.String()
		}
	}

	for id, test := range tests {
		if test.Outcome != m.OutcomePass && (strings.Contains(test.Output, "panic:") || !done[id]) {
			test.Outcome = m.OutcomeError
		}

		result.Tests[id] = *test
	}

	sections := buildFailures(stderr)

	for importPath, pkg := range packages {
		if pkg.failed && pkg.panicking {
			result.CollectionErrors = append(result.CollectionErrors, panicked(importPath, pkg))
			continue
		}

		if !pkg.failed || pkg.hasTests {
			continue
		}

		message := ""

		for _, key := range []string{pkg.failedBuild, importPath} {
			if b := builds[key]; b != nil && message == "" {
				message = b.String()
			}
		}

		if message == "" {
			message = sections[importPath]
		}

		if message == "" {
			message = pkg.output.String()
		}

		result.CollectionErrors = append(result.CollectionErrors, m.CollectionError{
			Package:   shortPackage(importPath),
			TestFiles: namedTestFiles(message),
			Message:   strings.TrimSpace(message),
		})
	}

	sort.Slice(result.CollectionErrors, func(i, j int) bool {
		return result.CollectionErrors[i].Package < result.CollectionErrors[j].Package
	})

	if _, failed := result.Counts(); failed > 0 || len(result.CollectionErrors) > 0 {
		result.Status = m.PartialFailure
	}

	return result, events
}

func isPanicLine(output string) bool {
	return strings.HasPrefix(strings.TrimSpace(output), "panic:")
}

// panicked describes a package whose test binary died mid-run. A panic
// aborts every remaining test of the package and its coverage profile.
func panicked(importPath string, pkg *packageState) m.CollectionError {
	text := pkg.panicText.String()

	message := ""

	for _, line := range strings.Split(text, "\n") {
		if isPanicLine(line) {
			message = strings.TrimSpace(line)
			break
		}
	}

	if pkg.panicTest != "" {
		message = pkg.panicTest[strings.LastIndex(pkg.panicTest, "/")+1:] + ": " + message
	}

	return m.CollectionError{
		Package:   shortPackage(importPath),
		TestFiles: namedTestFiles(text),
		Message:   message,
		Panicked:  true,
	}
}

// namedTestFiles lists the distinct _test.go files a compiler message points at.
func namedTestFiles(message string) []string {
	seen := make(map[string]bool)

	var files []string

	for _, match := range testFilePattern.FindAllString(message, -1) {
		name := match[:strings.LastIndex(match, ":")]
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}

	sort.Strings(files)

	return files
}
