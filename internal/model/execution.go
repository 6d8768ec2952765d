package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ExitStatus summarizes how a suite execution ended.
type ExitStatus int

const (
	// Passed means every test ran and passed.
	Passed ExitStatus = iota
	// PartialFailure means some tests failed or some packages could not be collected.
	PartialFailure
	// CrashedInfra means the execution itself broke down (timeout, kill, missing toolchain).
	CrashedInfra
	// NotRun marks an iteration that produced nothing to execute.
	NotRun
)

func (s ExitStatus) String() string {
	switch s {
	case Passed:
		return "passed"
	case PartialFailure:
		return "partial_failure"
	case CrashedInfra:
		return "crashed_infra"
	case NotRun:
		return "not_run"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ExitStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ExitStatus) UnmarshalText(text []byte) error {
	for _, candidate := range []ExitStatus{Passed, PartialFailure, CrashedInfra, NotRun} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown exit status %q", text)
}

// TestOutcome is the result of a single test function.
type TestOutcome int

const (
	// OutcomePass indicates the test passed or was skipped.
	OutcomePass TestOutcome = iota
	// OutcomeFail indicates an assertion failure.
	OutcomeFail
	// OutcomeError indicates the test panicked or timed out.
	OutcomeError
)

func (o TestOutcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o TestOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *TestOutcome) UnmarshalText(text []byte) error {
	for _, candidate := range []TestOutcome{OutcomePass, OutcomeFail, OutcomeError} {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown test outcome %q", text)
}

// TestCaseResult holds the outcome and captured output of one test.
type TestCaseResult struct {
	Package string      `json:"package"`
	Name    string      `json:"name"`
	Outcome TestOutcome `json:"outcome"`
	Output  string      `json:"output,omitempty"`
}

// CollectionError records a package whose tests could not run to completion:
// the test binary did not build, or it panicked and took every test with it.
type CollectionError struct {
	Package string `json:"package"`
	// TestFiles lists the test files named by the build output or panic trace, if any.
	TestFiles []string `json:"test_files,omitempty"`
	Message   string   `json:"message"`
	Panicked  bool     `json:"panicked,omitempty"`
}

// ExecutionResult is the outcome of running one candidate suite.
type ExecutionResult struct {
	Status           ExitStatus                `json:"status"`
	Tests            map[string]TestCaseResult `json:"tests"`
	CollectionErrors []CollectionError         `json:"collection_errors,omitempty"`
	CrashReason      string                    `json:"crash_reason,omitempty"`
	Stdout           string                    `json:"-"`
	Stderr           string                    `json:"-"`
	Duration         time.Duration             `json:"duration"`
}

// TestID builds the key used in ExecutionResult.Tests.
func TestID(pkg, name string) string {
	return pkg + "/" + name
}

// Counts returns the number of passing and non-passing tests.
func (r ExecutionResult) Counts() (passed int, failed int) {
	for _, test := range r.Tests {
		if test.Outcome == OutcomePass {
			passed++
		} else {
			failed++
		}
	}

	return passed, failed
}

// FailedTests returns "Name: message" descriptions of non-passing tests, sorted.
func (r ExecutionResult) FailedTests() []string {
	var out []string

	for _, test := range r.Tests {
		if test.Outcome == OutcomePass {
			continue
		}

		out = append(out, fmt.Sprintf("%s: %s", test.Name, FirstFailureLine(test.Output)))
	}

	sort.Strings(out)

	return out
}

// FirstFailureLine picks the most telling line from a test's captured output.
func FirstFailureLine(output string) string {
	fallback := ""

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "=== ") || strings.HasPrefix(trimmed, "--- ") {
			continue
		}

		if strings.HasPrefix(trimmed, "panic:") || strings.Contains(trimmed, "_test.go:") {
			return trimmed
		}

		if fallback == "" {
			fallback = trimmed
		}
	}

	return fallback
}
