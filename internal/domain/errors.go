package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a run request is rejected before any work starts.
	ErrValidation = errors.New("invalid request")

	// ErrAnalysis marks a module that could not be instrumented.
	ErrAnalysis = errors.New("coverage analysis failed")

	// ErrSynthesis marks a module that received no usable test in one iteration.
	ErrSynthesis = errors.New("test synthesis failed")

	// ErrExecutionCrash marks an execution that did not complete.
	ErrExecutionCrash = errors.New("test execution crashed")

	// ErrPipelineFailed is returned when not even the baseline coverage could be computed.
	ErrPipelineFailed = errors.New("pipeline failed")
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// AnalysisError is raised for a single module that cannot be parsed or built.
type AnalysisError struct {
	Module string
	Err    error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Module, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *AnalysisError) Unwrap() []error {
	return []error{ErrAnalysis, e.Err}
}

// SynthesisFailure is raised when the retry budget for one module is spent.
type SynthesisFailure struct {
	Module   string
	Attempts int
	Err      error
}

func (e *SynthesisFailure) Error() string {
	return fmt.Sprintf("%s: no usable test after %d attempt(s): %v", e.Module, e.Attempts, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *SynthesisFailure) Unwrap() []error {
	return []error{ErrSynthesis, e.Err}
}
