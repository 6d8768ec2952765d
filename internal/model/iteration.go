package model

import "fmt"

// Decision is the Reviewer's verdict after an iteration.
type Decision int

const (
	// Continue requests another iteration.
	Continue Decision = iota
	// Accept stops the run successfully.
	Accept
	// Abandon stops the run without reaching the threshold.
	Abandon
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Accept:
		return "accept"
	case Abandon:
		return "abandon"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decision) UnmarshalText(text []byte) error {
	for _, candidate := range []Decision{Continue, Accept, Abandon} {
		if candidate.String() == string(text) {
			*d = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown decision %q", text)
}

// State is a pipeline state-machine state.
type State int

// Pipeline states.
const (
	StateInit State = iota
	StateAnalyzing
	StateSynthesizing
	StateExecuting
	StateReviewing
	StateAccepted
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAnalyzing:
		return "analyzing"
	case StateSynthesizing:
		return "synthesizing"
	case StateExecuting:
		return "executing"
	case StateReviewing:
		return "reviewing"
	case StateAccepted:
		return "accepted"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the run.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateAbandoned
}

// IterationRecord is one entry of the run's append-only audit trail.
type IterationRecord struct {
	Index          int             `json:"index"`
	CoverageBefore float64         `json:"coverage_before"`
	CoverageAfter  float64         `json:"coverage_after"`
	Execution      ExecutionResult `json:"execution_result"`
	Decision       Decision        `json:"decision"`
	Rationale      string          `json:"rationale"`
	// Synthesized lists modules that received a new candidate artifact.
	Synthesized []string `json:"synthesized,omitempty"`
	// SynthesisFailures maps module to the reason no artifact was produced.
	SynthesisFailures map[string]string `json:"synthesis_failures,omitempty"`
	// Rejected maps module to the reason its new artifact was not merged.
	Rejected map[string]string `json:"rejected,omitempty"`
	// Artifacts holds the artifacts merged into the suite during this iteration.
	Artifacts []TestArtifact `json:"-"`
}
