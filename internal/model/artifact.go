package model

import (
	"sort"
	"strings"
)

// TestArtifact is one generated test file for a single module.
type TestArtifact struct {
	ModuleName      string `json:"module_name"`
	SourceCode      string `json:"source_code"`
	OriginIteration int    `json:"origin_iteration"`
}

// FileName returns the test file name the artifact is staged under.
func (a TestArtifact) FileName() string {
	return TestFileName(a.ModuleName)
}

// TestFileName maps a module file name to its companion test file name.
func TestFileName(module string) string {
	return strings.TrimSuffix(module, ".go") + "_test.go"
}

// TestSuite is an append-only sequence of artifacts in generation order.
// The most recent artifact of a module is its active one; earlier ones are
// kept for diagnostics only.
type TestSuite struct {
	artifacts []TestArtifact
}

// NewTestSuite creates a suite holding the given artifacts in order.
func NewTestSuite(artifacts ...TestArtifact) TestSuite {
	var suite TestSuite
	suite.Append(artifacts...)

	return suite
}

// Append adds artifacts to the end of the suite.
func (s *TestSuite) Append(artifacts ...TestArtifact) {
	s.artifacts = append(s.artifacts, artifacts...)
}

// With returns a copy of the suite extended by the given artifacts. The
// receiver is left untouched.
func (s TestSuite) With(artifacts ...TestArtifact) TestSuite {
	out := make([]TestArtifact, len(s.artifacts), len(s.artifacts)+len(artifacts))
	copy(out, s.artifacts)

	return TestSuite{artifacts: append(out, artifacts...)}
}

// Len returns the number of artifacts, superseded ones included.
func (s TestSuite) Len() int {
	return len(s.artifacts)
}

// Active returns the most recent artifact of each module, sorted by module name.
func (s TestSuite) Active() []TestArtifact {
	latest := make(map[string]TestArtifact)
	for _, artifact := range s.artifacts {
		latest[artifact.ModuleName] = artifact
	}

	out := make([]TestArtifact, 0, len(latest))
	for _, artifact := range latest {
		out = append(out, artifact)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ModuleName < out[j].ModuleName
	})

	return out
}

// ActiveFor returns the active artifact of one module.
func (s TestSuite) ActiveFor(module string) (TestArtifact, bool) {
	for i := len(s.artifacts) - 1; i >= 0; i-- {
		if s.artifacts[i].ModuleName == module {
			return s.artifacts[i], true
		}
	}

	return TestArtifact{}, false
}

// Superseded returns the artifacts of a module that were replaced later, oldest first.
func (s TestSuite) Superseded(module string) []TestArtifact {
	var versions []TestArtifact

	for _, artifact := range s.artifacts {
		if artifact.ModuleName == module {
			versions = append(versions, artifact)
		}
	}

	if len(versions) <= 1 {
		return nil
	}

	return versions[:len(versions)-1]
}

// Code serializes the active suite as a single text, one section per test file.
func (s TestSuite) Code() string {
	active := s.Active()
	if len(active) == 0 {
		return ""
	}

	var b strings.Builder

	for i, artifact := range active {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("// ==== ")
		b.WriteString(artifact.FileName())
		b.WriteString(" ====\n")
		b.WriteString(strings.TrimRight(artifact.SourceCode, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}
