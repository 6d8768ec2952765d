package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestFileName(t *testing.T) {
	assert.Equal(t, "calc_test.go", TestFileName("calc.go"))
	assert.Equal(t, "noext_test.go", TestFileName("noext"))
}

func TestTestSuite_ActiveKeepsLatestPerModule(t *testing.T) {
	suite := NewTestSuite(
		TestArtifact{ModuleName: "b.go", SourceCode: "b1", OriginIteration: 1},
		TestArtifact{ModuleName: "a.go", SourceCode: "a1", OriginIteration: 1},
	)
	suite.Append(TestArtifact{ModuleName: "b.go", SourceCode: "b2", OriginIteration: 2})

	active := suite.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "a.go", active[0].ModuleName)
	assert.Equal(t, "b2", active[1].SourceCode)
	assert.Equal(t, 3, suite.Len())

	superseded := suite.Superseded("b.go")
	require.Len(t, superseded, 1)
	assert.Equal(t, "b1", superseded[0].SourceCode)
	assert.Nil(t, suite.Superseded("a.go"))
}

func TestTestSuite_WithDoesNotMutateReceiver(t *testing.T) {
	base := NewTestSuite(TestArtifact{ModuleName: "a.go", SourceCode: "a1"})
	candidate := base.With(TestArtifact{ModuleName: "a.go", SourceCode: "a2"})

	got, ok := base.ActiveFor("a.go")
	require.True(t, ok)
	assert.Equal(t, "a1", got.SourceCode)

	got, ok = candidate.ActiveFor("a.go")
	require.True(t, ok)
	assert.Equal(t, "a2", got.SourceCode)
	assert.Equal(t, 1, base.Len())
}

func TestTestSuite_Code(t *testing.T) {
	assert.Equal(t, "", TestSuite{}.Code())

	suite := NewTestSuite(
		TestArtifact{ModuleName: "b.go", SourceCode: "package p\n"},
		TestArtifact{ModuleName: "a.go", SourceCode: "package p\n\n"},
	)

	want := "// ==== a_test.go ====\npackage p\n\n// ==== b_test.go ====\npackage p\n"
	assert.Equal(t, want, suite.Code())
}

func TestNewSourceSet(t *testing.T) {
	content := []byte("package p\n")
	set, err := NewSourceSet(SourceModule{Name: "z.go", Content: content}, SourceModule{Name: "a.go"})
	require.NoError(t, err)

	content[0] = 'X'
	mod, ok := set.Get("z.go")
	require.True(t, ok)
	assert.Equal(t, "package p\n", string(mod.Content))
	assert.Equal(t, []string{"a.go", "z.go"}, set.Names())
	assert.Equal(t, 2, set.Len())

	_, err = NewSourceSet(SourceModule{Name: "a.go"}, SourceModule{Name: "a.go"})
	require.Error(t, err)
}
