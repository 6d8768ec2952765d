// Package model defines the data structures shared by the coverage pipeline.
package model

import (
	"fmt"
	"sort"
)

// Path represents a file system path.
type Path string

// ScopeType classifies a top-level code scope inside a module.
type ScopeType string

const (
	// ScopeInit represents init() functions.
	ScopeInit ScopeType = "init"

	// ScopeFunction represents regular functions.
	ScopeFunction ScopeType = "function"

	// ScopeMethod represents functions with a receiver.
	ScopeMethod ScopeType = "method"
)

// CodeScope is a function-like declaration with its line span.
type CodeScope struct {
	Type      ScopeType
	Name      string
	StartLine int
	EndLine   int
}

// Contains reports whether line falls inside the scope.
func (c CodeScope) Contains(line int) bool {
	return line >= c.StartLine && line <= c.EndLine
}

// SourceModule is one submitted source file. Immutable once accepted.
type SourceModule struct {
	Name    string
	Content []byte
}

// SourceSet is the collection of modules submitted for a single run.
type SourceSet struct {
	modules []SourceModule
	byName  map[string]int
}

// NewSourceSet builds a SourceSet, rejecting duplicate module names.
// Module contents are copied so later mutation of the inputs has no effect.
func NewSourceSet(modules ...SourceModule) (SourceSet, error) {
	set := SourceSet{
		modules: make([]SourceModule, 0, len(modules)),
		byName:  make(map[string]int, len(modules)),
	}

	for _, mod := range modules {
		if _, exists := set.byName[mod.Name]; exists {
			return SourceSet{}, fmt.Errorf("duplicate module %q", mod.Name)
		}

		content := make([]byte, len(mod.Content))
		copy(content, mod.Content)

		set.byName[mod.Name] = len(set.modules)
		set.modules = append(set.modules, SourceModule{Name: mod.Name, Content: content})
	}

	return set, nil
}

// Len returns the number of modules.
func (s SourceSet) Len() int {
	return len(s.modules)
}

// Get looks a module up by name.
func (s SourceSet) Get(name string) (SourceModule, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return SourceModule{}, false
	}

	return s.modules[idx], true
}

// Modules returns the modules sorted by name.
func (s SourceSet) Modules() []SourceModule {
	out := make([]SourceModule, len(s.modules))
	copy(out, s.modules)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// Names returns the sorted module names.
func (s SourceSet) Names() []string {
	names := make([]string, 0, len(s.modules))
	for _, mod := range s.modules {
		names = append(names, mod.Name)
	}

	sort.Strings(names)

	return names
}
