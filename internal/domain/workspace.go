package domain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"autotest.dev/pkg/autotest/internal/adapter"
	m "autotest.dev/pkg/autotest/internal/model"
)

// SandboxModulePath is the module path of every staged workspace.
const SandboxModulePath = "autotest.local/sandbox"

// DefaultGoVersion is written to the go directive of staged workspaces.
const DefaultGoVersion = "1.21"

// moduleLayout places one source module inside the sandbox module.
type moduleLayout struct {
	module   m.SourceModule
	pkg      string
	dir      string
	file     *ast.File
	parseErr error
}

func (l *moduleLayout) importPath() string {
	return SandboxModulePath + "/" + l.dir
}

// sourceLayout groups the modules of a source set by package clause.
// Each package gets its own directory named after it.
type sourceLayout struct {
	fset    *token.FileSet
	modules map[string]*moduleLayout
	names   []string
}

func newSourceLayout(ctx context.Context, goFiles adapter.GoFileAdapter, sources m.SourceSet) (*sourceLayout, error) {
	layout := &sourceLayout{
		fset:    token.NewFileSet(),
		modules: make(map[string]*moduleLayout, sources.Len()),
	}

	for _, mod := range sources.Modules() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := &moduleLayout{module: mod}

		file, err := goFiles.Parse(ctx, layout.fset, mod.Name, mod.Content)
		if err != nil || file == nil || file.Name == nil {
			if err == nil {
				err = fmt.Errorf("missing package clause")
			}

			slog.Debug("Module does not parse", "module", mod.Name, "error", err)
			entry.parseErr = err
		} else {
			entry.file = file
			entry.pkg = file.Name.Name
			entry.dir = packageDir(entry.pkg)
		}

		layout.modules[mod.Name] = entry
		layout.names = append(layout.names, mod.Name)
	}

	return layout, nil
}

// packageDir maps a package name to a directory `go test ./...` will visit.
func packageDir(pkg string) string {
	if pkg == "testdata" || pkg == "vendor" || strings.HasPrefix(pkg, "_") {
		return "pkg" + pkg
	}

	return pkg
}

// module returns the layout entry of a module.
func (l *sourceLayout) module(name string) (*moduleLayout, bool) {
	entry, ok := l.modules[name]
	return entry, ok
}

// packageOf returns the directory of a parseable module.
func (l *sourceLayout) packageOf(name string) (string, bool) {
	entry, ok := l.modules[name]
	if !ok || entry.parseErr != nil {
		return "", false
	}

	return entry.dir, true
}

// modulesIn returns the parseable modules staged in dir, sorted by name.
func (l *sourceLayout) modulesIn(dir string) []*moduleLayout {
	var out []*moduleLayout

	for _, name := range l.names {
		entry := l.modules[name]
		if entry.parseErr == nil && entry.dir == dir {
			out = append(out, entry)
		}
	}

	return out
}

// shortPackage strips the sandbox module prefix from an import path.
func shortPackage(importPath string) string {
	if importPath == SandboxModulePath {
		return "."
	}

	return strings.TrimPrefix(importPath, SandboxModulePath+"/")
}

// stager writes a source layout plus a test suite into a fresh directory.
type stager struct {
	fs        adapter.SourceFSAdapter
	goVersion string
}

func newStager(fs adapter.SourceFSAdapter, goVersion string) stager {
	if goVersion == "" {
		goVersion = DefaultGoVersion
	}

	return stager{fs: fs, goVersion: goVersion}
}

// stage materializes the workspace. The returned cleanup must always be
// called, even when err is non-nil.
func (s stager) stage(ctx context.Context, layout *sourceLayout, suite m.TestSuite, pattern string) (m.Path, func(), error) {
	root, err := s.fs.CreateTempDir(ctx, pattern)
	if err != nil {
		slog.Error("Failed to create workspace", "error", err)
		return "", func() {}, fmt.Errorf("failed to create workspace: %w", err)
	}

	cleanup := func() {
		if err := s.fs.RemoveAll(context.WithoutCancel(ctx), root); err != nil {
			slog.Error("Failed to cleanup workspace", "root", root, "error", err)
		}
	}

	goMod, err := s.goMod()
	if err != nil {
		return root, cleanup, err
	}

	if err := s.fs.WriteFile(ctx, s.fs.JoinPath(ctx, string(root), "go.mod"), goMod, 0o600); err != nil {
		slog.Error("Failed to write go.mod", "root", root, "error", err)
		return root, cleanup, fmt.Errorf("failed to write go.mod: %w", err)
	}

	dirs := make(map[string]bool)

	for _, name := range layout.names {
		entry := layout.modules[name]
		if entry.parseErr != nil {
			continue
		}

		dirPath := s.fs.JoinPath(ctx, string(root), entry.dir)
		if !dirs[entry.dir] {
			if err := s.fs.MkdirAll(ctx, dirPath); err != nil {
				slog.Error("Failed to create package dir", "dir", dirPath, "error", err)
				return root, cleanup, fmt.Errorf("failed to create package dir: %w", err)
			}

			dirs[entry.dir] = true
		}

		if err := s.fs.WriteFile(ctx, s.fs.JoinPath(ctx, string(dirPath), entry.module.Name), entry.module.Content, 0o600); err != nil {
			slog.Error("Failed to stage module", "module", entry.module.Name, "error", err)
			return root, cleanup, fmt.Errorf("failed to stage module %s: %w", entry.module.Name, err)
		}
	}

	for _, artifact := range suite.Active() {
		dir, ok := layout.packageOf(artifact.ModuleName)
		if !ok {
			continue
		}

		path := s.fs.JoinPath(ctx, string(root), dir, artifact.FileName())
		if err := s.fs.WriteFile(ctx, path, []byte(artifact.SourceCode), 0o600); err != nil {
			slog.Error("Failed to stage test artifact", "module", artifact.ModuleName, "error", err)
			return root, cleanup, fmt.Errorf("failed to stage test for %s: %w", artifact.ModuleName, err)
		}
	}

	return root, cleanup, nil
}

func (s stager) goMod() ([]byte, error) {
	f := &modfile.File{}

	if err := f.AddModuleStmt(SandboxModulePath); err != nil {
		return nil, fmt.Errorf("failed to build go.mod: %w", err)
	}

	if err := f.AddGoStmt(s.goVersion); err != nil {
		return nil, fmt.Errorf("failed to build go.mod: %w", err)
	}

	return f.Format()
}

// buildFailures extracts compiler output per import path from the
// `# importpath` sections go test prints for packages that do not build.
func buildFailures(output []byte) map[string]string {
	sections := make(map[string]*strings.Builder)

	var current *strings.Builder

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "# ") {
			fields := strings.Fields(strings.TrimPrefix(line, "# "))
			if len(fields) == 0 {
				current = nil
				continue
			}

			pkg := fields[0]
			if sections[pkg] == nil {
				sections[pkg] = &strings.Builder{}
			}

			current = sections[pkg]

			continue
		}

		if strings.HasPrefix(line, "FAIL") || strings.HasPrefix(line, "ok ") || strings.HasPrefix(line, "?") {
			current = nil
			continue
		}

		if current != nil && strings.TrimSpace(line) != "" {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}

	out := make(map[string]string, len(sections))
	for pkg, b := range sections {
		out[pkg] = b.String()
	}

	return out
}

// failedBuilds returns the import paths reported as `[build failed]` or `[setup failed]`.
func failedBuilds(output []byte) []string {
	var pkgs []string

	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != "FAIL" {
			continue
		}

		tail := strings.Join(fields[2:], " ")
		if tail != "[build failed]" && tail != "[setup failed]" {
			continue
		}

		if !seen[fields[1]] {
			seen[fields[1]] = true
			pkgs = append(pkgs, fields[1])
		}
	}

	sort.Strings(pkgs)

	return pkgs
}

// firstLine returns the first non-empty line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}

	return ""
}
