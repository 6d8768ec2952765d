package adapter

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	m "autotest.dev/pkg/autotest/internal/model"
)

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can reason
// about modules, statements and scopes without touching go/ast directly.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and source bytes.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// ExtractScopes returns the function-like declarations of a file with their line spans.
	ExtractScopes(fileSet *token.FileSet, file *ast.File) []m.CodeScope

	// StatementPositions returns the start position of every statement that
	// appears in a statement list inside a function body or function literal.
	StatementPositions(fileSet *token.FileSet, file *ast.File) []token.Position

	// TestFunctions lists top-level Test*, Benchmark*, Example* and Fuzz* functions.
	TestFunctions(file *ast.File) []string

	// ScopeForLine returns the innermost scope containing line.
	ScopeForLine(scopes []m.CodeScope, line int) (m.CodeScope, bool)

	// TopLevelNames lists the package-scope identifiers a file declares.
	// Methods are excluded since they live in their receiver's namespace.
	TopLevelNames(file *ast.File) []string
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.ParseComments|parser.SkipObjectResolution)
}

// ExtractScopes records every function and method declaration.
func (a *LocalGoFileAdapter) ExtractScopes(fileSet *token.FileSet, file *ast.File) []m.CodeScope {
	var scopes []m.CodeScope

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}

		scope := m.CodeScope{
			Type:      m.ScopeFunction,
			Name:      fn.Name.Name,
			StartLine: fileSet.Position(fn.Pos()).Line,
			EndLine:   fileSet.Position(fn.End()).Line,
		}

		switch {
		case fn.Recv != nil && len(fn.Recv.List) > 0:
			scope.Type = m.ScopeMethod
			scope.Name = receiverName(fn.Recv.List[0].Type) + "." + fn.Name.Name
		case fn.Name.Name == "init":
			scope.Type = m.ScopeInit
		}

		scopes = append(scopes, scope)
	}

	return scopes
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return "*" + receiverName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	default:
		return "?"
	}
}

// StatementPositions walks function bodies and literals collecting statement starts.
func (a *LocalGoFileAdapter) StatementPositions(fileSet *token.FileSet, file *ast.File) []token.Position {
	var positions []token.Position

	collect := func(list []ast.Stmt) {
		for _, stmt := range list {
			switch stmt.(type) {
			case *ast.BlockStmt, *ast.EmptyStmt, *ast.CaseClause, *ast.CommClause:
				continue
			}

			positions = append(positions, fileSet.Position(stmt.Pos()))
		}
	}

	walk := func(body *ast.BlockStmt) {
		ast.Inspect(body, func(node ast.Node) bool {
			switch n := node.(type) {
			case *ast.BlockStmt:
				collect(n.List)
			case *ast.CaseClause:
				collect(n.Body)
			case *ast.CommClause:
				collect(n.Body)
			}

			return true
		})
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Body != nil {
				walk(d.Body)
			}
		case *ast.GenDecl:
			// var f = func() {...}
			ast.Inspect(d, func(node ast.Node) bool {
				if lit, ok := node.(*ast.FuncLit); ok {
					walk(lit.Body)
					return false
				}

				return true
			})
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Line != positions[j].Line {
			return positions[i].Line < positions[j].Line
		}

		return positions[i].Column < positions[j].Column
	})

	return positions
}

// TestFunctions lists the names go test would treat as test entry points.
func (a *LocalGoFileAdapter) TestFunctions(file *ast.File) []string {
	var names []string

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}

		name := fn.Name.Name
		for _, prefix := range []string{"Test", "Benchmark", "Example", "Fuzz"} {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
				break
			}
		}
	}

	return names
}

// ScopeForLine returns the narrowest scope that contains line.
func (a *LocalGoFileAdapter) ScopeForLine(scopes []m.CodeScope, line int) (m.CodeScope, bool) {
	var (
		best  m.CodeScope
		found bool
	)

	for _, scope := range scopes {
		if !scope.Contains(line) {
			continue
		}

		if !found || scope.EndLine-scope.StartLine < best.EndLine-best.StartLine {
			best = scope
			found = true
		}
	}

	return best, found
}

// TopLevelNames collects function, type, var and const names declared at package scope.
func (a *LocalGoFileAdapter) TopLevelNames(file *ast.File) []string {
	var names []string

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name != "init" && d.Name.Name != "_" {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				case *ast.ValueSpec:
					for _, ident := range s.Names {
						if ident.Name != "_" {
							names = append(names, ident.Name)
						}
					}
				}
			}
		}
	}

	sort.Strings(names)

	return names
}
