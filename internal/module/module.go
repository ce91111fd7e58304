// Package module assembles the sequence of top-level parses produced for
// one batch stream into a single module record.
package module

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
)

// Module is an assembled compilation unit. Once assembled, the function
// and type tables are read-only; inference annotates the nodes they hold
// but never restructures them.
type Module struct {
	Name      string
	Exports   *set.Set[ast.FunRef]
	Functions []*ast.FunDecl
	Types     []*ast.TypeDecl
	Tests     []*ast.TestDecl
}

// Function returns the defined function with the given name and arity.
func (m *Module) Function(name string, arity int) *ast.FunDecl {
	for _, f := range m.Functions {
		if f.Name == name && f.Arity() == arity {
			return f
		}
	}
	return nil
}

// FunctionByName returns the first defined function with the given name,
// regardless of arity.
func (m *Module) FunctionByName(name string) *ast.FunDecl {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Assemble folds top-level nodes into one module record. The first module
// declaration establishes the name; export declarations accumulate with
// duplicates tolerated; functions, types and tests accumulate in source
// order. Assembly fails whole on the first rule violation.
func Assemble(nodes []ast.Node) (*Module, error) {
	m := &Module{Exports: set.New[ast.FunRef](0)}

	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.ModuleDecl:
			if m.Name == "" {
				m.Name = n.Name
				continue
			}
			if m.Name != n.Name {
				return nil, diag.New(diag.StageAssemble, diag.CodeAsmModuleRename, n.Line(),
					"module renamed from %q to %q", m.Name, n.Name)
			}
			return nil, diag.New(diag.StageAssemble, diag.CodeAsmModuleRename, n.Line(),
				"duplicate module declaration %q", n.Name)

		case *ast.ExportDecl:
			for _, ref := range n.Funs {
				m.Exports.Insert(ref)
			}

		case *ast.FunDecl:
			if prev := m.Function(n.Name, n.Arity()); prev != nil {
				return nil, diag.New(diag.StageAssemble, diag.CodeAsmDuplicateFunction, n.Line(),
					"duplicate definition of %s/%d (first defined on line %d)", n.Name, n.Arity(), prev.Line())
			}
			m.Functions = append(m.Functions, n)

		case *ast.TypeDecl:
			m.Types = append(m.Types, n)

		case *ast.TestDecl:
			m.Tests = append(m.Tests, n)

		default:
			return nil, diag.New(diag.StageAssemble, diag.CodeAsmMalformedTopLevel, n.Line(),
				"malformed top-level item %T", n)
		}
	}

	if m.Name == "" {
		return nil, diag.New(diag.StageAssemble, diag.CodeAsmMissingModule, 0,
			"no module declaration found")
	}

	for ref := range m.Exports.Items() {
		if m.Function(ref.Name, ref.Arity) == nil {
			return nil, diag.New(diag.StageAssemble, diag.CodeAsmUnresolvedExport, 0,
				"exported function %s/%d is not defined", ref.Name, ref.Arity)
		}
	}

	return m, nil
}
