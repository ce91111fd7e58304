package module

import (
	"errors"
	"testing"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/parser"
	"github.com/vesper-lang/vesper/internal/scanner"
)

func assemble(t *testing.T, src string) (*Module, error) {
	t.Helper()
	toks, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	nodes, err := parser.ParseAll(toks)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return Assemble(nodes)
}

func assembleErr(t *testing.T, src string) *diag.Diagnostic {
	t.Helper()
	_, err := assemble(t, src)
	if err == nil {
		t.Fatalf("expected assembly error for %q", src)
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected diagnostic, got %T: %v", err, err)
	}
	return d
}

func TestAssembleBasicModule(t *testing.T) {
	m, err := assemble(t, "module calc\n\nexport add/2\n\nadd x y = x + y\n\ntest \"adds\" = add 1 2")
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if m.Name != "calc" {
		t.Errorf("module name is %q, want calc", m.Name)
	}
	if len(m.Functions) != 1 || len(m.Tests) != 1 {
		t.Errorf("got %d functions and %d tests, want 1 and 1", len(m.Functions), len(m.Tests))
	}
	if !m.Exports.Contains(ast.FunRef{Name: "add", Arity: 2}) {
		t.Error("add/2 should be exported")
	}
}

func TestAssembleMissingModule(t *testing.T) {
	d := assembleErr(t, "add x y = x + y")
	if d.Code != diag.CodeAsmMissingModule {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeAsmMissingModule)
	}
}

func TestAssembleModuleRename(t *testing.T) {
	d := assembleErr(t, "module a\n\nmodule b")
	if d.Code != diag.CodeAsmModuleRename {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeAsmModuleRename)
	}
}

func TestAssembleDuplicateModuleDecl(t *testing.T) {
	d := assembleErr(t, "module a\n\nmodule a")
	if d.Code != diag.CodeAsmModuleRename {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeAsmModuleRename)
	}
}

func TestAssembleDuplicateFunction(t *testing.T) {
	d := assembleErr(t, "module m\n\nf x = x\n\nf y = y")
	if d.Code != diag.CodeAsmDuplicateFunction {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeAsmDuplicateFunction)
	}
}

func TestAssembleSameNameDifferentArity(t *testing.T) {
	m, err := assemble(t, "module m\n\nf x = x\n\nf x y = x")
	if err != nil {
		t.Fatalf("distinct arities must coexist: %v", err)
	}
	if m.Function("f", 1) == nil || m.Function("f", 2) == nil {
		t.Error("both f/1 and f/2 should be defined")
	}
}

func TestAssembleUnresolvedExport(t *testing.T) {
	d := assembleErr(t, "module m\n\nexport missing/1\n\nf x = x")
	if d.Code != diag.CodeAsmUnresolvedExport {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeAsmUnresolvedExport)
	}
}

func TestAssembleExportArityMatters(t *testing.T) {
	d := assembleErr(t, "module m\n\nexport f/2\n\nf x = x")
	if d.Code != diag.CodeAsmUnresolvedExport {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeAsmUnresolvedExport)
	}
}

func TestAssembleDuplicateExportTolerated(t *testing.T) {
	m, err := assemble(t, "module m\n\nexport f/1, f/1\n\nexport f/1\n\nf x = x")
	if err != nil {
		t.Fatalf("duplicate exports must be tolerated: %v", err)
	}
	if m.Exports.Size() != 1 {
		t.Errorf("export set has %d entries, want 1", m.Exports.Size())
	}
}

func TestAssembleBareExpressionRejected(t *testing.T) {
	d := assembleErr(t, "module m\n\n1 + 2")
	if d.Code != diag.CodeAsmMalformedTopLevel {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeAsmMalformedTopLevel)
	}
}

func TestAssembleTypeDeclsKeepOrder(t *testing.T) {
	m, err := assemble(t, "module m\n\ntype b = int\n\ntype a = float\n\nf x = x")
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if len(m.Types) != 2 || m.Types[0].Name != "b" || m.Types[1].Name != "a" {
		t.Errorf("type declaration order must be preserved: %+v", m.Types)
	}
}

func TestFunctionByName(t *testing.T) {
	m, err := assemble(t, "module m\n\nf x = x\n\nf x y = x")
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if fn := m.FunctionByName("f"); fn == nil || fn.Arity() != 1 {
		t.Error("FunctionByName should return the first declared arity")
	}
}
