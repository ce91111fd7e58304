package parser

import (
	"errors"
	"testing"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/scanner"
)

func parse(t *testing.T, src string) []ast.Node {
	t.Helper()
	toks, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	nodes, err := ParseAll(toks)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return nodes
}

func parseErr(t *testing.T, src string) *diag.Diagnostic {
	t.Helper()
	toks, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	_, err = ParseAll(toks)
	if err == nil {
		t.Fatalf("expected parse error for %q", src)
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected diagnostic, got %T: %v", err, err)
	}
	return d
}

func parseExprOf(t *testing.T, src string) ast.Expr {
	t.Helper()
	fn := parse(t, "f x = "+src)[0].(*ast.FunDecl)
	return fn.Body
}

func TestParseModuleAndExport(t *testing.T) {
	nodes := parse(t, "module my_mod\n\nexport add/2, id/1")
	mod, ok := nodes[0].(*ast.ModuleDecl)
	if !ok || mod.Name != "my_mod" {
		t.Fatalf("expected module decl my_mod, got %#v", nodes[0])
	}
	exp, ok := nodes[1].(*ast.ExportDecl)
	if !ok || len(exp.Funs) != 2 {
		t.Fatalf("expected export with 2 refs, got %#v", nodes[1])
	}
	if exp.Funs[0] != (ast.FunRef{Name: "add", Arity: 2}) {
		t.Errorf("unexpected first export: %+v", exp.Funs[0])
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	nodes := parse(t, "add x y = x + y")
	fn, ok := nodes[0].(*ast.FunDecl)
	if !ok {
		t.Fatalf("expected FunDecl, got %T", nodes[0])
	}
	if fn.Name != "add" || fn.Arity() != 2 {
		t.Errorf("got %s/%d, want add/2", fn.Name, fn.Arity())
	}
	infix, ok := fn.Body.(*ast.InfixExpr)
	if !ok || infix.Op != "+" {
		t.Fatalf("expected + body, got %#v", fn.Body)
	}
}

func TestParseUnitParameter(t *testing.T) {
	fn := parse(t, "answer () = 42")[0].(*ast.FunDecl)
	if fn.Arity() != 1 || !fn.Params[0].Unit {
		t.Fatalf("expected one unit parameter, got %+v", fn.Params)
	}
}

func TestParseNullaryDefinitionRejected(t *testing.T) {
	d := parseErr(t, "answer = 42")
	if d.Code != diag.CodeSyntaxUnexpectedToken {
		t.Errorf("unexpected code %s", d.Code)
	}
}

func TestParseLiteralApplicationRejected(t *testing.T) {
	d := parseErr(t, "f x = 1 2")
	if d.Code != diag.CodeSyntaxInvalidApplication {
		t.Errorf("got code %s, want %s", d.Code, diag.CodeSyntaxInvalidApplication)
	}
}

func TestParseApplicationGreedy(t *testing.T) {
	app, ok := parseExprOf(t, "g a b c").(*ast.ApplyExpr)
	if !ok {
		t.Fatal("expected application")
	}
	if len(app.Args) != 3 {
		t.Errorf("got %d args, want 3", len(app.Args))
	}
}

func TestParsePrecedence(t *testing.T) {
	infix := parseExprOf(t, "1 + 2 * 3").(*ast.InfixExpr)
	if infix.Op != "+" {
		t.Fatalf("top operator is %q, want +", infix.Op)
	}
	right, ok := infix.Right.(*ast.InfixExpr)
	if !ok || right.Op != "*" {
		t.Fatalf("right operand should be *, got %#v", infix.Right)
	}
}

func TestParseComparisonLowest(t *testing.T) {
	infix := parseExprOf(t, "a + 1 < b * 2").(*ast.InfixExpr)
	if infix.Op != "<" {
		t.Fatalf("top operator is %q, want <", infix.Op)
	}
}

func TestParseConsRightAssociative(t *testing.T) {
	cons := parseExprOf(t, "1 :: 2 :: rest").(*ast.ConsExpr)
	if _, ok := cons.Head.(*ast.IntLit); !ok {
		t.Fatalf("head should be 1, got %#v", cons.Head)
	}
	tail, ok := cons.Tail.(*ast.ConsExpr)
	if !ok {
		t.Fatalf("tail should be a cons, got %#v", cons.Tail)
	}
	if _, ok := tail.Tail.(*ast.Ident); !ok {
		t.Errorf("innermost tail should be rest, got %#v", tail.Tail)
	}
}

func TestParseGroupingIsNotTuple(t *testing.T) {
	if _, ok := parseExprOf(t, "(1 + 2)").(*ast.InfixExpr); !ok {
		t.Fatal("single parenthesized expression must stay a grouping")
	}
	tup, ok := parseExprOf(t, "(1, 2)").(*ast.TupleExpr)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("expected 2-tuple, got %#v", tup)
	}
}

func TestParseUnitLiteral(t *testing.T) {
	if _, ok := parseExprOf(t, "()").(*ast.UnitLit); !ok {
		t.Fatal("expected unit literal")
	}
}

func TestParseNegativeLiterals(t *testing.T) {
	n := parseExprOf(t, "-42").(*ast.IntLit)
	if n.Value != -42 {
		t.Errorf("got %d, want -42", n.Value)
	}
	f := parseExprOf(t, "-1.5").(*ast.FloatLit)
	if f.Value != -1.5 {
		t.Errorf("got %v, want -1.5", f.Value)
	}
}

func TestParseLetBinding(t *testing.T) {
	let, ok := parseExprOf(t, "let y = x + 1 in y * 2").(*ast.LetExpr)
	if !ok {
		t.Fatal("expected let binding")
	}
	if let.Name != "y" {
		t.Errorf("bound name is %q, want y", let.Name)
	}
}

func TestParseLetFunBinding(t *testing.T) {
	lf, ok := parseExprOf(t, "let inc n = n + 1 in inc x").(*ast.LetFunExpr)
	if !ok {
		t.Fatal("expected let-fun binding")
	}
	if lf.Fun.Name != "inc" || lf.Fun.Arity() != 1 {
		t.Errorf("got %s/%d, want inc/1", lf.Fun.Name, lf.Fun.Arity())
	}
}

func TestParseMatchWithGuards(t *testing.T) {
	m, ok := parseExprOf(t, "match x with 0 -> :zero | n, is_integer n -> :pos | _ -> :other").(*ast.MatchExpr)
	if !ok {
		t.Fatal("expected match expression")
	}
	if len(m.Clauses) != 3 {
		t.Fatalf("got %d clauses, want 3", len(m.Clauses))
	}
	if m.Clauses[0].Guard != nil {
		t.Error("first clause should have no guard")
	}
	if m.Clauses[1].Guard == nil {
		t.Error("second clause should carry a guard")
	}
	if _, ok := m.Clauses[2].Pattern.(*ast.WildcardExpr); !ok {
		t.Errorf("third pattern should be wildcard, got %#v", m.Clauses[2].Pattern)
	}
}

func TestParseReceive(t *testing.T) {
	r, ok := parseExprOf(t, "receive with :stop -> 0 | n -> n").(*ast.ReceiveExpr)
	if !ok {
		t.Fatal("expected receive expression")
	}
	if len(r.Clauses) != 2 {
		t.Errorf("got %d clauses, want 2", len(r.Clauses))
	}
}

func TestParseSpawnAndSend(t *testing.T) {
	sp, ok := parseExprOf(t, "spawn loop 0").(*ast.SpawnExpr)
	if !ok {
		t.Fatal("expected spawn expression")
	}
	if id, ok := sp.Fun.(*ast.Ident); !ok || id.Name != "loop" {
		t.Errorf("spawn target should be loop, got %#v", sp.Fun)
	}
	if len(sp.Args) != 1 {
		t.Errorf("got %d spawn args, want 1", len(sp.Args))
	}

	snd, ok := parseExprOf(t, "send :inc p").(*ast.SendExpr)
	if !ok {
		t.Fatal("expected send expression")
	}
	if _, ok := snd.Msg.(*ast.AtomLit); !ok {
		t.Errorf("message should be an atom, got %#v", snd.Msg)
	}
}

func TestParseFFI(t *testing.T) {
	ffi, ok := parseExprOf(t, "beam :erlang :round [x] with n, is_integer n -> n").(*ast.FFIExpr)
	if !ok {
		t.Fatal("expected foreign call")
	}
	if ffi.Module != "erlang" || ffi.Fun != "round" {
		t.Errorf("got %s:%s, want erlang:round", ffi.Module, ffi.Fun)
	}
	if len(ffi.Args) != 1 || len(ffi.Clauses) != 1 {
		t.Errorf("got %d args and %d clauses, want 1 and 1", len(ffi.Args), len(ffi.Clauses))
	}
}

func TestParseTypeDecl(t *testing.T) {
	nodes := parse(t, "type maybe 'a = Nothing | Just 'a")
	td, ok := nodes[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("expected type decl, got %T", nodes[0])
	}
	if td.Name != "maybe" || len(td.Params) != 1 || len(td.Members) != 2 {
		t.Fatalf("unexpected decl shape: %+v", td)
	}
	ctor, ok := td.Members[1].(*ast.CtorMember)
	if !ok || ctor.Name != "Just" || ctor.Arg == nil {
		t.Errorf("second member should be Just 'a, got %#v", td.Members[1])
	}
}

func TestParseUnionTypeDecl(t *testing.T) {
	td := parse(t, "type int_or_float = int | float")[0].(*ast.TypeDecl)
	if len(td.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(td.Members))
	}
	ref, ok := td.Members[0].(*ast.TypeRef)
	if !ok || ref.Name != "int" {
		t.Errorf("first member should be int, got %#v", td.Members[0])
	}
}

func TestParseTestDecl(t *testing.T) {
	td, ok := parse(t, `test "adds" = 1 + 1`)[0].(*ast.TestDecl)
	if !ok {
		t.Fatal("expected test decl")
	}
	if td.Label != "adds" {
		t.Errorf("label is %q, want adds", td.Label)
	}
}

func TestParseMapLiteral(t *testing.T) {
	m, ok := parseExprOf(t, "#{:a => 1, :b => 2}").(*ast.MapExpr)
	if !ok {
		t.Fatal("expected map literal")
	}
	if len(m.Pairs) != 2 {
		t.Errorf("got %d pairs, want 2", len(m.Pairs))
	}
}

func TestParseBinaryLiteral(t *testing.T) {
	b, ok := parseExprOf(t, `<<"hi": type=utf8, x: type=int, size=8, sign=true>>`).(*ast.BinaryExpr)
	if !ok {
		t.Fatal("expected binary literal")
	}
	if len(b.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(b.Segments))
	}
	if b.Segments[0].Type != "utf8" {
		t.Errorf("first segment type is %q, want utf8", b.Segments[0].Type)
	}
	seg := b.Segments[1]
	if seg.Type != "int" || seg.Size != 8 || !seg.Signed {
		t.Errorf("unexpected second segment: %+v", seg)
	}
}

func TestParseMultipleBatches(t *testing.T) {
	nodes := parse(t, "module m\n\nf x = x\n\ng y = f y\n")
	if len(nodes) != 3 {
		t.Fatalf("got %d top-level nodes, want 3", len(nodes))
	}
}

func TestParseTwoFormsOneBatchRejected(t *testing.T) {
	d := parseErr(t, "f x = x\ng y = y")
	if d.Code != diag.CodeSyntaxUnexpectedToken {
		t.Errorf("unexpected code %s", d.Code)
	}
}

func TestParseBareExpressionBatch(t *testing.T) {
	nodes := parse(t, "1 + 2")
	if _, ok := nodes[0].(*ast.InfixExpr); !ok {
		t.Fatalf("expected bare expression node, got %T", nodes[0])
	}
}
