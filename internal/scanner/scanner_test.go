package scanner

import (
	"testing"

	"github.com/vesper-lang/vesper/internal/token"
)

func tokenTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	toks, err := Scan(src)
	if err != nil {
		t.Fatalf("Scan(%q) failed: %v", src, err)
	}
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func expectTypes(t *testing.T, src string, want []token.Type) {
	t.Helper()
	got := tokenTypes(t, src)
	if len(got) != len(want) {
		t.Fatalf("Scan(%q): got %d tokens %v, want %d %v", src, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Scan(%q): token %d is %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestScanFunctionDefinition(t *testing.T) {
	expectTypes(t, "add x y = x + y", []token.Type{
		token.IDENT, token.IDENT, token.IDENT, token.ASSIGN,
		token.IDENT, token.PLUS, token.IDENT, token.EOF,
	})
}

func TestScanKeywords(t *testing.T) {
	expectTypes(t, "module m let in match with type test spawn send receive beam true false", []token.Type{
		token.MODULE, token.IDENT, token.LET, token.IN, token.MATCH, token.WITH,
		token.TYPE, token.TEST, token.SPAWN, token.SEND, token.RECEIVE, token.BEAM,
		token.TRUE, token.FALSE, token.EOF,
	})
}

func TestScanFloatOperatorsAreDistinct(t *testing.T) {
	expectTypes(t, "a +. b -. c *. d /. e", []token.Type{
		token.IDENT, token.FPLUS, token.IDENT, token.FMINUS, token.IDENT,
		token.FSTAR, token.IDENT, token.FSLASH, token.IDENT, token.EOF,
	})
}

func TestScanBreakBetweenBatches(t *testing.T) {
	src := "module m\n\nadd x y = x + y\n\n\nexport add/2\n"
	expectTypes(t, src, []token.Type{
		token.MODULE, token.IDENT,
		token.BREAK,
		token.IDENT, token.IDENT, token.IDENT, token.ASSIGN,
		token.IDENT, token.PLUS, token.IDENT,
		token.BREAK,
		token.EXPORT, token.IDENT, token.SLASH, token.INT,
		token.EOF,
	})
}

func TestScanNoBreakOnSingleNewline(t *testing.T) {
	got := tokenTypes(t, "f x =\n  x + 1\n")
	for _, tt := range got {
		if tt == token.BREAK {
			t.Fatalf("single newline produced a BREAK: %v", got)
		}
	}
}

func TestScanTrailingBlankLinesNoBreak(t *testing.T) {
	got := tokenTypes(t, "f x = x\n\n\n")
	if got[len(got)-1] != token.EOF {
		t.Fatalf("stream must end with EOF: %v", got)
	}
	for _, tt := range got {
		if tt == token.BREAK {
			t.Fatalf("trailing blank lines produced a BREAK: %v", got)
		}
	}
}

func TestScanAtoms(t *testing.T) {
	toks, err := Scan(":ok :error")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if toks[0].Type != token.ATOM || toks[0].Literal != "ok" {
		t.Errorf("got %s %q, want ATOM ok", toks[0].Type, toks[0].Literal)
	}
	if toks[1].Type != token.ATOM || toks[1].Literal != "error" {
		t.Errorf("got %s %q, want ATOM error", toks[1].Type, toks[1].Literal)
	}
}

func TestScanConsVersusAtom(t *testing.T) {
	expectTypes(t, "x :: xs", []token.Type{
		token.IDENT, token.CONS, token.IDENT, token.EOF,
	})
}

func TestScanCharList(t *testing.T) {
	toks, err := Scan(`c"hello"`)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if toks[0].Type != token.CHARLIST || toks[0].Literal != "hello" {
		t.Errorf("got %s %q, want CHARLIST hello", toks[0].Type, toks[0].Literal)
	}
}

func TestScanStringEscapes(t *testing.T) {
	toks, err := Scan(`"a\nb\t\"c\""`)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if toks[0].Literal != "a\nb\t\"c\"" {
		t.Errorf("unexpected literal %q", toks[0].Literal)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	if _, err := Scan(`"abc`); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestScanNumbers(t *testing.T) {
	toks, err := Scan("42 3.14 7")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	want := []struct {
		tt  token.Type
		lit string
	}{
		{token.INT, "42"},
		{token.FLOAT, "3.14"},
		{token.INT, "7"},
	}
	for i, w := range want {
		if toks[i].Type != w.tt || toks[i].Literal != w.lit {
			t.Errorf("token %d: got %s %q, want %s %q", i, toks[i].Type, toks[i].Literal, w.tt, w.lit)
		}
	}
}

func TestScanTypeVar(t *testing.T) {
	toks, err := Scan("type pair 'a 'b = ('a, 'b)")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if toks[2].Type != token.TYPEVAR || toks[2].Literal != "a" {
		t.Errorf("got %s %q, want TYPEVAR a", toks[2].Type, toks[2].Literal)
	}
}

func TestScanComments(t *testing.T) {
	expectTypes(t, "f x = x -- identity\n", []token.Type{
		token.IDENT, token.IDENT, token.ASSIGN, token.IDENT, token.EOF,
	})
}

func TestScanMapAndBinaryDelimiters(t *testing.T) {
	expectTypes(t, `#{:a => 1} <<"x": type=utf8>>`, []token.Type{
		token.MAPOPEN, token.ATOM, token.FATARROW, token.INT, token.RBRACE,
		token.BINOPEN, token.STRING, token.COLON, token.TYPE, token.ASSIGN,
		token.IDENT, token.BINCLOSE, token.EOF,
	})
}

func TestScanLineNumbers(t *testing.T) {
	toks, err := Scan("a\nb\n\nc")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	lines := map[string]int{}
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			lines[tok.Literal] = tok.Line
		}
	}
	if lines["a"] != 1 || lines["b"] != 2 || lines["c"] != 4 {
		t.Errorf("unexpected line numbers: %v", lines)
	}
}

func TestScanIllegalCharacter(t *testing.T) {
	if _, err := Scan("f ? x"); err == nil {
		t.Fatal("expected error for illegal character")
	}
}
