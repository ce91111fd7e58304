// Package parser turns an ordered token stream into top-level AST nodes.
//
// The stream is divided into batches by BREAK markers; Next parses exactly
// one top-level form per batch. The parser never re-tokenizes and fails
// fast: the first offending token aborts the current batch with a syntax
// diagnostic.
package parser

import (
	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/token"
)

// Operator precedence, loosest to tightest. Application by juxtaposition
// binds tighter than any operator and is handled structurally.
const (
	precLowest  = iota
	precCompare // == != < > <= >=
	precCons    // :: (right-associative)
	precSum     // + - +. -.
	precProduct // * / % *. /.
)

var precedences = map[token.Type]int{
	token.EQEQ:    precCompare,
	token.NEQ:     precCompare,
	token.LT:      precCompare,
	token.GT:      precCompare,
	token.LE:      precCompare,
	token.GE:      precCompare,
	token.CONS:    precCons,
	token.PLUS:    precSum,
	token.MINUS:   precSum,
	token.FPLUS:   precSum,
	token.FMINUS:  precSum,
	token.STAR:    precProduct,
	token.SLASH:   precProduct,
	token.PERCENT: precProduct,
	token.FSTAR:   precProduct,
	token.FSLASH:  precProduct,
}

// Parser consumes a token stream one batch at a time.
// Invariants:
//   - cur always reflects the token under examination and peek the next
//     one; the pair is the parser's sole lookahead window and is only
//     mutated via advance. lookahead(n) may inspect further tokens but
//     never consumes them.
//   - Every error path reports the offending token and its line; the
//     parser never guesses past an unexpected token.
type Parser struct {
	toks []token.Token
	pos  int // index of cur within toks
	cur  token.Token
	peek token.Token
}

// New returns a parser over the provided token stream.
func New(toks []token.Token) *Parser {
	p := &Parser{toks: toks, pos: -2}
	// Seed cur/peek.
	p.advance()
	p.advance()
	return p
}

// ParseAll parses every batch in the stream.
func ParseAll(toks []token.Token) ([]ast.Node, error) {
	p := New(toks)
	var nodes []ast.Node
	for {
		n, err := p.Next()
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nodes, nil
		}
		nodes = append(nodes, n)
	}
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.pos++
	if p.pos+1 < len(p.toks) {
		p.peek = p.toks[p.pos+1]
	} else {
		p.peek = token.Token{Type: token.EOF, Line: p.lastLine()}
	}
}

func (p *Parser) lastLine() int {
	if len(p.toks) == 0 {
		return 0
	}
	return p.toks[len(p.toks)-1].Line
}

// lookahead returns the token n positions after cur without consuming it.
func (p *Parser) lookahead(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return token.Token{Type: token.EOF, Line: p.lastLine()}
}

// expect consumes and returns cur if it has the wanted type.
func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if p.cur.Type != tt {
		return token.Token{}, p.errUnexpected(string(tt))
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) errUnexpected(wanted string) error {
	return diag.New(diag.StageParser, diag.CodeSyntaxUnexpectedToken, p.cur.Line,
		"unexpected token %s %q, expected %s", p.cur.Type, p.cur.Literal, wanted)
}

// Next parses one top-level form from the current batch, or returns
// (nil, nil) once the stream is exhausted. A batch holding anything that
// is not one of {module, export, type, test, function definition} parses
// as a bare expression; the assembler rejects it as malformed, carrying
// the offending parsed value.
func (p *Parser) Next() (ast.Node, error) {
	for p.cur.Type == token.BREAK {
		p.advance()
	}
	if p.cur.Type == token.EOF {
		return nil, nil
	}

	var (
		n   ast.Node
		err error
	)
	switch p.cur.Type {
	case token.MODULE:
		n, err = p.parseModuleDecl()
	case token.EXPORT:
		n, err = p.parseExportDecl()
	case token.TYPE:
		n, err = p.parseTypeDecl()
	case token.TEST:
		n, err = p.parseTestDecl()
	case token.IDENT:
		if p.funDefAhead() {
			n, err = p.parseFunDecl()
		} else {
			n, err = p.parseExpr(precLowest)
		}
	default:
		n, err = p.parseExpr(precLowest)
	}
	if err != nil {
		return nil, err
	}

	if p.cur.Type != token.BREAK && p.cur.Type != token.EOF {
		return nil, p.errUnexpected("end of batch")
	}
	return n, nil
}

// funDefAhead reports whether the current batch starts a function
// definition: an identifier followed by parameter symbols (or the unit
// parameter) up to '='.
func (p *Parser) funDefAhead() bool {
	i := 1 // token after the leading identifier
	for {
		switch p.lookahead(i).Type {
		case token.ASSIGN:
			return true
		case token.IDENT:
			i++
		case token.LPAREN:
			if p.lookahead(i + 1).Type != token.RPAREN {
				return false
			}
			i += 2
		default:
			return false
		}
	}
}

// atomStart reports whether tt can begin an atomic expression, which is
// what decides how far application by juxtaposition reaches.
func atomStart(tt token.Type) bool {
	switch tt {
	case token.INT, token.FLOAT, token.STRING, token.CHARLIST, token.ATOM,
		token.TRUE, token.FALSE, token.IDENT, token.CTOR, token.UNDERSCORE,
		token.LPAREN, token.LBRACKET, token.MAPOPEN, token.BINOPEN:
		return true
	default:
		return false
	}
}

// isLiteral reports whether e is a literal or structural value, which can
// never be applied to arguments.
func isLiteral(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.AtomLit, *ast.StringLit,
		*ast.CharListLit, *ast.BoolLit, *ast.UnitLit, *ast.WildcardExpr,
		*ast.TupleExpr, *ast.ListExpr, *ast.ConsExpr, *ast.MapExpr,
		*ast.BinaryExpr:
		return true
	default:
		return false
	}
}
