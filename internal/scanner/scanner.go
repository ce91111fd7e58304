// Package scanner turns Vesper source text into the ordered token stream
// consumed by the parser. The front end proper never re-tokenizes raw text;
// everything downstream of this package operates on []token.Token only.
package scanner

import (
	"fmt"

	"github.com/vesper-lang/vesper/internal/token"
)

// Scanner produces tokens from a source string.
type Scanner struct {
	input []rune
	pos   int
	line  int

	// newlines seen since the last emitted token; two or more mark a
	// batch boundary.
	pendingNewlines int
}

// New returns a scanner over the provided source input.
func New(input string) *Scanner {
	return &Scanner{input: []rune(input), line: 1}
}

// Scan tokenizes the entire input. A BREAK token is emitted between
// batches (separated by one or more blank lines); the stream always ends
// with EOF.
func Scan(input string) ([]token.Token, error) {
	s := New(input)
	var toks []token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func (s *Scanner) peek() rune {
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

func (s *Scanner) peekAt(offset int) rune {
	if s.pos+offset >= len(s.input) {
		return 0
	}
	return s.input[s.pos+offset]
}

func (s *Scanner) advance() rune {
	ch := s.input[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.pendingNewlines++
	}
	return ch
}

// skipTrivia consumes whitespace and line comments, tracking blank lines.
func (s *Scanner) skipTrivia() {
	for s.pos < len(s.input) {
		ch := s.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.advance()
		case ch == '-' && s.peekAt(1) == '-':
			for s.pos < len(s.input) && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token in the stream.
func (s *Scanner) Next() (token.Token, error) {
	s.skipTrivia()

	if s.pendingNewlines >= 2 && s.pos < len(s.input) {
		s.pendingNewlines = 0
		return token.Token{Type: token.BREAK, Line: s.line}, nil
	}
	s.pendingNewlines = 0

	if s.pos >= len(s.input) {
		return token.Token{Type: token.EOF, Line: s.line}, nil
	}

	line := s.line
	ch := s.peek()

	switch {
	case isLower(ch) || ch == '_':
		return s.scanIdent(line), nil
	case isUpper(ch):
		return s.scanCtor(line), nil
	case isDigit(ch):
		return s.scanNumber(line), nil
	case ch == '"':
		return s.scanString(token.STRING, line)
	case ch == '\'':
		return s.scanTypeVar(line)
	case ch == ':':
		return s.scanColon(line), nil
	default:
		return s.scanOperator(line)
	}
}

func (s *Scanner) scanIdent(line int) token.Token {
	start := s.pos
	for s.pos < len(s.input) && isIdentRune(s.peek()) {
		s.advance()
	}
	lit := string(s.input[start:s.pos])

	if lit == "_" {
		return token.Token{Type: token.UNDERSCORE, Line: line, Literal: lit}
	}
	// Character lists are written c"...".
	if lit == "c" && s.peek() == '"' {
		tok, err := s.scanString(token.CHARLIST, line)
		if err == nil {
			return tok
		}
		return token.Token{Type: token.ILLEGAL, Line: line, Literal: lit}
	}
	return token.Token{Type: token.LookupIdent(lit), Line: line, Literal: lit}
}

func (s *Scanner) scanCtor(line int) token.Token {
	start := s.pos
	for s.pos < len(s.input) && isIdentRune(s.peek()) {
		s.advance()
	}
	return token.Token{Type: token.CTOR, Line: line, Literal: string(s.input[start:s.pos])}
}

func (s *Scanner) scanNumber(line int) token.Token {
	start := s.pos
	for s.pos < len(s.input) && isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for s.pos < len(s.input) && isDigit(s.peek()) {
			s.advance()
		}
		return token.Token{Type: token.FLOAT, Line: line, Literal: string(s.input[start:s.pos])}
	}
	return token.Token{Type: token.INT, Line: line, Literal: string(s.input[start:s.pos])}
}

func (s *Scanner) scanString(tt token.Type, line int) (token.Token, error) {
	s.advance() // opening quote
	var out []rune
	for {
		if s.pos >= len(s.input) {
			return token.Token{}, fmt.Errorf("line %d: unterminated string literal", line)
		}
		ch := s.advance()
		if ch == '"' {
			return token.Token{Type: tt, Line: line, Literal: string(out)}, nil
		}
		if ch == '\\' {
			if s.pos >= len(s.input) {
				return token.Token{}, fmt.Errorf("line %d: unterminated string literal", line)
			}
			esc := s.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				return token.Token{}, fmt.Errorf("line %d: unknown escape '\\%c'", line, esc)
			}
			continue
		}
		out = append(out, ch)
	}
}

func (s *Scanner) scanTypeVar(line int) (token.Token, error) {
	s.advance() // quote
	if !isLower(s.peek()) {
		return token.Token{}, fmt.Errorf("line %d: expected type variable name after '", line)
	}
	start := s.pos
	for s.pos < len(s.input) && isIdentRune(s.peek()) {
		s.advance()
	}
	return token.Token{Type: token.TYPEVAR, Line: line, Literal: string(s.input[start:s.pos])}, nil
}

func (s *Scanner) scanColon(line int) token.Token {
	s.advance() // ':'
	if s.peek() == ':' {
		s.advance()
		return token.Token{Type: token.CONS, Line: line, Literal: "::"}
	}
	if isLower(s.peek()) {
		start := s.pos
		for s.pos < len(s.input) && isIdentRune(s.peek()) {
			s.advance()
		}
		return token.Token{Type: token.ATOM, Line: line, Literal: string(s.input[start:s.pos])}
	}
	return token.Token{Type: token.COLON, Line: line, Literal: ":"}
}

// two-rune operators, checked before their one-rune prefixes
var doubleOps = []struct {
	lexeme string
	tt     token.Type
}{
	{"+.", token.FPLUS},
	{"-.", token.FMINUS},
	{"*.", token.FSTAR},
	{"/.", token.FSLASH},
	{"==", token.EQEQ},
	{"!=", token.NEQ},
	{"<=", token.LE},
	{">=", token.GE},
	{"<<", token.BINOPEN},
	{">>", token.BINCLOSE},
	{"->", token.ARROW},
	{"=>", token.FATARROW},
	{"#{", token.MAPOPEN},
}

var singleOps = map[rune]token.Type{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'<': token.LT,
	'>': token.GT,
	'=': token.ASSIGN,
	'|': token.PIPE,
	',': token.COMMA,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	'}': token.RBRACE,
}

func (s *Scanner) scanOperator(line int) (token.Token, error) {
	for _, op := range doubleOps {
		runes := []rune(op.lexeme)
		if s.peek() == runes[0] && s.peekAt(1) == runes[1] {
			s.advance()
			s.advance()
			return token.Token{Type: op.tt, Line: line, Literal: op.lexeme}, nil
		}
	}
	ch := s.peek()
	if tt, ok := singleOps[ch]; ok {
		s.advance()
		return token.Token{Type: tt, Line: line, Literal: string(ch)}, nil
	}
	s.advance()
	return token.Token{}, fmt.Errorf("line %d: illegal character %q", line, ch)
}

func isLower(ch rune) bool { return ch >= 'a' && ch <= 'z' }
func isUpper(ch rune) bool { return ch >= 'A' && ch <= 'Z' }
func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isIdentRune(ch rune) bool {
	return isLower(ch) || isUpper(ch) || isDigit(ch) || ch == '_'
}
