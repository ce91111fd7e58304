package token

// Type represents the type of a token.
type Type string

// Token is one element of the ordered token stream the front end consumes.
// Tokens are produced once by the scanner and are immutable afterwards.
type Token struct {
	Type    Type
	Line    int    // 1-based source line
	Literal string // payload for literal-bearing tokens, otherwise the lexeme
}

// Token type constants
const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"
	BREAK   Type = "BREAK" // batch separator (blank line)

	// Identifiers and literals
	IDENT    Type = "IDENT"    // add, x, foldl
	CTOR     Type = "CTOR"     // Some, Pair (uppercase-initial constructor)
	TYPEVAR  Type = "TYPEVAR"  // 'a
	INT      Type = "INT"      // 42
	FLOAT    Type = "FLOAT"    // 3.14
	STRING   Type = "STRING"   // "hello" (UTF-8 binary)
	CHARLIST Type = "CHARLIST" // c"hello"
	ATOM     Type = "ATOM"     // :ok

	// Integer operators
	PLUS    Type = "+"
	MINUS   Type = "-"
	STAR    Type = "*"
	SLASH   Type = "/"
	PERCENT Type = "%"

	// Float operators (lexically distinct from the integer family)
	FPLUS  Type = "+."
	FMINUS Type = "-."
	FSTAR  Type = "*."
	FSLASH Type = "/."

	// Comparison operators
	EQEQ Type = "=="
	NEQ  Type = "!="
	LT   Type = "<"
	GT   Type = ">"
	LE   Type = "<="
	GE   Type = ">="

	// Structure and punctuation
	ASSIGN     Type = "="
	ARROW      Type = "->"
	FATARROW   Type = "=>"
	PIPE       Type = "|"
	CONS       Type = "::"
	COLON      Type = ":"
	COMMA      Type = ","
	UNDERSCORE Type = "_"
	LPAREN     Type = "("
	RPAREN     Type = ")"
	LBRACKET   Type = "["
	RBRACKET   Type = "]"
	MAPOPEN    Type = "#{"
	RBRACE     Type = "}"
	BINOPEN    Type = "<<"
	BINCLOSE   Type = ">>"

	// Keywords
	MODULE  Type = "MODULE"
	EXPORT  Type = "EXPORT"
	LET     Type = "LET"
	IN      Type = "IN"
	MATCH   Type = "MATCH"
	WITH    Type = "WITH"
	TYPE    Type = "TYPE"
	TEST    Type = "TEST"
	SPAWN   Type = "SPAWN"
	SEND    Type = "SEND"
	RECEIVE Type = "RECEIVE"
	BEAM    Type = "BEAM"
	TRUE    Type = "TRUE"
	FALSE   Type = "FALSE"
)

var keywords = map[string]Type{
	"module":  MODULE,
	"export":  EXPORT,
	"let":     LET,
	"in":      IN,
	"match":   MATCH,
	"with":    WITH,
	"type":    TYPE,
	"test":    TEST,
	"spawn":   SPAWN,
	"send":    SEND,
	"receive": RECEIVE,
	"beam":    BEAM,
	"true":    TRUE,
	"false":   FALSE,
}

// LookupIdent checks if the identifier is a keyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
