// Package ast defines the syntax tree for Vesper modules.
//
// Nodes form a closed set of variants consumed with exhaustive type
// switches by the parser, the assembler and the inference engine. Every
// expression node carries a mutable type slot, unresolved at construction
// and filled in exactly once by inference through the final substitution.
package ast

import "github.com/vesper-lang/vesper/internal/types"

// Node represents any AST node with an associated source line.
type Node interface {
	Line() int
}

// Expr represents an expression node with an inferable type.
type Expr interface {
	Node
	exprNode()
	// Type returns the resolved type, or nil while unresolved.
	Type() types.Type
	// SetType fills the node's type slot.
	SetType(types.Type)
}

// expr is the embeddable base for all expression nodes.
type expr struct {
	line int
	typ  types.Type
}

func (e *expr) Line() int            { return e.line }
func (e *expr) Type() types.Type     { return e.typ }
func (e *expr) SetType(t types.Type) { e.typ = t }
func (e *expr) exprNode()            {}

// node is the embeddable base for non-expression nodes.
type node struct {
	line int
}

func (n *node) Line() int { return n.line }

// IntLit is an integer literal.
type IntLit struct {
	expr
	Value int64
}

// NewIntLit constructs an integer literal node.
func NewIntLit(value int64, line int) *IntLit {
	return &IntLit{expr: expr{line: line}, Value: value}
}

// FloatLit is a float literal.
type FloatLit struct {
	expr
	Value float64
}

// NewFloatLit constructs a float literal node.
func NewFloatLit(value float64, line int) *FloatLit {
	return &FloatLit{expr: expr{line: line}, Value: value}
}

// AtomLit is an atom literal like :ok.
type AtomLit struct {
	expr
	Name string
}

// NewAtomLit constructs an atom literal node.
func NewAtomLit(name string, line int) *AtomLit {
	return &AtomLit{expr: expr{line: line}, Name: name}
}

// StringLit is a UTF-8 string (binary) literal.
type StringLit struct {
	expr
	Value string
}

// NewStringLit constructs a string literal node.
func NewStringLit(value string, line int) *StringLit {
	return &StringLit{expr: expr{line: line}, Value: value}
}

// CharListLit is a character-list literal, written c"...".
type CharListLit struct {
	expr
	Value string
}

// NewCharListLit constructs a character-list literal node.
func NewCharListLit(value string, line int) *CharListLit {
	return &CharListLit{expr: expr{line: line}, Value: value}
}

// BoolLit is a boolean literal.
type BoolLit struct {
	expr
	Value bool
}

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, line int) *BoolLit {
	return &BoolLit{expr: expr{line: line}, Value: value}
}

// UnitLit is the unit literal ().
type UnitLit struct {
	expr
}

// NewUnitLit constructs a unit literal node.
func NewUnitLit(line int) *UnitLit {
	return &UnitLit{expr: expr{line: line}}
}

// WildcardExpr is the wildcard pattern _.
type WildcardExpr struct {
	expr
}

// NewWildcardExpr constructs a wildcard pattern node.
func NewWildcardExpr(line int) *WildcardExpr {
	return &WildcardExpr{expr: expr{line: line}}
}

// Ident is a symbol reference, or a binding occurrence in pattern position.
type Ident struct {
	expr
	Name string
}

// NewIdent constructs an identifier node.
func NewIdent(name string, line int) *Ident {
	return &Ident{expr: expr{line: line}, Name: name}
}

// TupleExpr is an ordered sequence of elements with arity fixed at
// construction. Arity-1 tuples do not exist; single parenthesized
// expressions are grouping only and never produce this node.
type TupleExpr struct {
	expr
	Elems []Expr
}

// NewTupleExpr constructs a tuple node.
func NewTupleExpr(elems []Expr, line int) *TupleExpr {
	return &TupleExpr{expr: expr{line: line}, Elems: elems}
}

// ListExpr is a list literal [a, b, c]; Elems is empty for nil.
type ListExpr struct {
	expr
	Elems []Expr
}

// NewListExpr constructs a list literal node.
func NewListExpr(elems []Expr, line int) *ListExpr {
	return &ListExpr{expr: expr{line: line}, Elems: elems}
}

// ConsExpr is the right-associative cons h :: t. The tail may be any
// expression; well-formedness of the tail is a typing concern, not a
// syntactic one.
type ConsExpr struct {
	expr
	Head Expr
	Tail Expr
}

// NewConsExpr constructs a cons node.
func NewConsExpr(head, tail Expr, line int) *ConsExpr {
	return &ConsExpr{expr: expr{line: line}, Head: head, Tail: tail}
}

// MapPair is one key/value entry of a map literal.
type MapPair struct {
	Key Expr
	Val Expr
}

// MapExpr is a map literal #{k => v, ...}.
type MapExpr struct {
	expr
	Pairs []MapPair
}

// NewMapExpr constructs a map literal node.
func NewMapExpr(pairs []MapPair, line int) *MapExpr {
	return &MapExpr{expr: expr{line: line}, Pairs: pairs}
}

// BinSegment is one segment of a binary expression, with optional
// attributes controlling its type, size, unit, endianness and signedness.
type BinSegment struct {
	Value  Expr
	Type   string // "int", "float", "binary", "utf8"; "" defaults per value
	Size   int    // 0 when unspecified
	Unit   int    // 0 when unspecified
	Endian string // "big", "little", "native" or ""
	Signed bool
}

// BinaryExpr is a binary literal <<seg, seg>>.
type BinaryExpr struct {
	expr
	Segments []*BinSegment
}

// NewBinaryExpr constructs a binary literal node.
func NewBinaryExpr(segments []*BinSegment, line int) *BinaryExpr {
	return &BinaryExpr{expr: expr{line: line}, Segments: segments}
}

// Param is a single function parameter symbol. Unit marks the ()
// parameter used as the nullary-function workaround.
type Param struct {
	Name string
	Unit bool
	line int
}

// NewParam constructs a named parameter.
func NewParam(name string, line int) *Param {
	return &Param{Name: name, line: line}
}

// NewUnitParam constructs the () parameter.
func NewUnitParam(line int) *Param {
	return &Param{Unit: true, line: line}
}

// Line returns the parameter's source line.
func (p *Param) Line() int { return p.line }

// FunDecl is a function definition: a name, ordered parameter symbols and
// a body expression. It appears at top level and inside let-fun bindings.
type FunDecl struct {
	expr
	Name   string
	Params []*Param
	Body   Expr
}

// NewFunDecl constructs a function definition node.
func NewFunDecl(name string, params []*Param, body Expr, line int) *FunDecl {
	return &FunDecl{expr: expr{line: line}, Name: name, Params: params, Body: body}
}

// Arity returns the number of declared parameters.
func (d *FunDecl) Arity() int { return len(d.Params) }

// LetExpr is a variable binding: let name = value in body.
type LetExpr struct {
	expr
	Name  string
	Value Expr
	Body  Expr
}

// NewLetExpr constructs a variable binding node.
func NewLetExpr(name string, value, body Expr, line int) *LetExpr {
	return &LetExpr{expr: expr{line: line}, Name: name, Value: value, Body: body}
}

// LetFunExpr is a function binding: let f p1 p2 = e in body.
type LetFunExpr struct {
	expr
	Fun  *FunDecl
	Body Expr
}

// NewLetFunExpr constructs a function binding node.
func NewLetFunExpr(fun *FunDecl, body Expr, line int) *LetFunExpr {
	return &LetFunExpr{expr: expr{line: line}, Fun: fun, Body: body}
}

// ApplyExpr is function application by juxtaposition: callee a1 a2.
type ApplyExpr struct {
	expr
	Callee Expr
	Args   []Expr
}

// NewApplyExpr constructs an application node.
func NewApplyExpr(callee Expr, args []Expr, line int) *ApplyExpr {
	return &ApplyExpr{expr: expr{line: line}, Callee: callee, Args: args}
}

// CtorExpr is a type-constructor application, in expression or pattern
// position. Arg is nil for constructors without an argument.
type CtorExpr struct {
	expr
	Name string
	Arg  Expr
}

// NewCtorExpr constructs a constructor node.
func NewCtorExpr(name string, arg Expr, line int) *CtorExpr {
	return &CtorExpr{expr: expr{line: line}, Name: name, Arg: arg}
}

// InfixExpr is a binary operator application. The operator tag preserves
// the lexical family: integer and float arithmetic are distinct operators
// and are never conflated at parse time.
type InfixExpr struct {
	expr
	Op    string
	Left  Expr
	Right Expr
}

// NewInfixExpr constructs an infix operator node.
func NewInfixExpr(op string, left, right Expr, line int) *InfixExpr {
	return &InfixExpr{expr: expr{line: line}, Op: op, Left: left, Right: right}
}

// Clause is one arm of a match, receive or foreign-call form: a pattern,
// an optional guard expression and a result expression.
type Clause struct {
	node
	Pattern Expr
	Guard   Expr // nil when absent
	Result  Expr
}

// NewClause constructs a clause.
func NewClause(pattern, guard, result Expr, line int) *Clause {
	return &Clause{node: node{line: line}, Pattern: pattern, Guard: guard, Result: result}
}

// MatchExpr is match scrutinee with clause | clause.
type MatchExpr struct {
	expr
	Scrutinee Expr
	Clauses   []*Clause
}

// NewMatchExpr constructs a match node.
func NewMatchExpr(scrutinee Expr, clauses []*Clause, line int) *MatchExpr {
	return &MatchExpr{expr: expr{line: line}, Scrutinee: scrutinee, Clauses: clauses}
}

// SpawnExpr starts a process running a receiver function.
type SpawnExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// NewSpawnExpr constructs a spawn node.
func NewSpawnExpr(fun Expr, args []Expr, line int) *SpawnExpr {
	return &SpawnExpr{expr: expr{line: line}, Fun: fun, Args: args}
}

// SendExpr sends a message to a process: send msg target.
type SendExpr struct {
	expr
	Msg    Expr
	Target Expr
}

// NewSendExpr constructs a send node.
func NewSendExpr(msg, target Expr, line int) *SendExpr {
	return &SendExpr{expr: expr{line: line}, Msg: msg, Target: target}
}

// ReceiveExpr blocks on the mailbox of the enclosing function's process.
type ReceiveExpr struct {
	expr
	Clauses []*Clause
}

// NewReceiveExpr constructs a receive node.
func NewReceiveExpr(clauses []*Clause, line int) *ReceiveExpr {
	return &ReceiveExpr{expr: expr{line: line}, Clauses: clauses}
}

// FFIExpr is a foreign call: beam :mod :fn [args] with clauses. Arguments
// are never type-checked against the callee; the clauses reconstruct the
// call's apparent result type from guard predicates.
type FFIExpr struct {
	expr
	Module  string
	Fun     string
	Args    []Expr
	Clauses []*Clause
}

// NewFFIExpr constructs a foreign-call node.
func NewFFIExpr(mod, fun string, args []Expr, clauses []*Clause, line int) *FFIExpr {
	return &FFIExpr{expr: expr{line: line}, Module: mod, Fun: fun, Args: args, Clauses: clauses}
}
