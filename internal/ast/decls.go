package ast

// ModuleDecl names the module: module m.
type ModuleDecl struct {
	node
	Name string
}

// NewModuleDecl constructs a module declaration node.
func NewModuleDecl(name string, line int) *ModuleDecl {
	return &ModuleDecl{node: node{line: line}, Name: name}
}

// FunRef is a name/arity pair, as written in export declarations.
type FunRef struct {
	Name  string
	Arity int
}

// ExportDecl lists exported functions: export add/2, id/1.
type ExportDecl struct {
	node
	Funs []FunRef
}

// NewExportDecl constructs an export declaration node.
func NewExportDecl(funs []FunRef, line int) *ExportDecl {
	return &ExportDecl{node: node{line: line}, Funs: funs}
}

// TestDecl is a named test expression surfaced to the external harness.
type TestDecl struct {
	node
	Label string
	Expr  Expr
}

// NewTestDecl constructs a test declaration node.
func NewTestDecl(label string, e Expr, line int) *TestDecl {
	return &TestDecl{node: node{line: line}, Label: label, Expr: e}
}

// TypeRef is a reference to a type in a declaration: a named type with
// optional arguments, a type variable, or a tuple of type references.
type TypeRef struct {
	node
	Name  string
	Args  []*TypeRef
	IsVar bool       // 'a style type variable
	Tuple []*TypeRef // non-nil for (t1, t2, ...) references
}

// NewTypeRef constructs a named type reference.
func NewTypeRef(name string, args []*TypeRef, line int) *TypeRef {
	return &TypeRef{node: node{line: line}, Name: name, Args: args}
}

// NewTypeVarRef constructs a type-variable reference.
func NewTypeVarRef(name string, line int) *TypeRef {
	return &TypeRef{node: node{line: line}, Name: name, IsVar: true}
}

// NewTupleTypeRef constructs a tuple type reference.
func NewTupleTypeRef(elems []*TypeRef, line int) *TypeRef {
	return &TypeRef{node: node{line: line}, Tuple: elems}
}

// TypeMember is one member of an ADT declaration: either a plain type
// reference or a named constructor with at most one argument type.
type TypeMember interface {
	Node
	memberNode()
}

func (*TypeRef) memberNode() {}

// CtorMember is a named constructor member. Arg is nil for constructors
// that carry no value.
type CtorMember struct {
	node
	Name string
	Arg  *TypeRef
}

// NewCtorMember constructs a constructor member.
func NewCtorMember(name string, arg *TypeRef, line int) *CtorMember {
	return &CtorMember{node: node{line: line}, Name: name, Arg: arg}
}

func (*CtorMember) memberNode() {}

// TypeDecl is an ADT declaration: type name 'a 'b = member | member.
type TypeDecl struct {
	node
	Name    string
	Params  []string // ordered type-variable parameters
	Members []TypeMember
}

// NewTypeDecl constructs an ADT declaration node.
func NewTypeDecl(name string, params []string, members []TypeMember, line int) *TypeDecl {
	return &TypeDecl{node: node{line: line}, Name: name, Params: params, Members: members}
}
