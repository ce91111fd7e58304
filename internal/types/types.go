// Package types defines the Vesper type model, the substitution that is
// the single source of truth for type-variable resolution, the persistent
// type environment, and unification. It has no dependency on the syntax
// tree; the inference engine in internal/infer drives it over the AST.
package types

import (
	"fmt"
	"strings"
)

// Type represents a type in the Vesper type system.
type Type interface {
	String() string
	// isType is a marker method to keep the variant set closed.
	isType()
}

// PrimKind represents the kind of a primitive type.
type PrimKind string

const (
	Int      PrimKind = "int"
	Float    PrimKind = "float"
	Atom     PrimKind = "atom"
	String   PrimKind = "string"
	CharList PrimKind = "charlist"
	Bool     PrimKind = "bool"
	Unit     PrimKind = "unit"
)

// Prim represents a primitive type.
type Prim struct {
	Kind PrimKind
}

func (p *Prim) String() string { return string(p.Kind) }
func (p *Prim) isType()        {}

// Common primitive instances
var (
	TypeInt      = &Prim{Kind: Int}
	TypeFloat    = &Prim{Kind: Float}
	TypeAtom     = &Prim{Kind: Atom}
	TypeString   = &Prim{Kind: String}
	TypeCharList = &Prim{Kind: CharList}
	TypeBool     = &Prim{Kind: Bool}
	TypeUnit     = &Prim{Kind: Unit}
)

// Var is a type variable. Variables are never mutated; what a variable
// currently resolves to lives in the substitution alone.
type Var struct {
	ID int
}

func (v *Var) String() string { return "'" + varName(v.ID) }
func (v *Var) isType()        {}

func varName(id int) string {
	name := string(rune('a' + id%26))
	if id >= 26 {
		name = fmt.Sprintf("%s%d", name, id/26)
	}
	return name
}

// Tuple is an ordered product type. Arity is part of the type: two tuples
// unify only at equal arity.
type Tuple struct {
	Elems []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) isType() {}

// List is a homogeneous list type.
type List struct {
	Elem Type
}

func (l *List) String() string { return "list " + atomic(l.Elem) }
func (l *List) isType()        {}

// Map is a homogeneous map type over key and value types.
type Map struct {
	Key Type
	Val Type
}

func (m *Map) String() string { return "map " + atomic(m.Key) + " " + atomic(m.Val) }
func (m *Map) isType()        {}

// ADT is a reference to a declared algebraic data type, possibly applied
// to concrete type arguments. Members holds the instantiated plain-type
// members, so unification can check membership without consulting the
// declaring module.
type ADT struct {
	Name    string
	Args    []Type
	Members []Type
}

func (a *ADT) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = atomic(arg)
	}
	return a.Name + " " + strings.Join(parts, " ")
}
func (a *ADT) isType() {}

// Fun is a function type. Recv is the mailbox message type when the
// function is a receiver, nil otherwise.
type Fun struct {
	Params []Type
	Return Type
	Recv   Type
}

func (f *Fun) String() string {
	var b strings.Builder
	if f.Recv != nil {
		fmt.Fprintf(&b, "process-of(%s) ", f.Recv)
	}
	for _, p := range f.Params {
		b.WriteString(atomic(p))
		b.WriteString(" -> ")
	}
	b.WriteString(atomic(f.Return))
	return b.String()
}
func (f *Fun) isType() {}

// Pid is a reference to a spawned process accepting messages of type Msg.
type Pid struct {
	Msg Type
}

func (p *Pid) String() string { return "pid " + atomic(p.Msg) }
func (p *Pid) isType()        {}

// Rec is the bottom type of a function that never returns (an infinite
// receive loop). It unifies with any type.
type Rec struct{}

func (r *Rec) String() string { return "rec" }
func (r *Rec) isType()        {}

// atomic parenthesizes compound types in argument position.
func atomic(t Type) string {
	switch t.(type) {
	case *List, *Map, *Fun, *Pid:
		return "(" + t.String() + ")"
	case *ADT:
		if len(t.(*ADT).Args) > 0 {
			return "(" + t.String() + ")"
		}
		return t.String()
	default:
		return t.String()
	}
}

// FreeVars appends the ids of all type variables occurring in t, as
// resolved through the substitution.
func FreeVars(s Subst, t Type, acc map[int]bool) {
	switch t := s.Resolve(t).(type) {
	case *Var:
		acc[t.ID] = true
	case *Tuple:
		for _, e := range t.Elems {
			FreeVars(s, e, acc)
		}
	case *List:
		FreeVars(s, t.Elem, acc)
	case *Map:
		FreeVars(s, t.Key, acc)
		FreeVars(s, t.Val, acc)
	case *ADT:
		for _, a := range t.Args {
			FreeVars(s, a, acc)
		}
		for _, m := range t.Members {
			FreeVars(s, m, acc)
		}
	case *Fun:
		for _, p := range t.Params {
			FreeVars(s, p, acc)
		}
		FreeVars(s, t.Return, acc)
		if t.Recv != nil {
			FreeVars(s, t.Recv, acc)
		}
	case *Pid:
		FreeVars(s, t.Msg, acc)
	}
}
