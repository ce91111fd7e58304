package types

import "fmt"

// ErrorKind classifies a unification failure.
type ErrorKind int

const (
	KindMismatch ErrorKind = iota
	KindTupleArity
	KindFunArity
	KindOccurs
)

// UnifyError reports that two types could not be reconciled.
type UnifyError struct {
	Kind ErrorKind
	A    Type
	B    Type
}

func (e *UnifyError) Error() string {
	switch e.Kind {
	case KindTupleArity:
		return fmt.Sprintf("tuple arity mismatch: %s vs %s", e.A, e.B)
	case KindFunArity:
		return fmt.Sprintf("function arity mismatch: %s vs %s", e.A, e.B)
	case KindOccurs:
		return fmt.Sprintf("cannot construct infinite type: %s occurs in %s", e.A, e.B)
	default:
		return fmt.Sprintf("cannot unify %s with %s", e.A, e.B)
	}
}

func mismatch(a, b Type) error { return &UnifyError{Kind: KindMismatch, A: a, B: b} }

// Resolver supplies ADT member sets during unification. An ADT value
// nested inside another ADT's member list is a bare reference (nil
// Members); the resolver expands it one level when membership must be
// checked.
type Resolver interface {
	Instantiate(name string, args []Type) (*ADT, bool)
}

// maxMemberDepth bounds speculative member expansion so mutually
// referential ADT declarations cannot loop unification.
const maxMemberDepth = 64

// Unify finds a substitution extending s that makes a and b equal, or
// fails. Failed attempts leave s untouched; the persistent substitution
// makes speculative unification (ADT member matching) free of rollback
// bookkeeping.
func Unify(s Subst, a, b Type, r Resolver) (Subst, error) {
	u := unifier{r: r}
	return u.unify(s, a, b)
}

// MemberMatch attempts to unify t against the members of adt in
// declaration order, taking the first member that matches.
func MemberMatch(s Subst, t Type, adt *ADT, r Resolver) (Subst, bool) {
	u := unifier{r: r}
	return u.member(s, t, adt)
}

type unifier struct {
	r     Resolver
	depth int
}

func (u *unifier) unify(s Subst, a, b Type) (Subst, error) {
	a, b = s.Resolve(a), s.Resolve(b)

	if av, ok := a.(*Var); ok {
		if bv, ok := b.(*Var); ok && av.ID == bv.ID {
			return s, nil
		}
		if s.Occurs(av.ID, b) {
			return s, &UnifyError{Kind: KindOccurs, A: a, B: b}
		}
		return s.Bind(av.ID, b), nil
	}
	if _, ok := b.(*Var); ok {
		return u.unify(s, b, a)
	}

	// rec is the bottom type of a never-returning function; it is
	// compatible with any context expecting a value.
	if _, ok := a.(*Rec); ok {
		return s, nil
	}
	if _, ok := b.(*Rec); ok {
		return s, nil
	}

	switch a := a.(type) {
	case *Prim:
		if b, ok := b.(*Prim); ok {
			if a.Kind == b.Kind {
				return s, nil
			}
			return s, mismatch(a, b)
		}

	case *Tuple:
		if b, ok := b.(*Tuple); ok {
			if len(a.Elems) != len(b.Elems) {
				return s, &UnifyError{Kind: KindTupleArity, A: a, B: b}
			}
			var err error
			for i := range a.Elems {
				if s, err = u.unify(s, a.Elems[i], b.Elems[i]); err != nil {
					return s, err
				}
			}
			return s, nil
		}

	case *List:
		if b, ok := b.(*List); ok {
			return u.unify(s, a.Elem, b.Elem)
		}

	case *Map:
		if b, ok := b.(*Map); ok {
			s, err := u.unify(s, a.Key, b.Key)
			if err != nil {
				return s, err
			}
			return u.unify(s, a.Val, b.Val)
		}

	case *ADT:
		if b, ok := b.(*ADT); ok {
			if a.Name == b.Name {
				if len(a.Args) != len(b.Args) {
					return s, mismatch(a, b)
				}
				var err error
				for i := range a.Args {
					if s, err = u.unify(s, a.Args[i], b.Args[i]); err != nil {
						return s, err
					}
				}
				return s, nil
			}
			if next, ok := u.member(s, b, a); ok {
				return next, nil
			}
			if next, ok := u.member(s, a, b); ok {
				return next, nil
			}
			return s, mismatch(a, b)
		}
		if next, ok := u.member(s, b, a); ok {
			return next, nil
		}

	case *Fun:
		if b, ok := b.(*Fun); ok {
			if len(a.Params) != len(b.Params) {
				return s, &UnifyError{Kind: KindFunArity, A: a, B: b}
			}
			var err error
			for i := range a.Params {
				if s, err = u.unify(s, a.Params[i], b.Params[i]); err != nil {
					return s, err
				}
			}
			if s, err = u.unify(s, a.Return, b.Return); err != nil {
				return s, err
			}
			if a.Recv != nil && b.Recv != nil {
				return u.unify(s, a.Recv, b.Recv)
			}
			return s, nil
		}

	case *Pid:
		if b, ok := b.(*Pid); ok {
			return u.unify(s, a.Msg, b.Msg)
		}
	}

	// A non-ADT type unifies with an ADT that declares it as a member.
	if adt, ok := b.(*ADT); ok {
		if next, ok := u.member(s, a, adt); ok {
			return next, nil
		}
	}

	return s, mismatch(a, b)
}

// member attempts t against adt's members in declaration order. First
// occurrence wins: this mirrors the surface rule that the first ADT
// declared in the module covering a value claims it.
func (u *unifier) member(s Subst, t Type, adt *ADT) (Subst, bool) {
	if u.depth >= maxMemberDepth {
		return s, false
	}
	if adt.Members == nil && u.r != nil {
		resolved, ok := u.r.Instantiate(adt.Name, adt.Args)
		if !ok {
			return s, false
		}
		adt = resolved
	}
	u.depth++
	defer func() { u.depth-- }()
	for _, m := range adt.Members {
		if next, err := u.unify(s, t, m); err == nil {
			return next, true
		}
	}
	return s, false
}
