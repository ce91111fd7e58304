package types

import (
	"errors"
	"testing"
)

func mustUnify(t *testing.T, s Subst, a, b Type) Subst {
	t.Helper()
	next, err := Unify(s, a, b, nil)
	if err != nil {
		t.Fatalf("Unify(%s, %s) failed: %v", a, b, err)
	}
	return next
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected unification failure")
	}
	var u *UnifyError
	if !errors.As(err, &u) {
		t.Fatalf("expected UnifyError, got %T: %v", err, err)
	}
	if u.Kind != kind {
		t.Errorf("got kind %d, want %d", u.Kind, kind)
	}
}

func TestUnifyPrimitives(t *testing.T) {
	s := NewSubst()
	mustUnify(t, s, TypeInt, TypeInt)
	_, err := Unify(s, TypeInt, TypeFloat, nil)
	wantKind(t, err, KindMismatch)
}

func TestUnifyVarBinds(t *testing.T) {
	s := NewSubst()
	v := &Var{ID: 0}
	s = mustUnify(t, s, v, TypeInt)
	if got := s.Resolve(v); got != TypeInt {
		t.Errorf("variable resolved to %s, want int", got)
	}
}

func TestUnifyVarChain(t *testing.T) {
	s := NewSubst()
	a, b := &Var{ID: 0}, &Var{ID: 1}
	s = mustUnify(t, s, a, b)
	s = mustUnify(t, s, b, TypeString)
	if got := s.Resolve(a); got != TypeString {
		t.Errorf("chained variable resolved to %s, want string", got)
	}
}

func TestUnifyLeavesSubstOnFailure(t *testing.T) {
	s := NewSubst()
	v := &Var{ID: 0}
	s = mustUnify(t, s, v, TypeInt)
	before := s.Len()
	_, err := Unify(s, TypeFloat, TypeString, nil)
	wantKind(t, err, KindMismatch)
	if s.Len() != before {
		t.Error("failed unification must not disturb the caller's substitution")
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	s := NewSubst()
	v := &Var{ID: 0}
	_, err := Unify(s, v, &List{Elem: v}, nil)
	wantKind(t, err, KindOccurs)
}

func TestUnifyTupleArity(t *testing.T) {
	s := NewSubst()
	two := &Tuple{Elems: []Type{TypeInt, TypeInt}}
	three := &Tuple{Elems: []Type{TypeInt, TypeInt, TypeInt}}
	_, err := Unify(s, two, three, nil)
	wantKind(t, err, KindTupleArity)

	other := &Tuple{Elems: []Type{&Var{ID: 0}, TypeInt}}
	s = mustUnify(t, s, two, other)
	if got := s.Resolve(other.Elems[0]); got != TypeInt {
		t.Errorf("tuple element variable resolved to %s, want int", got)
	}
}

func TestUnifyFunArity(t *testing.T) {
	s := NewSubst()
	one := &Fun{Params: []Type{TypeInt}, Return: TypeInt}
	two := &Fun{Params: []Type{TypeInt, TypeInt}, Return: TypeInt}
	_, err := Unify(s, one, two, nil)
	wantKind(t, err, KindFunArity)
}

func TestUnifyListsAndMaps(t *testing.T) {
	s := NewSubst()
	v := &Var{ID: 0}
	s = mustUnify(t, s, &List{Elem: v}, &List{Elem: TypeAtom})
	if got := s.Resolve(v); got != TypeAtom {
		t.Errorf("list element resolved to %s, want atom", got)
	}

	k, val := &Var{ID: 1}, &Var{ID: 2}
	s = mustUnify(t, s, &Map{Key: k, Val: val}, &Map{Key: TypeString, Val: TypeInt})
	if s.Resolve(k) != TypeString || s.Resolve(val) != TypeInt {
		t.Error("map key/value variables should resolve to string/int")
	}
}

func TestUnifyRecIsBottom(t *testing.T) {
	s := NewSubst()
	mustUnify(t, s, &Rec{}, TypeInt)
	mustUnify(t, s, &Tuple{Elems: []Type{TypeAtom}}, &Rec{})
}

func TestUnifyPid(t *testing.T) {
	s := NewSubst()
	v := &Var{ID: 0}
	s = mustUnify(t, s, &Pid{Msg: v}, &Pid{Msg: TypeAtom})
	if got := s.Resolve(v); got != TypeAtom {
		t.Errorf("pid message resolved to %s, want atom", got)
	}
}

func numUnion() *ADT {
	return &ADT{Name: "int_or_float", Members: []Type{TypeInt, TypeFloat}}
}

func TestUnifyADTMember(t *testing.T) {
	s := NewSubst()
	mustUnify(t, s, TypeInt, numUnion())
	mustUnify(t, s, numUnion(), TypeFloat)
	_, err := Unify(s, TypeString, numUnion(), nil)
	wantKind(t, err, KindMismatch)
}

func TestUnifySameADT(t *testing.T) {
	s := NewSubst()
	v := &Var{ID: 0}
	a := &ADT{Name: "opt", Args: []Type{TypeInt}, Members: []Type{}}
	b := &ADT{Name: "opt", Args: []Type{v}, Members: []Type{}}
	s = mustUnify(t, s, a, b)
	if got := s.Resolve(v); got != TypeInt {
		t.Errorf("ADT argument resolved to %s, want int", got)
	}
}

func TestMemberMatchFirstWins(t *testing.T) {
	s := NewSubst()
	v := &Var{ID: 0}
	adt := &ADT{Name: "u", Members: []Type{TypeInt, TypeFloat}}
	s, ok := MemberMatch(s, v, adt, nil)
	if !ok {
		t.Fatal("a variable must match some member")
	}
	if got := s.Resolve(v); got != TypeInt {
		t.Errorf("first member should win, variable resolved to %s", got)
	}
}

// fixedResolver serves one ADT declaration, standing in for a module's
// type table.
type fixedResolver struct {
	name    string
	members []Type
}

func (r *fixedResolver) Instantiate(name string, args []Type) (*ADT, bool) {
	if name != r.name {
		return nil, false
	}
	return &ADT{Name: r.name, Members: r.members}, true
}

func TestUnifyBareADTUsesResolver(t *testing.T) {
	r := &fixedResolver{name: "u", members: []Type{TypeInt, TypeFloat}}
	s := NewSubst()
	bare := &ADT{Name: "u"} // nil members
	if _, err := Unify(s, TypeFloat, bare, r); err != nil {
		t.Fatalf("member match through resolver failed: %v", err)
	}
	if _, err := Unify(s, TypeString, bare, r); err == nil {
		t.Fatal("string is not a member of u")
	}
}

func TestUnifyRecursiveADTTerminates(t *testing.T) {
	// json's member list references json itself through list json; the
	// resolver hands out bare nested references, so expansion is lazy
	// and depth-capped.
	r := &fixedResolver{name: "json"}
	r.members = []Type{TypeInt, TypeString, &List{Elem: &ADT{Name: "json"}}}
	s := NewSubst()
	if _, err := Unify(s, &List{Elem: TypeInt}, &ADT{Name: "json"}, r); err != nil {
		t.Fatalf("list int should be a json member: %v", err)
	}
	if _, err := Unify(s, TypeBool, &ADT{Name: "json"}, r); err == nil {
		t.Fatal("bool is not a json member")
	}
}
