package types

import "testing"

func TestEnvExtendIsPersistent(t *testing.T) {
	env := NewEnv()
	child := env.Extend("x", Monotype(TypeInt))
	if _, ok := env.Lookup("x"); ok {
		t.Error("extending a child must not disturb the parent")
	}
	if sch, ok := child.Lookup("x"); !ok || sch.Type != TypeInt {
		t.Error("child lookup should find the binding")
	}

	shadow := child.Extend("x", Monotype(TypeFloat))
	if sch, _ := child.Lookup("x"); sch.Type != TypeInt {
		t.Error("shadowing in a grandchild must not disturb the child")
	}
	if sch, _ := shadow.Lookup("x"); sch.Type != TypeFloat {
		t.Error("innermost binding should win")
	}
}

func TestFreshVarsAreDistinct(t *testing.T) {
	env := NewEnv()
	a, b := env.Fresh(), env.Fresh()
	if a.ID == b.ID {
		t.Error("fresh variables must have distinct ids")
	}
	child := env.Extend("x", Monotype(TypeInt))
	c := child.Fresh()
	if c.ID == a.ID || c.ID == b.ID {
		t.Error("the variable counter is shared across derived environments")
	}
}

func TestGeneralizeQuantifiesFreeVars(t *testing.T) {
	env := NewEnv()
	s := NewSubst()
	v := env.Fresh()
	id := &Fun{Params: []Type{v}, Return: v}

	sch := env.Generalize(s, id)
	if len(sch.Vars) != 1 || sch.Vars[0] != v.ID {
		t.Fatalf("expected one quantified var %d, got %v", v.ID, sch.Vars)
	}
}

func TestGeneralizeSkipsEnvBoundVars(t *testing.T) {
	env := NewEnv()
	s := NewSubst()
	outer := env.Fresh()
	env = env.Extend("x", Monotype(outer))

	inner := env.Fresh()
	f := &Fun{Params: []Type{outer}, Return: inner}
	sch := env.Generalize(s, f)
	if len(sch.Vars) != 1 || sch.Vars[0] != inner.ID {
		t.Fatalf("only the inner var should quantify, got %v", sch.Vars)
	}
}

func TestInstantiateSeparatesUseSites(t *testing.T) {
	env := NewEnv()
	s := NewSubst()
	v := env.Fresh()
	sch := env.Generalize(s, &Fun{Params: []Type{v}, Return: v})

	first := env.Instantiate(sch).(*Fun)
	second := env.Instantiate(sch).(*Fun)

	s, err := Unify(s, first.Params[0], TypeInt, nil)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	s, err = Unify(s, second.Params[0], TypeString, nil)
	if err != nil {
		t.Fatalf("separate instantiations must not share variables: %v", err)
	}
	if s.Resolve(first.Return) != TypeInt || s.Resolve(second.Return) != TypeString {
		t.Error("each instantiation should resolve independently")
	}
}

func TestInstantiateMonotypeIsIdentity(t *testing.T) {
	env := NewEnv()
	f := &Fun{Params: []Type{TypeInt}, Return: TypeInt}
	if got := env.Instantiate(Monotype(f)); got != f {
		t.Error("unquantified schemes instantiate to themselves")
	}
}

func TestGeneralizeAppliesSubstFirst(t *testing.T) {
	env := NewEnv()
	s := NewSubst()
	v := env.Fresh()
	s = s.Bind(v.ID, TypeInt)

	sch := env.Generalize(s, &Fun{Params: []Type{v}, Return: v})
	if len(sch.Vars) != 0 {
		t.Errorf("a bound variable must not quantify, got %v", sch.Vars)
	}
	f := sch.Type.(*Fun)
	if f.Params[0] != TypeInt {
		t.Errorf("bound variable should be substituted, got %s", f.Params[0])
	}
}
