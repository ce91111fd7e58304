package types

import (
	"sort"

	"github.com/benbjohnson/immutable"
)

// Scheme is a possibly-quantified type. Vars lists the ids of the
// universally quantified variables; instantiation replaces each with a
// fresh variable so every use site may resolve it differently.
type Scheme struct {
	Vars []int
	Type Type
}

// Monotype wraps a type in an unquantified scheme.
func Monotype(t Type) Scheme { return Scheme{Type: t} }

// Env is a type environment mapping identifiers to schemes. Extension is
// persistent: Extend returns a child environment backed by a snapshot of
// the parent, so nested scopes never disturb the enclosing one. The
// fresh-variable counter is shared across all environments of one
// inference pass.
type Env struct {
	vars  *immutable.Map[string, Scheme]
	fresh *int
}

// NewEnv creates an empty environment with its own variable counter.
func NewEnv() *Env {
	counter := 0
	return &Env{
		vars:  immutable.NewMap[string, Scheme](nil),
		fresh: &counter,
	}
}

// Extend returns a child environment with name bound to sch.
func (e *Env) Extend(name string, sch Scheme) *Env {
	return &Env{vars: e.vars.Set(name, sch), fresh: e.fresh}
}

// Lookup finds a scheme bound in the environment.
func (e *Env) Lookup(name string) (Scheme, bool) {
	return e.vars.Get(name)
}

// Fresh allocates a new unbound type variable.
func (e *Env) Fresh() *Var {
	id := *e.fresh
	*e.fresh++
	return &Var{ID: id}
}

// Instantiate replaces a scheme's quantified variables with fresh ones.
func (e *Env) Instantiate(sch Scheme) Type {
	if len(sch.Vars) == 0 {
		return sch.Type
	}
	mapping := make(map[int]Type, len(sch.Vars))
	for _, id := range sch.Vars {
		mapping[id] = e.Fresh()
	}
	return rewrite(sch.Type, mapping)
}

// Generalize quantifies the variables free in t but not free in the
// environment, producing a polymorphic scheme bindable once and
// instantiable differently per call site.
func (e *Env) Generalize(s Subst, t Type) Scheme {
	t = s.Apply(t)

	envFree := make(map[int]bool)
	itr := e.vars.Iterator()
	for !itr.Done() {
		_, sch, _ := itr.Next()
		schFree := make(map[int]bool)
		FreeVars(s, sch.Type, schFree)
		for _, q := range sch.Vars {
			delete(schFree, q)
		}
		for id := range schFree {
			envFree[id] = true
		}
	}

	tFree := make(map[int]bool)
	FreeVars(s, t, tFree)

	var quantified []int
	for id := range tFree {
		if !envFree[id] {
			quantified = append(quantified, id)
		}
	}
	sort.Ints(quantified)
	return Scheme{Vars: quantified, Type: t}
}

// rewrite structurally replaces variables per the mapping, leaving
// unmapped variables intact.
func rewrite(t Type, mapping map[int]Type) Type {
	switch t := t.(type) {
	case *Var:
		if repl, ok := mapping[t.ID]; ok {
			return repl
		}
		return t
	case *Tuple:
		elems := make([]Type, len(t.Elems))
		for i, el := range t.Elems {
			elems[i] = rewrite(el, mapping)
		}
		return &Tuple{Elems: elems}
	case *List:
		return &List{Elem: rewrite(t.Elem, mapping)}
	case *Map:
		return &Map{Key: rewrite(t.Key, mapping), Val: rewrite(t.Val, mapping)}
	case *ADT:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = rewrite(a, mapping)
		}
		// A nil member list marks a bare reference awaiting resolution;
		// keep it nil.
		var members []Type
		if t.Members != nil {
			members = make([]Type, len(t.Members))
			for i, m := range t.Members {
				members[i] = rewrite(m, mapping)
			}
		}
		return &ADT{Name: t.Name, Args: args, Members: members}
	case *Fun:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = rewrite(p, mapping)
		}
		f := &Fun{Params: params, Return: rewrite(t.Return, mapping)}
		if t.Recv != nil {
			f.Recv = rewrite(t.Recv, mapping)
		}
		return f
	case *Pid:
		return &Pid{Msg: rewrite(t.Msg, mapping)}
	default:
		return t
	}
}
