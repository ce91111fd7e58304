package types

import "github.com/benbjohnson/immutable"

// Subst maps type-variable ids to types. It is an immutable value: Bind
// returns an extended substitution and never mutates the receiver, so the
// mapping can be threaded explicitly through every inference call and
// snapshotted at no cost. The substitution is the only mutable state of an
// inference pass and is discarded once all type slots are resolved.
type Subst struct {
	m *immutable.Map[int, Type]
}

// NewSubst returns an empty substitution.
func NewSubst() Subst {
	return Subst{m: immutable.NewMap[int, Type](nil)}
}

// Bind returns the substitution extended with id -> t.
func (s Subst) Bind(id int, t Type) Subst {
	return Subst{m: s.m.Set(id, t)}
}

// Lookup returns the direct binding for id, if any.
func (s Subst) Lookup(id int) (Type, bool) {
	return s.m.Get(id)
}

// Len returns the number of bound variables.
func (s Subst) Len() int { return s.m.Len() }

// Resolve follows variable bindings until it reaches a non-variable type
// or an unbound variable. It does not descend into compound types.
func (s Subst) Resolve(t Type) Type {
	for {
		v, ok := t.(*Var)
		if !ok {
			return t
		}
		bound, ok := s.m.Get(v.ID)
		if !ok {
			return t
		}
		t = bound
	}
}

// Apply resolves t fully, substituting through compound types. The result
// contains only variables that are unbound in the substitution.
func (s Subst) Apply(t Type) Type {
	t = s.Resolve(t)
	switch t := t.(type) {
	case *Tuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = s.Apply(e)
		}
		return &Tuple{Elems: elems}
	case *List:
		return &List{Elem: s.Apply(t.Elem)}
	case *Map:
		return &Map{Key: s.Apply(t.Key), Val: s.Apply(t.Val)}
	case *ADT:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = s.Apply(a)
		}
		// A nil member list marks a bare reference awaiting resolution;
		// keep it nil.
		var members []Type
		if t.Members != nil {
			members = make([]Type, len(t.Members))
			for i, m := range t.Members {
				members[i] = s.Apply(m)
			}
		}
		return &ADT{Name: t.Name, Args: args, Members: members}
	case *Fun:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = s.Apply(p)
		}
		f := &Fun{Params: params, Return: s.Apply(t.Return)}
		if t.Recv != nil {
			f.Recv = s.Apply(t.Recv)
		}
		return f
	case *Pid:
		return &Pid{Msg: s.Apply(t.Msg)}
	default:
		return t
	}
}

// Occurs reports whether variable id occurs in t under the substitution.
func (s Subst) Occurs(id int, t Type) bool {
	switch t := s.Resolve(t).(type) {
	case *Var:
		return t.ID == id
	case *Tuple:
		for _, e := range t.Elems {
			if s.Occurs(id, e) {
				return true
			}
		}
	case *List:
		return s.Occurs(id, t.Elem)
	case *Map:
		return s.Occurs(id, t.Key) || s.Occurs(id, t.Val)
	case *ADT:
		for _, a := range t.Args {
			if s.Occurs(id, a) {
				return true
			}
		}
	case *Fun:
		for _, p := range t.Params {
			if s.Occurs(id, p) {
				return true
			}
		}
		if s.Occurs(id, t.Return) {
			return true
		}
		if t.Recv != nil {
			return s.Occurs(id, t.Recv)
		}
	case *Pid:
		return s.Occurs(id, t.Msg)
	}
	return false
}
