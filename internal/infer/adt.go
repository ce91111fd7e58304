package infer

import (
	"fmt"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/types"
)

// adtTable indexes a module's ADT declarations in declaration order.
// Order matters: when more than one ADT could cover a set of member
// types, the first one declared in the module wins. Programs may depend
// on declaration order, so the table never reorders or deduplicates
// beyond first-occurrence-wins.
type adtTable struct {
	env   *types.Env
	decls []*ast.TypeDecl
	names map[string]*ast.TypeDecl
	ctors map[string]*ctorInfo
}

type ctorInfo struct {
	decl *ast.TypeDecl
	arg  *ast.TypeRef // nil for constructors without an argument
}

func newADTTable(env *types.Env, decls []*ast.TypeDecl) (*adtTable, error) {
	t := &adtTable{
		env:   env,
		decls: decls,
		names: make(map[string]*ast.TypeDecl),
		ctors: make(map[string]*ctorInfo),
	}
	for _, decl := range decls {
		if _, ok := t.names[decl.Name]; !ok {
			t.names[decl.Name] = decl
		}
		for _, m := range decl.Members {
			if ctor, ok := m.(*ast.CtorMember); ok {
				if _, ok := t.ctors[ctor.Name]; !ok {
					t.ctors[ctor.Name] = &ctorInfo{decl: decl, arg: ctor.Arg}
				}
			}
		}
	}
	// Validate every member reference up front so later instantiation
	// cannot fail.
	for _, decl := range decls {
		mapping := t.paramMapping(decl, nil)
		for _, m := range decl.Members {
			var ref *ast.TypeRef
			switch m := m.(type) {
			case *ast.TypeRef:
				ref = m
			case *ast.CtorMember:
				ref = m.Arg
			}
			if ref == nil {
				continue
			}
			if _, err := t.resolveRef(ref, mapping); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// paramMapping maps a declaration's type-variable parameters to args,
// or to fresh variables when args is nil or short.
func (t *adtTable) paramMapping(decl *ast.TypeDecl, args []types.Type) map[string]types.Type {
	mapping := make(map[string]types.Type, len(decl.Params))
	for i, p := range decl.Params {
		if i < len(args) {
			mapping[p] = args[i]
		} else {
			mapping[p] = t.env.Fresh()
		}
	}
	return mapping
}

// Instantiate implements types.Resolver: it returns the named ADT with
// its plain members resolved one level deep. Nested ADT references stay
// bare so recursive declarations stay finite.
func (t *adtTable) Instantiate(name string, args []types.Type) (*types.ADT, bool) {
	decl, ok := t.names[name]
	if !ok {
		return nil, false
	}
	return t.instantiate(decl, args), true
}

func (t *adtTable) instantiate(decl *ast.TypeDecl, args []types.Type) *types.ADT {
	mapping := t.paramMapping(decl, args)
	resolvedArgs := make([]types.Type, len(decl.Params))
	for i, p := range decl.Params {
		resolvedArgs[i] = mapping[p]
	}

	members := make([]types.Type, 0, len(decl.Members))
	for _, m := range decl.Members {
		ref, ok := m.(*ast.TypeRef)
		if !ok {
			continue // constructors are not membership targets
		}
		resolved, err := t.resolveRef(ref, mapping)
		if err != nil {
			continue // validated at construction; unreachable
		}
		members = append(members, resolved)
	}
	if members == nil {
		members = []types.Type{}
	}
	return &types.ADT{Name: decl.Name, Args: resolvedArgs, Members: members}
}

// ctorType resolves an uppercase constructor name to a fresh instance of
// its owning ADT and the declared argument type, if any. The first
// declaration of a constructor name wins.
func (t *adtTable) ctorType(name string) (adt *types.ADT, arg types.Type, err error) {
	info, ok := t.ctors[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown type constructor %s", name)
	}
	mapping := t.paramMapping(info.decl, nil)
	args := make([]types.Type, len(info.decl.Params))
	for i, p := range info.decl.Params {
		args[i] = mapping[p]
	}
	adt = t.instantiate(info.decl, args)
	if info.arg != nil {
		arg, err = t.resolveRef(info.arg, mapping)
		if err != nil {
			return nil, nil, err
		}
	}
	return adt, arg, nil
}

// coverFirst finds the first declared ADT whose member set covers every
// required type, extending s with the member bindings of the match.
func (t *adtTable) coverFirst(s types.Subst, required []types.Type) (types.Subst, *types.ADT, bool) {
	for _, decl := range t.decls {
		inst := t.instantiate(decl, nil)
		trial := s
		covered := true
		for _, req := range required {
			next, ok := types.MemberMatch(trial, req, inst, t)
			if !ok {
				covered = false
				break
			}
			trial = next
		}
		if covered {
			return trial, inst, true
		}
	}
	return s, nil, false
}

// resolveRef converts a syntactic type reference to a semantic type.
func (t *adtTable) resolveRef(ref *ast.TypeRef, mapping map[string]types.Type) (types.Type, error) {
	if ref.Tuple != nil {
		elems := make([]types.Type, len(ref.Tuple))
		for i, el := range ref.Tuple {
			resolved, err := t.resolveRef(el, mapping)
			if err != nil {
				return nil, err
			}
			elems[i] = resolved
		}
		return &types.Tuple{Elems: elems}, nil
	}

	if ref.IsVar {
		if bound, ok := mapping[ref.Name]; ok {
			return bound, nil
		}
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, ref.Line(),
			"unbound type variable '%s", ref.Name)
	}

	switch ref.Name {
	case "int":
		return types.TypeInt, nil
	case "float":
		return types.TypeFloat, nil
	case "atom":
		return types.TypeAtom, nil
	case "string", "binary":
		return types.TypeString, nil
	case "chars":
		return types.TypeCharList, nil
	case "bool":
		return types.TypeBool, nil
	case "unit":
		return types.TypeUnit, nil
	case "list":
		if len(ref.Args) != 1 {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, ref.Line(),
				"list requires exactly one element type")
		}
		elem, err := t.resolveRef(ref.Args[0], mapping)
		if err != nil {
			return nil, err
		}
		return &types.List{Elem: elem}, nil
	case "map":
		if len(ref.Args) != 2 {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, ref.Line(),
				"map requires key and value types")
		}
		key, err := t.resolveRef(ref.Args[0], mapping)
		if err != nil {
			return nil, err
		}
		val, err := t.resolveRef(ref.Args[1], mapping)
		if err != nil {
			return nil, err
		}
		return &types.Map{Key: key, Val: val}, nil
	case "pid":
		if len(ref.Args) != 1 {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, ref.Line(),
				"pid requires a message type")
		}
		msg, err := t.resolveRef(ref.Args[0], mapping)
		if err != nil {
			return nil, err
		}
		return &types.Pid{Msg: msg}, nil
	}

	decl, ok := t.names[ref.Name]
	if !ok {
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, ref.Line(),
			"undefined type %q", ref.Name)
	}
	args := make([]types.Type, len(ref.Args))
	for i, a := range ref.Args {
		resolved, err := t.resolveRef(a, mapping)
		if err != nil {
			return nil, err
		}
		args[i] = resolved
	}
	if len(args) != len(decl.Params) {
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, ref.Line(),
			"type %s expects %d argument(s), got %d", decl.Name, len(decl.Params), len(args))
	}
	// Bare reference; the resolver fills members when membership is
	// actually needed.
	return &types.ADT{Name: decl.Name, Args: args}, nil
}
