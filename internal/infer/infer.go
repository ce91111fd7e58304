package infer

import (
	"errors"
	"strings"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/types"
)

var (
	intOps   = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
	floatOps = map[string]bool{"+.": true, "-.": true, "*.": true, "/.": true}
	cmpOps   = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}
)

// inferExpr types one expression and fills its type slot. The slot holds
// the type as first derived; the final annotation pass resolves it
// through the finished substitution.
func (e *engine) inferExpr(env *types.Env, x ast.Expr, st *fnState) (types.Type, error) {
	t, err := e.exprType(env, x, st)
	if err != nil {
		return nil, err
	}
	x.SetType(t)
	return t, nil
}

func (e *engine) exprType(env *types.Env, x ast.Expr, st *fnState) (types.Type, error) {
	switch x := x.(type) {
	case *ast.IntLit:
		return types.TypeInt, nil
	case *ast.FloatLit:
		return types.TypeFloat, nil
	case *ast.AtomLit:
		return types.TypeAtom, nil
	case *ast.StringLit:
		return types.TypeString, nil
	case *ast.CharListLit:
		return types.TypeCharList, nil
	case *ast.BoolLit:
		return types.TypeBool, nil
	case *ast.UnitLit:
		return types.TypeUnit, nil

	case *ast.Ident:
		sch, ok := env.Lookup(x.Name)
		if !ok {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, x.Line(),
				"undefined symbol %q", x.Name)
		}
		return e.env.Instantiate(sch), nil

	case *ast.TupleExpr:
		elems := make([]types.Type, len(x.Elems))
		for i, el := range x.Elems {
			t, err := e.inferExpr(env, el, st)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return &types.Tuple{Elems: elems}, nil

	case *ast.ListExpr:
		if len(x.Elems) == 0 {
			return &types.List{Elem: e.env.Fresh()}, nil
		}
		elems := make([]types.Type, len(x.Elems))
		for i, el := range x.Elems {
			t, err := e.inferExpr(env, el, st)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		elem, err := e.unifyAll(elems, x.Line())
		if err != nil {
			return nil, err
		}
		return &types.List{Elem: elem}, nil

	case *ast.ConsExpr:
		ht, err := e.inferExpr(env, x.Head, st)
		if err != nil {
			return nil, err
		}
		tt, err := e.inferExpr(env, x.Tail, st)
		if err != nil {
			return nil, err
		}
		if err := e.unify(x.Line(), tt, &types.List{Elem: ht}); err != nil {
			return nil, err
		}
		return &types.List{Elem: ht}, nil

	case *ast.MapExpr:
		kt, vt := types.Type(e.env.Fresh()), types.Type(e.env.Fresh())
		for _, pair := range x.Pairs {
			pk, err := e.inferExpr(env, pair.Key, st)
			if err != nil {
				return nil, err
			}
			if err := e.unify(x.Line(), kt, pk); err != nil {
				return nil, err
			}
			pv, err := e.inferExpr(env, pair.Val, st)
			if err != nil {
				return nil, err
			}
			if err := e.unify(x.Line(), vt, pv); err != nil {
				return nil, err
			}
		}
		return &types.Map{Key: kt, Val: vt}, nil

	case *ast.BinaryExpr:
		for _, seg := range x.Segments {
			vt, err := e.inferExpr(env, seg.Value, st)
			if err != nil {
				return nil, err
			}
			if want := binSegmentType(seg.Type); want != nil {
				if err := e.unify(x.Line(), vt, want); err != nil {
					return nil, err
				}
			}
		}
		return types.TypeString, nil

	case *ast.LetExpr:
		vt, err := e.inferExpr(env, x.Value, st)
		if err != nil {
			return nil, err
		}
		sch := env.Generalize(e.sub, vt)
		return e.inferExpr(env.Extend(x.Name, sch), x.Body, st)

	case *ast.LetFunExpr:
		sch, err := e.inferLocalFun(env, x.Fun, st)
		if err != nil {
			return nil, err
		}
		return e.inferExpr(env.Extend(x.Fun.Name, sch), x.Body, st)

	case *ast.ApplyExpr:
		return e.inferApply(env, x, st)

	case *ast.CtorExpr:
		adt, argT, err := e.adts.ctorType(x.Name)
		if err != nil {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, x.Line(), "%s", err)
		}
		switch {
		case x.Arg == nil && argT != nil:
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeFunArity, x.Line(),
				"constructor %s requires an argument", x.Name)
		case x.Arg != nil && argT == nil:
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeFunArity, x.Line(),
				"constructor %s takes no argument", x.Name)
		case x.Arg != nil:
			at, err := e.inferExpr(env, x.Arg, st)
			if err != nil {
				return nil, err
			}
			if err := e.unify(x.Line(), at, argT); err != nil {
				return nil, err
			}
		}
		return adt, nil

	case *ast.InfixExpr:
		return e.inferInfix(env, x, st)

	case *ast.MatchExpr:
		scrut, err := e.inferExpr(env, x.Scrutinee, st)
		if err != nil {
			return nil, err
		}
		return e.inferClauses(env, x.Clauses, scrut, x.Line(), st)

	case *ast.ReceiveExpr:
		st.isReceiver = true
		return e.inferClauses(env, x.Clauses, st.mailbox, x.Line(), st)

	case *ast.SpawnExpr:
		return e.inferSpawn(env, x, st)

	case *ast.SendExpr:
		mt, err := e.inferExpr(env, x.Msg, st)
		if err != nil {
			return nil, err
		}
		tt, err := e.inferExpr(env, x.Target, st)
		if err != nil {
			return nil, err
		}
		mailbox := e.env.Fresh()
		next, err := types.Unify(e.sub, tt, &types.Pid{Msg: mailbox}, e.adts)
		if err != nil {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeSendMismatch, x.Line(),
				"send target is not a process: %s", err)
		}
		e.sub = next
		next, err = types.Unify(e.sub, mt, mailbox, e.adts)
		if err != nil {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeSendMismatch, x.Line(),
				"message type does not match the target mailbox: %s", err)
		}
		e.sub = next
		return types.TypeUnit, nil

	case *ast.FFIExpr:
		return e.inferFFI(env, x, st)

	case *ast.WildcardExpr:
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, x.Line(),
			"wildcard is only meaningful in pattern position")
	}

	return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeMismatch, x.Line(),
		"cannot type expression %T", x)
}

func binSegmentType(kind string) types.Type {
	switch kind {
	case "int":
		return types.TypeInt
	case "float":
		return types.TypeFloat
	case "utf8", "binary":
		return types.TypeString
	default:
		return nil
	}
}

// inferLocalFun types a let-bound function. The binding is monomorphic
// inside its own body and generalized for the let body, the same way top
// level recursion groups are handled.
func (e *engine) inferLocalFun(env *types.Env, fn *ast.FunDecl, st *fnState) (types.Scheme, error) {
	params := make([]types.Type, fn.Arity())
	for i, p := range fn.Params {
		if p.Unit {
			params[i] = types.TypeUnit
		} else {
			params[i] = e.env.Fresh()
		}
	}
	ft := &types.Fun{Params: params, Return: e.env.Fresh()}

	bodyEnv := env.Extend(fn.Name, types.Monotype(ft))
	for i, p := range fn.Params {
		if p.Unit {
			continue
		}
		bodyEnv = bodyEnv.Extend(p.Name, types.Monotype(params[i]))
	}
	bt, err := e.inferExpr(bodyEnv, fn.Body, st)
	if err != nil {
		return types.Scheme{}, err
	}
	if err := e.unify(fn.Line(), ft.Return, bt); err != nil {
		return types.Scheme{}, err
	}
	fn.SetType(ft)
	return env.Generalize(e.sub, ft), nil
}

func (e *engine) inferApply(env *types.Env, x *ast.ApplyExpr, st *fnState) (types.Type, error) {
	args := make([]types.Type, len(x.Args))
	for i, a := range x.Args {
		t, err := e.inferExpr(env, a, st)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}

	var callee types.Type
	if id, ok := x.Callee.(*ast.Ident); ok {
		// Arity participates in call resolution; same-named functions
		// of different arity are distinct.
		sch, found := env.Lookup(fnKey(id.Name, len(x.Args)))
		if !found {
			sch, found = env.Lookup(id.Name)
		}
		if !found {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, id.Line(),
				"undefined function %q", id.Name)
		}
		callee = e.env.Instantiate(sch)
		id.SetType(callee)
	} else {
		var err error
		callee, err = e.inferExpr(env, x.Callee, st)
		if err != nil {
			return nil, err
		}
	}

	ret := e.env.Fresh()
	if err := e.unify(x.Line(), callee, &types.Fun{Params: args, Return: ret}); err != nil {
		return nil, err
	}
	return ret, nil
}

func (e *engine) inferInfix(env *types.Env, x *ast.InfixExpr, st *fnState) (types.Type, error) {
	lt, err := e.inferExpr(env, x.Left, st)
	if err != nil {
		return nil, err
	}
	rt, err := e.inferExpr(env, x.Right, st)
	if err != nil {
		return nil, err
	}

	switch {
	case intOps[x.Op]:
		if err := e.unify(x.Line(), lt, types.TypeInt); err != nil {
			return nil, err
		}
		if err := e.unify(x.Line(), rt, types.TypeInt); err != nil {
			return nil, err
		}
		return types.TypeInt, nil

	case floatOps[x.Op]:
		if err := e.unify(x.Line(), lt, types.TypeFloat); err != nil {
			return nil, err
		}
		if err := e.unify(x.Line(), rt, types.TypeFloat); err != nil {
			return nil, err
		}
		return types.TypeFloat, nil

	case cmpOps[x.Op]:
		if err := e.unify(x.Line(), lt, rt); err != nil {
			return nil, err
		}
		return types.TypeBool, nil
	}

	return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, x.Line(),
		"unknown operator %q", x.Op)
}

func (e *engine) inferSpawn(env *types.Env, x *ast.SpawnExpr, st *fnState) (types.Type, error) {
	id, ok := x.Fun.(*ast.Ident)
	if !ok {
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeSpawnNonReceiver, x.Line(),
			"spawn target must be a named function")
	}
	args := make([]types.Type, len(x.Args))
	for i, a := range x.Args {
		t, err := e.inferExpr(env, a, st)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}

	key := fnKey(id.Name, len(x.Args))
	if target, ok := e.group[key]; ok {
		// Receiver status of the current group is unsettled until its
		// propagation pass; defer the check.
		if err := e.unify(x.Line(), target.typ, &types.Fun{Params: args, Return: e.env.Fresh()}); err != nil {
			return nil, err
		}
		id.SetType(target.typ)
		e.pending = append(e.pending, spawnCheck{key: key, line: x.Line()})
		return &types.Pid{Msg: target.mailbox}, nil
	}

	sch, found := env.Lookup(key)
	if !found {
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, x.Line(),
			"undefined function %s", key)
	}
	callee := e.env.Instantiate(sch)
	id.SetType(callee)
	if err := e.unify(x.Line(), callee, &types.Fun{Params: args, Return: e.env.Fresh()}); err != nil {
		return nil, err
	}
	resolved, ok := e.sub.Apply(callee).(*types.Fun)
	if !ok || resolved.Recv == nil {
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeSpawnNonReceiver, x.Line(),
			"spawned function %s is not a receiver", key)
	}
	return &types.Pid{Msg: resolved.Recv}, nil
}

// inferClauses types the clause list of a match, receive or similar
// form: patterns must agree with each other and the scrutinee, guards
// must be boolean and may narrow variable patterns, and all results must
// agree on one type.
func (e *engine) inferClauses(env *types.Env, clauses []*ast.Clause, scrut types.Type, line int, st *fnState) (types.Type, error) {
	envs := make([]*types.Env, len(clauses))
	pats := make([]types.Type, len(clauses))
	for i, c := range clauses {
		cenv, pt, err := e.inferPattern(env, c.Pattern)
		if err != nil {
			return nil, err
		}
		if c.Guard != nil {
			if err := e.validateGuard(c.Guard); err != nil {
				return nil, err
			}
			// A type predicate over a variable pattern narrows what the
			// clause accepts before the patterns are merged.
			if imp := e.guardNarrowing(c); imp != nil {
				if err := e.unify(c.Line(), pt, imp); err != nil {
					return nil, err
				}
			}
		}
		envs[i] = cenv
		pats[i] = pt
	}

	merged, err := e.unifyAll(pats, line)
	if err != nil {
		return nil, err
	}
	if err := e.unify(line, scrut, merged); err != nil {
		return nil, err
	}

	results := make([]types.Type, len(clauses))
	for i, c := range clauses {
		if c.Guard != nil {
			gt, err := e.inferExpr(envs[i], c.Guard, st)
			if err != nil {
				return nil, err
			}
			if err := e.unify(c.Guard.Line(), gt, types.TypeBool); err != nil {
				return nil, err
			}
		}
		rt, err := e.inferExpr(envs[i], c.Result, st)
		if err != nil {
			return nil, err
		}
		results[i] = rt
	}
	return e.unifyAll(results, line)
}

// unifyAll folds a set of types into one. When plain unification fails
// with a mismatch, the first declared ADT covering every member of the
// set is taken instead; unconstrained variables in the set never steer
// the choice and are unified with the outcome afterwards.
func (e *engine) unifyAll(ts []types.Type, line int) (types.Type, error) {
	switch len(ts) {
	case 0:
		return e.env.Fresh(), nil
	case 1:
		return ts[0], nil
	}

	saved := e.sub
	acc := ts[0]
	var foldErr error
	for _, t := range ts[1:] {
		next, err := types.Unify(e.sub, acc, t, e.adts)
		if err != nil {
			foldErr = err
			break
		}
		e.sub = next
	}
	if foldErr == nil {
		return acc, nil
	}

	var u *types.UnifyError
	if !errors.As(foldErr, &u) || u.Kind != types.KindMismatch {
		e.sub = saved
		return nil, typeErr(line, foldErr)
	}

	var required []types.Type
	var open []types.Type
	for _, t := range ts {
		if _, isVar := saved.Resolve(t).(*types.Var); isVar {
			open = append(open, t)
		} else {
			required = append(required, t)
		}
	}
	next, adt, ok := e.adts.coverFirst(saved, required)
	if !ok {
		e.sub = saved
		names := make([]string, len(required))
		for i, t := range required {
			names[i] = saved.Apply(t).String()
		}
		return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeADTCoverage, line,
			"no declared type covers all of: %s", strings.Join(names, ", "))
	}
	e.sub = next
	for _, t := range open {
		if err := e.unify(line, t, adt); err != nil {
			return nil, err
		}
	}
	return adt, nil
}

// inferPattern types a pattern, returning the environment extended with
// its bindings. Pattern type slots are filled like expression slots.
func (e *engine) inferPattern(env *types.Env, pat ast.Expr) (*types.Env, types.Type, error) {
	env, t, err := e.patternType(env, pat)
	if err != nil {
		return nil, nil, err
	}
	pat.SetType(t)
	return env, t, nil
}

func (e *engine) patternType(env *types.Env, pat ast.Expr) (*types.Env, types.Type, error) {
	switch pat := pat.(type) {
	case *ast.IntLit:
		return env, types.TypeInt, nil
	case *ast.FloatLit:
		return env, types.TypeFloat, nil
	case *ast.AtomLit:
		return env, types.TypeAtom, nil
	case *ast.StringLit:
		return env, types.TypeString, nil
	case *ast.CharListLit:
		return env, types.TypeCharList, nil
	case *ast.BoolLit:
		return env, types.TypeBool, nil
	case *ast.UnitLit:
		return env, types.TypeUnit, nil

	case *ast.WildcardExpr:
		return env, e.env.Fresh(), nil

	case *ast.Ident:
		v := e.env.Fresh()
		return env.Extend(pat.Name, types.Monotype(v)), v, nil

	case *ast.TupleExpr:
		elems := make([]types.Type, len(pat.Elems))
		for i, el := range pat.Elems {
			var err error
			env, elems[i], err = e.inferPattern(env, el)
			if err != nil {
				return nil, nil, err
			}
		}
		return env, &types.Tuple{Elems: elems}, nil

	case *ast.ListExpr:
		elem := types.Type(e.env.Fresh())
		for _, el := range pat.Elems {
			var et types.Type
			var err error
			env, et, err = e.inferPattern(env, el)
			if err != nil {
				return nil, nil, err
			}
			if err := e.unify(pat.Line(), elem, et); err != nil {
				return nil, nil, err
			}
		}
		return env, &types.List{Elem: elem}, nil

	case *ast.ConsExpr:
		env, ht, err := e.inferPattern(env, pat.Head)
		if err != nil {
			return nil, nil, err
		}
		env, tt, err := e.inferPattern(env, pat.Tail)
		if err != nil {
			return nil, nil, err
		}
		if err := e.unify(pat.Line(), tt, &types.List{Elem: ht}); err != nil {
			return nil, nil, err
		}
		return env, &types.List{Elem: ht}, nil

	case *ast.MapExpr:
		kt, vt := types.Type(e.env.Fresh()), types.Type(e.env.Fresh())
		for _, pair := range pat.Pairs {
			var pk, pv types.Type
			var err error
			env, pk, err = e.inferPattern(env, pair.Key)
			if err != nil {
				return nil, nil, err
			}
			if err := e.unify(pat.Line(), kt, pk); err != nil {
				return nil, nil, err
			}
			env, pv, err = e.inferPattern(env, pair.Val)
			if err != nil {
				return nil, nil, err
			}
			if err := e.unify(pat.Line(), vt, pv); err != nil {
				return nil, nil, err
			}
		}
		return env, &types.Map{Key: kt, Val: vt}, nil

	case *ast.BinaryExpr:
		for _, seg := range pat.Segments {
			want := binSegmentType(seg.Type)
			if want == nil {
				want = types.TypeString
			}
			var vt types.Type
			var err error
			env, vt, err = e.inferPattern(env, seg.Value)
			if err != nil {
				return nil, nil, err
			}
			if err := e.unify(pat.Line(), vt, want); err != nil {
				return nil, nil, err
			}
		}
		return env, types.TypeString, nil

	case *ast.CtorExpr:
		adt, argT, err := e.adts.ctorType(pat.Name)
		if err != nil {
			return nil, nil, diag.New(diag.StageTypeCheck, diag.CodeTypeUndefined, pat.Line(), "%s", err)
		}
		switch {
		case pat.Arg == nil && argT != nil:
			return nil, nil, diag.New(diag.StageTypeCheck, diag.CodeTypeFunArity, pat.Line(),
				"constructor %s requires an argument", pat.Name)
		case pat.Arg != nil && argT == nil:
			return nil, nil, diag.New(diag.StageTypeCheck, diag.CodeTypeFunArity, pat.Line(),
				"constructor %s takes no argument", pat.Name)
		case pat.Arg != nil:
			var at types.Type
			env, at, err = e.inferPattern(env, pat.Arg)
			if err != nil {
				return nil, nil, err
			}
			if err := e.unify(pat.Line(), at, argT); err != nil {
				return nil, nil, err
			}
		}
		return env, adt, nil
	}

	return nil, nil, diag.New(diag.StageTypeCheck, diag.CodeTypeMismatch, pat.Line(),
		"expression form not allowed in pattern position")
}
