package infer

import (
	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/types"
)

// inferFFI types a foreign call. The callee lives outside the type
// system, so arguments are inferred but never checked against a
// signature; the apparent type of the foreign value is reconstructed
// from the clause guards instead. Every guard must be a builtin
// predicate over the clause's variable, or absent for a wildcard clause.
func (e *engine) inferFFI(env *types.Env, x *ast.FFIExpr, st *fnState) (types.Type, error) {
	for _, a := range x.Args {
		if _, err := e.inferExpr(env, a, st); err != nil {
			return nil, err
		}
	}

	implied := make([]types.Type, len(x.Clauses))
	var asserted []types.Type
	for i, c := range x.Clauses {
		switch c.Pattern.(type) {
		case *ast.Ident, *ast.WildcardExpr:
		default:
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeBadGuard, c.Line(),
				"foreign result pattern must be a variable or wildcard")
		}
		if c.Guard == nil {
			continue
		}
		imp, err := e.ffiGuardImplied(c)
		if err != nil {
			return nil, err
		}
		implied[i] = imp
		if imp != nil {
			asserted = append(asserted, imp)
		}
	}

	// The foreign value's type is what the guards jointly require. All
	// wildcard clauses leave it open for the surrounding context to
	// settle.
	var foreign types.Type
	switch len(asserted) {
	case 0:
		foreign = e.env.Fresh()
	case 1:
		foreign = asserted[0]
	default:
		var err error
		foreign, err = e.unifyAll(asserted, x.Line())
		if err != nil {
			return nil, err
		}
	}

	results := make([]types.Type, len(x.Clauses))
	for i, c := range x.Clauses {
		// Inside a guarded clause the variable carries the guard's
		// narrower type, not the joint one.
		ct := foreign
		if implied[i] != nil {
			ct = implied[i]
		}
		cenv := env
		if id, ok := c.Pattern.(*ast.Ident); ok {
			cenv = cenv.Extend(id.Name, types.Monotype(ct))
		}
		c.Pattern.SetType(ct)

		if c.Guard != nil {
			gt, err := e.inferExpr(cenv, c.Guard, st)
			if err != nil {
				return nil, err
			}
			if err := e.unify(c.Guard.Line(), gt, types.TypeBool); err != nil {
				return nil, err
			}
		}
		rt, err := e.inferExpr(cenv, c.Result, st)
		if err != nil {
			return nil, err
		}
		results[i] = rt
	}
	return e.unifyAll(results, x.Line())
}

// ffiGuardImplied validates a foreign clause guard and returns the type
// it asserts. Unlike match guards, foreign guards allow no comparisons:
// nothing is known about the value yet, so only type predicates over the
// clause variable (or the literal true) are meaningful.
func (e *engine) ffiGuardImplied(c *ast.Clause) (types.Type, error) {
	switch g := c.Guard.(type) {
	case *ast.BoolLit:
		if g.Value {
			return nil, nil
		}

	case *ast.ApplyExpr:
		pred, ok := g.Callee.(*ast.Ident)
		if !ok || !predicates.Contains(pred.Name) || len(g.Args) != 1 {
			break
		}
		arg, ok := g.Args[0].(*ast.Ident)
		if !ok {
			break
		}
		pat, ok := c.Pattern.(*ast.Ident)
		if !ok || arg.Name != pat.Name {
			return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeBadGuard, c.Guard.Line(),
				"foreign clause guard must test the clause's own variable")
		}
		return e.impliedType(pred.Name), nil
	}

	return nil, diag.New(diag.StageTypeCheck, diag.CodeTypeBadGuard, c.Guard.Line(),
		"foreign clause guard must be a builtin type predicate or true")
}
