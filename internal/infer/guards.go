package infer

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/types"
)

// predicates is the closed set of builtin type-predicate functions
// usable in guards. Each takes any value and returns a boolean; its true
// branch tells the checker what the tested value must be.
var predicates = set.From([]string{
	"is_integer",
	"is_float",
	"is_atom",
	"is_string",
	"is_binary",
	"is_chars",
	"is_bool",
	"is_list",
	"is_map",
	"is_pid",
})

// impliedType returns the type a predicate asserts of its argument.
// Container predicates assert the shape only; element types stay open.
func (e *engine) impliedType(pred string) types.Type {
	switch pred {
	case "is_integer":
		return types.TypeInt
	case "is_float":
		return types.TypeFloat
	case "is_atom":
		return types.TypeAtom
	case "is_string", "is_binary":
		return types.TypeString
	case "is_chars":
		return types.TypeCharList
	case "is_bool":
		return types.TypeBool
	case "is_list":
		return &types.List{Elem: e.env.Fresh()}
	case "is_map":
		return &types.Map{Key: e.env.Fresh(), Val: e.env.Fresh()}
	case "is_pid":
		return &types.Pid{Msg: e.env.Fresh()}
	}
	return nil
}

// bindBuiltins installs the predicate functions into the environment.
// Each is polymorphic in its argument: testing a value never constrains
// it.
func (e *engine) bindBuiltins() {
	for pred := range predicates.Items() {
		v := e.env.Fresh()
		e.env = e.env.Extend(pred, types.Scheme{
			Vars: []int{v.ID},
			Type: &types.Fun{Params: []types.Type{v}, Return: types.TypeBool},
		})
	}
}

// validateGuard enforces the restricted guard grammar: literals, bound
// symbols, comparisons and arithmetic over them, and applications of the
// builtin predicates. Control forms and calls to arbitrary functions are
// rejected.
func (e *engine) validateGuard(g ast.Expr) error {
	switch g := g.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.AtomLit, *ast.StringLit,
		*ast.CharListLit, *ast.BoolLit, *ast.UnitLit, *ast.Ident:
		return nil

	case *ast.TupleExpr:
		for _, el := range g.Elems {
			if err := e.validateGuard(el); err != nil {
				return err
			}
		}
		return nil

	case *ast.InfixExpr:
		if err := e.validateGuard(g.Left); err != nil {
			return err
		}
		return e.validateGuard(g.Right)

	case *ast.ApplyExpr:
		id, ok := g.Callee.(*ast.Ident)
		if !ok || !predicates.Contains(id.Name) {
			return diag.New(diag.StageTypeCheck, diag.CodeTypeBadGuard, g.Line(),
				"only builtin type predicates may be called in a guard")
		}
		if len(g.Args) != 1 {
			return diag.New(diag.StageTypeCheck, diag.CodeTypeBadGuard, g.Line(),
				"%s takes exactly one argument", id.Name)
		}
		return e.validateGuard(g.Args[0])
	}

	return diag.New(diag.StageTypeCheck, diag.CodeTypeBadGuard, g.Line(),
		"expression form not allowed in a guard")
}

// guardNarrowing returns the type a clause's guard asserts of its
// variable pattern, or nil when the pattern is not a plain variable or
// the guard is not a predicate applied to it.
func (e *engine) guardNarrowing(c *ast.Clause) types.Type {
	pat, ok := c.Pattern.(*ast.Ident)
	if !ok {
		return nil
	}
	app, ok := c.Guard.(*ast.ApplyExpr)
	if !ok || len(app.Args) != 1 {
		return nil
	}
	pred, ok := app.Callee.(*ast.Ident)
	if !ok || !predicates.Contains(pred.Name) {
		return nil
	}
	arg, ok := app.Args[0].(*ast.Ident)
	if !ok || arg.Name != pat.Name {
		return nil
	}
	return e.impliedType(pred.Name)
}
