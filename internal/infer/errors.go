package infer

import (
	"errors"

	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/types"
)

// typeErr converts a unification failure into a positioned diagnostic.
// Diagnostics raised deeper in the engine pass through unchanged.
func typeErr(line int, err error) error {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		return d
	}
	code := diag.CodeTypeMismatch
	var u *types.UnifyError
	if errors.As(err, &u) {
		switch u.Kind {
		case types.KindOccurs:
			code = diag.CodeTypeOccurs
		case types.KindTupleArity:
			code = diag.CodeTypeTupleArity
		case types.KindFunArity:
			code = diag.CodeTypeFunArity
		}
	}
	return diag.New(diag.StageTypeCheck, code, line, "%s", err.Error())
}

// unify extends the engine's substitution, reporting failures at line.
func (e *engine) unify(line int, a, b types.Type) error {
	next, err := types.Unify(e.sub, a, b, e.adts)
	if err != nil {
		return typeErr(line, err)
	}
	e.sub = next
	return nil
}
