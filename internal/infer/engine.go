// Package infer implements type inference for assembled modules. The
// engine types functions bottom-up over the strongly connected components
// of the call graph, so every call site outside a function's own
// recursion group sees a finished, generalizable type scheme.
package infer

import (
	"fmt"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/module"
	"github.com/vesper-lang/vesper/internal/types"
)

type engine struct {
	mod  *module.Module
	env  *types.Env
	sub  types.Subst
	adts *adtTable

	// receivers records the mailbox type of every finalized receiver,
	// keyed name/arity.
	receivers map[string]types.Type
	// group holds the recursion group currently under inference.
	group map[string]*fnState
	// callees holds the syntactic call edges of every function.
	callees map[string][]string
	// pending holds spawn sites targeting the current group; receiver
	// status is only known once the group's propagation pass has run.
	pending []spawnCheck
}

// fnState is the in-flight typing state of one function of the current
// recursion group.
type fnState struct {
	fn         *ast.FunDecl
	key        string
	typ        *types.Fun
	mailbox    types.Type
	isReceiver bool
}

type spawnCheck struct {
	key  string
	line int
}

func fnKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// Check infers and annotates types for every function and test of the
// module. On success every expression node carries its resolved type; on
// failure the first diagnostic encountered is returned and the tree is
// left partially annotated.
func Check(m *module.Module) error {
	env := types.NewEnv()
	e := &engine{
		mod:       m,
		env:       env,
		sub:       types.NewSubst(),
		receivers: make(map[string]types.Type),
		callees:   make(map[string][]string),
	}
	e.bindBuiltins()

	adts, err := newADTTable(env, m.Types)
	if err != nil {
		return err
	}
	e.adts = adts

	keys := make([]string, len(m.Functions))
	index := make(map[string]int, len(m.Functions))
	byName := make(map[string]int)
	for i, fn := range m.Functions {
		keys[i] = fnKey(fn.Name, fn.Arity())
		index[keys[i]] = i
		if _, ok := byName[fn.Name]; !ok {
			byName[fn.Name] = i
		}
	}

	g := newGraph(len(m.Functions))
	for i, fn := range m.Functions {
		for _, ref := range calleeRefs(fn.Body) {
			if j, ok := index[ref]; ok {
				g.addEdge(i, j)
			}
		}
		// References by bare name resolve to the first function
		// declared with that name.
		for _, name := range bareRefs(fn.Body) {
			if j, ok := byName[name]; ok {
				g.addEdge(i, j)
			}
		}
	}
	for i := range m.Functions {
		for _, j := range g.edges[i] {
			e.callees[keys[i]] = append(e.callees[keys[i]], keys[j])
		}
	}

	for _, comp := range g.scc() {
		fns := make([]*ast.FunDecl, len(comp))
		for k, idx := range comp {
			fns[k] = m.Functions[idx]
		}
		if err := e.inferGroup(fns); err != nil {
			return err
		}
	}

	for _, t := range m.Tests {
		st := &fnState{mailbox: e.env.Fresh()}
		if _, err := e.inferExpr(e.env, t.Expr, st); err != nil {
			return err
		}
		if err := e.checkPendingSpawns(nil); err != nil {
			return err
		}
	}

	e.annotate()
	return nil
}

// calleeRefs collects name/arity call targets appearing syntactically in
// an expression: direct applications and spawns of a named function.
func calleeRefs(body ast.Expr) []string {
	var refs []string
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ApplyExpr:
			if id, ok := n.Callee.(*ast.Ident); ok {
				refs = append(refs, fnKey(id.Name, len(n.Args)))
			}
		case *ast.SpawnExpr:
			if id, ok := n.Fun.(*ast.Ident); ok {
				refs = append(refs, fnKey(id.Name, len(n.Args)))
			}
		}
		return true
	})
	return refs
}

// bareRefs collects plain identifier references, used to approximate
// first-class mentions of module functions. Local bindings shadowing a
// function name may over-approximate the graph; a spurious edge merges
// recursion groups but never changes which programs type-check.
func bareRefs(body ast.Expr) []string {
	var names []string
	ast.Inspect(body, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	return names
}

// inferGroup types one recursion group: bind monomorphic placeholders,
// infer every body against them, settle receiver status and mailbox
// agreement, then generalize into the global environment.
func (e *engine) inferGroup(fns []*ast.FunDecl) error {
	group := make(map[string]*fnState, len(fns))
	groupEnv := e.env
	for _, fn := range fns {
		params := make([]types.Type, fn.Arity())
		for i, p := range fn.Params {
			if p.Unit {
				params[i] = types.TypeUnit
			} else {
				params[i] = e.env.Fresh()
			}
		}
		st := &fnState{
			fn:      fn,
			key:     fnKey(fn.Name, fn.Arity()),
			typ:     &types.Fun{Params: params, Return: e.env.Fresh()},
			mailbox: e.env.Fresh(),
		}
		group[st.key] = st
		groupEnv = groupEnv.Extend(st.key, types.Monotype(st.typ))
		if _, bound := groupEnv.Lookup(fn.Name); !bound {
			groupEnv = groupEnv.Extend(fn.Name, types.Monotype(st.typ))
		}
	}
	e.group = group

	for _, fn := range fns {
		st := group[fnKey(fn.Name, fn.Arity())]
		bodyEnv := groupEnv
		for i, p := range fn.Params {
			if p.Unit {
				continue
			}
			bodyEnv = bodyEnv.Extend(p.Name, types.Monotype(st.typ.Params[i]))
		}
		bt, err := e.inferExpr(bodyEnv, fn.Body, st)
		if err != nil {
			return err
		}
		if err := e.unify(fn.Line(), st.typ.Return, bt); err != nil {
			return err
		}
	}

	// A function calling a receiver is itself a receiver; propagate to
	// fixpoint within the group.
	for changed := true; changed; {
		changed = false
		for _, st := range group {
			if st.isReceiver {
				continue
			}
			for _, callee := range e.callees[st.key] {
				if e.calleeIsReceiver(callee, group) {
					st.isReceiver = true
					changed = true
					break
				}
			}
		}
	}

	// Every call edge between receivers shares one mailbox.
	for _, fn := range fns {
		st := group[fnKey(fn.Name, fn.Arity())]
		if !st.isReceiver {
			continue
		}
		for _, callee := range e.callees[st.key] {
			mb, ok := e.calleeMailbox(callee, group)
			if !ok {
				continue
			}
			next, err := types.Unify(e.sub, st.mailbox, mb, e.adts)
			if err != nil {
				return diag.New(diag.StageTypeCheck, diag.CodeTypeReceiverConflict, st.fn.Line(),
					"receivers %s and %s disagree on the mailbox type: %s", st.key, callee, err)
			}
			e.sub = next
		}
	}

	for _, fn := range fns {
		st := group[fnKey(fn.Name, fn.Arity())]
		if !st.isReceiver {
			continue
		}
		st.typ.Recv = st.mailbox
		// An infinite receive loop constrains its own result nowhere;
		// collapse the unconstrained result to the bottom type.
		if v, ok := e.sub.Resolve(st.typ.Return).(*types.Var); ok && !e.varInParams(v, st.typ) {
			e.sub = e.sub.Bind(v.ID, &types.Rec{})
		}
	}

	if err := e.checkPendingSpawns(group); err != nil {
		return err
	}

	for _, fn := range fns {
		st := group[fnKey(fn.Name, fn.Arity())]
		sch := e.env.Generalize(e.sub, st.typ)
		e.env = e.env.Extend(st.key, sch)
		if _, bound := e.env.Lookup(fn.Name); !bound {
			e.env = e.env.Extend(fn.Name, sch)
		}
		fn.SetType(st.typ)
		if st.isReceiver {
			e.receivers[st.key] = e.sub.Apply(st.mailbox)
		}
	}
	e.group = nil
	return nil
}

func (e *engine) calleeIsReceiver(key string, group map[string]*fnState) bool {
	if st, ok := group[key]; ok {
		return st.isReceiver
	}
	_, ok := e.receivers[key]
	return ok
}

func (e *engine) calleeMailbox(key string, group map[string]*fnState) (types.Type, bool) {
	if st, ok := group[key]; ok {
		if st.isReceiver {
			return st.mailbox, true
		}
		return nil, false
	}
	mb, ok := e.receivers[key]
	return mb, ok
}

// checkPendingSpawns validates spawn sites recorded while inferring the
// current group, now that receiver status is settled.
func (e *engine) checkPendingSpawns(group map[string]*fnState) error {
	pending := e.pending
	e.pending = nil
	for _, pc := range pending {
		if st, ok := group[pc.key]; ok {
			if !st.isReceiver {
				return diag.New(diag.StageTypeCheck, diag.CodeTypeSpawnNonReceiver, pc.line,
					"spawned function %s is not a receiver", pc.key)
			}
			continue
		}
		if _, ok := e.receivers[pc.key]; !ok {
			return diag.New(diag.StageTypeCheck, diag.CodeTypeSpawnNonReceiver, pc.line,
				"spawned function %s is not a receiver", pc.key)
		}
	}
	return nil
}

func (e *engine) varInParams(v *types.Var, ft *types.Fun) bool {
	for _, p := range ft.Params {
		if e.sub.Occurs(v.ID, p) {
			return true
		}
	}
	return false
}

// annotate rewrites every filled type slot through the final
// substitution so callers observe fully resolved types.
func (e *engine) annotate() {
	resolve := func(n ast.Node) bool {
		if x, ok := n.(ast.Expr); ok {
			if t := x.Type(); t != nil {
				x.SetType(e.sub.Apply(t))
			}
		}
		return true
	}
	for _, fn := range e.mod.Functions {
		ast.Inspect(fn, resolve)
	}
	for _, t := range e.mod.Tests {
		ast.Inspect(t, resolve)
	}
}
