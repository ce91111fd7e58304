package ast

// Inspect traverses the tree rooted at n in depth-first pre-order,
// calling fn for each node. If fn returns false for a node, its children
// are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *TupleExpr:
		for _, e := range n.Elems {
			Inspect(e, fn)
		}
	case *ListExpr:
		for _, e := range n.Elems {
			Inspect(e, fn)
		}
	case *ConsExpr:
		Inspect(n.Head, fn)
		Inspect(n.Tail, fn)
	case *MapExpr:
		for _, pair := range n.Pairs {
			Inspect(pair.Key, fn)
			Inspect(pair.Val, fn)
		}
	case *BinaryExpr:
		for _, seg := range n.Segments {
			Inspect(seg.Value, fn)
		}
	case *FunDecl:
		Inspect(n.Body, fn)
	case *LetExpr:
		Inspect(n.Value, fn)
		Inspect(n.Body, fn)
	case *LetFunExpr:
		Inspect(n.Fun, fn)
		Inspect(n.Body, fn)
	case *ApplyExpr:
		Inspect(n.Callee, fn)
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	case *CtorExpr:
		if n.Arg != nil {
			Inspect(n.Arg, fn)
		}
	case *InfixExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *MatchExpr:
		Inspect(n.Scrutinee, fn)
		for _, c := range n.Clauses {
			Inspect(c, fn)
		}
	case *Clause:
		Inspect(n.Pattern, fn)
		if n.Guard != nil {
			Inspect(n.Guard, fn)
		}
		Inspect(n.Result, fn)
	case *SpawnExpr:
		Inspect(n.Fun, fn)
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	case *SendExpr:
		Inspect(n.Msg, fn)
		Inspect(n.Target, fn)
	case *ReceiveExpr:
		for _, c := range n.Clauses {
			Inspect(c, fn)
		}
	case *FFIExpr:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
		for _, c := range n.Clauses {
			Inspect(c, fn)
		}
	case *TestDecl:
		Inspect(n.Expr, fn)
	}
}
