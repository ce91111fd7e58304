package infer

// graph is a directed call graph over function indices.
type graph struct {
	edges [][]int
}

func newGraph(n int) *graph {
	return &graph{edges: make([][]int, n)}
}

func (g *graph) addEdge(from, to int) {
	for _, v := range g.edges[from] {
		if v == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// scc returns the strongly connected components of g using Tarjan's
// algorithm. Components come out in reverse topological order of the
// condensation, so every component's callees appear before it. Typing
// the components in this order means a function's dependencies always
// carry finished type schemes by the time it is reached.
func (g *graph) scc() [][]int {
	n := len(g.edges)
	t := &tarjan{
		g:       g,
		index:   make([]int, n),
		lowlink: make([]int, n),
		onStack: make([]bool, n),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	for v := 0; v < n; v++ {
		if t.index[v] < 0 {
			t.strongConnect(v)
		}
	}
	return t.components
}

type tarjan struct {
	g          *graph
	counter    int
	index      []int
	lowlink    []int
	onStack    []bool
	stack      []int
	components [][]int
}

func (t *tarjan) strongConnect(v int) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.edges[v] {
		if t.index[w] < 0 {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] && t.index[w] < t.lowlink[v] {
			t.lowlink[v] = t.index[w]
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, comp)
	}
}
