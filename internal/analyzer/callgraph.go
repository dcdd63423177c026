package analyzer

import (
	"sort"

	"github.com/vais-lang/vais/internal/ast"
)

// recursionGroups splits the top-level functions into strongly connected
// components of the call graph. Groups come out callee-first, and members
// of a group keep declaration order.
func recursionGroups(funcs []*ast.FunctionDecl) [][]int {
	index := make(map[string]int, len(funcs))
	for i, fn := range funcs {
		if _, dup := index[fn.Name]; !dup {
			index[fn.Name] = i
		}
	}

	edges := make([][]int, len(funcs))
	for i, fn := range funcs {
		seen := map[int]bool{}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			var name string
			switch x := n.(type) {
			case *ast.CallExpression:
				name = x.Function.Value
			case *ast.Identifier:
				name = x.Value
			default:
				return true
			}
			if j, ok := index[name]; ok && !seen[j] {
				seen[j] = true
				edges[i] = append(edges[i], j)
			}
			return true
		})
	}

	t := &tarjan{
		edges:   edges,
		index:   make([]int, len(funcs)),
		low:     make([]int, len(funcs)),
		onStack: make([]bool, len(funcs)),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := range funcs {
		if t.index[i] == -1 {
			t.connect(i)
		}
	}
	return t.groups
}

type tarjan struct {
	edges   [][]int
	counter int
	index   []int
	low     []int
	onStack []bool
	stack   []int
	groups  [][]int
}

func (t *tarjan) connect(v int) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edges[v] {
		if t.index[w] == -1 {
			t.connect(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] == t.index[v] {
		var group []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			group = append(group, w)
			if w == v {
				break
			}
		}
		sort.Ints(group)
		t.groups = append(t.groups, group)
	}
}
