package ast

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false, the children of that node are skipped.
// Type annotations are not visited.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, fn := range n.Functions {
			Inspect(fn, f)
		}
		if n.Main != nil {
			Inspect(n.Main, f)
		}
	case *FunctionDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		Inspect(n.Body, f)
	case *PrefixExpression:
		Inspect(n.Right, f)
	case *InfixExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *TernaryExpression:
		Inspect(n.Condition, f)
		Inspect(n.Consequence, f)
		Inspect(n.Alternative, f)
	case *CallExpression:
		Inspect(n.Function, f)
		inspectList(n.Arguments, f)
	case *SelfCallExpression:
		inspectList(n.Arguments, f)
	case *ArrayLiteral:
		inspectList(n.Elements, f)
	case *TupleLiteral:
		inspectList(n.Elements, f)
	case *IndexExpression:
		Inspect(n.Left, f)
		Inspect(n.Index, f)
	case *FieldExpression:
		Inspect(n.Left, f)
	case *LetExpression:
		Inspect(n.Name, f)
		Inspect(n.Value, f)
		Inspect(n.Body, f)
	case *FunctionLiteral:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		Inspect(n.Body, f)
	case *MapExpression:
		Inspect(n.Array, f)
		Inspect(n.Func, f)
	case *FilterExpression:
		Inspect(n.Array, f)
		Inspect(n.Func, f)
	case *ReduceExpression:
		Inspect(n.Array, f)
		Inspect(n.Init, f)
		Inspect(n.Func, f)
	case *FoldExpression:
		Inspect(n.Array, f)
	case *RangeExpression:
		Inspect(n.Start, f)
		Inspect(n.End, f)
	case *ContainsExpression:
		Inspect(n.Element, f)
		Inspect(n.Container, f)
	}
}

func inspectList(list []Expression, f func(Node) bool) {
	for _, e := range list {
		Inspect(e, f)
	}
}
