package analyzer

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

func (ctx *InferenceContext) inferArray(n *ast.ArrayLiteral, env *TypeEnv) typesystem.Type {
	var elem typesystem.Type = ctx.FreshVar()
	for _, e := range n.Elements {
		et := ctx.infer(e, env)
		ctx.unify(elem, et, e.Pos())
	}
	return typesystem.TArray{Elem: elem}
}

func (ctx *InferenceContext) inferTuple(n *ast.TupleLiteral, env *TypeEnv) typesystem.Type {
	elems := make([]typesystem.Type, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = ctx.infer(e, env)
	}
	return typesystem.TTuple{Elements: elems}
}

func (ctx *InferenceContext) inferIndex(n *ast.IndexExpression, env *TypeEnv) typesystem.Type {
	at := ctx.infer(n.Left, env)
	it := ctx.infer(n.Index, env)
	ctx.unify(typesystem.Int, it, n.Index.Pos())

	elem := ctx.FreshVar()
	if !ctx.unify(typesystem.TArray{Elem: elem}, at, n.Left.Pos()) {
		return ctx.FreshVar()
	}
	return elem
}

func (ctx *InferenceContext) inferField(n *ast.FieldExpression, env *TypeEnv) typesystem.Type {
	lt := ctx.resolve(ctx.infer(n.Left, env))
	tuple, ok := lt.(typesystem.TTuple)
	if !ok {
		ctx.mismatch(n.Left.Pos(), nil, lt, "field access needs a tuple of known size")
		return ctx.FreshVar()
	}
	if n.Field < 0 || n.Field >= len(tuple.Elements) {
		ctx.mismatch(n.Span, nil, lt, "tuple has no field %d", n.Field)
		return ctx.FreshVar()
	}
	return tuple.Elements[n.Field]
}

func (ctx *InferenceContext) inferMap(n *ast.MapExpression, env *TypeEnv) typesystem.Type {
	at := ctx.infer(n.Array, env)
	a, b := ctx.FreshVar(), ctx.FreshVar()
	ctx.unify(typesystem.TArray{Elem: a}, at, n.Array.Pos())
	ft := ctx.inferFunctionOperand(n.Func, 1, env)
	ctx.unify(typesystem.TFunc{Params: []typesystem.Type{a}, ReturnType: b}, ft, n.Func.Pos())
	return typesystem.TArray{Elem: b}
}

func (ctx *InferenceContext) inferFilter(n *ast.FilterExpression, env *TypeEnv) typesystem.Type {
	at := ctx.infer(n.Array, env)
	a := ctx.FreshVar()
	ctx.unify(typesystem.TArray{Elem: a}, at, n.Array.Pos())
	ft := ctx.inferFunctionOperand(n.Func, 1, env)
	ctx.unify(typesystem.TFunc{Params: []typesystem.Type{a}, ReturnType: typesystem.Bool}, ft, n.Func.Pos())
	return typesystem.TArray{Elem: a}
}

func (ctx *InferenceContext) inferReduce(n *ast.ReduceExpression, env *TypeEnv) typesystem.Type {
	at := ctx.infer(n.Array, env)
	a := ctx.FreshVar()
	ctx.unify(typesystem.TArray{Elem: a}, at, n.Array.Pos())
	acc := ctx.infer(n.Init, env)
	ft := ctx.inferFunctionOperand(n.Func, 2, env)
	ctx.unify(typesystem.TFunc{Params: []typesystem.Type{acc, a}, ReturnType: acc}, ft, n.Func.Pos())
	return acc
}

// inferFold types a built-in fold. Sum and product need numeric elements,
// min and max numbers or Strings, and/or Bools.
func (ctx *InferenceContext) inferFold(n *ast.FoldExpression, env *TypeEnv) typesystem.Type {
	at := ctx.infer(n.Array, env)
	var a typesystem.Type = ctx.FreshVar()
	if !ctx.unify(typesystem.TArray{Elem: a}, at, n.Array.Pos()) {
		a = ctx.FreshVar()
	}

	switch n.Operator {
	case "+", "*":
		return ctx.numericOperand(a, nil, n.Array)
	case "min", "max":
		if elem := ctx.resolve(a); typesystem.Is(elem, typesystem.String) {
			return elem
		}
		return ctx.numericOperand(a, nil, n.Array)
	case "and", "or":
		ctx.unify(typesystem.Bool, a, n.Array.Pos())
		return typesystem.Bool
	}
	ctx.mismatch(n.Span, nil, nil, "unknown fold ./%s", n.Operator)
	return ctx.FreshVar()
}

func (ctx *InferenceContext) inferRange(n *ast.RangeExpression, env *TypeEnv) typesystem.Type {
	ctx.unify(typesystem.Int, ctx.infer(n.Start, env), n.Start.Pos())
	ctx.unify(typesystem.Int, ctx.infer(n.End, env), n.End.Pos())
	return typesystem.TArray{Elem: typesystem.Int}
}

// inferContains types elem @ container: membership in an array, or a
// substring test when the container is a String.
func (ctx *InferenceContext) inferContains(n *ast.ContainsExpression, env *TypeEnv) typesystem.Type {
	et := ctx.infer(n.Element, env)
	ct := ctx.resolve(ctx.infer(n.Container, env))
	if typesystem.Is(ct, typesystem.String) {
		ctx.unify(typesystem.String, et, n.Element.Pos())
		return typesystem.Bool
	}
	ctx.unify(typesystem.TArray{Elem: et}, ct, n.Container.Pos())
	return typesystem.Bool
}

// inferFunctionOperand types the function argument of a collection operator:
// a lambda, or the name of a user function or builtin.
func (ctx *InferenceContext) inferFunctionOperand(e ast.Expression, arity int, env *TypeEnv) typesystem.Type {
	var t typesystem.Type
	switch f := e.(type) {
	case *ast.FunctionLiteral:
		if len(f.Params) != arity {
			ctx.report(&TypeError{Kind: ArityMismatch, Span: f.Span, Name: "function literal", ExpectedArity: arity, FoundArity: len(f.Params)})
		}
		t = ctx.inferLambda(f, env)
	case *ast.Identifier:
		ft, ok := ctx.lookupFunction(f.Value, env)
		if !ok {
			if _, isValue := env.Lookup(f.Value); isValue {
				ctx.mismatch(f.Span, nil, nil, "%s is not a function", f.Value)
			} else {
				ctx.report(&TypeError{Kind: UnboundIdentifier, Span: f.Span, Name: f.Value})
			}
			t = ctx.FreshVar()
		} else {
			t = ft
		}
	default:
		ctx.infer(e, env)
		ctx.mismatch(e.Pos(), nil, nil, "expected a function literal or function name")
		t = ctx.FreshVar()
	}
	ctx.TypeMap[e] = t
	return t
}

// inferLambda types a function literal. Its parameters are monomorphic and it
// sees the enclosing scope, including @.
func (ctx *InferenceContext) inferLambda(n *ast.FunctionLiteral, env *TypeEnv) typesystem.Type {
	vars := map[string]typesystem.TVar{}
	params := make([]typesystem.Type, len(n.Params))
	inner := env
	for i, p := range n.Params {
		var pt typesystem.Type = ctx.FreshVar()
		if p.Type != nil {
			pt = ctx.annotation(p.Type, vars)
		}
		params[i] = pt
		ctx.TypeMap[p] = pt
		inner = inner.Extend(p.Name, pt, valueBinding)
	}
	ret := ctx.infer(n.Body, inner)
	t := typesystem.TFunc{Params: params, ReturnType: ret}
	ctx.TypeMap[n] = t
	return t
}
