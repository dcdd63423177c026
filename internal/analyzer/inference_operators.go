package analyzer

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

func (ctx *InferenceContext) inferPrefix(n *ast.PrefixExpression, env *TypeEnv) typesystem.Type {
	rt := ctx.infer(n.Right, env)
	switch n.Operator {
	case "-":
		return ctx.numericOperand(rt, nil, n.Right)
	case "!":
		ctx.unify(typesystem.Bool, rt, n.Right.Pos())
		return typesystem.Bool
	}
	ctx.mismatch(n.Span, nil, nil, "unknown prefix operator %s", n.Operator)
	return ctx.FreshVar()
}

func (ctx *InferenceContext) inferInfix(n *ast.InfixExpression, env *TypeEnv) typesystem.Type {
	lt := ctx.infer(n.Left, env)
	rt := ctx.infer(n.Right, env)

	switch n.Operator {
	case "&&", "||":
		ctx.unify(typesystem.Bool, lt, n.Left.Pos())
		ctx.unify(typesystem.Bool, rt, n.Right.Pos())
		return typesystem.Bool

	case "+", "-", "*", "/", "%":
		l, r := ctx.resolve(lt), ctx.resolve(rt)
		if n.Operator == "+" && (typesystem.Is(l, typesystem.String) || typesystem.Is(r, typesystem.String)) {
			ctx.unify(typesystem.String, l, n.Left.Pos())
			ctx.unify(typesystem.String, r, n.Right.Pos())
			return typesystem.String
		}
		l = ctx.numericOperand(l, r, n.Left)
		r = ctx.numericOperand(r, l, n.Right)
		return numericResult(l, r)

	case "<", "<=", ">", ">=":
		l, r := ctx.resolve(lt), ctx.resolve(rt)
		if typesystem.Is(l, typesystem.String) || typesystem.Is(r, typesystem.String) {
			ctx.unify(typesystem.String, l, n.Left.Pos())
			ctx.unify(typesystem.String, r, n.Right.Pos())
			return typesystem.Bool
		}
		l = ctx.numericOperand(l, r, n.Left)
		ctx.numericOperand(r, l, n.Right)
		return typesystem.Bool

	case "==", "!=":
		l, r := ctx.resolve(lt), ctx.resolve(rt)
		switch {
		case typesystem.IsNumeric(l) && typesystem.IsNumeric(r):
		case typesystem.IsNumeric(l) && typesystem.IsVar(r):
			ctx.unify(l, r, n.Right.Pos())
		case typesystem.IsVar(l) && typesystem.IsNumeric(r):
			ctx.unify(r, l, n.Left.Pos())
		default:
			ctx.unify(l, r, n.Span)
		}
		return typesystem.Bool
	}

	ctx.mismatch(n.Span, nil, nil, "unknown operator %s", n.Operator)
	return ctx.FreshVar()
}

// numericOperand constrains an arithmetic operand. A variable takes the type
// of a numeric partner, or Int when the partner is unknown too. Any other
// type is an error and is treated as Int from then on.
func (ctx *InferenceContext) numericOperand(t, other typesystem.Type, expr ast.Expression) typesystem.Type {
	t = ctx.resolve(t)
	switch {
	case typesystem.IsNumeric(t):
		return t
	case typesystem.IsVar(t):
		target := typesystem.Type(typesystem.Int)
		if other != nil && typesystem.IsNumeric(other) {
			target = other
		}
		ctx.unify(target, t, expr.Pos())
		return target
	}
	ctx.mismatch(expr.Pos(), typesystem.Int, t, "arithmetic needs Int or Float")
	return typesystem.Int
}

// numericResult is Float when either operand is Float, Int otherwise.
func numericResult(l, r typesystem.Type) typesystem.Type {
	if typesystem.Is(l, typesystem.Float) || typesystem.Is(r, typesystem.Float) {
		return typesystem.Float
	}
	return typesystem.Int
}
