package analyzer

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

func (ctx *InferenceContext) inferTernary(n *ast.TernaryExpression, env *TypeEnv) typesystem.Type {
	ct := ctx.infer(n.Condition, env)
	ctx.unify(typesystem.Bool, ct, n.Condition.Pos())

	tt := ctx.infer(n.Consequence, env)
	et := ctx.infer(n.Alternative, env)
	if !ctx.unify(tt, et, n.Alternative.Pos()) {
		return ctx.FreshVar()
	}
	return tt
}

// inferLet generalizes the bound value over the variables it does not share
// with the enclosing scope, so `let id = ...` style bindings are polymorphic.
func (ctx *InferenceContext) inferLet(n *ast.LetExpression, env *TypeEnv) typesystem.Type {
	vt := ctx.infer(n.Value, env)
	if n.Name.Type != nil {
		at := ctx.annotation(n.Name.Type, map[string]typesystem.TVar{})
		ctx.unify(at, vt, n.Name.Span)
	}
	scheme := ctx.Generalize(vt, env)
	ctx.TypeMap[n.Name] = scheme
	return ctx.infer(n.Body, env.Extend(n.Name.Name, scheme, valueBinding))
}
