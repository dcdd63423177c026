package analyzer

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

func (ctx *InferenceContext) inferCall(n *ast.CallExpression, env *TypeEnv) typesystem.Type {
	name := n.Function.Value
	ft, ok := ctx.lookupFunction(name, env)
	if !ok {
		if b, isValue := env.Lookup(name); isValue && b.kind == valueBinding {
			ctx.mismatch(n.Function.Span, nil, ctx.resolve(b.typ), "%s is not a function", name)
		} else {
			ctx.report(&TypeError{Kind: UnboundIdentifier, Span: n.Function.Span, Name: name})
		}
		ctx.inferArgs(n.Arguments, env)
		return ctx.FreshVar()
	}
	ctx.TypeMap[n.Function] = ft
	return ctx.applyFunction(name, ft, n.Arguments, n.Span, env)
}

func (ctx *InferenceContext) inferSelfCall(n *ast.SelfCallExpression, env *TypeEnv) typesystem.Type {
	b, ok := env.Lookup(selfName)
	if !ok {
		ctx.report(&TypeError{Kind: UnboundIdentifier, Span: n.Span, Name: selfName, Message: "@ outside of a function"})
		ctx.inferArgs(n.Arguments, env)
		return ctx.FreshVar()
	}
	return ctx.applyFunction(selfName, b.typ, n.Arguments, n.Span, env)
}

// applyFunction checks arguments against ft at the call site and returns the
// result type.
func (ctx *InferenceContext) applyFunction(name string, ft typesystem.Type, args []ast.Expression, span ast.Span, env *TypeEnv) typesystem.Type {
	fn, ok := ctx.resolve(ft).(typesystem.TFunc)
	if !ok {
		ctx.mismatch(span, nil, ctx.resolve(ft), "%s is not a function", name)
		ctx.inferArgs(args, env)
		return ctx.FreshVar()
	}
	if len(fn.Params) != len(args) {
		ctx.report(&TypeError{
			Kind:          ArityMismatch,
			Span:          span,
			Name:          name,
			ExpectedArity: len(fn.Params),
			FoundArity:    len(args),
		})
		ctx.inferArgs(args, env)
		return fn.ReturnType
	}
	for i, arg := range args {
		at := ctx.infer(arg, env)
		ctx.unify(fn.Params[i], at, span)
	}
	return fn.ReturnType
}

func (ctx *InferenceContext) inferArgs(args []ast.Expression, env *TypeEnv) {
	for _, a := range args {
		ctx.infer(a, env)
	}
}
