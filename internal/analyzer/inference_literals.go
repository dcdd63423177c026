package analyzer

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/typesystem"
)

func inferLiteral(n ast.Expression) typesystem.Type {
	switch n.(type) {
	case *ast.IntegerLiteral:
		return typesystem.Int
	case *ast.FloatLiteral:
		return typesystem.Float
	case *ast.StringLiteral:
		return typesystem.String
	case *ast.BooleanLiteral:
		return typesystem.Bool
	}
	return typesystem.Void
}

func (ctx *InferenceContext) inferIdentifier(n *ast.Identifier, env *TypeEnv) typesystem.Type {
	if b, ok := env.Lookup(n.Value); ok && b.kind != selfBinding {
		t := ctx.Instantiate(b.typ)
		if b.kind == functionBinding {
			ctx.valueUses = append(ctx.valueUses, valueUse{name: n.Value, typ: t, span: n.Span})
		}
		return t
	}
	if bi, ok := builtins.Lookup(n.Value); ok {
		t := ctx.Instantiate(bi.Scheme)
		ctx.valueUses = append(ctx.valueUses, valueUse{name: n.Value, typ: t, span: n.Span})
		return t
	}
	ctx.report(&TypeError{Kind: UnboundIdentifier, Span: n.Span, Name: n.Value})
	return ctx.FreshVar()
}

// lookupFunction resolves a name in call position: user functions first,
// then builtins.
func (ctx *InferenceContext) lookupFunction(name string, env *TypeEnv) (typesystem.Type, bool) {
	if t, ok := env.LookupFunction(name); ok {
		return ctx.Instantiate(t), true
	}
	if bi, ok := builtins.Lookup(name); ok {
		return ctx.Instantiate(bi.Scheme), true
	}
	return nil, false
}
