package analyzer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

// InferenceContext holds the state for a type inference pass.
// Using a context instead of global state ensures predictable type variable names
// and allows independent checks to run side by side.
type InferenceContext struct {
	counter int
	// TypeMap records the inferred type of every node, before the final
	// substitution is applied.
	TypeMap map[ast.Node]typesystem.Type
	// GlobalSubst stores the accumulated substitution for the entire inference pass
	GlobalSubst typesystem.Subst
	// Constraints stores every equality the pass has solved, in order.
	Constraints []Constraint
	Errors      []*TypeError

	// Per-function bookkeeping, reset by beginFunction.
	fnErrors  int
	valueUses []valueUse
}

// valueUse is a function name that appeared where a value was expected.
type valueUse struct {
	name string
	typ  typesystem.Type
	span ast.Span
}

func NewInferenceContext() *InferenceContext {
	return &InferenceContext{
		TypeMap:     make(map[ast.Node]typesystem.Type),
		GlobalSubst: make(typesystem.Subst),
	}
}

// FreshVar generates a fresh type variable with a unique name.
func (ctx *InferenceContext) FreshVar() typesystem.TVar {
	ctx.counter++
	return typesystem.TVar{Name: fmt.Sprintf("t%d", ctx.counter)}
}

// resolve applies the current substitution.
func (ctx *InferenceContext) resolve(t typesystem.Type) typesystem.Type {
	return t.Apply(ctx.GlobalSubst)
}

// unify solves expected = found immediately, recording the constraint.
// On failure the error is reported at span and the substitution is left
// unchanged.
func (ctx *InferenceContext) unify(expected, found typesystem.Type, span ast.Span) bool {
	c := Constraint{Expected: expected, Found: found, Span: span}
	ctx.Constraints = append(ctx.Constraints, c)

	e, f := ctx.resolve(expected), ctx.resolve(found)
	s, err := typesystem.Unify(e, f)
	if err != nil {
		ctx.reportUnify(err, e, f, span)
		return false
	}
	ctx.GlobalSubst = ctx.GlobalSubst.Compose(s)
	return true
}

func (ctx *InferenceContext) reportUnify(err error, expected, found typesystem.Type, span ast.Span) {
	var ue *typesystem.UnifyError
	if errors.As(err, &ue) && ue.Kind == typesystem.Occurs {
		ctx.report(&TypeError{Kind: OccursCheckFailure, Span: span, Expected: ue.Var, Found: ue.Found})
		return
	}
	te := &TypeError{Kind: TypeMismatch, Span: span, Expected: expected, Found: found}
	if ue != nil && ue.Detail != "" {
		te.Message = ue.Detail
	}
	ctx.report(te)
}

func (ctx *InferenceContext) report(e *TypeError) {
	ctx.Errors = append(ctx.Errors, e)
	ctx.fnErrors++
}

func (ctx *InferenceContext) mismatch(span ast.Span, expected, found typesystem.Type, format string, args ...any) {
	te := &TypeError{Kind: TypeMismatch, Span: span, Expected: expected, Found: found}
	if format != "" {
		te.Message = fmt.Sprintf(format, args...)
	}
	ctx.report(te)
}

// beginFunction starts error accounting for one function body.
func (ctx *InferenceContext) beginFunction() {
	ctx.fnErrors = 0
	ctx.valueUses = ctx.valueUses[:0]
}

// endFunction reports function names used as values. They are only
// reported when the body is otherwise well typed, so that a deeper error
// such as an infinite type is not buried under a secondary one.
func (ctx *InferenceContext) endFunction() {
	if ctx.fnErrors == 0 {
		for _, u := range ctx.valueUses {
			ctx.report(&TypeError{
				Kind:    TypeMismatch,
				Span:    u.span,
				Found:   ctx.resolve(u.typ),
				Name:    u.name,
				Message: fmt.Sprintf("function %s used as a value", u.name),
			})
		}
	}
	ctx.valueUses = ctx.valueUses[:0]
}

// Generalize quantifies the variables of t that are not free in env.
func (ctx *InferenceContext) Generalize(t typesystem.Type, env *TypeEnv) typesystem.Type {
	t = ctx.resolve(t)
	envVars := env.freeVars(ctx.GlobalSubst)
	var vars []typesystem.TVar
	for _, v := range t.FreeTypeVariables() {
		if !envVars[v.Name] {
			vars = append(vars, v)
		}
	}
	if len(vars) == 0 {
		return t
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return typesystem.TForall{Vars: vars, Type: t}
}

// Instantiate replaces the quantified variables of a scheme with fresh ones.
// Other types are returned unchanged.
func (ctx *InferenceContext) Instantiate(t typesystem.Type) typesystem.Type {
	scheme, ok := t.(typesystem.TForall)
	if !ok {
		return t
	}
	subst := make(typesystem.Subst, len(scheme.Vars))
	for _, v := range scheme.Vars {
		subst[v.Name] = ctx.FreshVar()
	}
	return scheme.Type.Apply(subst)
}

// infer computes the type of an expression bottom-up, solving constraints as
// they arise. It always returns a type: after an error the expression gets a
// fresh variable so checking can continue.
func (ctx *InferenceContext) infer(node ast.Expression, env *TypeEnv) typesystem.Type {
	if node == nil {
		return ctx.FreshVar()
	}

	var t typesystem.Type
	switch n := node.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.VoidLiteral:
		t = inferLiteral(n)
	case *ast.Identifier:
		t = ctx.inferIdentifier(n, env)
	case *ast.PrefixExpression:
		t = ctx.inferPrefix(n, env)
	case *ast.InfixExpression:
		t = ctx.inferInfix(n, env)
	case *ast.TernaryExpression:
		t = ctx.inferTernary(n, env)
	case *ast.LetExpression:
		t = ctx.inferLet(n, env)
	case *ast.CallExpression:
		t = ctx.inferCall(n, env)
	case *ast.SelfCallExpression:
		t = ctx.inferSelfCall(n, env)
	case *ast.ArrayLiteral:
		t = ctx.inferArray(n, env)
	case *ast.TupleLiteral:
		t = ctx.inferTuple(n, env)
	case *ast.IndexExpression:
		t = ctx.inferIndex(n, env)
	case *ast.FieldExpression:
		t = ctx.inferField(n, env)
	case *ast.MapExpression:
		t = ctx.inferMap(n, env)
	case *ast.FilterExpression:
		t = ctx.inferFilter(n, env)
	case *ast.ReduceExpression:
		t = ctx.inferReduce(n, env)
	case *ast.FoldExpression:
		t = ctx.inferFold(n, env)
	case *ast.RangeExpression:
		t = ctx.inferRange(n, env)
	case *ast.ContainsExpression:
		t = ctx.inferContains(n, env)
	case *ast.FunctionLiteral:
		// Lambdas are checked by the collection operators that own them.
		ctx.inferLambda(n, env)
		ctx.mismatch(n.Span, nil, nil, "function literal outside of map, filter or reduce")
		t = ctx.FreshVar()
	default:
		ctx.mismatch(node.Pos(), nil, nil, "unsupported expression %T", node)
		t = ctx.FreshVar()
	}

	ctx.TypeMap[node] = t
	return t
}
