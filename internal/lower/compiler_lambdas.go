package lower

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/typesystem"
)

// collection lowers map, filter and reduce:
//
//	array [init] captures... OP_*_ARRAY fn
func (fc *funcCompiler) collection(op ir.Opcode, n, array, init, fnExpr ast.Expression) error {
	if err := fc.value(array); err != nil {
		return err
	}
	if init != nil {
		if err := fc.value(init); err != nil {
			return err
		}
	}
	name, captures, err := fc.functionOperand(fnExpr)
	if err != nil {
		return err
	}
	for _, slot := range captures {
		fc.emit(ir.Instruction{Op: ir.OP_LOAD_LOCAL, Arg: slot, Type: fc.locals[slot]}, fnExpr.Pos())
	}
	return fc.typed(ir.Instruction{Op: op, Name: name, Captures: len(captures)}, n)
}

// functionOperand returns the IR function to apply and the local slots it
// captures.
func (fc *funcCompiler) functionOperand(e ast.Expression) (string, []int, error) {
	switch f := e.(type) {
	case *ast.Identifier:
		if fc.l.funcs[f.Value] {
			return f.Value, nil, nil
		}
		if fc.l.isBuiltinCall(f.Value) {
			name, err := fc.builtinWrapper(f)
			return name, nil, err
		}
		return "", nil, iceErrorf(fc.name, "unknown function %s at %s", f.Value, f.Span)
	case *ast.FunctionLiteral:
		return fc.lambdaFunction(f)
	}
	return "", nil, iceErrorf(fc.name, "function operand %T at %s", e, e.Pos())
}

// lambdaFunction lowers a function literal to its own IR function. Captured
// locals become its leading parameters, in order of first use.
func (fc *funcCompiler) lambdaFunction(lit *ast.FunctionLiteral) (string, []int, error) {
	lt, err := fc.typeOf(lit)
	if err != nil {
		return "", nil, err
	}
	sig, ok := lt.(typesystem.TFunc)
	if !ok {
		return "", nil, iceErrorf(fc.name, "function literal at %s has type %s", lit.Span, lt)
	}

	names := fc.captures(lit)
	slots := make([]int, len(names))

	// Reserve the name before lowering the body so nested lambdas number after it.
	name := fc.nextLambdaName()
	idx := len(*fc.lambdas)
	*fc.lambdas = append(*fc.lambdas, nil)

	inner := fc.l.newCompiler(name, fc.owner, fc.lambdas, fc.wrapped)
	inner.lambda = true
	params := make([]typesystem.Type, 0, len(names)+len(lit.Params))
	for i, cn := range names {
		slot, _ := fc.scope.resolve(cn)
		slots[i] = slot
		inner.declare(cn, fc.locals[slot])
		params = append(params, fc.locals[slot])
	}
	for i, p := range lit.Params {
		inner.declare(p.Name, sig.Params[i])
		params = append(params, sig.Params[i])
	}
	if err := inner.tail(lit.Body); err != nil {
		return "", nil, err
	}
	(*fc.lambdas)[idx] = inner.finish(len(params), params, sig.ReturnType)
	return name, slots, nil
}

// captures lists the enclosing locals referenced by lit, in order of first
// occurrence.
func (fc *funcCompiler) captures(lit *ast.FunctionLiteral) []string {
	var names []string
	seen := map[string]bool{}
	bound := map[string]int{}
	for _, p := range lit.Params {
		bound[p.Name]++
	}

	var walk func(e ast.Expression)
	walk = func(e ast.Expression) {
		switch n := e.(type) {
		case *ast.Identifier:
			if bound[n.Value] > 0 || seen[n.Value] {
				return
			}
			if _, ok := fc.scope.resolve(n.Value); ok {
				seen[n.Value] = true
				names = append(names, n.Value)
			}
		case *ast.LetExpression:
			walk(n.Value)
			bound[n.Name.Name]++
			walk(n.Body)
			bound[n.Name.Name]--
		case *ast.FunctionLiteral:
			for _, p := range n.Params {
				bound[p.Name]++
			}
			walk(n.Body)
			for _, p := range n.Params {
				bound[p.Name]--
			}
		case *ast.CallExpression:
			// The callee is a function name, not a captured value.
			for _, a := range n.Arguments {
				walk(a)
			}
		case *ast.MapExpression:
			walk(n.Array)
			walkOperand(n.Func, walk)
		case *ast.FilterExpression:
			walk(n.Array)
			walkOperand(n.Func, walk)
		case *ast.ReduceExpression:
			walk(n.Array)
			walk(n.Init)
			walkOperand(n.Func, walk)
		default:
			ast.Inspect(e, func(child ast.Node) bool {
				if child == e {
					return true
				}
				if ce, ok := child.(ast.Expression); ok {
					walk(ce)
				}
				return false
			})
		}
	}
	walk(lit.Body)
	return names
}

// walkOperand visits a collection function operand; a bare name there is a
// function, not a captured value.
func walkOperand(e ast.Expression, walk func(ast.Expression)) {
	if _, ok := e.(*ast.Identifier); ok {
		return
	}
	walk(e)
}

// builtinWrapper synthesizes a function that forwards its parameters to a
// builtin, so a builtin can be mapped over an array like any function.
func (fc *funcCompiler) builtinWrapper(id *ast.Identifier) (string, error) {
	t, err := fc.typeOf(id)
	if err != nil {
		return "", err
	}
	sig, ok := t.(typesystem.TFunc)
	if !ok {
		return "", iceErrorf(fc.name, "builtin %s at %s has type %s", id.Value, id.Span, t)
	}
	key := id.Value + ":" + sig.String()
	if name, ok := fc.wrapped[key]; ok {
		return name, nil
	}
	b, _ := builtins.Lookup(id.Value)

	name := fc.nextLambdaName()
	w := fc.l.newCompiler(name, fc.owner, fc.lambdas, fc.wrapped)
	w.lambda = true
	for _, pt := range sig.Params {
		slot := w.declare("", pt)
		w.emit(ir.Instruction{Op: ir.OP_LOAD_LOCAL, Arg: slot, Type: pt}, id.Span)
	}
	w.emit(ir.Instruction{Op: ir.OP_CALL_BUILTIN, Name: b.Name, Arg: len(sig.Params), Type: sig.ReturnType}, id.Span)
	w.emit(ir.Instruction{Op: ir.OP_RETURN}, id.Span)

	*fc.lambdas = append(*fc.lambdas, w.finish(len(sig.Params), sig.Params, sig.ReturnType))
	fc.wrapped[key] = name
	return name, nil
}
