package lower

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

// tail lowers e in tail position: the emitted code returns e's value.
// Conditionals return from each branch and @ becomes a self-call followed
// directly by Return, which both backends execute without growing the stack.
func (fc *funcCompiler) tail(e ast.Expression) error {
	switch n := e.(type) {
	case *ast.TernaryExpression:
		return fc.conditional(n.Condition, n.Consequence, n.Alternative, n.Span, true)
	case *ast.InfixExpression:
		switch n.Operator {
		case "&&":
			return fc.conditional(n.Left, n.Right, boolLit(false, n.Span), n.Span, true)
		case "||":
			return fc.conditional(n.Left, boolLit(true, n.Span), n.Right, n.Span, true)
		}
	case *ast.LetExpression:
		if err := fc.bind(n); err != nil {
			return err
		}
		err := fc.tail(n.Body)
		fc.scope = fc.scope.parent
		return err
	case *ast.SelfCallExpression:
		if !fc.lambda {
			if err := fc.selfCall(n); err != nil {
				return err
			}
			fc.emit(ir.Instruction{Op: ir.OP_RETURN}, n.Span)
			return nil
		}
	}
	if err := fc.value(e); err != nil {
		return err
	}
	fc.emit(ir.Instruction{Op: ir.OP_RETURN}, e.Pos())
	return nil
}

// value lowers e so that it leaves exactly one value on the stack.
func (fc *funcCompiler) value(e ast.Expression) error {
	start := fc.depth
	if err := fc.expr(e); err != nil {
		return err
	}
	if fc.depth != start+1 {
		return iceErrorf(fc.name, "%T at %s leaves %d values", e, e.Pos(), fc.depth-start)
	}
	return nil
}

func (fc *funcCompiler) expr(e ast.Expression) error {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		fc.constant(value.IntVal(n.Value), typesystem.Int, n.Span)
	case *ast.FloatLiteral:
		fc.constant(value.FloatVal(n.Value), typesystem.Float, n.Span)
	case *ast.StringLiteral:
		fc.constant(value.StringVal(n.Value), typesystem.String, n.Span)
	case *ast.BooleanLiteral:
		fc.constant(value.BoolVal(n.Value), typesystem.Bool, n.Span)
	case *ast.VoidLiteral:
		fc.constant(value.VoidVal(), typesystem.Void, n.Span)

	case *ast.Identifier:
		slot, ok := fc.scope.resolve(n.Value)
		if !ok {
			return iceErrorf(fc.name, "unresolved identifier %s at %s", n.Value, n.Span)
		}
		fc.emit(ir.Instruction{Op: ir.OP_LOAD_LOCAL, Arg: slot, Type: fc.locals[slot]}, n.Span)

	case *ast.PrefixExpression:
		if err := fc.value(n.Right); err != nil {
			return err
		}
		op := ir.Neg
		if n.Operator == "!" {
			op = ir.Not
		}
		return fc.typed(ir.Instruction{Op: ir.OP_UNARY, Un: op}, n)

	case *ast.InfixExpression:
		return fc.infix(n)

	case *ast.TernaryExpression:
		return fc.conditional(n.Condition, n.Consequence, n.Alternative, n.Span, false)

	case *ast.LetExpression:
		if err := fc.bind(n); err != nil {
			return err
		}
		err := fc.value(n.Body)
		fc.scope = fc.scope.parent
		return err

	case *ast.CallExpression:
		if err := fc.values(n.Arguments); err != nil {
			return err
		}
		name := n.Function.Value
		switch {
		case fc.l.funcs[name]:
			return fc.typed(ir.Instruction{Op: ir.OP_CALL, Name: name, Arg: len(n.Arguments)}, n)
		case fc.l.isBuiltinCall(name):
			return fc.typed(ir.Instruction{Op: ir.OP_CALL_BUILTIN, Name: name, Arg: len(n.Arguments)}, n)
		}
		return iceErrorf(fc.name, "call of unknown function %s at %s", name, n.Span)

	case *ast.SelfCallExpression:
		return fc.selfCall(n)

	case *ast.ArrayLiteral:
		if err := fc.values(n.Elements); err != nil {
			return err
		}
		return fc.typed(ir.Instruction{Op: ir.OP_MAKE_ARRAY, Arg: len(n.Elements)}, n)

	case *ast.TupleLiteral:
		// Tuples share the array representation at runtime.
		if err := fc.values(n.Elements); err != nil {
			return err
		}
		return fc.typed(ir.Instruction{Op: ir.OP_MAKE_ARRAY, Arg: len(n.Elements)}, n)

	case *ast.IndexExpression:
		if err := fc.value(n.Left); err != nil {
			return err
		}
		if err := fc.value(n.Index); err != nil {
			return err
		}
		return fc.typed(ir.Instruction{Op: ir.OP_INDEX}, n)

	case *ast.FieldExpression:
		if err := fc.value(n.Left); err != nil {
			return err
		}
		return fc.typed(ir.Instruction{Op: ir.OP_FIELD_ACCESS, Arg: n.Field}, n)

	case *ast.MapExpression:
		return fc.collection(ir.OP_MAP_ARRAY, n, n.Array, nil, n.Func)
	case *ast.FilterExpression:
		return fc.collection(ir.OP_FILTER_ARRAY, n, n.Array, nil, n.Func)
	case *ast.ReduceExpression:
		return fc.collection(ir.OP_REDUCE_ARRAY, n, n.Array, n.Init, n.Func)

	case *ast.FoldExpression:
		fold, ok := ir.FoldFromName(n.Operator)
		if !ok {
			return iceErrorf(fc.name, "unknown fold ./%s at %s", n.Operator, n.Span)
		}
		if err := fc.value(n.Array); err != nil {
			return err
		}
		return fc.typed(ir.Instruction{Op: ir.OP_FOLD_ARRAY, Arg: int(fold)}, n)

	case *ast.RangeExpression:
		if err := fc.values([]ast.Expression{n.Start, n.End}); err != nil {
			return err
		}
		return fc.typed(ir.Instruction{Op: ir.OP_RANGE}, n)

	case *ast.ContainsExpression:
		if err := fc.values([]ast.Expression{n.Element, n.Container}); err != nil {
			return err
		}
		return fc.typed(ir.Instruction{Op: ir.OP_CONTAINS}, n)

	default:
		return iceErrorf(fc.name, "cannot lower %T at %s", e, e.Pos())
	}
	return nil
}

func (fc *funcCompiler) values(list []ast.Expression) error {
	for _, e := range list {
		if err := fc.value(e); err != nil {
			return err
		}
	}
	return nil
}

func (fc *funcCompiler) constant(v value.Value, t typesystem.Type, span ast.Span) {
	fc.emit(ir.Instruction{Op: ir.OP_PUSH_CONST, Const: v, Type: t}, span)
}

// typed emits in annotated with the checked type of n.
func (fc *funcCompiler) typed(in ir.Instruction, n ast.Expression) error {
	t, err := fc.typeOf(n)
	if err != nil {
		return err
	}
	in.Type = t
	fc.emit(in, n.Pos())
	return nil
}

func (fc *funcCompiler) infix(n *ast.InfixExpression) error {
	switch n.Operator {
	case "&&":
		return fc.conditional(n.Left, n.Right, boolLit(false, n.Span), n.Span, false)
	case "||":
		return fc.conditional(n.Left, boolLit(true, n.Span), n.Right, n.Span, false)
	}
	op, ok := ir.BinaryOpFromSymbol(n.Operator)
	if !ok {
		return iceErrorf(fc.name, "unknown operator %s at %s", n.Operator, n.Span)
	}
	if err := fc.value(n.Left); err != nil {
		return err
	}
	if err := fc.value(n.Right); err != nil {
		return err
	}
	return fc.typed(ir.Instruction{Op: ir.OP_BINARY, Bin: op}, n)
}

// conditional lowers cond ? then : els. In value position both branches
// must push exactly one value and meet at a join; in tail position each
// branch returns on its own and there is no join.
func (fc *funcCompiler) conditional(cond, then, els ast.Expression, span ast.Span, tail bool) error {
	if err := fc.value(cond); err != nil {
		return err
	}
	elseJump := fc.emitJump(ir.OP_BRANCH_IF_FALSE, span)
	base := fc.depth

	if tail {
		if err := fc.tail(then); err != nil {
			return err
		}
		fc.patchJump(elseJump)
		fc.depth = base
		return fc.tail(els)
	}

	if err := fc.value(then); err != nil {
		return err
	}
	thenDepth := fc.depth
	endJump := fc.emitJump(ir.OP_BRANCH, span)

	fc.patchJump(elseJump)
	fc.depth = base
	if err := fc.value(els); err != nil {
		return err
	}
	if fc.depth != thenDepth {
		return iceErrorf(fc.name, "branches at %s leave different stack depths", span)
	}
	fc.patchJump(endJump)
	return nil
}

// bind evaluates a let value into a fresh slot and brings it into scope.
// The caller pops the scope after lowering the body.
func (fc *funcCompiler) bind(n *ast.LetExpression) error {
	if err := fc.value(n.Value); err != nil {
		return err
	}
	t, err := fc.typeOf(n.Name)
	if err != nil {
		return err
	}
	slot := fc.declare(n.Name.Name, t)
	fc.emit(ir.Instruction{Op: ir.OP_STORE_LOCAL, Arg: slot}, n.Span)
	return nil
}

// selfCall lowers @(args). Inside a lambda @ still names the enclosing
// top-level function, which is a different IR function, so it becomes an
// ordinary call.
func (fc *funcCompiler) selfCall(n *ast.SelfCallExpression) error {
	if err := fc.values(n.Arguments); err != nil {
		return err
	}
	if fc.lambda {
		return fc.typed(ir.Instruction{Op: ir.OP_CALL, Name: fc.owner, Arg: len(n.Arguments)}, n)
	}
	return fc.typed(ir.Instruction{Op: ir.OP_SELF_CALL, Arg: len(n.Arguments)}, n)
}

func boolLit(v bool, span ast.Span) *ast.BooleanLiteral {
	return &ast.BooleanLiteral{Span: span, Value: v}
}
