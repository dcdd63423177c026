package jit

import (
	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

// scalarKind maps Int, Float and Bool to their value kinds.
func scalarKind(t typesystem.Type) (value.Kind, bool) {
	switch {
	case typesystem.Is(t, typesystem.Int):
		return value.KindInt, true
	case typesystem.Is(t, typesystem.Float):
		return value.KindFloat, true
	case typesystem.Is(t, typesystem.Bool):
		return value.KindBool, true
	}
	return value.KindVoid, false
}

func isNumeric(k value.Kind) bool { return k == value.KindInt || k == value.KindFloat }

// signature returns the scalar kinds of fn's parameters and result.
func signature(fn *ir.Function) (params []value.Kind, ret value.Kind, err *Unsupported) {
	params = make([]value.Kind, len(fn.ParamTypes))
	for i, t := range fn.ParamTypes {
		k, ok := scalarKind(t)
		if !ok {
			return nil, 0, unsupported(fn.Name, -1, "parameter %d has type %s", i, t)
		}
		params[i] = k
	}
	ret, ok := scalarKind(fn.ReturnType)
	if !ok {
		return nil, 0, unsupported(fn.Name, -1, "returns %s", fn.ReturnType)
	}
	return params, ret, nil
}

// Gate decides whether fn can be compiled. It returns an *Unsupported naming
// the first obstacle, or nil. Besides the opcode whitelist it checks the
// operand stack abstractly, so every value the compiled code handles is a
// known scalar kind.
func Gate(m *ir.Module, fn *ir.Function) error {
	params, ret, uerr := signature(fn)
	if uerr != nil {
		return uerr
	}
	locals := make([]value.Kind, len(fn.LocalTypes))
	for i, t := range fn.LocalTypes {
		k, ok := scalarKind(t)
		if !ok {
			return unsupported(fn.Name, -1, "local %d has type %s", i, t)
		}
		locals[i] = k
	}

	g := &gate{m: m, fn: fn, params: params, ret: ret, locals: locals, seen: make([][]value.Kind, len(fn.Code))}
	return g.check()
}

type gate struct {
	m      *ir.Module
	fn     *ir.Function
	params []value.Kind
	ret    value.Kind
	locals []value.Kind
	seen   [][]value.Kind // stack kinds on entry to each pc
	work   []int
}

func (g *gate) fail(pc int, format string, args ...any) error {
	return unsupported(g.fn.Name, pc, format, args...)
}

func (g *gate) flow(pc, to int, stack []value.Kind) error {
	if to < 0 || to >= len(g.fn.Code) {
		return g.fail(pc, "control leaves the function at %04d", to)
	}
	if prev := g.seen[to]; prev != nil {
		if len(prev) != len(stack) {
			return g.fail(to, "inconsistent stack at join")
		}
		for i := range prev {
			if prev[i] != stack[i] {
				return g.fail(to, "join of %s and %s", prev[i], stack[i])
			}
		}
		return nil
	}
	g.seen[to] = append(make([]value.Kind, 0, len(stack)), stack...)
	g.work = append(g.work, to)
	return nil
}

func (g *gate) check() error {
	if err := g.flow(0, 0, []value.Kind{}); err != nil {
		return err
	}
	for len(g.work) > 0 {
		pc := g.work[len(g.work)-1]
		g.work = g.work[:len(g.work)-1]
		if err := g.step(pc, append([]value.Kind(nil), g.seen[pc]...)); err != nil {
			return err
		}
	}
	return nil
}

func (g *gate) step(pc int, stack []value.Kind) error {
	in := g.fn.Code[pc]
	pop := func() value.Kind {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return k
	}
	popArgs := func(want []value.Kind, what string) error {
		if len(stack) < len(want) {
			return g.fail(pc, "%s: stack underflow", what)
		}
		args := stack[len(stack)-len(want):]
		for i := range want {
			if args[i] != want[i] {
				return g.fail(pc, "%s: argument %d is %s, want %s", what, i, args[i], want[i])
			}
		}
		stack = stack[:len(stack)-len(want)]
		return nil
	}

	switch in.Op {
	case ir.OP_PUSH_CONST:
		switch in.Const.Kind {
		case value.KindInt, value.KindFloat, value.KindBool:
			stack = append(stack, in.Const.Kind)
		default:
			return g.fail(pc, "%s constant", in.Const.Kind)
		}

	case ir.OP_LOAD_LOCAL:
		stack = append(stack, g.locals[in.Arg])

	case ir.OP_STORE_LOCAL:
		if k := pop(); k != g.locals[in.Arg] {
			return g.fail(pc, "storing %s into %s slot", k, g.locals[in.Arg])
		}

	case ir.OP_BINARY:
		b, a := pop(), pop()
		k, ok := binaryKind(in.Bin, a, b)
		if !ok {
			return g.fail(pc, "%s on %s and %s", in.Bin, a, b)
		}
		if want, ok := scalarKind(in.Type); ok && want != k {
			return g.fail(pc, "%s yields %s, annotated %s", in.Bin, k, want)
		}
		stack = append(stack, k)

	case ir.OP_UNARY:
		a := pop()
		if (in.Un == ir.Neg && !isNumeric(a)) || (in.Un == ir.Not && a != value.KindBool) {
			return g.fail(pc, "%s on %s", in.Un, a)
		}
		stack = append(stack, a)

	case ir.OP_CALL:
		callee := g.m.Functions[in.Func]
		params, ret, uerr := signature(callee)
		if uerr != nil {
			return g.fail(pc, "calls %s: %s", callee.Name, uerr.Reason)
		}
		if err := popArgs(params, "call of "+callee.Name); err != nil {
			return err
		}
		stack = append(stack, ret)

	case ir.OP_SELF_CALL:
		if err := popArgs(g.params, "self call"); err != nil {
			return err
		}
		stack = append(stack, g.ret)

	case ir.OP_CALL_BUILTIN:
		b, ok := builtins.Lookup(in.Name)
		if !ok || !b.Scalar {
			return g.fail(pc, "builtin %s", in.Name)
		}
		sig, ok := b.Scheme.(typesystem.TFunc)
		if !ok {
			return g.fail(pc, "polymorphic builtin %s", in.Name)
		}
		params := make([]value.Kind, len(sig.Params))
		for i, t := range sig.Params {
			params[i], _ = scalarKind(t)
		}
		if err := popArgs(params, "builtin "+in.Name); err != nil {
			return err
		}
		k, _ := scalarKind(sig.ReturnType)
		stack = append(stack, k)

	case ir.OP_BRANCH:
		return g.flow(pc, in.Arg, stack)

	case ir.OP_BRANCH_IF_FALSE:
		if k := pop(); k != value.KindBool {
			return g.fail(pc, "branch on %s", k)
		}
		if err := g.flow(pc, in.Arg, stack); err != nil {
			return err
		}

	case ir.OP_RETURN:
		if k := pop(); k != g.ret {
			return g.fail(pc, "returns %s, want %s", k, g.ret)
		}
		return nil

	default:
		return g.fail(pc, "opcode %s", in.Op)
	}
	return g.flow(pc, pc+1, stack)
}

// binaryKind is the result kind of op on operands of kinds a and b.
func binaryKind(op ir.BinaryOp, a, b value.Kind) (value.Kind, bool) {
	switch {
	case isNumeric(a) && isNumeric(b):
		if !op.IsArithmetic() {
			return value.KindBool, true
		}
		if a == value.KindFloat || b == value.KindFloat {
			return value.KindFloat, true
		}
		return value.KindInt, true
	case a == value.KindBool && b == value.KindBool && (op == ir.Eq || op == ir.Ne):
		return value.KindBool, true
	}
	return value.KindVoid, false
}
