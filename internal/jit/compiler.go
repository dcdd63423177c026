package jit

import (
	"math"

	"github.com/vais-lang/vais/internal/arith"
	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

// node is a compiled expression together with its static kind. Pure nodes
// (constants and local loads) can be evaluated late without changing the
// result.
type node struct {
	kind value.Kind
	eval code
	pure bool
}

// fnCompiler translates the stack IR of one function into a tree of
// closures. Control flow is recovered from the shapes the lowering emits:
//
//	value conditional:  cond BIF(else) then... BRANCH(end) else: ... end:
//	tail conditional:   cond BIF(else) then... RETURN else: ... RETURN
//	tail self-call:     args... SELF_CALL RETURN
type fnCompiler struct {
	prog     *Program
	fn       *ir.Function
	self     *Function
	numSlots int
}

func compileFunction(p *Program, fn *ir.Function, out *Function) (err error) {
	c := &fnCompiler{prog: p, fn: fn, self: out, numSlots: fn.NumLocals}
	defer func() {
		if r := recover(); r != nil {
			err = iceErrorf(fn.Name, -1, "%v", r)
		}
	}()

	body, err := c.block(0, len(fn.Code), true)
	if err != nil {
		return err
	}
	if body.kind != out.ret {
		return iceErrorf(fn.Name, -1, "body yields %s, want %s", body.kind, out.ret)
	}
	out.body = body.eval
	out.numSlots = c.numSlots
	return nil
}

// temps reserves n consecutive frame slots beyond the locals.
func (c *fnCompiler) temps(n int) int {
	base := c.numSlots
	c.numSlots += n
	return base
}

func (c *fnCompiler) load(slot int, k value.Kind) node {
	return node{kind: k, pure: true, eval: func(f *frame) uint64 { return f.slots[slot] }}
}

func (c *fnCompiler) localKind(slot int) value.Kind {
	k, _ := scalarKind(c.fn.LocalTypes[slot])
	return k
}

// block is the symbolic state of one straight-line region.
type block struct {
	c     *fnCompiler
	stack []node
	stmts []stmt
}

func (b *block) push(n node) { b.stack = append(b.stack, n) }

func (b *block) pop() node {
	n := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return n
}

func (b *block) popN(n int) []node {
	out := append([]node(nil), b.stack[len(b.stack)-n:]...)
	b.stack = b.stack[:len(b.stack)-n]
	return out
}

// spill evaluates every pending impure operand into a temporary, so that a
// following statement cannot run ahead of work that precedes it in source
// order.
func (b *block) spill() {
	for i, n := range b.stack {
		if n.pure {
			continue
		}
		slot := b.c.temps(1)
		eval := n.eval
		b.stmts = append(b.stmts, func(f *frame) { f.slots[slot] = eval(f) })
		b.stack[i] = b.c.load(slot, n.kind)
	}
}

// result prefixes n with the block's statements.
func (b *block) result(n node) node {
	if len(b.stmts) == 0 {
		return n
	}
	stmts, eval := b.stmts, n.eval
	return node{kind: n.kind, eval: func(f *frame) uint64 {
		for _, s := range stmts {
			s(f)
		}
		return eval(f)
	}}
}

// block compiles code[start:end]. In tail mode the region ends in Return (or
// a tail self-call) on every path; otherwise it leaves exactly one value.
func (c *fnCompiler) block(start, end int, tail bool) (node, error) {
	b := &block{c: c}
	code := c.fn.Code
	for pc := start; pc < end; pc++ {
		in := &code[pc]
		switch in.Op {
		case ir.OP_PUSH_CONST:
			bits := in.Const.Data
			b.push(node{kind: in.Const.Kind, pure: true, eval: func(*frame) uint64 { return bits }})

		case ir.OP_LOAD_LOCAL:
			b.push(c.load(in.Arg, c.localKind(in.Arg)))

		case ir.OP_STORE_LOCAL:
			v := b.pop()
			b.spill()
			slot, eval := in.Arg, v.eval
			b.stmts = append(b.stmts, func(f *frame) { f.slots[slot] = eval(f) })

		case ir.OP_BINARY:
			y := b.pop()
			x := b.pop()
			n, err := c.binary(pc, in.Bin, x, y)
			if err != nil {
				return node{}, err
			}
			b.push(n)

		case ir.OP_UNARY:
			n, err := c.unary(pc, in.Un, b.pop())
			if err != nil {
				return node{}, err
			}
			b.push(n)

		case ir.OP_CALL:
			b.push(c.call(in.Func, b.popN(in.Arg)))

		case ir.OP_SELF_CALL:
			args := b.popN(in.Arg)
			if !c.fn.IsTailCall(pc) {
				b.push(c.call(c.self.Index, args))
				continue
			}
			if !tail || pc+2 != end || len(b.stack) != 0 {
				return node{}, iceErrorf(c.fn.Name, pc, "tail self-call outside a tail region")
			}
			return b.result(c.tailCall(args)), nil

		case ir.OP_CALL_BUILTIN:
			n, err := c.builtin(pc, in.Name, b.popN(in.Arg))
			if err != nil {
				return node{}, err
			}
			b.push(n)

		case ir.OP_RETURN:
			if !tail || pc+1 != end || len(b.stack) != 1 {
				return node{}, iceErrorf(c.fn.Name, pc, "unexpected return")
			}
			return b.result(b.pop()), nil

		case ir.OP_BRANCH_IF_FALSE:
			cond := b.pop()
			els := in.Arg
			if els <= pc+1 || els > len(code) {
				return node{}, iceErrorf(c.fn.Name, pc, "backward or empty branch to %04d", els)
			}
			switch last := code[els-1]; last.Op {
			case ir.OP_BRANCH:
				join := last.Arg
				t, err := c.block(pc+1, els-1, false)
				if err != nil {
					return node{}, err
				}
				e, err := c.block(els, join, false)
				if err != nil {
					return node{}, err
				}
				if t.kind != e.kind {
					return node{}, iceErrorf(c.fn.Name, pc, "branches yield %s and %s", t.kind, e.kind)
				}
				b.push(ternary(cond, t, e))
				pc = join - 1

			case ir.OP_RETURN:
				if !tail || len(b.stack) != 0 {
					return node{}, iceErrorf(c.fn.Name, pc, "returning branch in a value region")
				}
				t, err := c.block(pc+1, els, true)
				if err != nil {
					return node{}, err
				}
				e, err := c.block(els, end, true)
				if err != nil {
					return node{}, err
				}
				return b.result(ternary(cond, t, e)), nil

			default:
				return node{}, iceErrorf(c.fn.Name, pc, "unrecognized conditional ending in %s", last.Op)
			}

		default:
			return node{}, iceErrorf(c.fn.Name, pc, "opcode %s passed the gate", in.Op)
		}
	}

	if tail || len(b.stack) != 1 {
		return node{}, iceErrorf(c.fn.Name, end, "region [%04d, %04d) leaves %d values", start, end, len(b.stack))
	}
	return b.result(b.stack[0]), nil
}

func ternary(cond, then, els node) node {
	ce, te, ee := cond.eval, then.eval, els.eval
	return node{kind: then.kind, eval: func(f *frame) uint64 {
		if ce(f) != 0 {
			return te(f)
		}
		return ee(f)
	}}
}

func (c *fnCompiler) binary(pc int, op ir.BinaryOp, x, y node) (node, error) {
	k, ok := binaryKind(op, x.kind, y.kind)
	if !ok {
		return node{}, iceErrorf(c.fn.Name, pc, "%s on %s and %s", op, x.kind, y.kind)
	}
	xe, ye := x.eval, y.eval
	switch {
	case x.kind == value.KindInt && y.kind == value.KindInt && op.IsArithmetic():
		return node{kind: k, eval: intArith(op, xe, ye)}, nil
	case x.kind == value.KindInt && y.kind == value.KindInt:
		return node{kind: k, eval: intCompare(op, xe, ye)}, nil
	case x.kind == value.KindBool:
		if op == ir.Eq {
			return node{kind: k, eval: func(f *frame) uint64 { return fromBool(xe(f) == ye(f)) }}, nil
		}
		return node{kind: k, eval: func(f *frame) uint64 { return fromBool(xe(f) != ye(f)) }}, nil
	}

	xk, yk := x.kind, y.kind
	if op.IsArithmetic() {
		return node{kind: k, eval: func(f *frame) uint64 {
			return math.Float64bits(arith.FloatArith(op, toFloat(xe(f), xk), toFloat(ye(f), yk)))
		}}, nil
	}
	return node{kind: k, eval: func(f *frame) uint64 {
		return fromBool(arith.FloatCompare(op, toFloat(xe(f), xk), toFloat(ye(f), yk)))
	}}, nil
}

func intArith(op ir.BinaryOp, xe, ye code) code {
	switch op {
	case ir.Add:
		return func(f *frame) uint64 { return uint64(int64(xe(f)) + int64(ye(f))) }
	case ir.Sub:
		return func(f *frame) uint64 { return uint64(int64(xe(f)) - int64(ye(f))) }
	case ir.Mul:
		return func(f *frame) uint64 { return uint64(int64(xe(f)) * int64(ye(f))) }
	}
	return func(f *frame) uint64 {
		x := int64(xe(f))
		y := int64(ye(f))
		r, err := arith.IntArith(op, x, y)
		if err != nil {
			f.fail(err)
		}
		return uint64(r)
	}
}

func intCompare(op ir.BinaryOp, xe, ye code) code {
	switch op {
	case ir.Lt:
		return func(f *frame) uint64 { return fromBool(int64(xe(f)) < int64(ye(f))) }
	case ir.Le:
		return func(f *frame) uint64 { return fromBool(int64(xe(f)) <= int64(ye(f))) }
	case ir.Eq:
		return func(f *frame) uint64 { return fromBool(xe(f) == ye(f)) }
	}
	return func(f *frame) uint64 {
		x := int64(xe(f))
		return fromBool(arith.IntCompare(op, x, int64(ye(f))))
	}
}

func (c *fnCompiler) unary(pc int, op ir.UnaryOp, x node) (node, error) {
	xe := x.eval
	switch {
	case op == ir.Not && x.kind == value.KindBool:
		return node{kind: x.kind, eval: func(f *frame) uint64 { return xe(f) ^ 1 }}, nil
	case op == ir.Neg && x.kind == value.KindInt:
		return node{kind: x.kind, eval: func(f *frame) uint64 { return uint64(-int64(xe(f))) }}, nil
	case op == ir.Neg && x.kind == value.KindFloat:
		return node{kind: x.kind, eval: func(f *frame) uint64 { return math.Float64bits(-math.Float64frombits(xe(f))) }}, nil
	}
	return node{}, iceErrorf(c.fn.Name, pc, "%s on %s", op, x.kind)
}

func evals(args []node) []code {
	out := make([]code, len(args))
	for i, a := range args {
		out[i] = a.eval
	}
	return out
}

// call invokes module function idx: directly when it is compiled, through
// the interpreter otherwise.
func (c *fnCompiler) call(idx int, args []node) node {
	argv := evals(args)
	target := c.prog.module.Functions[idx]
	ret, _ := scalarKind(target.ReturnType)

	if callee := c.prog.funcs[idx]; callee != nil {
		return node{kind: ret, eval: func(f *frame) uint64 {
			if f.err != nil {
				return 0
			}
			cf := callee.newFrame(f.rt)
			for i, a := range argv {
				cf.slots[i] = a(f)
			}
			if f.err != nil {
				return 0
			}
			r, err := callee.call(f.rt, cf)
			if err != nil {
				f.fail(err)
			}
			return r
		}}
	}

	kinds := make([]value.Kind, len(args))
	for i, a := range args {
		kinds[i] = a.kind
	}
	return node{kind: ret, eval: func(f *frame) uint64 {
		if f.err != nil {
			return 0
		}
		vals := make([]value.Value, len(argv))
		for i, a := range argv {
			vals[i] = box(a(f), kinds[i])
		}
		if f.err != nil {
			return 0
		}
		f.rt.stats.FallbackCalls++
		r, err := f.rt.fallback(idx, vals)
		if err != nil {
			f.fail(err)
			return 0
		}
		return r.Data
	}}
}

func (c *fnCompiler) builtin(pc int, name string, args []node) (node, error) {
	b, ok := builtins.Lookup(name)
	if !ok || !b.Scalar {
		return node{}, iceErrorf(c.fn.Name, pc, "builtin %s passed the gate", name)
	}
	argv := evals(args)
	kinds := make([]value.Kind, len(args))
	for i, a := range args {
		kinds[i] = a.kind
	}
	sig, ok := b.Scheme.(typesystem.TFunc)
	if !ok {
		return node{}, iceErrorf(c.fn.Name, pc, "builtin %s has scheme %s", name, b.Scheme)
	}
	ret, _ := scalarKind(sig.ReturnType)
	return node{kind: ret, eval: func(f *frame) uint64 {
		vals := make([]value.Value, len(argv))
		for i, a := range argv {
			vals[i] = box(a(f), kinds[i])
		}
		if f.err != nil {
			return 0
		}
		r, err := b.Impl(vals, f.rt.limits)
		if err != nil {
			f.fail(err)
			return 0
		}
		return r.Data
	}}, nil
}

// tailCall evaluates the new arguments into temporaries, then rewrites the
// parameter slots and signals the function loop to go around again.
func (c *fnCompiler) tailCall(args []node) node {
	argv := evals(args)
	arity := len(argv)
	tmp := c.temps(arity)
	return node{kind: c.self.ret, eval: func(f *frame) uint64 {
		for i, a := range argv {
			f.slots[tmp+i] = a(f)
		}
		copy(f.slots[:arity], f.slots[tmp:tmp+arity])
		f.tail = true
		return 0
	}}
}
