package ir

import "fmt"

// VerifyError reports malformed IR.
type VerifyError struct {
	Function string
	PC       int
	Msg      string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("invalid IR in %s at %04d: %s", e.Function, e.PC, e.Msg)
}

// Verify checks the stack discipline of fn: every instruction sees the same
// depth on all incoming paths, no instruction underflows, Return finds exactly
// one value, and control never runs off the end. It records MaxStack.
// m may be nil, in which case call targets are not checked.
func Verify(fn *Function, m *Module) error {
	fail := func(pc int, format string, args ...any) error {
		return &VerifyError{Function: fn.Name, PC: pc, Msg: fmt.Sprintf(format, args...)}
	}
	if len(fn.Code) == 0 {
		return fail(0, "empty function")
	}
	if fn.Arity > fn.NumLocals {
		return fail(0, "arity %d exceeds %d locals", fn.Arity, fn.NumLocals)
	}

	depth := make([]int, len(fn.Code))
	for i := range depth {
		depth[i] = -1
	}
	maxDepth := 0
	work := []int{0}
	depth[0] = 0

	flow := func(from, to, d int) error {
		if to < 0 || to >= len(fn.Code) {
			return fail(from, "control leaves the function (target %d)", to)
		}
		if depth[to] == -1 {
			depth[to] = d
			work = append(work, to)
			return nil
		}
		if depth[to] != d {
			return fail(to, "stack depth mismatch at join: %d vs %d", depth[to], d)
		}
		return nil
	}

	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]
		in := fn.Code[pc]
		d := depth[pc]

		pop, push := in.StackEffect()
		if d < pop {
			return fail(pc, "%s pops %d values from a stack of %d", in.Op, pop, d)
		}
		d = d - pop + push
		if d > maxDepth {
			maxDepth = d
		}

		switch in.Op {
		case OP_LOAD_LOCAL, OP_STORE_LOCAL:
			if in.Arg < 0 || in.Arg >= fn.NumLocals {
				return fail(pc, "slot %d out of range", in.Arg)
			}
		case OP_SELF_CALL:
			if in.Arg != fn.Arity {
				return fail(pc, "self call with %d arguments, want %d", in.Arg, fn.Arity)
			}
		case OP_CALL:
			if m != nil && m.Functions[in.Func].Arity != in.Arg {
				return fail(pc, "call of %s with %d arguments, want %d", in.Name, in.Arg, m.Functions[in.Func].Arity)
			}
		case OP_FOLD_ARRAY:
			if in.Arg < int(FoldSum) || in.Arg > int(FoldAny) {
				return fail(pc, "unknown fold %d", in.Arg)
			}
		case OP_MAP_ARRAY, OP_FILTER_ARRAY, OP_REDUCE_ARRAY:
			want := in.Captures + 1
			if in.Op == OP_REDUCE_ARRAY {
				want++
			}
			if m != nil && m.Functions[in.Func].Arity != want {
				return fail(pc, "%s applies %s to %d arguments, want %d", in.Op, in.Name, want, m.Functions[in.Func].Arity)
			}
		}

		switch in.Op {
		case OP_RETURN:
			if d != 0 {
				return fail(pc, "return leaves %d extra values on the stack", d)
			}
		case OP_BRANCH:
			if err := flow(pc, in.Arg, d); err != nil {
				return err
			}
		case OP_BRANCH_IF_FALSE:
			if err := flow(pc, in.Arg, d); err != nil {
				return err
			}
			if err := flow(pc, pc+1, d); err != nil {
				return err
			}
		default:
			if err := flow(pc, pc+1, d); err != nil {
				return err
			}
		}
	}

	fn.MaxStack = maxDepth
	return nil
}
