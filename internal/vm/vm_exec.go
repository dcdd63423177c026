package vm

import (
	"errors"
	"fmt"

	"github.com/vais-lang/vais/internal/arith"
	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/value"
)

// run is the dispatch loop. It executes until the frame count drops back to
// stop and returns the value of that last Return.
func (vm *VM) run(stop int) (value.Value, error) {
	for {
		frame := vm.frame
		in := &frame.fn.Code[frame.ip]
		frame.ip++
		vm.stats.Instructions++

		var err error
		switch in.Op {
		case ir.OP_PUSH_CONST:
			vm.push(in.Const)

		case ir.OP_POP:
			vm.sp--

		case ir.OP_LOAD_LOCAL:
			vm.push(vm.stack[frame.base+in.Arg])

		case ir.OP_STORE_LOCAL:
			vm.stack[frame.base+in.Arg] = vm.pop()

		case ir.OP_BINARY:
			b := vm.pop()
			a := vm.pop()
			var r value.Value
			if r, err = arith.Binary(in.Bin, a, b); err == nil {
				vm.push(r)
			}

		case ir.OP_UNARY:
			var r value.Value
			if r, err = arith.Unary(in.Un, vm.pop()); err == nil {
				vm.push(r)
			}

		case ir.OP_BRANCH:
			frame.ip = in.Arg

		case ir.OP_BRANCH_IF_FALSE:
			if !vm.pop().AsBool() {
				frame.ip = in.Arg
			}

		case ir.OP_RETURN:
			result := vm.pop()
			if vm.returnValue(result, stop) {
				return result, nil
			}

		case ir.OP_CALL:
			err = vm.call(in.Func, in.Arg)

		case ir.OP_SELF_CALL:
			if frame.fn.IsTailCall(frame.ip - 1) {
				vm.tailCall()
			} else {
				err = vm.call(frame.idx, in.Arg)
			}

		case ir.OP_CALL_BUILTIN:
			err = vm.callBuiltin(in.Name, in.Arg)

		case ir.OP_MAKE_ARRAY:
			err = vm.makeArray(in.Arg)

		case ir.OP_INDEX:
			err = vm.index()

		case ir.OP_FIELD_ACCESS:
			err = vm.field(in.Arg)

		case ir.OP_MAP_ARRAY:
			err = vm.mapArray(in)

		case ir.OP_FILTER_ARRAY:
			err = vm.filterArray(in)

		case ir.OP_REDUCE_ARRAY:
			err = vm.reduceArray(in)

		case ir.OP_FOLD_ARRAY:
			err = vm.foldArray(in)

		case ir.OP_RANGE:
			err = vm.rangeArray()

		case ir.OP_CONTAINS:
			container := vm.pop()
			vm.push(value.BoolVal(builtins.Contains(vm.pop(), container)))

		default:
			err = fmt.Errorf("unknown opcode %s", in.Op)
		}

		if err != nil {
			return value.Value{}, vm.fail(err, stop)
		}
	}
}

// fail attributes err to the current function and unwinds the frames of
// this run.
func (vm *VM) fail(err error, stop int) error {
	fn := vm.frame.fn.Name
	pc := vm.frame.ip - 1
	vm.unwind(stop)

	var f *faults.Fault
	if errors.As(err, &f) {
		f.In(fn)
		return err
	}
	return fmt.Errorf("%s at %04d: %w", fn, pc, err)
}
