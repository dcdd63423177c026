package vm

import (
	"github.com/vais-lang/vais/internal/arith"
	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/value"
)

func (vm *VM) makeArray(n int) error {
	if err := builtins.CheckLen(n, vm.limits); err != nil {
		return err
	}
	vm.push(value.ArrayVal(vm.popN(n)))
	return nil
}

func (vm *VM) index() error {
	i := vm.pop().AsInt()
	elems := vm.pop().AsArray()
	if i < 0 || i >= int64(len(elems)) {
		return faults.New(faults.IndexOutOfBounds, "index %d out of range [0, %d)", i, len(elems))
	}
	vm.push(elems[i])
	return nil
}

func (vm *VM) field(i int) error {
	elems := vm.pop().AsArray()
	if i < 0 || i >= len(elems) {
		return faults.New(faults.IndexOutOfBounds, "field %d of a %d-tuple", i, len(elems))
	}
	vm.push(elems[i])
	return nil
}

// apply calls function idx with the captured values followed by rest.
func (vm *VM) apply(idx int, captures []value.Value, rest ...value.Value) (value.Value, error) {
	args := make([]value.Value, 0, len(captures)+len(rest))
	args = append(args, captures...)
	args = append(args, rest...)
	return vm.CallIndex(idx, args)
}

func (vm *VM) mapArray(in *ir.Instruction) error {
	captures := vm.popN(in.Captures)
	elems := vm.pop().AsArray()
	out := make([]value.Value, len(elems))
	for i, x := range elems {
		r, err := vm.apply(in.Func, captures, x)
		if err != nil {
			return err
		}
		out[i] = r
	}
	vm.push(value.ArrayVal(out))
	return nil
}

func (vm *VM) filterArray(in *ir.Instruction) error {
	captures := vm.popN(in.Captures)
	elems := vm.pop().AsArray()
	var out []value.Value
	for _, x := range elems {
		keep, err := vm.apply(in.Func, captures, x)
		if err != nil {
			return err
		}
		if keep.AsBool() {
			out = append(out, x)
		}
	}
	if out == nil {
		out = []value.Value{}
	}
	vm.push(value.ArrayVal(out))
	return nil
}

func (vm *VM) reduceArray(in *ir.Instruction) error {
	captures := vm.popN(in.Captures)
	acc := vm.pop()
	elems := vm.pop().AsArray()
	for _, x := range elems {
		r, err := vm.apply(in.Func, captures, acc, x)
		if err != nil {
			return err
		}
		acc = r
	}
	vm.push(acc)
	return nil
}

func (vm *VM) foldArray(in *ir.Instruction) error {
	zero, _ := ir.KindOf(in.Type)
	r, err := arith.Fold(ir.Fold(in.Arg), vm.pop().AsArray(), zero)
	if err != nil {
		return err
	}
	vm.push(r)
	return nil
}

func (vm *VM) rangeArray() error {
	hi := vm.pop().AsInt()
	r, err := builtins.Range(vm.pop().AsInt(), hi, vm.limits)
	if err != nil {
		return err
	}
	vm.push(r)
	return nil
}
