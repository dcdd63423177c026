package vm

import (
	"fmt"

	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/value"
)

// call invokes module function idx with argCount arguments on the stack.
// Native entries run immediately and leave their result on the stack;
// interpreted functions get a new frame.
func (vm *VM) call(idx, argCount int) error {
	if native := vm.natives[idx]; native != nil {
		args := vm.popN(argCount)
		vm.stats.NativeCalls++
		result, err := native(args)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	}
	return vm.callFunction(idx, argCount)
}

// callFunction sets up a new call frame. The arguments already on the stack
// become the frame's first locals.
func (vm *VM) callFunction(idx, argCount int) error {
	fn := vm.module.Functions[idx]
	if err := vm.depth.Enter(fn.Name); err != nil {
		return err
	}

	// Grow frames array if needed
	if vm.frameCount >= len(vm.frames) {
		newFrames := make([]CallFrame, len(vm.frames)+FrameGrowthIncrement)
		copy(newFrames, vm.frames[:vm.frameCount])
		vm.frames = newFrames
	}

	base := vm.sp - argCount
	top := base + fn.NumLocals
	vm.growStack(top + fn.MaxStack)
	for i := vm.sp; i < top; i++ {
		vm.stack[i] = value.Value{}
	}
	vm.sp = top

	frame := &vm.frames[vm.frameCount]
	frame.fn = fn
	frame.idx = idx
	frame.ip = 0
	frame.base = base

	vm.frameCount++
	vm.frame = frame
	vm.stats.Calls++
	return nil
}

// tailCall reuses the current frame for a self-call in tail position: the
// arguments overwrite the parameter slots and execution restarts at entry.
func (vm *VM) tailCall() {
	fn := vm.frame.fn
	base := vm.frame.base
	copy(vm.stack[base:base+fn.Arity], vm.stack[vm.sp-fn.Arity:vm.sp])
	vm.sp = base + fn.NumLocals
	vm.frame.ip = 0
	vm.stats.TailCalls++
}

// returnValue pops the current frame. It reports true when the frame was the
// outermost one of the run that stops at frame count stop; otherwise the
// result is pushed for the caller.
func (vm *VM) returnValue(result value.Value, stop int) bool {
	vm.depth.Leave()
	vm.sp = vm.frame.base
	vm.frame.fn = nil
	vm.frameCount--
	vm.setFrame()
	if vm.frameCount == stop {
		return true
	}
	vm.push(result)
	return false
}

// unwind discards the frames above stop after a fault.
func (vm *VM) unwind(stop int) {
	if vm.frameCount <= stop {
		return
	}
	vm.sp = vm.frames[stop].base
	for vm.frameCount > stop {
		vm.depth.Leave()
		vm.frameCount--
		vm.frames[vm.frameCount].fn = nil
	}
	vm.setFrame()
}

func (vm *VM) setFrame() {
	if vm.frameCount > 0 {
		vm.frame = &vm.frames[vm.frameCount-1]
	} else {
		vm.frame = nil
	}
}

func (vm *VM) callBuiltin(name string, argCount int) error {
	b, ok := builtins.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: builtin %s", ErrUnknownFunction, name)
	}
	result, err := b.Impl(vm.popN(argCount), vm.limits)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}
