// Package vm interprets IR. One VM executes one call chain at a time; IR
// modules are immutable, so any number of VMs may share a module.
package vm

import (
	"errors"
	"fmt"

	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/value"
)

// Initial sizes for stack and frames
const InitialStackSize = 1024
const InitialFrameCount = 64

// Growth increment when stack/frames need to expand
const StackGrowthIncrement = 1024
const FrameGrowthIncrement = 64

var ErrUnknownFunction = errors.New("unknown function")

// CallFrame represents a single ongoing function call
type CallFrame struct {
	fn   *ir.Function
	idx  int // index of fn in the module
	ip   int // Instruction pointer within fn.Code
	base int // Base pointer: where this frame's locals start in the stack
}

// Native is an entry point that runs a function outside the interpreter.
// It receives its own copy of the arguments.
type Native func(args []value.Value) (value.Value, error)

// VM is the virtual machine that executes IR
type VM struct {
	module *ir.Module
	limits faults.Limits
	depth  *faults.Depth

	stack []value.Value
	sp    int // Stack pointer (points to next free slot)

	frames     []CallFrame
	frameCount int
	frame      *CallFrame

	// natives[i] replaces interpretation of module function i when set.
	natives []Native

	stats Stats
}

// New creates a VM for m. A non-positive MaxCallDepth selects the default.
func New(m *ir.Module, limits faults.Limits) *VM {
	if limits.MaxCallDepth <= 0 {
		limits.MaxCallDepth = faults.DefaultMaxCallDepth
	}
	return &VM{
		module:  m,
		limits:  limits,
		depth:   faults.NewDepth(limits.MaxCallDepth),
		stack:   make([]value.Value, InitialStackSize),
		frames:  make([]CallFrame, InitialFrameCount),
		natives: make([]Native, len(m.Functions)),
	}
}

func (vm *VM) Module() *ir.Module    { return vm.module }
func (vm *VM) Limits() faults.Limits { return vm.limits }
func (vm *VM) Depth() *faults.Depth  { return vm.depth }
func (vm *VM) Stats() Stats          { s := vm.stats; s.PeakDepth = vm.depth.Peak; return s }

// SetDepth makes the VM charge calls against d, so that native code and the
// interpreter share one limit.
func (vm *VM) SetDepth(d *faults.Depth) { vm.depth = d }

// BindNative routes every call of module function idx to native. The native
// is responsible for charging its own call depth.
func (vm *VM) BindNative(idx int, native Native) {
	vm.natives[idx] = native
}

// IsNative reports whether function idx runs natively.
func (vm *VM) IsNative(idx int) bool { return vm.natives[idx] != nil }

// Call runs the named function to completion.
func (vm *VM) Call(name string, args []value.Value) (value.Value, error) {
	idx := vm.module.IndexOf(name)
	if idx < 0 {
		return value.Value{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return vm.CallIndex(idx, args)
}

// CallFunction runs fn, which must belong to the VM's module.
func (vm *VM) CallFunction(fn *ir.Function, args []value.Value) (value.Value, error) {
	return vm.Call(fn.Name, args)
}

// CallIndex runs module function idx. It may be called re-entrantly from
// native code while the interpreter is suspended in an outer call. Arguments
// are checked against the parameter types first; see ir.Function.PrepareArgs.
func (vm *VM) CallIndex(idx int, args []value.Value) (value.Value, error) {
	fn := vm.module.Functions[idx]
	args, err := fn.PrepareArgs(args)
	if err != nil {
		return value.Value{}, err
	}
	if native := vm.natives[idx]; native != nil {
		vm.stats.NativeCalls++
		return native(append([]value.Value(nil), args...))
	}

	stop := vm.frameCount
	for _, a := range args {
		vm.push(a)
	}
	if err := vm.callFunction(idx, len(args)); err != nil {
		vm.sp -= len(args)
		return value.Value{}, err
	}
	return vm.run(stop)
}

// Stack operations
func (vm *VM) push(v value.Value) {
	if vm.sp >= len(vm.stack) {
		vm.growStack(vm.sp + 1)
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

// popN removes the top n values and returns a copy of them in push order.
func (vm *VM) popN(n int) []value.Value {
	out := make([]value.Value, n)
	copy(out, vm.stack[vm.sp-n:vm.sp])
	vm.sp -= n
	return out
}

// growStack makes room for at least n slots.
func (vm *VM) growStack(n int) {
	if n <= len(vm.stack) {
		return
	}
	growBy := StackGrowthIncrement
	if len(vm.stack) > growBy {
		growBy = len(vm.stack)
	}
	size := len(vm.stack) + growBy
	if size < n {
		size = n
	}
	newStack := make([]value.Value, size)
	copy(newStack, vm.stack[:vm.sp])
	vm.stack = newStack
}
