// Package jit compiles the scalar subset of IR into Go closures over an
// unboxed slot frame. Functions outside the subset stay interpreted; compiled
// and interpreted functions call each other freely.
package jit

import (
	"github.com/pkg/errors"

	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/value"
	"github.com/vais-lang/vais/internal/vm"
)

// Function is the compiled form of one IR function. It is immutable once
// compiled and may be shared by concurrent executions.
type Function struct {
	Name  string
	Index int

	params   []value.Kind
	ret      value.Kind
	numSlots int
	body     code
}

func (fn *Function) newFrame(rt *Runtime) *frame {
	return &frame{slots: make([]uint64, fn.numSlots), rt: rt}
}

// call charges one level of call depth and runs fn to completion.
func (fn *Function) call(rt *Runtime, f *frame) (uint64, error) {
	if err := rt.depth.Enter(fn.Name); err != nil {
		return 0, err
	}
	rt.stats.NativeCalls++
	r, err := fn.run(f)
	rt.depth.Leave()
	return r, err
}

// run executes the body, going around again after every tail self-call.
func (fn *Function) run(f *frame) (uint64, error) {
	for {
		r := fn.body(f)
		if f.err != nil {
			var fault *faults.Fault
			if errors.As(f.err, &fault) {
				fault.In(fn.Name)
			}
			return 0, f.err
		}
		if !f.tail {
			return r, nil
		}
		f.tail = false
		f.rt.stats.TailCalls++
	}
}

// Coverage says whether one function runs natively.
type Coverage struct {
	Function string
	Compiled bool
	Reason   string // why the function stays interpreted
}

// Program is the compiled form of a module.
type Program struct {
	module   *ir.Module
	funcs    []*Function // nil where the function is interpreted
	coverage []Coverage
}

// Compile gates every function of m and compiles those that pass. Functions
// that fail the gate are recorded in the coverage report; an error means a
// gated function could not be translated, which is an *ICE.
func Compile(m *ir.Module) (*Program, error) {
	p := &Program{
		module:   m,
		funcs:    make([]*Function, len(m.Functions)),
		coverage: make([]Coverage, len(m.Functions)),
	}
	for i, fn := range m.Functions {
		p.coverage[i] = Coverage{Function: fn.Name}
		if err := Gate(m, fn); err != nil {
			var u *Unsupported
			if !errors.As(err, &u) {
				return nil, err
			}
			p.coverage[i].Reason = u.Error()
			continue
		}
		params, ret, _ := signature(fn)
		p.funcs[i] = &Function{Name: fn.Name, Index: i, params: params, ret: ret}
		p.coverage[i].Compiled = true
	}

	// Every compiled function exists before any body is built, so calls
	// between compiled functions bind directly.
	for i, cf := range p.funcs {
		if cf == nil {
			continue
		}
		if err := compileFunction(p, m.Functions[i], cf); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Program) Module() *ir.Module { return p.module }

// Coverage reports, per module function, whether it runs natively.
func (p *Program) Coverage() []Coverage {
	return append([]Coverage(nil), p.coverage...)
}

// FullyCompiled reports whether no function falls back to the interpreter.
func (p *Program) FullyCompiled() bool {
	for _, c := range p.coverage {
		if !c.Compiled {
			return false
		}
	}
	return true
}

// Lookup returns the compiled function with the given name.
func (p *Program) Lookup(name string) (*Function, bool) {
	idx := p.module.IndexOf(name)
	if idx < 0 || p.funcs[idx] == nil {
		return nil, false
	}
	return p.funcs[idx], true
}

// Stats counts native work done through one Runtime.
type Stats struct {
	NativeCalls   uint64
	TailCalls     uint64
	FallbackCalls uint64 // calls from compiled code into the interpreter
}

// Runtime connects a Program to one execution: the call-depth guard and
// limits it shares with the interpreter, and the interpreter that runs
// functions the Program did not compile.
type Runtime struct {
	prog     *Program
	depth    *faults.Depth
	limits   faults.Limits
	fallback func(idx int, args []value.Value) (value.Value, error)
	stats    Stats
}

// Bind installs the compiled functions of p into machine, which must run
// p's module, and returns the runtime they execute in. Interpreted code then
// calls compiled functions natively, and compiled code reaches interpreted
// functions through machine.
func (p *Program) Bind(machine *vm.VM) *Runtime {
	rt := &Runtime{
		prog:     p,
		depth:    machine.Depth(),
		limits:   machine.Limits(),
		fallback: machine.CallIndex,
	}
	for i, cf := range p.funcs {
		if cf != nil {
			machine.BindNative(i, rt.entry(cf))
		}
	}
	return rt
}

func (rt *Runtime) Stats() Stats { return rt.stats }

// entry adapts fn to boxed values. The arguments must already match fn's
// parameter kinds.
func (rt *Runtime) entry(fn *Function) vm.Native {
	return func(args []value.Value) (value.Value, error) {
		f := fn.newFrame(rt)
		for i, a := range args {
			f.slots[i] = a.Data
		}
		r, err := fn.call(rt, f)
		if err != nil {
			return value.Value{}, err
		}
		return box(r, fn.ret), nil
	}
}

// Call runs the named function natively if it is compiled and through the
// interpreter otherwise.
func (rt *Runtime) Call(name string, args []value.Value) (value.Value, error) {
	idx := rt.prog.module.IndexOf(name)
	if idx < 0 {
		return value.Value{}, errors.Wrap(vm.ErrUnknownFunction, name)
	}
	if cf := rt.prog.funcs[idx]; cf != nil {
		args, err := rt.prog.module.Functions[idx].PrepareArgs(args)
		if err != nil {
			return value.Value{}, err
		}
		return rt.entry(cf)(args)
	}
	return rt.fallback(idx, args)
}
