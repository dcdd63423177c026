package backend

import (
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/jit"
	"github.com/vais-lang/vais/internal/value"
	"github.com/vais-lang/vais/internal/vm"
)

// JIT decorates an Interpreter: it compiles the module (once per module,
// through the cache), binds the compiled functions into a VM and runs the
// entry natively when it compiled. Functions that did not compile run on
// the VM. Fallbacks are logged, never returned.
type JIT struct {
	interp       *Interpreter
	cache        *jit.Cache
	logFallbacks bool
}

func NewJIT(interp *Interpreter, cache *jit.Cache) *JIT {
	if cache == nil {
		cache = sharedCache
	}
	return &JIT{interp: interp, cache: cache}
}

func (b *JIT) Name() string { return "jit" }

func (b *JIT) Execute(m *ir.Module, entry string, args []value.Value) (value.Value, error) {
	v, _, err := b.Run(m, entry, args)
	return v, err
}

// Run executes entry with every compilable function running natively. A
// JIT internal compiler error is returned as is and nothing runs.
func (b *JIT) Run(m *ir.Module, entry string, args []value.Value) (value.Value, *Report, error) {
	prog, err := b.cache.Get(m)
	if err != nil {
		return value.Value{}, nil, err
	}
	b.logCoverage(prog)

	machine := vm.New(m, b.interp.limits)
	rt := prog.Bind(machine)
	v, err := rt.Call(entryName(entry), args)

	report := &Report{
		Backend:  b.Name(),
		VM:       machine.Stats(),
		JIT:      rt.Stats(),
		Coverage: prog.Coverage(),
	}
	b.interp.logger.Debug("executed", "backend", b.Name(), "entry", entryName(entry), "module", m.ID,
		"vm", report.VM, "native_calls", report.JIT.NativeCalls, "fallback_calls", report.JIT.FallbackCalls)
	return v, report, err
}

func (b *JIT) logCoverage(prog *jit.Program) {
	logger := b.interp.logger
	compiled := 0
	for _, c := range prog.Coverage() {
		if c.Compiled {
			compiled++
			continue
		}
		if b.logFallbacks {
			logger.Info("jit fallback", "function", c.Function, "reason", c.Reason)
		} else {
			logger.Debug("jit fallback", "function", c.Function, "reason", c.Reason)
		}
	}
	logger.Debug("jit program", "module", prog.Module().ID, "compiled", compiled, "functions", len(prog.Coverage()))
}
