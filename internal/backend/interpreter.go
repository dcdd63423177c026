package backend

import (
	"log/slog"

	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/value"
	"github.com/vais-lang/vais/internal/vm"
)

// Interpreter executes modules on the VM. It holds no per-execution state
// and may be used concurrently.
type Interpreter struct {
	limits faults.Limits
	logger *slog.Logger
}

func NewInterpreter(limits faults.Limits, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{limits: limits, logger: logger}
}

func (b *Interpreter) Name() string { return "interpret" }

func (b *Interpreter) Execute(m *ir.Module, entry string, args []value.Value) (value.Value, error) {
	v, _, err := b.Run(m, entry, args)
	return v, err
}

// Run executes entry and reports the VM's counters.
func (b *Interpreter) Run(m *ir.Module, entry string, args []value.Value) (value.Value, *Report, error) {
	machine := vm.New(m, b.limits)
	v, err := machine.Call(entryName(entry), args)
	report := &Report{Backend: b.Name(), VM: machine.Stats()}
	b.logger.Debug("executed", "backend", b.Name(), "entry", entryName(entry), "module", m.ID, "vm", report.VM)
	return v, report, err
}
