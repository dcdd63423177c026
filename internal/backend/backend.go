// Package backend provides the execution backends behind one Executable
// interface: the interpreter, and the JIT as a decorator over it that
// compiles what it can and leaves the rest to the interpreter.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/vais-lang/vais/internal/config"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/jit"
	"github.com/vais-lang/vais/internal/value"
)

// Executable is the interface for execution backends
type Executable interface {
	// Execute runs entry (ir.MainFunction when empty) of m with args.
	Execute(m *ir.Module, entry string, args []value.Value) (value.Value, error)

	// Name returns the backend name for display
	Name() string
}

// Runner is implemented by backends that also report what they did.
type Runner interface {
	Executable
	Run(m *ir.Module, entry string, args []value.Value) (value.Value, *Report, error)
}

// Mode selects a backend.
type Mode int

const (
	Interpret Mode = iota
	Jit
)

func (m Mode) String() string {
	if m == Jit {
		return config.ModeJit
	}
	return config.ModeInterpret
}

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case config.ModeInterpret, "":
		return Interpret, nil
	case config.ModeJit:
		return Jit, nil
	}
	return Interpret, fmt.Errorf("unknown execution mode %q", s)
}

// sharedCache keeps compiled programs for the life of the process.
var sharedCache = jit.NewCache()

type options struct {
	logger *slog.Logger
	cache  *jit.Cache
}

// Option customizes New.
type Option func(*options)

// WithLogger sets the logger backends report to. The default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithCache sets the JIT's program cache. The default is shared by the process.
func WithCache(c *jit.Cache) Option { return func(o *options) { o.cache = c } }

// New returns the backend for mode configured by cfg. A jit request with the
// JIT disabled yields the interpreter.
func New(mode Mode, cfg *config.Config, opts ...Option) Runner {
	o := options{logger: slog.Default(), cache: sharedCache}
	for _, opt := range opts {
		opt(&o)
	}
	interp := NewInterpreter(cfg.Limits(), o.logger)
	if mode != Jit {
		return interp
	}
	if !cfg.JIT.Enabled {
		o.logger.Debug("jit disabled, interpreting")
		return interp
	}
	j := NewJIT(interp, o.cache)
	j.logFallbacks = cfg.JIT.LogFallbacks
	return j
}

func entryName(entry string) string {
	if entry == "" {
		return ir.MainFunction
	}
	return entry
}
