package vais

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	"github.com/vais-lang/vais/internal/analyzer"
	"github.com/vais-lang/vais/internal/backend"
	"github.com/vais-lang/vais/internal/config"
	"github.com/vais-lang/vais/internal/diagnostics"
	"github.com/vais-lang/vais/internal/jit"
	"github.com/vais-lang/vais/internal/lower"
	"github.com/vais-lang/vais/internal/pipeline"
)

// Engine holds a configuration and the backends built from it. It is safe
// for concurrent use; every execution gets its own VM.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	cache      *jit.Cache
	marshaller *Marshaller
}

// Option configures an Engine.
type Option func(*Engine)

func WithConfig(cfg *config.Config) Option { return func(e *Engine) { e.cfg = cfg } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// NewEngine returns an engine using the default configuration unless an
// option says otherwise. Each engine has its own JIT cache.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{cache: jit.NewCache(), marshaller: NewMarshaller()}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg == nil {
		e.cfg = config.Default()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// LoadEngine configures an engine from the vais.yaml found from dir upward
// and the VAIS_* environment. The logger follows the configured level.
func LoadEngine(dir string, opts ...Option) (*Engine, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	base := []Option{WithConfig(cfg), WithLogger(cfg.NewLogger(os.Stderr))}
	return NewEngine(append(base, opts...)...), nil
}

func (e *Engine) Config() *config.Config { return e.cfg }

// Mode is the configured execution mode.
func (e *Engine) Mode() Mode {
	m, err := backend.ParseMode(e.cfg.Mode)
	if err != nil {
		return Interpret
	}
	return m
}

// Backend returns the backend for mode.
func (e *Engine) Backend(mode Mode) backend.Runner {
	return backend.New(mode, e.cfg, backend.WithLogger(e.logger), backend.WithCache(e.cache))
}

// Compile checks and lowers p. All errors are returned joined, each as a
// *diagnostics.DiagnosticError.
func (e *Engine) Compile(p *Program) (*Module, error) {
	ctx := pipeline.New(
		&analyzer.SemanticAnalyzerProcessor{},
		&lower.LoweringProcessor{},
	).Run(pipeline.NewPipelineContext(p))
	if ctx.Failed() {
		return nil, joinDiagnostics(ctx.Errors)
	}
	return ctx.Module, nil
}

// Execute runs entry of m with args on the backend for mode.
func (e *Engine) Execute(m *Module, entry string, args []Value, mode Mode) (Value, error) {
	v, err := e.Backend(mode).Execute(m, entry, args)
	if err != nil {
		return Value{}, diagnostics.NewError(err)
	}
	return v, nil
}

// Run checks, lowers and executes p, reporting what the backend did.
func (e *Engine) Run(p *Program, entry string, args []Value, mode Mode) (Value, *Report, error) {
	ctx := pipeline.NewPipelineContext(p)
	ctx.Entry = entry
	ctx.Args = args
	ctx = pipeline.New(
		&analyzer.SemanticAnalyzerProcessor{},
		&lower.LoweringProcessor{},
		backend.NewExecutionProcessor(e.Backend(mode)),
	).Run(ctx)

	report, _ := ctx.Report.(*Report)
	if ctx.Failed() {
		return Value{}, report, joinDiagnostics(ctx.Errors)
	}
	return ctx.Result, report, nil
}

// Call runs the named function of m in the configured mode, converting
// arguments and the result with the engine's Marshaller.
func (e *Engine) Call(m *Module, name string, args ...any) (any, error) {
	result, err := e.call(m, name, args)
	if err != nil {
		return nil, err
	}
	return e.marshaller.FromValue(result, nil)
}

// CallInto is Call with the result converted to the type of out, which
// must be a non-nil pointer.
func (e *Engine) CallInto(out any, m *Module, name string, args ...any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("CallInto needs a non-nil pointer")
	}
	result, err := e.call(m, name, args)
	if err != nil {
		return err
	}
	conv, err := e.marshaller.assignable(result, rv.Elem().Type())
	if err != nil {
		return err
	}
	rv.Elem().Set(conv)
	return nil
}

func (e *Engine) call(m *Module, name string, args []any) (Value, error) {
	vals := make([]Value, len(args))
	for i, arg := range args {
		v, err := e.marshaller.ToValue(arg)
		if err != nil {
			return Value{}, fmt.Errorf("argument %d: %w", i, err)
		}
		vals[i] = v
	}
	return e.Execute(m, name, vals, e.Mode())
}

func joinDiagnostics(errs []error) error {
	diags := make([]error, len(errs))
	for i, err := range errs {
		diags[i] = diagnostics.NewError(err)
	}
	return errors.Join(diags...)
}
