package vm

import (
	"errors"
	"testing"

	"github.com/vais-lang/vais/internal/analyzer"
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/lower"
	"github.com/vais-lang/vais/internal/value"
)

func compile(t *testing.T, prog *ast.Program) *ir.Module {
	t.Helper()
	typed, errs := analyzer.Check(prog)
	if len(errs) > 0 {
		t.Fatalf("type errors: %v", errs)
	}
	m, err := lower.Lower(typed)
	if err != nil {
		t.Fatalf("lowering failed: %+v", err)
	}
	return m
}

func runMain(t *testing.T, main ast.Expression, limits faults.Limits, funcs ...*ast.FunctionDecl) (value.Value, error) {
	t.Helper()
	m := compile(t, &ast.Program{Functions: funcs, Main: main})
	return New(m, limits).Call(ir.MainFunction, nil)
}

func n() *ast.Identifier       { return ast.Ident("n") }
func x() *ast.Identifier       { return ast.Ident("x") }
func one() *ast.IntegerLiteral { return ast.Int(1) }

func factorial() *ast.FunctionDecl {
	return ast.Fn("factorial", []string{"n"},
		ast.If(ast.Infix(n(), "<", ast.Int(2)), one(), ast.Infix(n(), "*", ast.Self(ast.Infix(n(), "-", one())))))
}

func fib() *ast.FunctionDecl {
	return ast.Fn("fib", []string{"n"},
		ast.If(ast.Infix(n(), "<=", one()), n(),
			ast.Infix(ast.Self(ast.Infix(n(), "-", one())), "+", ast.Self(ast.Infix(n(), "-", ast.Int(2))))))
}

// sum(n, acc) = n == 0 ? acc : @(n - 1, acc + n)
func sum() *ast.FunctionDecl {
	return ast.Fn("sum", []string{"n", "acc"},
		ast.If(ast.Infix(n(), "==", ast.Int(0)), ast.Ident("acc"),
			ast.Self(ast.Infix(n(), "-", one()), ast.Infix(ast.Ident("acc"), "+", n()))))
}

// down(n) = n == 0 ? 0 : 1 + @(n - 1)
func down() *ast.FunctionDecl {
	return ast.Fn("down", []string{"n"},
		ast.If(ast.Infix(n(), "==", ast.Int(0)), ast.Int(0), ast.Infix(one(), "+", ast.Self(ast.Infix(n(), "-", one())))))
}

func TestRecursiveFunctions(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{factorial(), fib()}})
	tests := []struct {
		fn   string
		arg  int64
		want int64
	}{
		{"factorial", 10, 3628800},
		{"factorial", 0, 1},
		{"fib", 20, 6765},
		{"fib", 1, 1},
	}
	for _, tt := range tests {
		machine := New(m, faults.Limits{})
		got, err := machine.Call(tt.fn, []value.Value{value.IntVal(tt.arg)})
		if err != nil {
			t.Fatalf("%s(%d): %v", tt.fn, tt.arg, err)
		}
		if !got.IsInt() || got.AsInt() != tt.want {
			t.Errorf("%s(%d) = %s, want %d", tt.fn, tt.arg, got, tt.want)
		}
	}
}

func TestTailCallsRunInConstantFrames(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{sum()}})
	machine := New(m, faults.Limits{MaxCallDepth: 10})
	got, err := machine.Call("sum", []value.Value{value.IntVal(200000), value.IntVal(0)})
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != 20000100000 {
		t.Errorf("sum = %s", got)
	}
	stats := machine.Stats()
	if stats.TailCalls != 200000 || stats.PeakDepth != 1 {
		t.Errorf("tail calls %d, peak depth %d", stats.TailCalls, stats.PeakDepth)
	}
}

func TestStackOverflow(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{down()}})
	machine := New(m, faults.Limits{})

	got, err := machine.Call("down", []value.Value{value.IntVal(400)})
	if err != nil || got.AsInt() != 400 {
		t.Fatalf("down(400) = %s, %v", got, err)
	}

	_, err = machine.Call("down", []value.Value{value.IntVal(1000)})
	var f *faults.Fault
	if !errors.As(err, &f) || f.Kind != faults.StackOverflow {
		t.Fatalf("expected stack overflow, got %v", err)
	}
	if f.Function != "down" {
		t.Errorf("fault attributed to %q", f.Function)
	}
	if d := machine.Depth().Current; d != 0 {
		t.Errorf("depth not restored after fault: %d", d)
	}

	// The VM stays usable after a fault.
	if got, err := machine.Call("down", []value.Value{value.IntVal(3)}); err != nil || got.AsInt() != 3 {
		t.Errorf("down(3) after overflow = %s, %v", got, err)
	}
}

func TestRuntimeFaults(t *testing.T) {
	tests := []struct {
		name   string
		main   ast.Expression
		limits faults.Limits
		kind   faults.Kind
	}{
		{"division by zero", ast.Infix(ast.Int(1), "/", ast.Int(0)), faults.Limits{}, faults.DivisionByZero},
		{"modulo by zero", ast.Infix(ast.Int(1), "%", ast.Int(0)), faults.Limits{}, faults.DivisionByZero},
		{"index past end", ast.Index(ast.Array(ast.Int(1), ast.Int(2)), ast.Int(5)), faults.Limits{}, faults.IndexOutOfBounds},
		{"negative index", ast.Index(ast.Array(ast.Int(1)), ast.Neg(ast.Int(1))), faults.Limits{}, faults.IndexOutOfBounds},
		{"range too long", ast.Call("range", ast.Int(0), ast.Int(100)), faults.Limits{MaxArrayLen: 10}, faults.ArrayCapacityExceeded},
		{"literal too long", ast.Array(ast.Int(1), ast.Int(2), ast.Int(3)), faults.Limits{MaxArrayLen: 2}, faults.ArrayCapacityExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runMain(t, tt.main, tt.limits)
			if got := faults.KindOf(err); got != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestFaultInsideLambdaUnwinds(t *testing.T) {
	// [1, 0].map(x => 10 / x)
	main := ast.Map(ast.Array(one(), ast.Int(0)), ast.Lambda([]string{"x"}, ast.Infix(ast.Int(10), "/", ast.Ident("x"))))
	m := compile(t, &ast.Program{Main: main})
	machine := New(m, faults.Limits{})
	_, err := machine.Call(ir.MainFunction, nil)
	var f *faults.Fault
	if !errors.As(err, &f) || f.Kind != faults.DivisionByZero {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if f.Function != "__main__$lambda0" {
		t.Errorf("fault attributed to %q", f.Function)
	}
	if machine.Depth().Current != 0 || machine.frameCount != 0 || machine.sp != 0 {
		t.Errorf("state not unwound: depth %d frames %d sp %d", machine.Depth().Current, machine.frameCount, machine.sp)
	}
}

func TestEvaluation(t *testing.T) {
	tests := []struct {
		name string
		main ast.Expression
		want value.Value
	}{
		{"int addition", ast.Infix(one(), "+", ast.Int(2)), value.IntVal(3)},
		{"float coercion", ast.Infix(one(), "+", ast.Float(2.0)), value.FloatVal(3.0)},
		{"string concat", ast.Infix(ast.Str("a"), "+", ast.Str("b")), value.StringVal("ab")},
		{"let shadowing", ast.Let("x", one(), ast.Let("x", ast.Infix(x(), "+", one()), x())), value.IntVal(2)},
		{"short circuit", ast.Infix(ast.Bool(false), "&&", ast.Infix(ast.Infix(one(), "/", ast.Int(0)), "==", one())), value.BoolVal(false)},
		{"or", ast.Infix(ast.Bool(false), "||", ast.Bool(true)), value.BoolVal(true)},
		{"ternary value", ast.Infix(ast.Int(10), "+", ast.If(ast.Bool(false), one(), ast.Int(5))), value.IntVal(15)},
		{"tuple field", ast.Field(ast.Tuple(one(), ast.Str("s")), 1), value.StringVal("s")},
		{"map", ast.Map(ast.Array(one(), ast.Int(2), ast.Int(3), ast.Int(4), ast.Int(5)), ast.Lambda([]string{"x"}, ast.Infix(x(), "*", ast.Int(2)))),
			value.ArrayVal([]value.Value{value.IntVal(2), value.IntVal(4), value.IntVal(6), value.IntVal(8), value.IntVal(10)})},
		{"filter with capture", ast.Let("k", ast.Int(2),
			ast.Filter(ast.Call("range", ast.Int(0), ast.Int(6)), ast.Lambda([]string{"x"}, ast.Infix(ast.Infix(x(), "%", ast.Ident("k")), "==", ast.Int(0))))),
			value.ArrayVal([]value.Value{value.IntVal(0), value.IntVal(2), value.IntVal(4)})},
		{"reduce", ast.Reduce(ast.Call("range", one(), ast.Int(5)), ast.Int(0), ast.Lambda([]string{"acc", "x"}, ast.Infix(ast.Ident("acc"), "+", x()))), value.IntVal(10)},
		{"map builtin", ast.Map(ast.Array(one(), ast.Int(2)), ast.Ident("float")), value.ArrayVal([]value.Value{value.FloatVal(1), value.FloatVal(2)})},
		{"sum", ast.Fold(ast.Range(one(), ast.Int(5)), "+"), value.IntVal(10)},
		{"empty float sum", ast.Fold(ast.Filter(ast.Array(ast.Float(1)), ast.Lambda([]string{"x"}, ast.Bool(false))), "+"), value.FloatVal(0)},
		{"product", ast.Fold(ast.Range(one(), ast.Int(6)), "*"), value.IntVal(120)},
		{"min", ast.Fold(ast.Array(ast.Int(3), ast.Neg(ast.Int(2)), ast.Int(7)), "min"), value.IntVal(-2)},
		{"max of strings", ast.Fold(ast.Array(ast.Str("pear"), ast.Str("apple"), ast.Str("plum")), "max"), value.StringVal("plum")},
		{"all", ast.Fold(ast.Array(ast.Bool(true), ast.Bool(false)), "and"), value.BoolVal(false)},
		{"any of empty", ast.Fold(ast.Filter(ast.Array(ast.Bool(true)), ast.Lambda([]string{"x"}, ast.Bool(false))), "or"), value.BoolVal(false)},
		{"range", ast.Range(ast.Int(2), ast.Int(5)), value.ArrayVal([]value.Value{value.IntVal(2), value.IntVal(3), value.IntVal(4)})},
		{"empty range", ast.Range(ast.Int(5), ast.Int(2)), value.ArrayVal([]value.Value{})},
		{"contains", ast.Contains(ast.Int(3), ast.Range(one(), ast.Int(5))), value.BoolVal(true)},
		{"does not contain", ast.Contains(ast.Int(9), ast.Range(one(), ast.Int(5))), value.BoolVal(false)},
		{"substring", ast.Contains(ast.Str("ell"), ast.Str("hello")), value.BoolVal(true)},
		{"builtin call", ast.Call("len", ast.Call("push", ast.Array(one()), ast.Int(2))), value.IntVal(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runMain(t, tt.main, faults.Limits{})
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind != tt.want.Kind || !got.Equals(tt.want) {
				t.Errorf("got %s (%s), want %s (%s)", got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestFoldFaults(t *testing.T) {
	empty := ast.Filter(ast.Array(one()), ast.Lambda([]string{"x"}, ast.Bool(false)))
	_, err := runMain(t, ast.Fold(empty, "min"), faults.Limits{})
	var f *faults.Fault
	if !errors.As(err, &f) || f.Kind != faults.IndexOutOfBounds {
		t.Fatalf("min of an empty array: got %v", err)
	}
	if f.Function != ir.MainFunction {
		t.Errorf("fault attributed to %q", f.Function)
	}

	_, err = runMain(t, ast.Range(ast.Int(0), ast.Int(100)), faults.Limits{MaxArrayLen: 10})
	if !errors.As(err, &f) || f.Kind != faults.ArrayCapacityExceeded {
		t.Errorf("oversized range: got %v", err)
	}
}

func TestNativeBinding(t *testing.T) {
	main := ast.Infix(ast.Call("factorial", ast.Int(5)), "+", one())
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{factorial()}, Main: main})
	machine := New(m, faults.Limits{})

	called := 0
	machine.BindNative(m.IndexOf("factorial"), func(args []value.Value) (value.Value, error) {
		called++
		return value.IntVal(args[0].AsInt() * 100), nil
	})
	got, err := machine.Call(ir.MainFunction, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.AsInt() != 501 || called != 1 {
		t.Errorf("got %s with %d native calls", got, called)
	}
	if machine.Stats().NativeCalls != 1 {
		t.Errorf("stats: %+v", machine.Stats())
	}
}

func TestCallChecksArguments(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{factorial()}})
	machine := New(m, faults.Limits{})
	if _, err := machine.Call("factorial", nil); err == nil {
		t.Error("expected arity error")
	}
	if _, err := machine.Call("missing", nil); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}
