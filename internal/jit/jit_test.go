package jit

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vais-lang/vais/internal/analyzer"
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/lower"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
	"github.com/vais-lang/vais/internal/vm"
)

func compile(t *testing.T, prog *ast.Program) *ir.Module {
	t.Helper()
	typed, errs := analyzer.Check(prog)
	require.Empty(t, errs)
	m, err := lower.Lower(typed)
	require.NoError(t, err)
	return m
}

func id(name string) *ast.Identifier { return ast.Ident(name) }

func factorial() *ast.FunctionDecl {
	return ast.Fn("factorial", []string{"n"},
		ast.If(ast.Infix(id("n"), "<", ast.Int(2)), ast.Int(1),
			ast.Infix(id("n"), "*", ast.Self(ast.Infix(id("n"), "-", ast.Int(1))))))
}

func fib() *ast.FunctionDecl {
	return ast.Fn("fib", []string{"n"},
		ast.If(ast.Infix(id("n"), "<=", ast.Int(1)), id("n"),
			ast.Infix(ast.Self(ast.Infix(id("n"), "-", ast.Int(1))), "+", ast.Self(ast.Infix(id("n"), "-", ast.Int(2))))))
}

func sum() *ast.FunctionDecl {
	return ast.Fn("sum", []string{"n", "acc"},
		ast.If(ast.Infix(id("n"), "==", ast.Int(0)), id("acc"),
			ast.Self(ast.Infix(id("n"), "-", ast.Int(1)), ast.Infix(id("acc"), "+", id("n")))))
}

func down() *ast.FunctionDecl {
	return ast.Fn("down", []string{"n"},
		ast.If(ast.Infix(id("n"), "==", ast.Int(0)), ast.Int(0),
			ast.Infix(ast.Int(1), "+", ast.Self(ast.Infix(id("n"), "-", ast.Int(1))))))
}

// bind compiles m and returns a runtime over a fresh interpreter.
func bind(t *testing.T, m *ir.Module, limits faults.Limits) (*Program, *Runtime, *vm.VM) {
	t.Helper()
	p, err := Compile(m)
	require.NoError(t, err)
	machine := vm.New(m, limits)
	return p, p.Bind(machine), machine
}

func TestGate(t *testing.T) {
	xs := ast.Fn("first", []string{"xs"}, ast.Index(id("xs"), ast.Int(0)))
	count := ast.Fn("count", []string{"n"}, ast.Call("len", ast.Call("range", ast.Int(0), id("n"))))
	root := ast.Fn("root", []string{"x"}, ast.Call("int", ast.Call("sqrt", id("x"))))
	total := ast.Fn("total", []string{"n"}, ast.Fold(ast.Range(ast.Int(0), id("n")), "+"))
	m := compile(t, &ast.Program{
		Functions: []*ast.FunctionDecl{factorial(), xs, count, root, total},
		Main:      ast.Call("first", ast.Array(ast.Int(1))),
	})

	tests := []struct {
		fn     string
		ok     bool
		reason string
	}{
		{"factorial", true, ""},
		{"first", false, "parameter 0"},
		{"count", false, "builtin range"},
		{"root", true, ""},
		{"total", false, "opcode RANGE"},
		{ir.MainFunction, false, "opcode MAKE_ARRAY"},
	}
	for _, tt := range tests {
		fn, ok := m.Lookup(tt.fn)
		require.True(t, ok, tt.fn)
		err := Gate(m, fn)
		if tt.ok {
			assert.NoError(t, err, tt.fn)
			continue
		}
		var u *Unsupported
		if assert.True(t, errors.As(err, &u), "%s: %v", tt.fn, err) {
			assert.Contains(t, u.Reason, tt.reason)
		}
	}
}

func TestCompiledRecursion(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{factorial(), fib()}})
	p, rt, _ := bind(t, m, faults.Limits{})
	require.True(t, p.FullyCompiled())

	got, err := rt.Call("factorial", []value.Value{value.IntVal(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(3628800), got.AsInt())

	got, err = rt.Call("fib", []value.Value{value.IntVal(20)})
	require.NoError(t, err)
	assert.Equal(t, int64(6765), got.AsInt())
}

func TestTailCallIsLoop(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{sum()}})
	_, rt, machine := bind(t, m, faults.Limits{MaxCallDepth: 10})

	got, err := rt.Call("sum", []value.Value{value.IntVal(200000), value.IntVal(0)})
	require.NoError(t, err)
	assert.Equal(t, int64(20000100000), got.AsInt())
	assert.Equal(t, uint64(200000), rt.Stats().TailCalls)
	assert.Equal(t, 1, machine.Depth().Peak)
}

func TestCallPreparesArguments(t *testing.T) {
	half := ast.Fn("half", []string{"x"}, ast.Infix(id("x"), "/", ast.Float(2)))
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{half}})
	_, rt, _ := bind(t, m, faults.Limits{})

	got, err := rt.Call("half", []value.Value{value.IntVal(3)})
	require.NoError(t, err)
	assert.Equal(t, value.KindFloat, got.Kind)
	assert.Equal(t, 1.5, got.AsFloat())

	_, err = rt.Call("half", []value.Value{value.BoolVal(true)})
	var argErr *ir.ArgumentError
	require.True(t, errors.As(err, &argErr), "%v", err)
	assert.Equal(t, 0, argErr.Index)
}

func TestStackOverflowSharesLimit(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{down()}})
	_, rt, machine := bind(t, m, faults.Limits{MaxCallDepth: 50})

	got, err := rt.Call("down", []value.Value{value.IntVal(49)})
	require.NoError(t, err)
	assert.Equal(t, int64(49), got.AsInt())

	_, err = rt.Call("down", []value.Value{value.IntVal(50)})
	assert.Equal(t, faults.StackOverflow, faults.KindOf(err))
	assert.Equal(t, 0, machine.Depth().Current)
}

func TestFaultsMatchInterpreter(t *testing.T) {
	div := ast.Fn("div", []string{"a", "b"}, ast.Infix(id("a"), "/", id("b")))
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{div}})
	_, rt, _ := bind(t, m, faults.Limits{})

	_, err := rt.Call("div", []value.Value{value.IntVal(1), value.IntVal(0)})
	var f *faults.Fault
	require.True(t, errors.As(err, &f), "%v", err)
	assert.Equal(t, faults.DivisionByZero, f.Kind)
	assert.Equal(t, "div", f.Function)

	got, err := rt.Call("div", []value.Value{value.IntVal(math.MinInt64), value.IntVal(-1)})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), got.AsInt())
}

func TestMixedModeCalls(t *testing.T) {
	// count is interpreted; plus1 is compiled and calls it.
	count := ast.Fn("count", []string{"n"}, ast.Call("len", ast.Call("range", ast.Int(0), id("n"))))
	plus1 := ast.Fn("plus1", []string{"n"}, ast.Infix(ast.Call("count", id("n")), "+", ast.Int(1)))
	main := ast.Call("len", ast.Array(ast.Call("plus1", ast.Int(4))))
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{count, plus1}, Main: main})
	p, rt, machine := bind(t, m, faults.Limits{})

	byName := map[string]Coverage{}
	for _, c := range p.Coverage() {
		byName[c.Function] = c
	}
	assert.False(t, byName["count"].Compiled)
	assert.NotEmpty(t, byName["count"].Reason)
	assert.True(t, byName["plus1"].Compiled)
	assert.False(t, p.FullyCompiled())

	got, err := rt.Call("plus1", []value.Value{value.IntVal(4)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.AsInt())
	assert.Equal(t, uint64(1), rt.Stats().FallbackCalls)

	got, err = machine.Call(ir.MainFunction, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.AsInt())
	assert.Equal(t, uint64(1), machine.Stats().NativeCalls)
}

func TestCompiledLambdaUnderMap(t *testing.T) {
	main := ast.Map(ast.Array(ast.Int(1), ast.Int(2), ast.Int(3)),
		ast.Lambda([]string{"x"}, ast.Infix(ast.Call("float", id("x")), "*", ast.Float(0.5))))
	m := compile(t, &ast.Program{Main: main})
	p, _, machine := bind(t, m, faults.Limits{})
	_, ok := p.Lookup("__main__$lambda0")
	require.True(t, ok)

	got, err := machine.Call(ir.MainFunction, nil)
	require.NoError(t, err)
	want := value.ArrayVal([]value.Value{value.FloatVal(0.5), value.FloatVal(1), value.FloatVal(1.5)})
	assert.True(t, got.Equals(want), "got %s", got)
}

func TestUnrecognizedShapeIsICE(t *testing.T) {
	fn := &ir.Function{
		Name:       "odd",
		ReturnType: typesystem.Int,
		Code: []ir.Instruction{
			{Op: ir.OP_PUSH_CONST, Const: value.IntVal(1)},
			{Op: ir.OP_PUSH_CONST, Const: value.BoolVal(true)},
			{Op: ir.OP_BRANCH_IF_FALSE, Arg: 4},
			{Op: ir.OP_UNARY, Un: ir.Neg},
			{Op: ir.OP_RETURN},
		},
	}
	m, err := ir.NewModule([]*ir.Function{fn})
	require.NoError(t, err)
	require.NoError(t, Gate(m, fn))

	_, err = Compile(m)
	var ice *ICE
	assert.True(t, errors.As(err, &ice), "expected ICE, got %v", err)
}

func TestCacheCompilesOnce(t *testing.T) {
	m := compile(t, &ast.Program{Functions: []*ast.FunctionDecl{fib()}})
	c := NewCache()

	var wg sync.WaitGroup
	progs := make([]*Program, 8)
	for i := range progs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.Get(m)
			assert.NoError(t, err)
			progs[i] = p
		}()
	}
	wg.Wait()

	for _, p := range progs {
		assert.Same(t, progs[0], p)
	}
	assert.Equal(t, 1, c.Compiles())

	c.Forget(m.ID)
	_, err := c.Get(m)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Compiles())
}
