package lower

import (
	"errors"
	"testing"

	"github.com/vais-lang/vais/internal/analyzer"
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/typesystem"
)

func lowerProgram(t *testing.T, prog *ast.Program) *ir.Module {
	t.Helper()
	typed, errs := analyzer.Check(prog)
	if len(errs) > 0 {
		t.Fatalf("type errors: %v", errs)
	}
	m, err := Lower(typed)
	if err != nil {
		t.Fatalf("lowering failed: %+v", err)
	}
	return m
}

func opcodes(fn *ir.Function) []ir.Opcode {
	ops := make([]ir.Opcode, len(fn.Code))
	for i, in := range fn.Code {
		ops[i] = in.Op
	}
	return ops
}

func mustLookup(t *testing.T, m *ir.Module, name string) *ir.Function {
	t.Helper()
	fn, ok := m.Lookup(name)
	if !ok {
		t.Fatalf("function %s not in module:\n%s", name, m.Disassemble())
	}
	return fn
}

func factorialDecl() *ast.FunctionDecl {
	return ast.Fn("factorial", []string{"n"},
		ast.If(ast.Infix(ast.Ident("n"), "<=", ast.Int(1)),
			ast.Int(1),
			ast.Infix(ast.Ident("n"), "*", ast.Self(ast.Infix(ast.Ident("n"), "-", ast.Int(1))))))
}

func sumDecl() *ast.FunctionDecl {
	return ast.Fn("sum", []string{"n", "acc"},
		ast.If(ast.Infix(ast.Ident("n"), "==", ast.Int(0)),
			ast.Ident("acc"),
			ast.Self(ast.Infix(ast.Ident("n"), "-", ast.Int(1)), ast.Infix(ast.Ident("acc"), "+", ast.Ident("n")))))
}

func TestLowerFactorial(t *testing.T) {
	m := lowerProgram(t, &ast.Program{Functions: []*ast.FunctionDecl{factorialDecl()}})
	fn := mustLookup(t, m, "factorial")

	want := []ir.Opcode{
		ir.OP_LOAD_LOCAL, ir.OP_PUSH_CONST, ir.OP_BINARY, ir.OP_BRANCH_IF_FALSE,
		ir.OP_PUSH_CONST, ir.OP_RETURN,
		ir.OP_LOAD_LOCAL, ir.OP_LOAD_LOCAL, ir.OP_PUSH_CONST, ir.OP_BINARY, ir.OP_SELF_CALL, ir.OP_BINARY, ir.OP_RETURN,
	}
	got := opcodes(fn)
	if len(got) != len(want) {
		t.Fatalf("got %d instructions:\n%s", len(got), ir.Disassemble(fn))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instruction %d: got %s, want %s\n%s", i, got[i], want[i], ir.Disassemble(fn))
		}
	}
	if fn.Code[3].Arg != 6 {
		t.Errorf("else branch should start at 6, got %d", fn.Code[3].Arg)
	}
	if fn.IsTailCall(10) {
		t.Error("self call under * is not a tail call")
	}
	if fn.MaxStack != 3 {
		t.Errorf("MaxStack = %d, want 3", fn.MaxStack)
	}
	if !typesystem.Equal(fn.ReturnType, typesystem.Int) || !typesystem.Equal(fn.LocalTypes[0], typesystem.Int) {
		t.Errorf("signature not carried: %s", fn.Signature())
	}
}

func TestLowerTailSelfCall(t *testing.T) {
	m := lowerProgram(t, &ast.Program{Functions: []*ast.FunctionDecl{sumDecl()}})
	fn := mustLookup(t, m, "sum")

	tail := -1
	for pc := range fn.Code {
		if fn.Code[pc].Op == ir.OP_SELF_CALL {
			tail = pc
		}
	}
	if tail < 0 || !fn.IsTailCall(tail) {
		t.Fatalf("expected SELF_CALL followed by RETURN:\n%s", ir.Disassemble(fn))
	}
	for _, in := range fn.Code {
		if in.Op == ir.OP_BRANCH {
			t.Errorf("tail conditional should not need a join branch:\n%s", ir.Disassemble(fn))
		}
	}
}

func TestLowerValueConditionalJoins(t *testing.T) {
	main := ast.Infix(ast.Int(1), "+", ast.If(ast.Bool(true), ast.Int(2), ast.Int(3)))
	m := lowerProgram(t, &ast.Program{Main: main})
	fn := mustLookup(t, m, ir.MainFunction)

	var branch, bif *ir.Instruction
	for i := range fn.Code {
		switch fn.Code[i].Op {
		case ir.OP_BRANCH:
			branch = &fn.Code[i]
		case ir.OP_BRANCH_IF_FALSE:
			bif = &fn.Code[i]
		}
	}
	if branch == nil || bif == nil {
		t.Fatalf("expected both branches:\n%s", ir.Disassemble(fn))
	}
	if fn.Code[branch.Arg].Op != ir.OP_BINARY {
		t.Errorf("join should continue with the addition:\n%s", ir.Disassemble(fn))
	}
	if fn.MaxStack != 2 {
		t.Errorf("MaxStack = %d, want 2", fn.MaxStack)
	}
}

func TestLowerShortCircuit(t *testing.T) {
	main := ast.Infix(ast.Bool(false), "&&", ast.Infix(ast.Int(1), "==", ast.Int(1)))
	m := lowerProgram(t, &ast.Program{Main: main})
	fn := mustLookup(t, m, ir.MainFunction)
	if fn.Code[1].Op != ir.OP_BRANCH_IF_FALSE {
		t.Fatalf("&& should branch on its left operand:\n%s", ir.Disassemble(fn))
	}
}

func TestLowerIsDeterministic(t *testing.T) {
	build := func() *ast.Program {
		return &ast.Program{
			Functions: []*ast.FunctionDecl{factorialDecl(), sumDecl()},
			Main: ast.Let("k", ast.Int(2),
				ast.Map(ast.Call("range", ast.Int(0), ast.Int(5)), ast.Lambda([]string{"x"}, ast.Infix(ast.Ident("x"), "*", ast.Ident("k"))))),
		}
	}
	a := lowerProgram(t, build()).Disassemble()
	for i := 0; i < 10; i++ {
		if b := lowerProgram(t, build()).Disassemble(); a != b {
			t.Fatalf("lowering differs between runs:\n%s\nvs\n%s", a, b)
		}
	}
}

func TestLowerLambdaCaptures(t *testing.T) {
	main := ast.Let("k", ast.Int(3),
		ast.Map(ast.Array(ast.Int(1), ast.Int(2)), ast.Lambda([]string{"x"}, ast.Infix(ast.Ident("x"), "*", ast.Ident("k")))))
	m := lowerProgram(t, &ast.Program{Main: main})

	lambda := mustLookup(t, m, "__main__$lambda0")
	if lambda.Arity != 2 || !lambda.Lambda {
		t.Fatalf("lambda should take the capture and the element, got arity %d", lambda.Arity)
	}

	fn := mustLookup(t, m, ir.MainFunction)
	found := false
	for _, in := range fn.Code {
		if in.Op == ir.OP_MAP_ARRAY {
			found = true
			if in.Captures != 1 || in.Name != lambda.Name || in.Func != m.IndexOf(lambda.Name) {
				t.Errorf("bad map instruction: %s", ir.FormatInstruction(in))
			}
		}
	}
	if !found {
		t.Fatalf("no MAP_ARRAY:\n%s", ir.Disassemble(fn))
	}
}

func TestLowerSelfCallInsideLambda(t *testing.T) {
	// walk(xs) = len(xs) == 0 ? 0 : reduce(xs, 0, (acc, x) => acc + @([]))
	walk := ast.Fn("walk", []string{"xs"},
		ast.If(ast.Infix(ast.Call("len", ast.Ident("xs")), "==", ast.Int(0)),
			ast.Int(0),
			ast.Reduce(ast.Ident("xs"), ast.Int(0),
				ast.Lambda([]string{"acc", "x"}, ast.Infix(ast.Ident("acc"), "+", ast.Self(ast.Array()))))))
	m := lowerProgram(t, &ast.Program{Functions: []*ast.FunctionDecl{walk}})

	lambda := mustLookup(t, m, "walk$lambda0")
	for _, in := range lambda.Code {
		if in.Op == ir.OP_SELF_CALL {
			t.Fatal("@ inside a lambda must not call the lambda itself")
		}
		if in.Op == ir.OP_CALL && in.Name != "walk" {
			t.Errorf("@ should call walk, got %s", in.Name)
		}
	}
}

func TestLowerBuiltinOperand(t *testing.T) {
	m := lowerProgram(t, &ast.Program{Main: ast.Map(ast.Array(ast.Int(1)), ast.Ident("float"))})
	w := mustLookup(t, m, "__main__$lambda0")
	if w.Arity != 1 || w.Code[1].Op != ir.OP_CALL_BUILTIN || w.Code[1].Name != "float" {
		t.Fatalf("unexpected wrapper:\n%s", ir.Disassemble(w))
	}
}

func TestLowerUntypedProgramIsICE(t *testing.T) {
	prog := &ast.Program{Functions: []*ast.FunctionDecl{factorialDecl()}}
	typed := &typesystem.TypedProgram{
		Program:    prog,
		Types:      map[ast.Node]typesystem.Type{},
		Signatures: map[string]typesystem.TFunc{"factorial": {Params: []typesystem.Type{typesystem.Int}, ReturnType: typesystem.Int}},
	}
	_, err := Lower(typed)
	var ice *ICE
	if !errors.As(err, &ice) {
		t.Fatalf("expected ICE, got %v", err)
	}
}

func TestLowerFoldRangeContains(t *testing.T) {
	main := ast.Tuple(
		ast.Fold(ast.Range(ast.Int(0), ast.Int(3)), "max"),
		ast.Contains(ast.Int(2), ast.Array(ast.Int(1), ast.Int(2))))
	m := lowerProgram(t, &ast.Program{Main: main})
	fn := mustLookup(t, m, ir.MainFunction)

	want := []ir.Opcode{
		ir.OP_PUSH_CONST, ir.OP_PUSH_CONST, ir.OP_RANGE, ir.OP_FOLD_ARRAY,
		ir.OP_PUSH_CONST, ir.OP_PUSH_CONST, ir.OP_PUSH_CONST, ir.OP_MAKE_ARRAY, ir.OP_CONTAINS,
		ir.OP_MAKE_ARRAY, ir.OP_RETURN,
	}
	got := opcodes(fn)
	if len(got) != len(want) {
		t.Fatalf("got:\n%s", ir.Disassemble(fn))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instruction %d is %s, want %s:\n%s", i, got[i], want[i], ir.Disassemble(fn))
		}
	}
	fold := fn.Code[3]
	if ir.Fold(fold.Arg) != ir.FoldMax || !typesystem.Equal(fold.Type, typesystem.Int) {
		t.Errorf("fold operand %s typed %s", ir.Fold(fold.Arg), fold.Type)
	}
}
