package prettyprinter

import (
	"testing"

	"github.com/vais-lang/vais/internal/ast"
)

func id(name string) *ast.Identifier { return ast.Ident(name) }

func TestPrintExpressions(t *testing.T) {
	tests := []struct {
		expr ast.Expression
		want string
	}{
		{ast.Infix(ast.Infix(ast.Int(1), "+", ast.Int(2)), "*", ast.Int(3)), "(1 + 2) * 3"},
		{ast.Infix(ast.Int(1), "+", ast.Infix(ast.Int(2), "*", ast.Int(3))), "1 + 2 * 3"},
		{ast.Infix(ast.Int(1), "-", ast.Infix(ast.Int(2), "-", ast.Int(3))), "1 - (2 - 3)"},
		{ast.Infix(ast.Infix(ast.Int(1), "-", ast.Int(2)), "-", ast.Int(3)), "1 - 2 - 3"},
		{ast.Neg(ast.Infix(id("a"), "+", id("b"))), "-(a + b)"},
		{ast.Not(id("ok")), "!ok"},
		{ast.Float(2), "2.0"},
		{ast.Float(0.5), "0.5"},
		{ast.Str("a\"b"), `"a\"b"`},
		{ast.Void(), "()"},
		{ast.Tuple(ast.Int(1)), "(1,)"},
		{ast.Field(ast.Tuple(ast.Int(1), ast.Bool(true)), 1), "(1, true).1"},
		{ast.Index(ast.Array(ast.Int(1), ast.Int(2)), ast.Int(0)), "[1, 2][0]"},
		{ast.Infix(ast.Int(1), "+", ast.If(id("c"), ast.Int(2), ast.Int(3))), "1 + (c ? 2 : 3)"},
		{ast.Let("x", ast.Int(1), ast.Infix(id("x"), "+", id("x"))), "let x = 1 in x + x"},
		{ast.Map(id("xs"), ast.Lambda([]string{"x"}, ast.Infix(id("x"), "*", ast.Int(2)))), "xs.@((x) => x * 2)"},
		{ast.Filter(id("xs"), id("even")), "xs.?(even)"},
		{ast.Reduce(id("xs"), ast.Int(0), ast.Lambda([]string{"a", "b"}, ast.Infix(id("a"), "+", id("b")))), "xs./(0, (a, b) => a + b)"},
		{ast.Self(ast.Infix(id("n"), "-", ast.Int(1))), "@(n - 1)"},
		{ast.Fold(id("xs"), "+"), "xs./+"},
		{ast.Fold(ast.Range(ast.Int(1), ast.Int(5)), "max"), "(1..5)./max"},
		{ast.Range(ast.Int(0), ast.Infix(id("n"), "+", ast.Int(1))), "0..n + 1"},
		{ast.Contains(ast.Int(3), id("xs")), "3 @ xs"},
		{ast.Infix(ast.Contains(id("x"), id("xs")), "&&", id("ok")), "x @ xs && ok"},
		{ast.Contains(id("x"), ast.Range(ast.Int(0), ast.Int(3))), "x @ (0..3)"},
	}
	for _, tt := range tests {
		if got := Print(tt.expr); got != tt.want {
			t.Errorf("Print = %q, want %q", got, tt.want)
		}
	}
}

func TestPrintProgram(t *testing.T) {
	fact := ast.Fn("factorial", []string{"n"},
		ast.If(ast.Infix(id("n"), "<", ast.Int(2)), ast.Int(1),
			ast.Infix(id("n"), "*", ast.Self(ast.Infix(id("n"), "-", ast.Int(1))))))
	fact.Params[0].Type = ast.TName("Int")
	fact.ReturnType = ast.TName("Int")

	prog := &ast.Program{Functions: []*ast.FunctionDecl{fact}, Main: ast.Call("factorial", ast.Int(10))}
	want := "factorial(n: Int) -> Int = n < 2 ? 1 : n * @(n - 1)\n\nfactorial(10)\n"
	if got := Print(prog); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
