// Package prettyprinter renders AST nodes back to source form.
package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/vais-lang/vais/internal/ast"
)

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"..": 5,
	"@":  6,
	"+":  7,
	"-":  7,
	"*":  8,
	"/":  8,
	"%":  8,
}

const (
	ternaryPrec = 0
	prefixPrec  = 10
	postfixPrec = 11 // calls, indexing, field access, collection operators
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return prefixPrec - 1
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders any node: a program, a function declaration, a parameter or
// an expression.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	p.Node(node)
	return p.String()
}

func (p *CodePrinter) String() string { return p.buf.String() }

func (p *CodePrinter) write(s string) { p.buf.WriteString(s) }

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) Node(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		p.program(n)
	case *ast.FunctionDecl:
		p.function(n)
	case *ast.Param:
		p.param(n)
	case ast.Expression:
		p.printExpr(n, ternaryPrec, false)
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) program(prog *ast.Program) {
	for i, fn := range prog.Functions {
		if i > 0 {
			p.write("\n")
		}
		p.writeIndent()
		p.function(fn)
		p.write("\n")
	}
	if prog.Main != nil {
		if len(prog.Functions) > 0 {
			p.write("\n")
		}
		p.writeIndent()
		p.printExpr(prog.Main, ternaryPrec, false)
		p.write("\n")
	}
}

func (p *CodePrinter) function(fn *ast.FunctionDecl) {
	p.write(fn.Name)
	p.params(fn.Params)
	if fn.ReturnType != nil {
		p.write(" -> " + fn.ReturnType.String())
	}
	p.write(" = ")
	p.printExpr(fn.Body, ternaryPrec, false)
}

func (p *CodePrinter) params(params []*ast.Param) {
	p.write("(")
	for i, prm := range params {
		if i > 0 {
			p.write(", ")
		}
		p.param(prm)
	}
	p.write(")")
}

func (p *CodePrinter) param(prm *ast.Param) {
	p.write(prm.Name)
	if prm.Type != nil {
		p.write(": " + prm.Type.String())
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	switch e := expr.(type) {
	case nil:
		p.write("<???>")
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		// All binary operators are left-associative
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		p.open(needParens)
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec, true)
		p.close(needParens)
	case *ast.RangeExpression:
		p.nonAssoc("..", e.Start, e.End, parentPrec)
	case *ast.ContainsExpression:
		p.nonAssoc("@", e.Element, e.Container, parentPrec)
	case *ast.PrefixExpression:
		needParens := prefixPrec < parentPrec
		p.open(needParens)
		p.write(e.Operator)
		p.printExpr(e.Right, prefixPrec, false)
		p.close(needParens)
	case *ast.TernaryExpression:
		needParens := parentPrec > ternaryPrec || isRight
		p.open(needParens)
		p.printExpr(e.Condition, ternaryPrec+1, false)
		p.write(" ? ")
		p.printExpr(e.Consequence, ternaryPrec, false)
		p.write(" : ")
		p.printExpr(e.Alternative, ternaryPrec, false)
		p.close(needParens)
	case *ast.LetExpression:
		needParens := parentPrec > ternaryPrec || isRight
		p.open(needParens)
		p.write("let ")
		p.param(e.Name)
		p.write(" = ")
		p.printExpr(e.Value, ternaryPrec, false)
		p.write(" in ")
		p.printExpr(e.Body, ternaryPrec, false)
		p.close(needParens)
	case *ast.FunctionLiteral:
		needParens := parentPrec > ternaryPrec || isRight
		p.open(needParens)
		p.params(e.Params)
		p.write(" => ")
		p.printExpr(e.Body, ternaryPrec, false)
		p.close(needParens)
	default:
		p.primary(expr)
	}
}

func (p *CodePrinter) primary(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		p.write(strconv.FormatInt(e.Value, 10))
	case *ast.FloatLiteral:
		s := strconv.FormatFloat(e.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		p.write(s)
	case *ast.StringLiteral:
		p.write(strconv.Quote(e.Value))
	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ast.VoidLiteral:
		p.write("()")
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.CallExpression:
		p.write(e.Function.Value)
		p.args(e.Arguments)
	case *ast.SelfCallExpression:
		p.write("@")
		p.args(e.Arguments)
	case *ast.ArrayLiteral:
		p.write("[")
		p.list(e.Elements)
		p.write("]")
	case *ast.TupleLiteral:
		p.write("(")
		p.list(e.Elements)
		if len(e.Elements) == 1 {
			p.write(",")
		}
		p.write(")")
	case *ast.IndexExpression:
		p.printExpr(e.Left, postfixPrec, false)
		p.write("[")
		p.printExpr(e.Index, ternaryPrec, false)
		p.write("]")
	case *ast.FieldExpression:
		p.printExpr(e.Left, postfixPrec, false)
		p.write("." + strconv.Itoa(e.Field))
	case *ast.MapExpression:
		p.printExpr(e.Array, postfixPrec, false)
		p.write(".@")
		p.args([]ast.Expression{e.Func})
	case *ast.FilterExpression:
		p.printExpr(e.Array, postfixPrec, false)
		p.write(".?")
		p.args([]ast.Expression{e.Func})
	case *ast.ReduceExpression:
		p.printExpr(e.Array, postfixPrec, false)
		p.write("./")
		p.args([]ast.Expression{e.Init, e.Func})
	case *ast.FoldExpression:
		p.printExpr(e.Array, postfixPrec, false)
		p.write("./" + e.Operator)
	default:
		p.write("<???>")
	}
}

// nonAssoc prints a binary operator whose operands never chain.
func (p *CodePrinter) nonAssoc(op string, left, right ast.Expression, parentPrec int) {
	prec := getPrecedence(op)
	needParens := prec <= parentPrec
	p.open(needParens)
	p.printExpr(left, prec+1, false)
	p.write(" " + op + " ")
	p.printExpr(right, prec+1, false)
	p.close(needParens)
}

func (p *CodePrinter) args(list []ast.Expression) {
	p.write("(")
	p.list(list)
	p.write(")")
}

func (p *CodePrinter) list(list []ast.Expression) {
	for i, e := range list {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, ternaryPrec, false)
	}
}

func (p *CodePrinter) open(needParens bool) {
	if needParens {
		p.write("(")
	}
}

func (p *CodePrinter) close(needParens bool) {
	if needParens {
		p.write(")")
	}
}
