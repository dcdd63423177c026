package ast

import "fmt"

// Span locates a node in its source file. Start and End are byte offsets,
// Line and Column are 1-based and describe Start.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

func (s Span) String() string {
	if s.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Before reports whether s starts before o in the source.
func (s Span) Before(o Span) bool {
	if s.Line != o.Line {
		return s.Line < o.Line
	}
	if s.Column != o.Column {
		return s.Column < o.Column
	}
	return s.Start < o.Start
}

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Span
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node handed over by the parser: a list of top-level
// functions and an optional trailing expression that is evaluated as the
// program's entry point.
type Program struct {
	File      string
	Functions []*FunctionDecl
	Main      Expression
}

func (p *Program) Pos() Span {
	if len(p.Functions) > 0 {
		return p.Functions[0].Span
	}
	if p.Main != nil {
		return p.Main.Pos()
	}
	return Span{}
}

// Function returns the top-level function with the given name.
func (p *Program) Function(name string) *FunctionDecl {
	for _, fn := range p.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Param is a function or lambda parameter with an optional annotation.
type Param struct {
	Span Span
	Name string
	Type TypeExpr // nil when not annotated
}

func (p *Param) Pos() Span { return p.Span }

// FunctionDecl represents a top-level function definition.
// name(a, b) = body
type FunctionDecl struct {
	Span       Span
	Name       string
	Params     []*Param
	ReturnType TypeExpr // nil when not annotated
	Body       Expression
}

func (fd *FunctionDecl) Pos() Span { return fd.Span }
