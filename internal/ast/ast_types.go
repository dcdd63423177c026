package ast

import "strings"

// TypeExpr is a type annotation as written in source.
type TypeExpr interface {
	Node
	String() string
	typeNode()
}

// TypeName is a named type: Int, Float, Bool, String, Void, or a type variable
// such as a or T.
type TypeName struct {
	Span Span
	Name string
}

func (tn *TypeName) Pos() Span      { return tn.Span }
func (tn *TypeName) String() string { return tn.Name }
func (tn *TypeName) typeNode()      {}

// ArrayType is [Elem].
type ArrayType struct {
	Span Span
	Elem TypeExpr
}

func (at *ArrayType) Pos() Span      { return at.Span }
func (at *ArrayType) String() string { return "[" + at.Elem.String() + "]" }
func (at *ArrayType) typeNode()      {}

// TupleType is (A, B, ...).
type TupleType struct {
	Span     Span
	Elements []TypeExpr
}

func (tt *TupleType) Pos() Span { return tt.Span }
func (tt *TupleType) String() string {
	parts := make([]string, len(tt.Elements))
	for i, e := range tt.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (tt *TupleType) typeNode() {}
