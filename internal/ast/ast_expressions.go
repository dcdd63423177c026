package ast

type IntegerLiteral struct {
	Span  Span
	Value int64
}

func (il *IntegerLiteral) Pos() Span       { return il.Span }
func (il *IntegerLiteral) expressionNode() {}

type FloatLiteral struct {
	Span  Span
	Value float64
}

func (fl *FloatLiteral) Pos() Span       { return fl.Span }
func (fl *FloatLiteral) expressionNode() {}

type StringLiteral struct {
	Span  Span
	Value string
}

func (sl *StringLiteral) Pos() Span       { return sl.Span }
func (sl *StringLiteral) expressionNode() {}

type BooleanLiteral struct {
	Span  Span
	Value bool
}

func (bl *BooleanLiteral) Pos() Span       { return bl.Span }
func (bl *BooleanLiteral) expressionNode() {}

// VoidLiteral is the unit value `()`.
type VoidLiteral struct {
	Span Span
}

func (vl *VoidLiteral) Pos() Span       { return vl.Span }
func (vl *VoidLiteral) expressionNode() {}

type Identifier struct {
	Span  Span
	Value string
}

func (i *Identifier) Pos() Span       { return i.Span }
func (i *Identifier) expressionNode() {}

// PrefixExpression represents -x or !x.
type PrefixExpression struct {
	Span     Span
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Pos() Span       { return pe.Span }
func (pe *PrefixExpression) expressionNode() {}

// InfixExpression represents a binary operator application, e.g. a + b.
// && and || short-circuit.
type InfixExpression struct {
	Span     Span
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Pos() Span       { return ie.Span }
func (ie *InfixExpression) expressionNode() {}

// TernaryExpression represents cond ? a : b.
type TernaryExpression struct {
	Span        Span
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (te *TernaryExpression) Pos() Span       { return te.Span }
func (te *TernaryExpression) expressionNode() {}

// CallExpression calls a top-level function or a builtin by name.
type CallExpression struct {
	Span      Span
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) Pos() Span       { return ce.Span }
func (ce *CallExpression) expressionNode() {}

// SelfCallExpression is the self-recursion operator @(args): a call of the
// enclosing top-level function.
type SelfCallExpression struct {
	Span      Span
	Arguments []Expression
}

func (sc *SelfCallExpression) Pos() Span       { return sc.Span }
func (sc *SelfCallExpression) expressionNode() {}

type ArrayLiteral struct {
	Span     Span
	Elements []Expression
}

func (al *ArrayLiteral) Pos() Span       { return al.Span }
func (al *ArrayLiteral) expressionNode() {}

type TupleLiteral struct {
	Span     Span
	Elements []Expression
}

func (tl *TupleLiteral) Pos() Span       { return tl.Span }
func (tl *TupleLiteral) expressionNode() {}

// IndexExpression represents arr[i].
type IndexExpression struct {
	Span  Span
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) Pos() Span       { return ie.Span }
func (ie *IndexExpression) expressionNode() {}

// FieldExpression represents positional tuple access, e.g. pair.0
type FieldExpression struct {
	Span  Span
	Left  Expression
	Field int
}

func (fe *FieldExpression) Pos() Span       { return fe.Span }
func (fe *FieldExpression) expressionNode() {}

// LetExpression binds Name to Value inside Body.
// let x = v in body
type LetExpression struct {
	Span  Span
	Name  *Param
	Value Expression
	Body  Expression
}

func (le *LetExpression) Pos() Span       { return le.Span }
func (le *LetExpression) expressionNode() {}

// FunctionLiteral is an anonymous function. It may only appear as the
// function operand of a collection operator.
// (a, b) => body
type FunctionLiteral struct {
	Span   Span
	Params []*Param
	Body   Expression
}

func (fl *FunctionLiteral) Pos() Span       { return fl.Span }
func (fl *FunctionLiteral) expressionNode() {}

// MapExpression applies Func to every element: arr.@(f)
type MapExpression struct {
	Span  Span
	Array Expression
	Func  Expression // *FunctionLiteral or *Identifier naming a function
}

func (me *MapExpression) Pos() Span       { return me.Span }
func (me *MapExpression) expressionNode() {}

// FilterExpression keeps elements for which Func holds: arr.?(p)
type FilterExpression struct {
	Span  Span
	Array Expression
	Func  Expression
}

func (fe *FilterExpression) Pos() Span       { return fe.Span }
func (fe *FilterExpression) expressionNode() {}

// ReduceExpression folds the array from the left starting at Init: arr./(init, f)
type ReduceExpression struct {
	Span  Span
	Array Expression
	Init  Expression
	Func  Expression
}

func (re *ReduceExpression) Pos() Span       { return re.Span }
func (re *ReduceExpression) expressionNode() {}

// FoldExpression reduces the array with a built-in fold: arr./+, arr./*,
// arr./min, arr./max, arr./and, arr./or
type FoldExpression struct {
	Span     Span
	Array    Expression
	Operator string
}

func (fe *FoldExpression) Pos() Span       { return fe.Span }
func (fe *FoldExpression) expressionNode() {}

// RangeExpression is the half-open Int range start..end
type RangeExpression struct {
	Span  Span
	Start Expression
	End   Expression
}

func (re *RangeExpression) Pos() Span       { return re.Span }
func (re *RangeExpression) expressionNode() {}

// ContainsExpression tests membership: elem @ container. The container is
// an array or, for substring tests, a String.
type ContainsExpression struct {
	Span      Span
	Element   Expression
	Container Expression
}

func (ce *ContainsExpression) Pos() Span       { return ce.Span }
func (ce *ContainsExpression) expressionNode() {}
