package ast

// Constructors for building trees without a parser. Nodes are created with a
// zero Span; use At to attach a position.

func Int(v int64) *IntegerLiteral             { return &IntegerLiteral{Value: v} }
func Float(v float64) *FloatLiteral           { return &FloatLiteral{Value: v} }
func Str(v string) *StringLiteral             { return &StringLiteral{Value: v} }
func Bool(v bool) *BooleanLiteral             { return &BooleanLiteral{Value: v} }
func Void() *VoidLiteral                      { return &VoidLiteral{} }
func Ident(name string) *Identifier           { return &Identifier{Value: name} }
func Not(e Expression) Expression             { return &PrefixExpression{Operator: "!", Right: e} }
func Neg(e Expression) Expression             { return &PrefixExpression{Operator: "-", Right: e} }
func Array(elems ...Expression) *ArrayLiteral { return &ArrayLiteral{Elements: elems} }
func Tuple(elems ...Expression) *TupleLiteral { return &TupleLiteral{Elements: elems} }

func Infix(left Expression, op string, right Expression) *InfixExpression {
	return &InfixExpression{Left: left, Operator: op, Right: right}
}

func If(cond, then, els Expression) *TernaryExpression {
	return &TernaryExpression{Condition: cond, Consequence: then, Alternative: els}
}

func Call(name string, args ...Expression) *CallExpression {
	return &CallExpression{Function: Ident(name), Arguments: args}
}

func Self(args ...Expression) *SelfCallExpression {
	return &SelfCallExpression{Arguments: args}
}

func Index(left, index Expression) *IndexExpression {
	return &IndexExpression{Left: left, Index: index}
}

func Field(left Expression, i int) *FieldExpression {
	return &FieldExpression{Left: left, Field: i}
}

func Let(name string, value, body Expression) *LetExpression {
	return &LetExpression{Name: &Param{Name: name}, Value: value, Body: body}
}

func Lambda(params []string, body Expression) *FunctionLiteral {
	return &FunctionLiteral{Params: Params(params...), Body: body}
}

func Map(arr, fn Expression) *MapExpression { return &MapExpression{Array: arr, Func: fn} }

func Filter(arr, fn Expression) *FilterExpression { return &FilterExpression{Array: arr, Func: fn} }

func Reduce(arr, init, fn Expression) *ReduceExpression {
	return &ReduceExpression{Array: arr, Init: init, Func: fn}
}

func Fold(arr Expression, op string) *FoldExpression {
	return &FoldExpression{Array: arr, Operator: op}
}

func Range(start, end Expression) *RangeExpression {
	return &RangeExpression{Start: start, End: end}
}

func Contains(elem, container Expression) *ContainsExpression {
	return &ContainsExpression{Element: elem, Container: container}
}

// Params builds unannotated parameters.
func Params(names ...string) []*Param {
	ps := make([]*Param, len(names))
	for i, n := range names {
		ps[i] = &Param{Name: n}
	}
	return ps
}

// Fn builds a top-level function with unannotated parameters.
func Fn(name string, params []string, body Expression) *FunctionDecl {
	return &FunctionDecl{Name: name, Params: Params(params...), Body: body}
}

func TName(name string) *TypeName         { return &TypeName{Name: name} }
func TArray(elem TypeExpr) *ArrayType     { return &ArrayType{Elem: elem} }
func TTuple(elems ...TypeExpr) *TupleType { return &TupleType{Elements: elems} }

// At sets the position of n and returns it.
func At[T Node](n T, line, col int) T {
	s := Span{Line: line, Column: col}
	switch x := any(n).(type) {
	case *IntegerLiteral:
		x.Span = s
	case *FloatLiteral:
		x.Span = s
	case *StringLiteral:
		x.Span = s
	case *BooleanLiteral:
		x.Span = s
	case *VoidLiteral:
		x.Span = s
	case *Identifier:
		x.Span = s
	case *PrefixExpression:
		x.Span = s
	case *InfixExpression:
		x.Span = s
	case *TernaryExpression:
		x.Span = s
	case *CallExpression:
		x.Span = s
	case *SelfCallExpression:
		x.Span = s
	case *ArrayLiteral:
		x.Span = s
	case *TupleLiteral:
		x.Span = s
	case *IndexExpression:
		x.Span = s
	case *FieldExpression:
		x.Span = s
	case *LetExpression:
		x.Span = s
	case *FunctionLiteral:
		x.Span = s
	case *MapExpression:
		x.Span = s
	case *FilterExpression:
		x.Span = s
	case *ReduceExpression:
		x.Span = s
	case *FoldExpression:
		x.Span = s
	case *RangeExpression:
		x.Span = s
	case *ContainsExpression:
		x.Span = s
	case *FunctionDecl:
		x.Span = s
	case *Param:
		x.Span = s
	case *TypeName:
		x.Span = s
	case *ArrayType:
		x.Span = s
	case *TupleType:
		x.Span = s
	}
	return n
}
