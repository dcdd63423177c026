// Package arith holds the numeric kernels shared by the interpreter and the
// JIT. Both backends route every operator through these functions so their
// results agree bit for bit.
package arith

import (
	"math"
	"strings"

	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/value"
)

// IntArith applies an arithmetic operator to two Ints. Results wrap on
// overflow; division and remainder by zero fault. MinInt64 / -1 wraps to
// MinInt64 and MinInt64 % -1 is 0.
func IntArith(op ir.BinaryOp, a, b int64) (int64, error) {
	switch op {
	case ir.Add:
		return a + b, nil
	case ir.Sub:
		return a - b, nil
	case ir.Mul:
		return a * b, nil
	case ir.Div:
		if b == 0 {
			return 0, faults.New(faults.DivisionByZero, "%d / 0", a)
		}
		return a / b, nil
	case ir.Mod:
		if b == 0 {
			return 0, faults.New(faults.DivisionByZero, "%d %% 0", a)
		}
		return a % b, nil
	}
	return 0, nil
}

// FloatArith applies an arithmetic operator to two Floats with IEEE-754
// semantics: division by zero yields an infinity or NaN.
func FloatArith(op ir.BinaryOp, a, b float64) float64 {
	switch op {
	case ir.Add:
		return a + b
	case ir.Sub:
		return a - b
	case ir.Mul:
		return a * b
	case ir.Div:
		return a / b
	case ir.Mod:
		return math.Mod(a, b)
	}
	return 0
}

func IntCompare(op ir.BinaryOp, a, b int64) bool {
	switch op {
	case ir.Eq:
		return a == b
	case ir.Ne:
		return a != b
	case ir.Lt:
		return a < b
	case ir.Le:
		return a <= b
	case ir.Gt:
		return a > b
	case ir.Ge:
		return a >= b
	}
	return false
}

// FloatCompare compares with IEEE semantics, so NaN is unequal to everything.
func FloatCompare(op ir.BinaryOp, a, b float64) bool {
	switch op {
	case ir.Eq:
		return a == b
	case ir.Ne:
		return a != b
	case ir.Lt:
		return a < b
	case ir.Le:
		return a <= b
	case ir.Gt:
		return a > b
	case ir.Ge:
		return a >= b
	}
	return false
}

func stringCompare(op ir.BinaryOp, a, b string) bool {
	c := strings.Compare(a, b)
	switch op {
	case ir.Eq:
		return c == 0
	case ir.Ne:
		return c != 0
	case ir.Lt:
		return c < 0
	case ir.Le:
		return c <= 0
	case ir.Gt:
		return c > 0
	case ir.Ge:
		return c >= 0
	}
	return false
}

// Binary applies op to two boxed values. If either operand is a Float the
// other is promoted to Float; an Int is never produced from a Float.
func Binary(op ir.BinaryOp, a, b value.Value) (value.Value, error) {
	if a.IsInt() && b.IsInt() {
		if op.IsArithmetic() {
			r, err := IntArith(op, a.AsInt(), b.AsInt())
			if err != nil {
				return value.Value{}, err
			}
			return value.IntVal(r), nil
		}
		return value.BoolVal(IntCompare(op, a.AsInt(), b.AsInt())), nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		x, y := a.AsNumber(), b.AsNumber()
		if op.IsArithmetic() {
			return value.FloatVal(FloatArith(op, x, y)), nil
		}
		return value.BoolVal(FloatCompare(op, x, y)), nil
	}
	if a.Kind == value.KindString && b.Kind == value.KindString {
		if op == ir.Add {
			return value.StringVal(a.AsString() + b.AsString()), nil
		}
		return value.BoolVal(stringCompare(op, a.AsString(), b.AsString())), nil
	}
	switch op {
	case ir.Eq:
		return value.BoolVal(a.Equals(b)), nil
	case ir.Ne:
		return value.BoolVal(!a.Equals(b)), nil
	}
	return value.Value{}, &TypeError{Op: op, Left: a.Kind, Right: b.Kind}
}

// Unary applies op to a boxed value. Negating MinInt64 wraps to itself.
func Unary(op ir.UnaryOp, v value.Value) (value.Value, error) {
	switch {
	case op == ir.Not && v.Kind == value.KindBool:
		return value.BoolVal(!v.AsBool()), nil
	case op == ir.Neg && v.IsInt():
		return value.IntVal(-v.AsInt()), nil
	case op == ir.Neg && v.IsFloat():
		return value.FloatVal(-v.AsFloat()), nil
	}
	return value.Value{}, &TypeError{Op: op, Left: v.Kind, Unary: true}
}
