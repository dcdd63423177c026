package arith

import (
	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/value"
)

// Fold reduces elems with a built-in fold. zero is the kind the sum or
// product of an empty array takes. Min and max of an empty array fault;
// and/or stop at the first element that decides the result.
func Fold(f ir.Fold, elems []value.Value, zero value.Kind) (value.Value, error) {
	switch f {
	case ir.FoldSum, ir.FoldProduct:
		op, acc := ir.Add, value.IntVal(0)
		if f == ir.FoldProduct {
			op, acc = ir.Mul, value.IntVal(1)
		}
		if zero == value.KindFloat {
			acc = value.FloatVal(float64(acc.AsInt()))
		}
		for _, x := range elems {
			r, err := Binary(op, acc, x)
			if err != nil {
				return value.Value{}, err
			}
			acc = r
		}
		return acc, nil

	case ir.FoldMin, ir.FoldMax:
		if len(elems) == 0 {
			return value.Value{}, faults.New(faults.IndexOutOfBounds, "%s of an empty array", f)
		}
		better := ir.Lt
		if f == ir.FoldMax {
			better = ir.Gt
		}
		acc := elems[0]
		for _, x := range elems[1:] {
			r, err := Binary(better, x, acc)
			if err != nil {
				return value.Value{}, err
			}
			if r.AsBool() {
				acc = x
			}
		}
		return acc, nil

	case ir.FoldAll:
		for _, x := range elems {
			if !x.AsBool() {
				return value.BoolVal(false), nil
			}
		}
		return value.BoolVal(true), nil

	case ir.FoldAny:
		for _, x := range elems {
			if x.AsBool() {
				return value.BoolVal(true), nil
			}
		}
		return value.BoolVal(false), nil
	}
	return value.Value{}, &TypeError{Op: f, Left: value.KindArray, Unary: true}
}
