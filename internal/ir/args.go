package ir

import (
	"fmt"

	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

// ArgumentError reports an entry argument whose kind does not fit the
// parameter it is passed to.
type ArgumentError struct {
	Function string
	Index    int
	Want     typesystem.Type
	Got      value.Kind
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument %d is %s, want %s", e.Function, e.Index, e.Got, e.Want)
}

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Function string
	Want     int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d arguments, got %d", e.Function, e.Want, e.Got)
}

// PrepareArgs checks args against the parameters of f and returns them ready
// to run: an Int passed for a Float parameter is converted, any other
// mismatch is an *ArgumentError. Parameters of polymorphic or Void type
// accept any value. args is not modified.
func (f *Function) PrepareArgs(args []value.Value) ([]value.Value, error) {
	if len(args) != f.Arity {
		return nil, &ArityError{Function: f.Name, Want: f.Arity, Got: len(args)}
	}
	out, copied := args, false
	for i, a := range args {
		if i >= len(f.ParamTypes) {
			break
		}
		want, ok := KindOf(f.ParamTypes[i])
		if !ok || a.Kind == want {
			continue
		}
		if want == value.KindFloat && a.Kind == value.KindInt {
			if !copied {
				out, copied = append([]value.Value(nil), args...), true
			}
			out[i] = value.FloatVal(float64(a.AsInt()))
			continue
		}
		return nil, &ArgumentError{Function: f.Name, Index: i, Want: f.ParamTypes[i], Got: a.Kind}
	}
	return out, nil
}

// KindOf returns the runtime kind of values of type t. It reports false for
// type variables and Void, whose values are not constrained to one kind.
func KindOf(t typesystem.Type) (value.Kind, bool) {
	switch tt := t.(type) {
	case typesystem.TCon:
		switch tt.Name {
		case typesystem.Int.Name:
			return value.KindInt, true
		case typesystem.Float.Name:
			return value.KindFloat, true
		case typesystem.Bool.Name:
			return value.KindBool, true
		case typesystem.String.Name:
			return value.KindString, true
		}
	case typesystem.TArray, typesystem.TTuple:
		return value.KindArray, true
	}
	return value.KindVoid, false
}
