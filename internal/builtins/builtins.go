// Package builtins holds the functions every program can call without
// defining them: their type schemes for the checker and their
// implementations for both backends.
package builtins

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vais-lang/vais/internal/config"
	"github.com/vais-lang/vais/internal/faults"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

// Impl implements a builtin over already-evaluated arguments.
type Impl func(args []value.Value, lim faults.Limits) (value.Value, error)

type Builtin struct {
	Name   string
	Scheme typesystem.Type
	Arity  int
	Impl   Impl
	// Scalar builtins take and return only Int, Float or Bool.
	Scalar bool
}

var (
	a   = typesystem.TVar{Name: "a"}
	arr = typesystem.TArray{Elem: a}
)

func fn(ret typesystem.Type, params ...typesystem.Type) typesystem.TFunc {
	return typesystem.TFunc{Params: params, ReturnType: ret}
}

func poly(t typesystem.Type) typesystem.Type {
	return typesystem.TForall{Vars: []typesystem.TVar{a}, Type: t}
}

var registry = map[string]*Builtin{
	config.LenFuncName: {
		Name:   config.LenFuncName,
		Scheme: poly(fn(typesystem.Int, arr)),
		Arity:  1,
		Impl: func(args []value.Value, _ faults.Limits) (value.Value, error) {
			return value.IntVal(int64(len(args[0].AsArray()))), nil
		},
	},
	config.PushFuncName: {
		Name:   config.PushFuncName,
		Scheme: poly(fn(arr, arr, a)),
		Arity:  2,
		Impl: func(args []value.Value, lim faults.Limits) (value.Value, error) {
			elems := args[0].AsArray()
			if err := CheckLen(len(elems)+1, lim); err != nil {
				return value.Value{}, err
			}
			out := make([]value.Value, len(elems), len(elems)+1)
			copy(out, elems)
			return value.ArrayVal(append(out, args[1])), nil
		},
	},
	config.ConcatFuncName: {
		Name:   config.ConcatFuncName,
		Scheme: poly(fn(arr, arr, arr)),
		Arity:  2,
		Impl: func(args []value.Value, lim faults.Limits) (value.Value, error) {
			x, y := args[0].AsArray(), args[1].AsArray()
			if err := CheckLen(len(x)+len(y), lim); err != nil {
				return value.Value{}, err
			}
			out := make([]value.Value, 0, len(x)+len(y))
			out = append(out, x...)
			return value.ArrayVal(append(out, y...)), nil
		},
	},
	config.RangeFuncName: {
		Name:   config.RangeFuncName,
		Scheme: fn(typesystem.TArray{Elem: typesystem.Int}, typesystem.Int, typesystem.Int),
		Arity:  2,
		Impl: func(args []value.Value, lim faults.Limits) (value.Value, error) {
			return Range(args[0].AsInt(), args[1].AsInt(), lim)
		},
	},
	config.StrFuncName: {
		Name:   config.StrFuncName,
		Scheme: poly(fn(typesystem.String, a)),
		Arity:  1,
		Impl: func(args []value.Value, _ faults.Limits) (value.Value, error) {
			return value.StringVal(args[0].Inspect()), nil
		},
	},
	config.StrlenFuncName: {
		Name:   config.StrlenFuncName,
		Scheme: fn(typesystem.Int, typesystem.String),
		Arity:  1,
		Impl: func(args []value.Value, _ faults.Limits) (value.Value, error) {
			return value.IntVal(int64(utf8.RuneCountInString(args[0].AsString()))), nil
		},
	},
	config.FloatFuncName: {
		Name:   config.FloatFuncName,
		Scheme: fn(typesystem.Float, typesystem.Int),
		Arity:  1,
		Scalar: true,
		Impl: func(args []value.Value, _ faults.Limits) (value.Value, error) {
			return value.FloatVal(float64(args[0].AsInt())), nil
		},
	},
	config.IntFuncName: {
		Name:   config.IntFuncName,
		Scheme: fn(typesystem.Int, typesystem.Float),
		Arity:  1,
		Scalar: true,
		Impl: func(args []value.Value, _ faults.Limits) (value.Value, error) {
			return value.IntVal(Truncate(args[0].AsFloat())), nil
		},
	},
	config.SqrtFuncName: {
		Name:   config.SqrtFuncName,
		Scheme: fn(typesystem.Float, typesystem.Float),
		Arity:  1,
		Scalar: true,
		Impl: func(args []value.Value, _ faults.Limits) (value.Value, error) {
			return value.FloatVal(math.Sqrt(args[0].AsFloat())), nil
		},
	},
}

// Lookup returns the builtin with the given name.
func Lookup(name string) (*Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns all builtin names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Range returns the Ints lo, lo+1, ..., hi-1; it is empty when hi <= lo.
func Range(lo, hi int64, lim faults.Limits) (value.Value, error) {
	if hi <= lo {
		return value.ArrayVal([]value.Value{}), nil
	}
	n := uint64(hi - lo)
	if lim.MaxArrayLen > 0 && n > uint64(lim.MaxArrayLen) {
		return value.Value{}, faults.New(faults.ArrayCapacityExceeded, "range of %d elements exceeds %d", n, lim.MaxArrayLen)
	}
	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.IntVal(lo + int64(i))
	}
	return value.ArrayVal(out), nil
}

// Contains reports whether container holds elem: an equal element of an
// array, or a substring of a String.
func Contains(elem, container value.Value) bool {
	if container.Kind == value.KindString {
		return strings.Contains(container.AsString(), elem.AsString())
	}
	for _, x := range container.AsArray() {
		if x.Equals(elem) {
			return true
		}
	}
	return false
}

// CheckLen fails with ArrayCapacityExceeded when n exceeds the limit.
// A non-positive limit disables the check.
func CheckLen(n int, lim faults.Limits) error {
	if lim.MaxArrayLen > 0 && n > lim.MaxArrayLen {
		return faults.New(faults.ArrayCapacityExceeded, "array of %d elements exceeds %d", n, lim.MaxArrayLen)
	}
	return nil
}

// Truncate converts toward zero. NaN becomes 0 and out-of-range values
// saturate, so the result does not depend on the platform.
func Truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
