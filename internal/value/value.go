package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of value stored in the Value struct.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindArray
)

var kindNames = [...]string{"Void", "Int", "Float", "Bool", "String", "Array"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Value is a tagged union. Scalars live in Data without allocation; strings
// and arrays are held in Obj.
type Value struct {
	Kind Kind
	Data uint64 // int64 bits, float64 bits, or bool (0/1)
	Obj  any    // string or *Array
}

// Array is an immutable sequence of values. Operations that change an array
// build a new one.
type Array struct {
	Elems []Value
}

// Constructors

func VoidVal() Value { return Value{Kind: KindVoid} }

func IntVal(v int64) Value { return Value{Kind: KindInt, Data: uint64(v)} }

func FloatVal(v float64) Value { return Value{Kind: KindFloat, Data: math.Float64bits(v)} }

func BoolVal(v bool) Value {
	var data uint64
	if v {
		data = 1
	}
	return Value{Kind: KindBool, Data: data}
}

func StringVal(s string) Value { return Value{Kind: KindString, Obj: s} }

func ArrayVal(elems []Value) Value { return Value{Kind: KindArray, Obj: &Array{Elems: elems}} }

// Accessors

func (v Value) AsInt() int64     { return int64(v.Data) }
func (v Value) AsFloat() float64 { return math.Float64frombits(v.Data) }
func (v Value) AsBool() bool     { return v.Data == 1 }

func (v Value) AsString() string {
	s, _ := v.Obj.(string)
	return s
}

func (v Value) AsArray() []Value {
	if a, ok := v.Obj.(*Array); ok && a != nil {
		return a.Elems
	}
	return nil
}

// AsNumber returns the value as float64, promoting Int.
func (v Value) AsNumber() float64 {
	if v.Kind == KindInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func (v Value) IsInt() bool     { return v.Kind == KindInt }
func (v Value) IsFloat() bool   { return v.Kind == KindFloat }
func (v Value) IsNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// Equals compares structurally. Int and Float compare by numeric value;
// floats of the same kind compare bitwise so NaN equals itself.
func (v Value) Equals(other Value) bool {
	if v.Kind != other.Kind {
		if v.IsNumeric() && other.IsNumeric() {
			return v.AsNumber() == other.AsNumber()
		}
		return false
	}
	switch v.Kind {
	case KindInt, KindBool, KindFloat:
		return v.Data == other.Data
	case KindVoid:
		return true
	case KindString:
		return v.AsString() == other.AsString()
	case KindArray:
		a, b := v.AsArray(), other.AsArray()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equals(b[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Inspect returns the printable form of the value.
func (v Value) Inspect() string {
	var sb strings.Builder
	v.write(&sb, false)
	return sb.String()
}

func (v Value) String() string { return v.Inspect() }

func (v Value) write(sb *strings.Builder, quote bool) {
	switch v.Kind {
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case KindFloat:
		sb.WriteString(FormatFloat(v.AsFloat()))
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.AsBool()))
	case KindVoid:
		sb.WriteString("()")
	case KindString:
		if quote {
			sb.WriteString(strconv.Quote(v.AsString()))
		} else {
			sb.WriteString(v.AsString())
		}
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.AsArray() {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb, true)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString("<?>")
	}
}

// FormatFloat prints floats so that integral values keep a decimal point.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
