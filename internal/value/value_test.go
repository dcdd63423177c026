package value

import (
	"math"
	"testing"
)

func TestEqualsNumericCoercion(t *testing.T) {
	if !IntVal(3).Equals(FloatVal(3.0)) {
		t.Error("3 should equal 3.0")
	}
	if IntVal(3).Equals(FloatVal(3.5)) {
		t.Error("3 should not equal 3.5")
	}
	if IntVal(1).Equals(BoolVal(true)) {
		t.Error("Int and Bool never compare equal")
	}
	nan := FloatVal(math.NaN())
	if !nan.Equals(nan) {
		t.Error("NaN compares equal to itself structurally")
	}
}

func TestEqualsArrays(t *testing.T) {
	a := ArrayVal([]Value{IntVal(1), StringVal("x")})
	b := ArrayVal([]Value{IntVal(1), StringVal("x")})
	c := ArrayVal([]Value{IntVal(1)})
	if !a.Equals(b) {
		t.Error("equal arrays")
	}
	if a.Equals(c) {
		t.Error("different lengths")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{IntVal(-42), "-42"},
		{FloatVal(3), "3.0"},
		{FloatVal(2.5), "2.5"},
		{FloatVal(math.Inf(1)), "+Inf"},
		{BoolVal(true), "true"},
		{VoidVal(), "()"},
		{StringVal("hi"), "hi"},
		{ArrayVal([]Value{IntVal(1), StringVal("a"), ArrayVal(nil)}), `[1, "a", []]`},
	}
	for _, tt := range tests {
		if got := tt.v.Inspect(); got != tt.want {
			t.Errorf("Inspect() = %q, want %q", got, tt.want)
		}
	}
}
