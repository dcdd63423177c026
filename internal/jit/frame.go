package jit

import (
	"math"

	"github.com/vais-lang/vais/internal/value"
)

// frame is the activation record of one compiled call. Every local, spill
// temporary and argument buffer is one untyped 64-bit slot; the compiler
// knows each slot's kind statically.
type frame struct {
	slots []uint64
	rt    *Runtime

	// tail is set by a self-call in tail position after it has rewritten the
	// parameter slots; the function's loop then re-enters the body.
	tail bool

	// err holds the first fault. Code after a fault keeps evaluating pure
	// operators but performs no calls and no further iterations.
	err error
}

// code evaluates to a slot-encoded scalar.
type code func(f *frame) uint64

// stmt runs for its effect on the frame.
type stmt func(f *frame)

func box(bits uint64, k value.Kind) value.Value {
	return value.Value{Kind: k, Data: bits}
}

func toFloat(bits uint64, k value.Kind) float64 {
	if k == value.KindInt {
		return float64(int64(bits))
	}
	return math.Float64frombits(bits)
}

func fromBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// fail records err unless an earlier fault is already pending.
func (f *frame) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}
