// Package faults defines the runtime faults shared by the interpreter and the
// JIT, and the call-depth guard both of them charge against.
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a runtime fault.
type Kind int

const (
	StackOverflow Kind = iota + 1
	DivisionByZero
	IndexOutOfBounds
	ArrayCapacityExceeded
)

func (k Kind) String() string {
	switch k {
	case StackOverflow:
		return "stack overflow"
	case DivisionByZero:
		return "division by zero"
	case IndexOutOfBounds:
		return "index out of bounds"
	case ArrayCapacityExceeded:
		return "array capacity exceeded"
	}
	return "unknown fault"
}

// Fault is a runtime error raised while executing IR. Faults are fatal to the
// execution that raised them.
type Fault struct {
	Kind     Kind
	Function string
	Detail   string
}

func (f *Fault) Error() string {
	msg := "runtime error: " + f.Kind.String()
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	if f.Function != "" {
		msg += " (in " + f.Function + ")"
	}
	return msg
}

// Is matches faults by kind, so errors.Is(err, &Fault{Kind: DivisionByZero}) works.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)
	return ok && t.Kind == f.Kind && (t.Function == "" || t.Function == f.Function)
}

func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// In attaches the faulting function name if not already set.
func (f *Fault) In(fn string) *Fault {
	if f.Function == "" {
		f.Function = fn
	}
	return f
}

// KindOf returns the fault kind of err, or 0 when err is not a fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

var (
	ErrDivisionByZero = &Fault{Kind: DivisionByZero}
	ErrStackOverflow  = &Fault{Kind: StackOverflow}
)
