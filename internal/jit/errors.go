package jit

import (
	"fmt"

	"github.com/pkg/errors"
)

// Unsupported reports that a function uses something the compiler does not
// handle. It is not a failure: the function stays interpreted.
type Unsupported struct {
	Function string
	PC       int // -1 when the signature is at fault
	Reason   string
}

func (e *Unsupported) Error() string {
	if e.PC < 0 {
		return fmt.Sprintf("%s: %s", e.Function, e.Reason)
	}
	return fmt.Sprintf("%s at %04d: %s", e.Function, e.PC, e.Reason)
}

func unsupported(fn string, pc int, format string, args ...any) *Unsupported {
	return &Unsupported{Function: fn, PC: pc, Reason: fmt.Sprintf(format, args...)}
}

// ICE is an internal compiler error: a function passed the gate but could not
// be translated. No code is produced for a module that raises one.
type ICE struct {
	Function string
	PC       int
	Msg      string
}

func (e *ICE) Error() string {
	return fmt.Sprintf("jit internal compiler error in %s at %04d: %s", e.Function, e.PC, e.Msg)
}

func iceErrorf(fn string, pc int, format string, args ...any) error {
	return errors.WithStack(&ICE{Function: fn, PC: pc, Msg: fmt.Sprintf(format, args...)})
}
