package ir

import (
	"github.com/vais-lang/vais/internal/typesystem"
)

// MainFunction is the name given to a program's trailing entry expression.
const MainFunction = "__main__"

// Function is the IR of one function. Parameters occupy local slots
// 0..Arity-1. A Function is immutable once its module is built.
type Function struct {
	Name       string
	Arity      int
	NumLocals  int
	MaxStack   int
	Code       []Instruction
	ParamTypes []typesystem.Type
	ReturnType typesystem.Type
	LocalTypes []typesystem.Type // one per slot; params first
	Lambda     bool              // synthesized from a function literal or builtin reference
	Owner      string            // enclosing top-level function of a lambda
}

// Signature returns the function's type.
func (f *Function) Signature() typesystem.TFunc {
	return typesystem.TFunc{Params: f.ParamTypes, ReturnType: f.ReturnType}
}

// IsTailCall reports whether the instruction at pc is a self-call in tail
// position: a SelfCall immediately followed by Return.
func (f *Function) IsTailCall(pc int) bool {
	return f.Code[pc].Op == OP_SELF_CALL && pc+1 < len(f.Code) && f.Code[pc+1].Op == OP_RETURN
}
