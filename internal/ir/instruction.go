package ir

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

// Instruction is one IR operation. Which fields are meaningful depends on Op:
//
//	OP_PUSH_CONST                Const
//	OP_LOAD_LOCAL/STORE_LOCAL    Arg = slot
//	OP_CALL                      Name, Arg = arity, Func = resolved index
//	OP_CALL_BUILTIN              Name, Arg = arity
//	OP_SELF_CALL                 Arg = arity
//	OP_BINARY / OP_UNARY         Bin / Un
//	OP_BRANCH*                   Arg = target pc
//	OP_MAKE_ARRAY                Arg = element count
//	OP_FIELD_ACCESS              Arg = field index
//	OP_MAP/FILTER/REDUCE_ARRAY   Name, Func = resolved index, Captures
//	OP_FOLD_ARRAY                Arg = Fold
//
// Type is the static type of the value the instruction pushes, when the
// lowering knows it.
type Instruction struct {
	Op       Opcode
	Arg      int
	Func     int
	Captures int
	Name     string
	Const    value.Value
	Bin      BinaryOp
	Un       UnaryOp
	Type     typesystem.Type
	Span     ast.Span
}

// StackEffect returns how many values the instruction pops and pushes.
func (in Instruction) StackEffect() (pop, push int) {
	switch in.Op {
	case OP_PUSH_CONST, OP_LOAD_LOCAL:
		return 0, 1
	case OP_STORE_LOCAL, OP_POP:
		return 1, 0
	case OP_BINARY:
		return 2, 1
	case OP_UNARY, OP_FIELD_ACCESS, OP_FOLD_ARRAY:
		return 1, 1
	case OP_CALL, OP_CALL_BUILTIN, OP_SELF_CALL:
		return in.Arg, 1
	case OP_BRANCH:
		return 0, 0
	case OP_BRANCH_IF_FALSE, OP_RETURN:
		return 1, 0
	case OP_MAKE_ARRAY:
		return in.Arg, 1
	case OP_INDEX, OP_RANGE, OP_CONTAINS:
		return 2, 1
	case OP_MAP_ARRAY, OP_FILTER_ARRAY:
		return 1 + in.Captures, 1
	case OP_REDUCE_ARRAY:
		return 2 + in.Captures, 1
	}
	return 0, 0
}

// StackDelta is the net change in stack depth.
func (in Instruction) StackDelta() int {
	pop, push := in.StackEffect()
	return push - pop
}

// StackDelta sums the net stack effect of a straight-line sequence.
func StackDelta(code []Instruction) int {
	d := 0
	for _, in := range code {
		d += in.StackDelta()
	}
	return d
}
