package ir

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the module.
func (m *Module) Disassemble() string {
	var sb strings.Builder
	for i, fn := range m.Functions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(Disassemble(fn))
	}
	return sb.String()
}

// Disassemble returns a human-readable listing of one function.
func Disassemble(fn *Function) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s/%d ==\n", fn.Name, fn.Arity))
	for pc, in := range fn.Code {
		sb.WriteString(fmt.Sprintf("%04d ", pc))
		if pc > 0 && in.Span.Line == fn.Code[pc-1].Span.Line {
			sb.WriteString("   | ")
		} else {
			sb.WriteString(fmt.Sprintf("%4d ", in.Span.Line))
		}
		sb.WriteString(FormatInstruction(in))
		if fn.IsTailCall(pc) {
			sb.WriteString("  ; tail")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatInstruction renders one instruction with its operands.
func FormatInstruction(in Instruction) string {
	name := in.Op.String()
	switch in.Op {
	case OP_PUSH_CONST:
		return fmt.Sprintf("%-16s %s", name, in.Const.Inspect())
	case OP_LOAD_LOCAL, OP_STORE_LOCAL:
		return fmt.Sprintf("%-16s %d", name, in.Arg)
	case OP_BINARY:
		return fmt.Sprintf("%-16s %s", name, in.Bin)
	case OP_UNARY:
		return fmt.Sprintf("%-16s %s", name, in.Un)
	case OP_CALL, OP_CALL_BUILTIN:
		return fmt.Sprintf("%-16s %s/%d", name, in.Name, in.Arg)
	case OP_SELF_CALL, OP_MAKE_ARRAY, OP_FIELD_ACCESS:
		return fmt.Sprintf("%-16s %d", name, in.Arg)
	case OP_BRANCH, OP_BRANCH_IF_FALSE:
		return fmt.Sprintf("%-16s -> %04d", name, in.Arg)
	case OP_FOLD_ARRAY:
		return fmt.Sprintf("%-16s %s", name, Fold(in.Arg))
	case OP_MAP_ARRAY, OP_FILTER_ARRAY, OP_REDUCE_ARRAY:
		return fmt.Sprintf("%-16s %s captures=%d", name, in.Name, in.Captures)
	}
	return name
}
