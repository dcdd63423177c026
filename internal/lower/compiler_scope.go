package lower

import (
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/typesystem"
)

// scope maps source names to local slots. Every binding gets a fresh slot, so
// an inner binding shadows without overwriting the outer one.
type scope struct {
	parent *scope
	name   string
	slot   int
}

func (s *scope) resolve(name string) (int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.slot, true
		}
	}
	return 0, false
}

// declare allocates a new slot for name and brings it into scope.
func (fc *funcCompiler) declare(name string, t typesystem.Type) int {
	slot := len(fc.locals)
	fc.locals = append(fc.locals, t)
	fc.scope = &scope{parent: fc.scope, name: name, slot: slot}
	return slot
}

func (fc *funcCompiler) emit(in ir.Instruction, span ast.Span) int {
	in.Span = span
	fc.code = append(fc.code, in)
	fc.depth += in.StackDelta()
	return len(fc.code) - 1
}

// emitJump emits a branch with an unresolved target and returns its pc.
func (fc *funcCompiler) emitJump(op ir.Opcode, span ast.Span) int {
	return fc.emit(ir.Instruction{Op: op, Arg: -1}, span)
}

// patchJump points the branch at pc to the next instruction.
func (fc *funcCompiler) patchJump(pc int) {
	fc.code[pc].Arg = len(fc.code)
}
