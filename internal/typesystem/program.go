package typesystem

import "github.com/vais-lang/vais/internal/ast"

// TypedProgram is a program whose every expression has a resolved type.
// Types inside a polymorphic function mention only the variables quantified
// by that function's scheme.
type TypedProgram struct {
	Program *ast.Program
	// Types holds the type of every expression, binding and parameter.
	Types map[ast.Node]Type
	// Schemes holds the generalized type of every top-level function.
	Schemes map[string]Type
	// Signatures holds each function's type with scheme variables left free.
	Signatures map[string]TFunc
	// MainType is the type of the program's entry expression, if any.
	MainType Type
}

// TypeOf returns the recorded type of n.
func (tp *TypedProgram) TypeOf(n ast.Node) (Type, bool) {
	t, ok := tp.Types[n]
	return t, ok
}
