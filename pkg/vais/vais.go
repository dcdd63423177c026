// Package vais is the embedding API: type check, lower and execute programs
// on the interpreter or the JIT.
//
// Programs arrive as ASTs built with the ast package. The functions here use
// a default Engine with the built-in configuration; use NewEngine or
// LoadEngine to configure limits, logging and the execution mode.
package vais

import (
	"github.com/vais-lang/vais/internal/analyzer"
	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/backend"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/lower"
	"github.com/vais-lang/vais/internal/prettyprinter"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

type (
	Program      = ast.Program
	TypedProgram = typesystem.TypedProgram
	TypeError    = analyzer.TypeError
	Module       = ir.Module
	Value        = value.Value
	Mode         = backend.Mode
	Report       = backend.Report
)

const (
	Interpret = backend.Interpret
	Jit       = backend.Jit
)

// MainFunction names the entry compiled from a program's trailing expression.
const MainFunction = ir.MainFunction

var defaultEngine = NewEngine()

// TypeCheck infers and checks the types of p. Errors are sorted by position.
func TypeCheck(p *Program) (*TypedProgram, []*TypeError) {
	return analyzer.Check(p)
}

// Lower translates a checked program to IR.
func Lower(typed *TypedProgram) (*Module, error) {
	return lower.Lower(typed)
}

// Execute runs entry of m with args.
func Execute(m *Module, entry string, args []Value, mode Mode) (Value, error) {
	return defaultEngine.Execute(m, entry, args, mode)
}

// Run checks, lowers and executes p.
func Run(p *Program, entry string, args []Value, mode Mode) (Value, error) {
	v, _, err := defaultEngine.Run(p, entry, args, mode)
	return v, err
}

// Format renders p back to source form.
func Format(p *Program) string {
	return prettyprinter.Print(p)
}
