package pipeline

import (
	"fmt"

	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/typesystem"
	"github.com/vais-lang/vais/internal/value"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries a program through checking, lowering and execution.
type PipelineContext struct {
	Program *ast.Program
	Typed   *typesystem.TypedProgram
	Module  *ir.Module

	// Entry is the function to execute, ir.MainFunction when empty.
	Entry  string
	Args   []value.Value
	Result value.Value

	// Report describes the execution when the backend produces one.
	Report fmt.Stringer

	Errors []error
}

func NewPipelineContext(program *ast.Program) *PipelineContext {
	return &PipelineContext{Program: program}
}

// Failed reports whether any stage has recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}
