package backend

import (
	"github.com/vais-lang/vais/internal/pipeline"
	"github.com/vais-lang/vais/internal/value"
)

// ExecutionProcessor implements pipeline.Processor to run an Executable
type ExecutionProcessor struct {
	Backend Executable
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Executable) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.Module == nil || ctx.Failed() {
		return ctx
	}

	if r, ok := p.Backend.(Runner); ok {
		result, report, err := r.Run(ctx.Module, ctx.Entry, ctx.Args)
		if report != nil {
			ctx.Report = report
		}
		return p.finish(ctx, result, err)
	}
	result, err := p.Backend.Execute(ctx.Module, ctx.Entry, ctx.Args)
	return p.finish(ctx, result, err)
}

func (p *ExecutionProcessor) finish(ctx *pipeline.PipelineContext, result value.Value, err error) *pipeline.PipelineContext {
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Result = result
	return ctx
}
