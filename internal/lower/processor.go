package lower

import "github.com/vais-lang/vais/internal/pipeline"

type LoweringProcessor struct{}

func (lp *LoweringProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Typed == nil || ctx.Failed() {
		return ctx
	}
	m, err := Lower(ctx.Typed)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Module = m
	return ctx
}
