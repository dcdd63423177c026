package analyzer

import "github.com/vais-lang/vais/internal/pipeline"

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.Failed() {
		return ctx
	}
	typed, errs := Check(ctx.Program)
	for _, e := range errs {
		ctx.Errors = append(ctx.Errors, e)
	}
	ctx.Typed = typed
	return ctx
}
