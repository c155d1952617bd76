package evaluator

import (
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/pipeline"
	"github.com/funvibe/tycore/internal/token"
)

// EvalProcessor evaluates the parsed block in the context's module.
type EvalProcessor struct{}

func (ep *EvalProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	if ctx.Module == nil {
		ctx.AddError(diagnostics.Feature(token.Token{}, ctx.FilePath, "evaluation without a module"))
		return ctx
	}
	v, err := New(ctx.Module).EvalConstBlock(ctx.AstRoot)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Value = v
	return ctx
}
