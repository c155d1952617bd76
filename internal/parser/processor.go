package parser

import (
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	block, err := ParseProgram(ctx.Source)
	if err != nil {
		for _, d := range diagnostics.AsErrors(err) {
			if d.CausedBy == "" {
				d.CausedBy = ctx.FilePath
			}
		}
		ctx.AddError(err)
		return ctx
	}
	ctx.AstRoot = block
	return ctx
}
