package pipeline

import (
	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// PipelineContext carries one source text through the stages. Each stage
// reads what the previous one left and appends its own diagnostics.
type PipelineContext struct {
	FilePath string
	Source   string
	Module   *symbols.Context

	AstRoot *ast.Block
	Value   ts.Value
	Errors  []*diagnostics.DiagnosticError
}

func NewContext(source string, module *symbols.Context) *PipelineContext {
	return &PipelineContext{Source: source, Module: module}
}

// AddError records err. Errors that are not diagnostics are wrapped as
// unreachable, since every stage reports through diagnostics.
func (c *PipelineContext) AddError(err error) {
	if err == nil {
		return
	}
	list := diagnostics.AsErrors(err)
	if len(list) == 0 {
		u := diagnostics.Unreachable()
		u.Message = err.Error()
		list = diagnostics.Errors{u}
	}
	c.Errors = append(c.Errors, list...)
}

// Err returns the collected diagnostics, or nil.
func (c *PipelineContext) Err() error {
	return diagnostics.From(c.Errors...)
}

type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Every stage runs; stages skip themselves when
// their input is missing.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
