package pipeline

import (
	"errors"
	"testing"

	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/token"
)

type stage struct {
	name string
	err  error
	seen *[]string
}

func (s stage) Process(ctx *PipelineContext) *PipelineContext {
	*s.seen = append(*s.seen, s.name)
	ctx.AddError(s.err)
	return ctx
}

func TestRunVisitsEveryStage(t *testing.T) {
	var seen []string
	failing := diagnostics.NotConstExpr(token.Token{}, "<module>")
	p := New(stage{"a", failing, &seen}, stage{"b", nil, &seen})
	ctx := p.Run(NewContext("", nil))
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("stages run = %v, want [a b]", seen)
	}
	if !diagnostics.HasCode(ctx.Err(), diagnostics.ErrNotConstExpr) {
		t.Errorf("Err() = %v, want %s", ctx.Err(), diagnostics.ErrNotConstExpr)
	}
}

func TestAddErrorWrapsForeignErrors(t *testing.T) {
	ctx := NewContext("", nil)
	ctx.AddError(nil)
	if ctx.Err() != nil {
		t.Fatalf("Err() = %v, want nil", ctx.Err())
	}
	ctx.AddError(errors.New("disk on fire"))
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrUnreachable {
		t.Fatalf("Errors = %v, want one unreachable", ctx.Errors)
	}
	if ctx.Errors[0].Message != "disk on fire" {
		t.Errorf("Message = %q, want the foreign error text", ctx.Errors[0].Message)
	}
}
