package evaluator

import (
	"log/slog"

	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// Evaluator reduces constant expressions and type-level terms against a
// scope. It holds the scope by pointer: definitions grow and pop that
// scope in place.
type Evaluator struct {
	ctx *symbols.Context
	log *slog.Logger

	// evalDepth tracks the nesting of expression evaluation and const calls
	evalDepth int
}

func New(ctx *symbols.Context) *Evaluator {
	return &Evaluator{ctx: ctx, log: ctx.Logger()}
}

// Ctx is the live scope.
func (e *Evaluator) Ctx() *symbols.Context { return e.ctx }

// in returns an evaluator over another scope that shares the depth budget.
func (e *Evaluator) in(ctx *symbols.Context) *Evaluator {
	return &Evaluator{ctx: ctx, log: e.log, evalDepth: e.evalDepth}
}

// maxEvalDepth is the maximum nesting depth of constant evaluation.
// Recursive constant subroutines hit it instead of the Go stack.
const maxEvalDepth = 10000

// EvalConstExpr evaluates one expression to a value. Definitions are
// only accepted by EvalConstChunk.
func (e *Evaluator) EvalConstExpr(expr ast.Expression) (ts.Value, error) {
	e.evalDepth++
	if e.evalDepth > maxEvalDepth {
		e.evalDepth--
		return nil, e.notConst(expr.GetToken())
	}
	defer func() { e.evalDepth-- }()
	return e.evalCore(expr)
}

func (e *Evaluator) evalCore(expr ast.Expression) (ts.Value, error) {
	switch node := expr.(type) {
	case *ast.Literal:
		return e.EvalLit(node)
	case *ast.Identifier:
		return e.evalConstIdent(node)
	case *ast.Attribute:
		return e.evalConstAttr(node)
	case *ast.BinOp:
		return e.evalConstBin(node)
	case *ast.UnaryOp:
		return e.evalConstUnary(node)
	case *ast.Call:
		return e.evalConstCall(node)
	case *ast.ArrayLiteral:
		return e.evalConstArray(node)
	case *ast.SetLiteral:
		return e.evalConstSet(node)
	case *ast.DictLiteral:
		return e.evalConstDict(node)
	case *ast.TupleLiteral:
		return e.evalConstTuple(node)
	case *ast.NormalRecord:
		return e.evalConstRecord(node)
	case *ast.MixedRecord:
		return e.evalConstRecord(node.Desugar())
	case *ast.Lambda:
		return e.evalConstLambda(node)
	case *ast.TypeAscription:
		return e.EvalConstExpr(node.Expr)
	case nil:
		return nil, e.notConst(token.Token{})
	default:
		return nil, e.notConst(expr.GetToken())
	}
}

func (e *Evaluator) notConst(tok token.Token) error {
	return diagnostics.From(diagnostics.NotConstExpr(tok, e.ctx.CausedBy()))
}

func (e *Evaluator) feature(tok token.Token, what string) error {
	return diagnostics.From(diagnostics.Feature(tok, e.ctx.CausedBy(), what))
}

// fail attaches the scope path to d. Call sites pass
// diagnostics.Unreachable() directly so the error names them.
func (e *Evaluator) fail(d *diagnostics.DiagnosticError) error {
	return diagnostics.From(d.In(e.ctx.CausedBy()))
}
