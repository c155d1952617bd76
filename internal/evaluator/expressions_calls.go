package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

func (e *Evaluator) evalArgs(args ast.Args) (ts.ValueArgs, error) {
	pos, err := e.evalElems(args.Pos)
	if err != nil {
		return ts.ValueArgs{}, err
	}
	out := ts.ValueArgs{Pos: pos}
	for _, kw := range args.Kw {
		v, err := e.EvalConstExpr(kw.Expr)
		if err != nil {
			return ts.ValueArgs{}, err
		}
		out.Kw = append(out.Kw, ts.Field{Name: kw.Keyword.Value, Value: v})
	}
	return out, nil
}

// evalConstCall runs a call whose callee is a registered constant
// subroutine, either by name or through an attribute such as `mod.f`.
func (e *Evaluator) evalConstCall(call *ast.Call) (ts.Value, error) {
	var (
		callee ts.Value
		name   string
	)
	switch fn := call.Callee.(type) {
	case *ast.Identifier:
		v, ok := e.ctx.RecGetConstObj(fn.Value)
		if !ok {
			suggestion, _ := e.ctx.GetSimilarName(fn.Value)
			return nil, e.fail(diagnostics.NoVar(fn.Token, "", fn.Value, suggestion))
		}
		callee, name = v, fn.Value
	case *ast.Attribute:
		v, err := e.evalConstAttr(fn)
		if err != nil {
			return nil, err
		}
		callee, name = v, fn.String()
	default:
		return nil, e.notConst(call.GetToken())
	}
	subr, ok := callee.(ts.SubrVal)
	if !ok {
		found := ts.ClassOf(callee).String()
		return nil, e.fail(diagnostics.TypeMismatch(call.Callee.GetToken(), "", name, ts.Subroutine.String(), found, ""))
	}
	args, err := e.evalArgs(call.Args)
	if err != nil {
		return nil, err
	}
	return e.Call(subr.Subr, args, call.GetToken())
}

// Call applies a constant subroutine to evaluated arguments. User
// subroutines run their body in an instant scope holding the arguments
// as constants.
func (e *Evaluator) Call(subr ts.ConstSubr, args ts.ValueArgs, tok token.Token) (ts.Value, error) {
	if e.evalDepth >= maxEvalDepth {
		return nil, e.notConst(tok)
	}
	switch s := subr.(type) {
	case *ts.UserSubr:
		inst := symbols.NewInstant(s.SubrName, e.ctx)
		callee := e.in(inst)
		if err := callee.bindArgs(s, args, tok); err != nil {
			return nil, err
		}
		return callee.EvalConstBlock(s.Body)
	case *ts.BuiltinSubr:
		return e.callNative(s.SubrName, s.Sig, s.Fn, args, tok)
	case *ts.GenSubr:
		return e.callNative(s.SubrName, s.Sig, s.Fn, args, tok)
	}
	return nil, e.fail(diagnostics.Unreachable())
}

// bindArgs registers positional arguments in declaration order, then the
// variadic rest as a tuple, then keyword arguments. Defaults that were
// not supplied are evaluated in the callee's scope.
func (e *Evaluator) bindArgs(s *ts.UserSubr, args ts.ValueArgs, tok token.Token) error {
	params := s.Params
	if params == nil {
		params = &ast.Params{}
	}
	bound := make(map[string]bool, params.Len())
	bind := func(name string, v ts.Value) {
		if name == "" {
			return
		}
		e.ctx.RegisterConst(name, v, symbols.Private)
		bound[name] = true
	}

	pos := args.Pos
	for _, p := range params.NonDefaults {
		if len(pos) == 0 {
			break
		}
		bind(p.Name, pos[0])
		pos = pos[1:]
	}
	for _, d := range params.Defaults {
		if len(pos) == 0 || params.VarParams != nil {
			break
		}
		bind(d.Sig.Name, pos[0])
		pos = pos[1:]
	}
	if params.VarParams != nil {
		bind(params.VarParams.Name, ts.TupleVal(append([]ts.Value{}, pos...)))
		pos = nil
	}
	if len(pos) > 0 {
		return e.fail(diagnostics.TypeMismatch(tok, "", s.SubrName, fmt.Sprintf("%d arguments", params.Len()), fmt.Sprintf("%d", len(args.Pos)), "too many positional arguments"))
	}
	for _, kw := range args.Kw {
		bind(kw.Name, kw.Value)
	}
	for _, d := range params.Defaults {
		if bound[d.Sig.Name] {
			continue
		}
		v, err := e.EvalConstExpr(d.Default)
		if err != nil {
			return err
		}
		bind(d.Sig.Name, v)
	}
	return nil
}

func (e *Evaluator) callNative(name string, sig ts.Subr, fn func(ts.ValueArgs) (ts.Value, error), args ts.ValueArgs, tok token.Token) (ts.Value, error) {
	v, err := fn(args)
	if err == nil {
		return v, nil
	}
	if errs := diagnostics.AsErrors(err); len(errs) > 0 {
		for _, d := range errs {
			if d.Token.IsUnknown() {
				d.Token = tok
			}
			if d.CausedBy == "" {
				d.CausedBy = e.ctx.CausedBy()
			}
		}
		return nil, errs
	}
	return nil, e.fail(diagnostics.TypeMismatch(tok, "", name, sig.String(), describeArgs(args), err.Error()))
}

func describeArgs(args ts.ValueArgs) string {
	parts := make([]string, 0, len(args.Pos)+len(args.Kw))
	for _, v := range args.Pos {
		parts = append(parts, ts.ClassOf(v).String())
	}
	for _, kw := range args.Kw {
		parts = append(parts, kw.Name+" := "+ts.ClassOf(kw.Value).String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
