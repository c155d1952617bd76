package evaluator

import (
	"strconv"
	"strings"

	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// EvalLit turns a literal token into a value. Typed token payloads win
// over re-parsing the lexeme.
func (e *Evaluator) EvalLit(lit *ast.Literal) (ts.Value, error) {
	tok := lit.Token
	invalid := func() (ts.Value, error) {
		return nil, e.fail(diagnostics.InvalidLiteral(tok, ""))
	}
	switch tok.Type {
	case token.NAT, token.BIN, token.OCT, token.HEX:
		if n, ok := tok.Literal.(uint64); ok {
			return ts.NatVal(n), nil
		}
		n, err := strconv.ParseUint(tok.Lexeme, 0, 64)
		if err != nil {
			return invalid()
		}
		return ts.NatVal(n), nil
	case token.INT:
		if n, ok := tok.Literal.(int64); ok {
			return ts.IntVal(n), nil
		}
		n, err := strconv.ParseInt(tok.Lexeme, 0, 64)
		if err != nil {
			return invalid()
		}
		return ts.IntVal(n), nil
	case token.RATIO:
		if f, ok := tok.Literal.(float64); ok {
			return ts.FloatVal(f), nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Lexeme, "_", ""), 64)
		if err != nil {
			return invalid()
		}
		return ts.FloatVal(f), nil
	case token.STRING, token.DOC_COMMENT:
		if s, ok := tok.Literal.(string); ok {
			return ts.StrVal(s), nil
		}
		s, err := strconv.Unquote(tok.Lexeme)
		if err != nil {
			return invalid()
		}
		return ts.StrVal(s), nil
	case token.BOOL:
		if b, ok := tok.Literal.(bool); ok {
			return ts.BoolVal(b), nil
		}
		switch tok.Lexeme {
		case "True":
			return ts.BoolVal(true), nil
		case "False":
			return ts.BoolVal(false), nil
		}
		return invalid()
	case token.NONE:
		return ts.NoneVal{}, nil
	case token.ELLIPSIS:
		return ts.EllipsisVal{}, nil
	case token.INF:
		return ts.InfVal{}, nil
	}
	return invalid()
}

func (e *Evaluator) evalElems(exprs []ast.Expression) ([]ts.Value, error) {
	out := make([]ts.Value, 0, len(exprs))
	for _, x := range exprs {
		v, err := e.EvalConstExpr(x)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalConstArray(arr *ast.ArrayLiteral) (ts.Value, error) {
	if arr.IsWithLength() {
		return nil, e.notConst(arr.GetToken())
	}
	elems, err := e.evalElems(arr.Elements)
	if err != nil {
		return nil, err
	}
	return ts.ArrayVal(elems), nil
}

func (e *Evaluator) evalConstSet(set *ast.SetLiteral) (ts.Value, error) {
	elems, err := e.evalElems(set.Elements)
	if err != nil {
		return nil, err
	}
	return ts.NewSet(elems...), nil
}

func (e *Evaluator) evalConstTuple(tup *ast.TupleLiteral) (ts.Value, error) {
	elems, err := e.evalElems(tup.Elements)
	if err != nil {
		return nil, err
	}
	return ts.TupleVal(elems), nil
}

func (e *Evaluator) evalConstDict(dict *ast.DictLiteral) (ts.Value, error) {
	out := ts.DictVal{}
	for _, entry := range dict.Entries {
		k, err := e.EvalConstExpr(entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := e.EvalConstExpr(entry.Value)
		if err != nil {
			return nil, err
		}
		out = out.Insert(k, v)
	}
	return out, nil
}

// Each attribute body runs in its own instant scope so earlier attributes
// are not visible to later ones.
func (e *Evaluator) evalConstRecord(rec *ast.NormalRecord) (ts.Value, error) {
	out := make(ts.RecordVal, 0, len(rec.Attrs))
	for _, attr := range rec.Attrs {
		inst := symbols.NewInstant(config.UnnamedRecordName, e.ctx)
		v, err := e.in(inst).EvalConstBlock(attr.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, ts.Field{Name: attr.Sig.Ident().Value, Value: v})
	}
	return out, nil
}

// A constant lambda closes over nothing but constants. When the body does
// not depend on the parameters it is evaluated once and the return type is
// its singleton; otherwise the return type is Obj.
func (e *Evaluator) evalConstLambda(lam *ast.Lambda) (ts.Value, error) {
	if bad := ast.ValidateConstBlock(lam.Body); bad != nil {
		return nil, e.notConst(bad.GetToken())
	}
	sig := e.signatureOf(lam.Params, lam.IsProcedural())
	body, err := e.in(symbols.NewInstant(config.LambdaName, e.ctx)).EvalConstBlock(lam.Body)
	switch {
	case err == nil:
		sig.Return = ts.VEnum(body)
	case lam.Params.Len() > 0:
		e.log.Debug("lambda body depends on its parameters", "lambda", lam.String())
	default:
		return nil, err
	}
	return ts.SubrVal{Subr: &ts.UserSubr{SubrName: config.LambdaName, Params: lam.Params, Body: lam.Body, Sig: sig}}, nil
}

// signatureOf types each parameter from its type annotation. Defaults are not
// evaluated here; calls fill them in.
func (e *Evaluator) signatureOf(params *ast.Params, procedural bool) ts.Subr {
	sig := ts.Subr{Kind: ts.FuncKind, Return: ts.Obj}
	if procedural {
		sig.Kind = ts.ProcKind
	}
	if params == nil {
		return sig
	}
	for _, p := range params.NonDefaults {
		sig.NonDefaultParams = append(sig.NonDefaultParams, ts.ParamTy{Name: p.Name, Ty: e.paramType(p)})
	}
	if vp := params.VarParams; vp != nil {
		sig.VarParams = &ts.ParamTy{Name: vp.Name, Ty: e.paramType(vp)}
	}
	for _, d := range params.Defaults {
		sig.DefaultParams = append(sig.DefaultParams, ts.ParamTy{Name: d.Sig.Name, Ty: e.paramType(d.Sig)})
	}
	return sig
}

// paramType uses a parameter's annotation when it names a constant type and Obj
// otherwise.
func (e *Evaluator) paramType(p *ast.ParamSignature) ts.Type {
	if p.TypeSpec == nil {
		return ts.Obj
	}
	v, err := e.EvalConstExpr(p.TypeSpec)
	if err != nil {
		e.log.Debug("untyped parameter", "param", p.Name, "err", err)
		return ts.Obj
	}
	if tv, ok := v.(ts.TypeVal); ok {
		return tv.Obj.Typ()
	}
	return ts.Obj
}
