package evaluator

import (
	"path/filepath"
	"strconv"

	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
	"github.com/funvibe/tycore/internal/utils"
)

// EvalConstChunk evaluates one element of a constant block. Unlike
// EvalConstExpr it accepts definitions, which yield None.
func (e *Evaluator) EvalConstChunk(expr ast.Expression) (ts.Value, error) {
	if def, ok := expr.(*ast.Def); ok {
		return e.EvalConstDef(def)
	}
	return e.EvalConstExpr(expr)
}

// EvalConstBlock evaluates every chunk in order and returns the last value.
func (e *Evaluator) EvalConstBlock(b *ast.Block) (ts.Value, error) {
	if b == nil || len(b.Exprs) == 0 {
		return nil, e.notConst(b.GetToken())
	}
	var last ts.Value
	for _, chunk := range b.Exprs {
		v, err := e.EvalConstChunk(chunk)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func defContextKind(def *ast.Def) symbols.ContextKind {
	switch def.Kind() {
	case ast.DefClass, ast.DefInherit:
		return symbols.KindClass
	case ast.DefTrait, ast.DefSubsume:
		return symbols.KindTrait
	case ast.DefStructuralTrait:
		return symbols.KindStructuralTrait
	case ast.DefImport:
		return symbols.KindModule
	}
	return symbols.KindInstant
}

// EvalConstDef evaluates `Name = body` in a child scope of the live one
// and binds the result under Name. Only constant names can be defined.
func (e *Evaluator) EvalConstDef(def *ast.Def) (ts.Value, error) {
	ident := def.Sig.Ident()
	if def.Kind() == ast.DefImport {
		return e.evalImport(def)
	}
	if !def.IsConst() {
		return nil, e.notConst(def.GetToken())
	}
	vis := symbols.Private
	if ident.Public {
		vis = symbols.Public
	}
	if sig, ok := def.Sig.(*ast.SubrSignature); ok {
		return e.evalConstSubrDef(def, sig, vis)
	}

	e.ctx.Grow(ident.Value, defContextKind(def), vis, nil)
	obj, err := e.EvalConstBlock(def.Body)
	if err != nil {
		e.ctx.Pop()
		return nil, err
	}
	if _, err := e.ctx.CheckDeclsAndPop(); err != nil {
		e.ctx.Pop()
		return nil, err
	}
	if err := e.ctx.RegisterGenConst(ident.Token, obj, vis, def.Kind() == ast.DefOther); err != nil {
		return nil, err
	}
	return ts.NoneVal{}, nil
}

// evalConstSubrDef binds `F(params) = body` as a callable constant. The
// body is checked for constness now and evaluated per call.
func (e *Evaluator) evalConstSubrDef(def *ast.Def, sig *ast.SubrSignature, vis symbols.Visibility) (ts.Value, error) {
	if bad := ast.ValidateConstBlock(def.Body); bad != nil {
		return nil, e.notConst(bad.GetToken())
	}
	ident := sig.Ident()
	t := e.signatureOf(sig.Params, ident.IsProcedural())
	if sig.ReturnSpec != nil {
		if v, err := e.EvalConstExpr(sig.ReturnSpec); err == nil {
			if rt, ok := v.(ts.TypeVal); ok {
				t.Return = rt.Obj.Typ()
			}
		}
	}
	subr := &ts.UserSubr{SubrName: ident.Value, Params: sig.Params, Body: def.Body, Sig: t}
	if err := e.ctx.RegisterGenConst(ident.Token, ts.SubrVal{Subr: subr}, vis, true); err != nil {
		return nil, err
	}
	return ts.NoneVal{}, nil
}

// evalImport binds `name = import "path"` as a module alias. Relative
// paths resolve against the directory of the enclosing module. The module
// itself is looked up lazily, so it may be registered later.
func (e *Evaluator) evalImport(def *ast.Def) (ts.Value, error) {
	call := def.Body.Last().(*ast.Call)
	if len(call.Args.Pos) != 1 || len(call.Args.Kw) != 0 {
		return nil, e.notConst(call.GetToken())
	}
	lit, ok := call.Args.Pos[0].(*ast.Literal)
	if !ok || lit.Token.Type != token.STRING {
		return nil, e.notConst(call.Args.Pos[0].GetToken())
	}
	path, ok := lit.Token.Literal.(string)
	if !ok {
		unquoted, err := strconv.Unquote(lit.Token.Lexeme)
		if err != nil {
			return nil, e.notConst(lit.Token)
		}
		path = unquoted
	}
	resolved := utils.ResolveImportPath(e.moduleDir(), path)
	e.ctx.RegisterModuleAlias(def.Sig.Ident().Value, resolved)
	e.log.Debug("module alias", "alias", def.Sig.Ident().Value, "path", resolved)
	return ts.NoneVal{}, nil
}

func (e *Evaluator) moduleDir() string {
	for ctx := e.ctx; ctx != nil; ctx = ctx.Outer() {
		if ctx.Kind() != symbols.KindModule {
			continue
		}
		if utils.IsSentinelPath(ctx.Name()) {
			return ""
		}
		return filepath.Dir(ctx.Name())
	}
	return ""
}
