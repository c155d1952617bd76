package evaluator

import (
	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

func (e *Evaluator) evalConstIdent(ident *ast.Identifier) (ts.Value, error) {
	if v, ok := e.ctx.RecGetConstObj(ident.Value); ok {
		return v, nil
	}
	if e.ctx.Kind().IsSubr() {
		return nil, e.feature(ident.Token, "const parameters")
	}
	if ident.IsConst() {
		suggestion, _ := e.ctx.GetSimilarName(ident.Value)
		return nil, e.fail(diagnostics.NoVar(ident.Token, "", ident.Value, suggestion))
	}
	return nil, e.notConst(ident.Token)
}

// evalConstAttr evaluates `obj.name`. When obj itself is not a constant
// but names an imported module, the attribute is looked up there.
func (e *Evaluator) evalConstAttr(attr *ast.Attribute) (ts.Value, error) {
	obj, err := e.EvalConstExpr(attr.Obj)
	if err == nil {
		return e.evalAttr(obj, attr)
	}
	if mod, ok := e.modCtxOf(attr.Obj); ok {
		return e.in(mod).evalConstIdent(attr.Ident)
	}
	return nil, err
}

func (e *Evaluator) modCtxOf(expr ast.Expression) (*symbols.Context, bool) {
	switch x := expr.(type) {
	case *ast.Identifier:
		return e.ctx.GetModCtx(x.Value)
	case *ast.Attribute:
		outer, ok := e.modCtxOf(x.Obj)
		if !ok {
			return nil, false
		}
		return outer.GetModCtx(x.Ident.Value)
	}
	return nil, false
}

// evalAttr reads a field off a value. Type objects also expose the
// constants of their nominal contexts and method groups.
func (e *Evaluator) evalAttr(obj ts.Value, attr *ast.Attribute) (ts.Value, error) {
	name := attr.Ident.Value
	if v, ok := ts.TryGetAttr(obj, name); ok {
		return v, nil
	}
	if tv, ok := obj.(ts.TypeVal); ok {
		if ctxs, ok := e.ctx.GetNominalSuperTypeCtxs(tv.Obj.Typ()); ok {
			for _, ctx := range ctxs {
				if v, ok := ctx.GetConstLocal(name); ok {
					return v, nil
				}
				for _, methods := range ctx.MethodsList() {
					if v, ok := methods.Ctx.GetConstLocal(name); ok {
						return v, nil
					}
				}
			}
		}
	}
	return nil, e.fail(diagnostics.NoAttr(attr.Ident.Token, "", ts.ClassOf(obj).String(), name))
}
