package diagnostics

import (
	"runtime"
	"strings"

	"github.com/funvibe/tycore/internal/token"
)

func NoVar(tok token.Token, causedBy, name, suggestion string) *DiagnosticError {
	e := NewError(ErrNoVar, tok, name).In(causedBy)
	e.Name = name
	e.Suggestion = suggestion
	return e
}

func NotConstExpr(tok token.Token, causedBy string) *DiagnosticError {
	return NewError(ErrNotConstExpr, tok, "").In(causedBy)
}

func Uninitialized(tok token.Token, causedBy, name string) *DiagnosticError {
	e := NewError(ErrUninitialized, tok, name).In(causedBy)
	e.Name = name
	return e
}

func TypeMismatch(tok token.Token, causedBy, name, expected, found, hint string) *DiagnosticError {
	e := NewErrorf(ErrTypeMismatch, tok, "%s: expected %s, found %s", name, expected, found).In(causedBy)
	e.Name = name
	e.Expected = expected
	e.Found = found
	e.Hint = hint
	return e
}

func NoAttr(tok token.Token, causedBy, objType, name string) *DiagnosticError {
	e := NewErrorf(ErrNoAttr, tok, "%s has no attribute %s", objType, name).In(causedBy)
	e.Name = name
	e.Found = objType
	return e
}

func TypeNotFound(tok token.Token, causedBy, typ string) *DiagnosticError {
	e := NewError(ErrTypeNotFound, tok, typ).In(causedBy)
	e.Name = typ
	return e
}

func NoTraitImpl(tok token.Token, causedBy, sub, sup, hint string) *DiagnosticError {
	e := NewErrorf(ErrNoTraitImpl, tok, "%s does not implement %s", sub, sup).In(causedBy)
	e.Sub = sub
	e.Sup = sup
	e.Hint = hint
	return e
}

func NoCandidate(tok token.Token, causedBy, proj, hint string) *DiagnosticError {
	e := NewError(ErrNoCandidate, tok, proj).In(causedBy)
	e.Name = proj
	e.Hint = hint
	return e
}

func InvalidLiteral(tok token.Token, causedBy string) *DiagnosticError {
	return NewError(ErrInvalidLiteral, tok, tok.Lexeme).In(causedBy)
}

func Feature(tok token.Token, causedBy, feature string) *DiagnosticError {
	e := NewError(ErrFeature, tok, feature).In(causedBy)
	e.Name = feature
	return e
}

func NotAType(tok token.Token, causedBy, term string) *DiagnosticError {
	e := NewError(ErrNotAType, tok, term).In(causedBy)
	e.Found = term
	return e
}

func Reassign(tok token.Token, causedBy, name string) *DiagnosticError {
	e := NewError(ErrReassign, tok, name).In(causedBy)
	e.Name = name
	return e
}

func Syntax(tok token.Token, msg string) *DiagnosticError {
	return NewError(ErrSyntax, tok, msg)
}

// Unreachable records the calling function. It marks a missing case in
// an evaluation table, not a user error.
func Unreachable() *DiagnosticError {
	fn := "unknown"
	if pc, _, _, ok := runtime.Caller(1); ok {
		if f := runtime.FuncForPC(pc); f != nil {
			fn = f.Name()
			if i := strings.LastIndex(fn, "/"); i >= 0 {
				fn = fn[i+1:]
			}
		}
	}
	e := NewErrorf(ErrUnreachable, token.Token{}, "reached in %s", fn)
	e.Func = fn
	return e
}
