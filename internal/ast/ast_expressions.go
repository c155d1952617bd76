package ast

import (
	"strings"
	"unicode"

	"github.com/funvibe/tycore/internal/token"
)

// Literal is a single literal token: numbers, strings, booleans, None,
// Ellipsis and Inf.
type Literal struct {
	Token token.Token
}

func (l *Literal) Accept(v Visitor)      { v.VisitLiteral(l) }
func (l *Literal) expressionNode()       {}
func (l *Literal) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Literal) GetToken() token.Token { return l.Token }
func (l *Literal) String() string        { return l.Token.Lexeme }

// Identifier is a plain name. Public identifiers are written `.name`.
type Identifier struct {
	Token  token.Token
	Value  string
	Public bool
}

func (i *Identifier) Accept(v Visitor)      { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string {
	if i.Public {
		return "." + i.Value
	}
	return i.Value
}

// IsConst reports whether the name is a constant name (capitalized).
func (i *Identifier) IsConst() bool {
	for _, r := range i.Value {
		return unicode.IsUpper(r)
	}
	return false
}

// IsProcedural reports whether the name ends with '!'.
func (i *Identifier) IsProcedural() bool {
	return strings.HasSuffix(i.Value, "!")
}

// NewIdent builds an identifier from a name with no source position.
func NewIdent(name string) *Identifier {
	return &Identifier{Token: token.Symbol(name), Value: name}
}

// Attribute is `obj.ident`.
type Attribute struct {
	Token token.Token // the '.' token
	Obj   Expression
	Ident *Identifier
}

func (a *Attribute) Accept(v Visitor)     { v.VisitAttribute(a) }
func (a *Attribute) expressionNode()      {}
func (a *Attribute) TokenLiteral() string { return a.Token.Lexeme }
func (a *Attribute) GetToken() token.Token {
	if a.Token.IsUnknown() {
		return a.Ident.Token
	}
	return a.Token
}
func (a *Attribute) String() string { return a.Obj.String() + "." + a.Ident.Value }

// TypeApp is an explicit type application `obj|T, U|`.
type TypeApp struct {
	Token token.Token
	Obj   Expression
	Args  []Expression
}

func (t *TypeApp) Accept(v Visitor)      { v.VisitTypeApp(t) }
func (t *TypeApp) expressionNode()       {}
func (t *TypeApp) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TypeApp) GetToken() token.Token { return t.Token }
func (t *TypeApp) String() string        { return t.Obj.String() + "|" + joinExprs(t.Args) + "|" }

// BinOp is an infix operator application. Token holds the operator.
type BinOp struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (b *BinOp) Accept(v Visitor)      { v.VisitBinOp(b) }
func (b *BinOp) expressionNode()       {}
func (b *BinOp) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BinOp) GetToken() token.Token { return b.Token }
func (b *BinOp) String() string {
	return "(" + b.Left.String() + " " + b.Token.Lexeme + " " + b.Right.String() + ")"
}

// UnaryOp is a prefix operator application. Token holds the operator.
type UnaryOp struct {
	Token   token.Token
	Operand Expression
}

func (u *UnaryOp) Accept(v Visitor)      { v.VisitUnaryOp(u) }
func (u *UnaryOp) expressionNode()       {}
func (u *UnaryOp) TokenLiteral() string  { return u.Token.Lexeme }
func (u *UnaryOp) GetToken() token.Token { return u.Token }
func (u *UnaryOp) String() string {
	op := strings.TrimSuffix(u.Token.Lexeme, "_")
	if u.Token.Type == token.NOT {
		op += " "
	}
	return "(" + op + u.Operand.String() + ")"
}

// KwArg is `name := expr` in a call.
type KwArg struct {
	Keyword *Identifier
	Expr    Expression
}

// Args are the arguments of a call.
type Args struct {
	Pos []Expression
	Kw  []KwArg
}

func (a Args) String() string {
	parts := make([]string, 0, len(a.Pos)+len(a.Kw))
	for _, p := range a.Pos {
		parts = append(parts, p.String())
	}
	for _, k := range a.Kw {
		parts = append(parts, k.Keyword.Value+" := "+k.Expr.String())
	}
	return strings.Join(parts, ", ")
}

// Call is `callee(args)`.
type Call struct {
	Token  token.Token // the '(' token
	Callee Expression
	Args   Args
}

func (c *Call) Accept(v Visitor)     { v.VisitCall(c) }
func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Lexeme }
func (c *Call) GetToken() token.Token {
	if c.Token.IsUnknown() {
		return c.Callee.GetToken()
	}
	return c.Token
}
func (c *Call) String() string { return c.Callee.String() + "(" + c.Args.String() + ")" }

// ArrayLiteral is `[a, b]`, or `[elem; len]` when Length is set.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
	Length   Expression
}

func (a *ArrayLiteral) Accept(v Visitor)      { v.VisitArrayLiteral(a) }
func (a *ArrayLiteral) expressionNode()       {}
func (a *ArrayLiteral) TokenLiteral() string  { return a.Token.Lexeme }
func (a *ArrayLiteral) GetToken() token.Token { return a.Token }
func (a *ArrayLiteral) String() string {
	if a.Length != nil {
		return "[" + joinExprs(a.Elements) + "; " + a.Length.String() + "]"
	}
	return "[" + joinExprs(a.Elements) + "]"
}

// IsWithLength reports the `[elem; len]` form.
func (a *ArrayLiteral) IsWithLength() bool { return a.Length != nil }

type SetLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (s *SetLiteral) Accept(v Visitor)      { v.VisitSetLiteral(s) }
func (s *SetLiteral) expressionNode()       {}
func (s *SetLiteral) TokenLiteral() string  { return s.Token.Lexeme }
func (s *SetLiteral) GetToken() token.Token { return s.Token }
func (s *SetLiteral) String() string        { return "{" + joinExprs(s.Elements) + "}" }

type DictEntry struct {
	Key   Expression
	Value Expression
}

type DictLiteral struct {
	Token   token.Token
	Entries []DictEntry
}

func (d *DictLiteral) Accept(v Visitor)      { v.VisitDictLiteral(d) }
func (d *DictLiteral) expressionNode()       {}
func (d *DictLiteral) TokenLiteral() string  { return d.Token.Lexeme }
func (d *DictLiteral) GetToken() token.Token { return d.Token }
func (d *DictLiteral) String() string {
	parts := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type TupleLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (t *TupleLiteral) Accept(v Visitor)      { v.VisitTupleLiteral(t) }
func (t *TupleLiteral) expressionNode()       {}
func (t *TupleLiteral) TokenLiteral() string  { return t.Token.Lexeme }
func (t *TupleLiteral) GetToken() token.Token { return t.Token }
func (t *TupleLiteral) String() string        { return "(" + joinExprs(t.Elements) + ")" }

// TypeAscription is `expr: Spec`.
type TypeAscription struct {
	Token    token.Token // the ':' token
	Expr     Expression
	TypeSpec Expression
}

func (t *TypeAscription) Accept(v Visitor)     { v.VisitTypeAscription(t) }
func (t *TypeAscription) expressionNode()      {}
func (t *TypeAscription) TokenLiteral() string { return t.Token.Lexeme }
func (t *TypeAscription) GetToken() token.Token {
	if t.Token.IsUnknown() {
		return t.Expr.GetToken()
	}
	return t.Token
}
func (t *TypeAscription) String() string { return t.Expr.String() + ": " + t.TypeSpec.String() }
