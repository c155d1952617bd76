package ast

import (
	"strings"

	"github.com/funvibe/tycore/internal/token"
)

// ParamSignature is a single parameter: `name: Spec`. Name is empty for `_`.
type ParamSignature struct {
	Token    token.Token
	Name     string
	TypeSpec Expression
}

func (p *ParamSignature) String() string {
	name := p.Name
	if name == "" {
		name = "_"
	}
	if p.TypeSpec != nil {
		return name + ": " + p.TypeSpec.String()
	}
	return name
}

// DefaultParam is `name: Spec := default`.
type DefaultParam struct {
	Sig     *ParamSignature
	Default Expression
}

// Params holds a subroutine's parameter list in declaration order.
type Params struct {
	NonDefaults []*ParamSignature
	VarParams   *ParamSignature
	Defaults    []*DefaultParam
}

func (p *Params) String() string {
	if p == nil {
		return "()"
	}
	parts := make([]string, 0, len(p.NonDefaults)+len(p.Defaults)+1)
	for _, nd := range p.NonDefaults {
		parts = append(parts, nd.String())
	}
	if p.VarParams != nil {
		parts = append(parts, "*"+p.VarParams.String())
	}
	for _, d := range p.Defaults {
		parts = append(parts, d.Sig.String()+" := "+d.Default.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Len is the number of named parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	n := len(p.NonDefaults) + len(p.Defaults)
	if p.VarParams != nil {
		n++
	}
	return n
}

// Signature is the left-hand side of a definition.
type Signature interface {
	Ident() *Identifier
	String() string
	isSignature()
}

// VarSignature is `name: Spec = ...`.
type VarSignature struct {
	Name     *Identifier
	TypeSpec Expression
}

// SubrSignature is `name(params): Ret = ...`.
type SubrSignature struct {
	Name       *Identifier
	Params     *Params
	ReturnSpec Expression
}

func (s *VarSignature) Ident() *Identifier  { return s.Name }
func (*VarSignature) isSignature()          {}
func (s *SubrSignature) Ident() *Identifier { return s.Name }
func (*SubrSignature) isSignature()         {}

func (s *VarSignature) String() string {
	if s.TypeSpec != nil {
		return s.Name.String() + ": " + s.TypeSpec.String()
	}
	return s.Name.String()
}

func (s *SubrSignature) String() string {
	out := s.Name.String() + s.Params.String()
	if s.ReturnSpec != nil {
		out += ": " + s.ReturnSpec.String()
	}
	return out
}

// DefKind classifies a definition by the shape of its body.
type DefKind int

const (
	DefOther DefKind = iota
	DefClass
	DefInherit
	DefTrait
	DefSubsume
	DefStructuralTrait
	DefPatch
	DefImport
)

var defKindCallees = map[string]DefKind{
	"Class":      DefClass,
	"Inherit":    DefInherit,
	"Trait":      DefTrait,
	"Subsume":    DefSubsume,
	"Structural": DefStructuralTrait,
	"Patch":      DefPatch,
	"import":     DefImport,
}

// Def is `sig = body`.
type Def struct {
	Token token.Token // the '=' token
	Sig   Signature
	Body  *Block
}

func (d *Def) Accept(v Visitor)     { v.VisitDef(d) }
func (d *Def) expressionNode()      {}
func (d *Def) TokenLiteral() string { return d.Token.Lexeme }
func (d *Def) GetToken() token.Token {
	if d.Token.IsUnknown() {
		return d.Sig.Ident().Token
	}
	return d.Token
}
func (d *Def) String() string { return d.Sig.String() + " = " + d.Body.String() }

// IsConst reports whether the defined name is a constant name.
func (d *Def) IsConst() bool { return d.Sig.Ident().IsConst() }

// IsSubr reports whether the signature declares parameters.
func (d *Def) IsSubr() bool {
	_, ok := d.Sig.(*SubrSignature)
	return ok
}

// Kind looks at the call the body ends with: `C = Class {...}` defines a
// class, `T = Trait {...}` a trait, and so on.
func (d *Def) Kind() DefKind {
	call, ok := d.Body.Last().(*Call)
	if !ok {
		return DefOther
	}
	id, ok := call.Callee.(*Identifier)
	if !ok {
		return DefOther
	}
	if k, ok := defKindCallees[id.Value]; ok {
		return k
	}
	return DefOther
}

// Lambda is `(params) -> body` or `(params) => body` for procedures.
type Lambda struct {
	Token  token.Token // the arrow
	Params *Params
	Body   *Block
}

func (l *Lambda) Accept(v Visitor)      { v.VisitLambda(l) }
func (l *Lambda) expressionNode()       {}
func (l *Lambda) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Lambda) GetToken() token.Token { return l.Token }
func (l *Lambda) String() string {
	return l.Params.String() + " " + l.Token.Lexeme + " " + l.Body.String()
}

func (l *Lambda) IsProcedural() bool { return l.Token.Type == token.FAT_PROC }

// NormalRecord is `{x = 1; y = 2}`.
type NormalRecord struct {
	Token token.Token
	Attrs []*Def
}

func (r *NormalRecord) Accept(v Visitor)      { v.VisitNormalRecord(r) }
func (r *NormalRecord) expressionNode()       {}
func (r *NormalRecord) TokenLiteral() string  { return r.Token.Lexeme }
func (r *NormalRecord) GetToken() token.Token { return r.Token }
func (r *NormalRecord) String() string {
	parts := make([]string, len(r.Attrs))
	for i, a := range r.Attrs {
		parts[i] = a.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// RecordAttr is either a full definition or the shorthand `x`, which means
// `x = x`.
type RecordAttr struct {
	Def   *Def
	Ident *Identifier
}

// MixedRecord is a record that uses the shorthand form for some fields.
type MixedRecord struct {
	Token token.Token
	Attrs []RecordAttr
}

func (r *MixedRecord) Accept(v Visitor)      { v.VisitMixedRecord(r) }
func (r *MixedRecord) expressionNode()       {}
func (r *MixedRecord) TokenLiteral() string  { return r.Token.Lexeme }
func (r *MixedRecord) GetToken() token.Token { return r.Token }
func (r *MixedRecord) String() string {
	parts := make([]string, len(r.Attrs))
	for i, a := range r.Attrs {
		if a.Def != nil {
			parts[i] = a.Def.String()
		} else {
			parts[i] = a.Ident.String()
		}
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// Desugar rewrites every shorthand field into a definition.
func (r *MixedRecord) Desugar() *NormalRecord {
	out := &NormalRecord{Token: r.Token, Attrs: make([]*Def, 0, len(r.Attrs))}
	for _, a := range r.Attrs {
		if a.Def != nil {
			out.Attrs = append(out.Attrs, a.Def)
			continue
		}
		lhs := *a.Ident
		rhs := &Identifier{Token: a.Ident.Token, Value: a.Ident.Value}
		out.Attrs = append(out.Attrs, &Def{
			Token: a.Ident.Token,
			Sig:   &VarSignature{Name: &lhs},
			Body:  NewBlock(rhs),
		})
	}
	return out
}
