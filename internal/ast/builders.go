package ast

import (
	"strconv"

	"github.com/funvibe/tycore/internal/token"
)

// Helpers for building trees without a parser, used by tools and tests.

func NatLit(n uint64) *Literal {
	lex := strconv.FormatUint(n, 10)
	return &Literal{Token: token.Token{Type: token.NAT, Lexeme: lex, Literal: n}}
}

func IntLit(n int64) *Literal {
	lex := strconv.FormatInt(n, 10)
	return &Literal{Token: token.Token{Type: token.INT, Lexeme: lex, Literal: n}}
}

func StrLit(s string) *Literal {
	return &Literal{Token: token.Token{Type: token.STRING, Lexeme: strconv.Quote(s), Literal: s}}
}

func BoolLit(b bool) *Literal {
	lex := "False"
	if b {
		lex = "True"
	}
	return &Literal{Token: token.Token{Type: token.BOOL, Lexeme: lex, Literal: b}}
}

// Op builds an operator token with the lexeme equal to its type.
func Op(t token.TokenType) token.Token {
	return token.Token{Type: t, Lexeme: string(t)}
}

func Bin(op token.TokenType, l, r Expression) *BinOp {
	return &BinOp{Token: Op(op), Left: l, Right: r}
}

func Unary(op token.TokenType, e Expression) *UnaryOp {
	return &UnaryOp{Token: Op(op), Operand: e}
}

func CallOf(callee Expression, pos ...Expression) *Call {
	return &Call{Callee: callee, Args: Args{Pos: pos}}
}

func Array(elems ...Expression) *ArrayLiteral {
	return &ArrayLiteral{Token: Op(token.LBRACKET), Elements: elems}
}

func Attr(obj Expression, name string) *Attribute {
	return &Attribute{Token: Op(token.DOT), Obj: obj, Ident: NewIdent(name)}
}

// ConstDef builds `name = body`.
func ConstDef(name string, body ...Expression) *Def {
	return &Def{Token: Op(token.ASSIGN), Sig: &VarSignature{Name: NewIdent(name)}, Body: NewBlock(body...)}
}

// SubrDef builds `name(params...) = body` with untyped parameters.
func SubrDef(name string, params []string, body ...Expression) *Def {
	return &Def{
		Token: Op(token.ASSIGN),
		Sig:   &SubrSignature{Name: NewIdent(name), Params: ParamsOf(params...)},
		Body:  NewBlock(body...),
	}
}

func ParamsOf(names ...string) *Params {
	ps := &Params{}
	for _, n := range names {
		ps.NonDefaults = append(ps.NonDefaults, &ParamSignature{Token: token.Symbol(n), Name: n})
	}
	return ps
}

func LambdaOf(params []string, body ...Expression) *Lambda {
	return &Lambda{Token: Op(token.ARROW), Params: ParamsOf(params...), Body: NewBlock(body...)}
}
