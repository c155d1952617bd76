package ast

import (
	"strings"

	"github.com/funvibe/tycore/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	String() string
	Accept(v Visitor)
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Visitor walks the constant expression grammar.
type Visitor interface {
	VisitLiteral(n *Literal)
	VisitIdentifier(n *Identifier)
	VisitAttribute(n *Attribute)
	VisitTypeApp(n *TypeApp)
	VisitBinOp(n *BinOp)
	VisitUnaryOp(n *UnaryOp)
	VisitCall(n *Call)
	VisitArrayLiteral(n *ArrayLiteral)
	VisitSetLiteral(n *SetLiteral)
	VisitDictLiteral(n *DictLiteral)
	VisitTupleLiteral(n *TupleLiteral)
	VisitNormalRecord(n *NormalRecord)
	VisitMixedRecord(n *MixedRecord)
	VisitLambda(n *Lambda)
	VisitDef(n *Def)
	VisitTypeAscription(n *TypeAscription)
	VisitBlock(n *Block)
}

// Block is a non-empty sequence of expressions. Its value is the value of the
// last one.
type Block struct {
	Token token.Token
	Exprs []Expression
}

func (b *Block) Accept(v Visitor)     { v.VisitBlock(b) }
func (b *Block) expressionNode()      {}
func (b *Block) TokenLiteral() string { return b.Token.Lexeme }
func (b *Block) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	if len(b.Exprs) > 0 && b.Token.IsUnknown() {
		return b.Exprs[0].GetToken()
	}
	return b.Token
}
func (b *Block) String() string {
	parts := make([]string, len(b.Exprs))
	for i, e := range b.Exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// Last returns the final expression, or nil for an empty block.
func (b *Block) Last() Expression {
	if b == nil || len(b.Exprs) == 0 {
		return nil
	}
	return b.Exprs[len(b.Exprs)-1]
}

// NewBlock is a convenience for single-expression bodies.
func NewBlock(exprs ...Expression) *Block {
	b := &Block{Exprs: exprs}
	if len(exprs) > 0 {
		b.Token = exprs[0].GetToken()
	}
	return b
}

func joinExprs(es []Expression) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
