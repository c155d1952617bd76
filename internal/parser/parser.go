package parser

import (
	"fmt"

	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/lexer"
	"github.com/funvibe/tycore/internal/token"
)

const MaxRecursionDepth = 200

const (
	_ int = iota
	LOWEST
	LAMBDA  // -> =>
	OR      // or
	AND     // and
	NOT     // not x
	EQUALS  // == != < > <= >=
	BITOR   // ||
	BITXOR  // ^^
	BITAND  // &&
	SHIFT   // << >>
	SUM     // + -
	PRODUCT // * / // %
	PREFIX  // -x +x ~x
	POWER   // **
	CALL    // f(x) x.y
)

var precedences = map[token.TokenType]int{
	token.ARROW:     LAMBDA,
	token.FAT_PROC:  LAMBDA,
	token.OR:        OR,
	token.AND:       AND,
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        EQUALS,
	token.GT:        EQUALS,
	token.LTE:       EQUALS,
	token.GTE:       EQUALS,
	token.BIT_OR:    BITOR,
	token.BIT_XOR:   BITXOR,
	token.BIT_AND:   BITAND,
	token.LSHIFT:    SHIFT,
	token.RSHIFT:    SHIFT,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.ASTERISK:  PRODUCT,
	token.SLASH:     PRODUCT,
	token.FLOOR_DIV: PRODUCT,
	token.PERCENT:   PRODUCT,
	token.POWER:     POWER,
	token.LPAREN:    CALL,
	token.DOT:       CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser reads the constant subset of the surface syntax: literals,
// names, operators, calls, attributes, collection and record literals,
// lambdas, and `;`-separated definitions.
type Parser struct {
	l      *lexer.Lexer
	errors []*diagnostics.DiagnosticError
	depth  int

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{}
	for _, t := range []token.TokenType{
		token.NAT, token.BIN, token.OCT, token.HEX, token.RATIO, token.STRING,
		token.BOOL, token.NONE, token.INF, token.ELLIPSIS,
	} {
		p.prefixParseFns[t] = p.parseLiteral
	}
	p.prefixParseFns[token.IDENT_LOWER] = p.parseIdentifier
	p.prefixParseFns[token.IDENT_UPPER] = p.parseIdentifier
	p.prefixParseFns[token.MINUS] = p.parsePrefixExpression
	p.prefixParseFns[token.PLUS] = p.parsePrefixExpression
	p.prefixParseFns[token.PRE_BIT_NOT] = p.parsePrefixExpression
	p.prefixParseFns[token.NOT] = p.parseNotExpression
	p.prefixParseFns[token.DOT] = p.parsePublicIdentifier
	p.prefixParseFns[token.LPAREN] = p.parseGroupedExpression
	p.prefixParseFns[token.LBRACKET] = p.parseArrayLiteral
	p.prefixParseFns[token.LBRACE] = p.parseBraceLiteral

	p.infixParseFns = map[token.TokenType]infixParseFn{}
	for t, prec := range precedences {
		if prec != CALL && prec != LAMBDA && t != token.POWER {
			p.infixParseFns[t] = p.parseInfixExpression
		}
	}
	p.infixParseFns[token.POWER] = p.parseRightAssocInfixExpression
	p.infixParseFns[token.LPAREN] = p.parseCallExpression
	p.infixParseFns[token.DOT] = p.parseMemberExpression
	p.infixParseFns[token.ARROW] = p.parseLambdaExpression
	p.infixParseFns[token.FAT_PROC] = p.parseLambdaExpression

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// ParseExpression reads a single expression that must span the whole input.
func ParseExpression(src string) (ast.Expression, error) {
	p := New(lexer.New(src))
	expr := p.parseExpression(LOWEST)
	if expr != nil && !p.peekTokenIs(token.EOF) {
		p.peekError(token.EOF)
	}
	if err := p.Errors(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseProgram reads `;`-separated chunks into one block.
func ParseProgram(src string) (*ast.Block, error) {
	p := New(lexer.New(src))
	block := p.parseBlock(token.EOF)
	if block != nil && len(block.Exprs) == 0 {
		p.errorf(p.curToken, "empty program")
	}
	if err := p.Errors(); err != nil {
		return nil, err
	}
	return block, nil
}

// Errors returns every syntax error collected so far, or nil.
func (p *Parser) Errors() error {
	return diagnostics.From(p.errors...)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.Syntax(tok, fmt.Sprintf(format, args...)))
}

func (p *Parser) peekError(t token.TokenType) {
	if p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "expected %s, got end of input", t)
		return
	}
	p.errorf(p.peekToken, "expected %s, got %q", t, p.peekToken.Lexeme)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	switch tok.Type {
	case token.EOF:
		p.errorf(tok, "unexpected end of input")
	case token.ILLEGAL:
		if msg, ok := tok.Literal.(string); ok && msg != tok.Lexeme {
			p.errorf(tok, "%s", msg)
			return
		}
		p.errorf(tok, "unexpected character %q", tok.Lexeme)
	default:
		p.errorf(tok, "unexpected %q", tok.Lexeme)
	}
}
