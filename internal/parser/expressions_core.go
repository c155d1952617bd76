package parser

import (
	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) parseLiteral() ast.Expression {
	return &ast.Literal{Token: p.curToken}
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

// `.name` declares a public name.
func (p *Parser) parsePublicIdentifier() ast.Expression {
	if !p.peekTokenIs(token.IDENT_LOWER) && !p.peekTokenIs(token.IDENT_UPPER) {
		p.peekError(token.IDENT_LOWER)
		return nil
	}
	p.nextToken()
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme, Public: true}
}

var prefixOps = map[token.TokenType]token.TokenType{
	token.MINUS:       token.PRE_MINUS,
	token.PLUS:        token.PRE_PLUS,
	token.PRE_BIT_NOT: token.PRE_BIT_NOT,
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	tok.Type = prefixOps[tok.Type]
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryOp{Token: tok, Operand: operand}
}

// `not` binds looser than comparisons: `not a == b` is `not (a == b)`.
func (p *Parser) parseNotExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(NOT)
	if operand == nil {
		return nil
	}
	return &ast.UnaryOp{Token: tok, Operand: operand}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinOp{Token: tok, Left: left, Right: right}
}

// parseRightAssocInfixExpression parses `**`: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (p *Parser) parseRightAssocInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence - 1)
	if right == nil {
		return nil
	}
	return &ast.BinOp{Token: tok, Left: left, Right: right}
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.peekTokenIs(token.IDENT_LOWER) && !p.peekTokenIs(token.IDENT_UPPER) {
		p.peekError(token.IDENT_LOWER)
		return nil
	}
	p.nextToken()
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return &ast.Attribute{Token: tok, Obj: left, Ident: ident}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	call := &ast.Call{Token: p.curToken, Callee: callee}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	for {
		p.nextToken()
		if p.curTokenIs(token.IDENT_LOWER) && p.peekTokenIs(token.WALRUS) {
			kw := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			p.nextToken()
			p.nextToken()
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			call.Args.Kw = append(call.Args.Kw, ast.KwArg{Keyword: kw, Expr: arg})
		} else {
			if len(call.Args.Kw) > 0 {
				p.errorf(p.curToken, "positional argument after keyword argument")
				return nil
			}
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			call.Args.Pos = append(call.Args.Pos, arg)
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

// parseGroupedExpression reads `(e)`, `()`, `(a,)` and `(a, b)`.
func (p *Parser) parseGroupedExpression() ast.Expression {
	start := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.TupleLiteral{Token: start, Elements: []ast.Expression{}}
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return first
	}
	elems := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TupleLiteral{Token: start, Elements: elems}
}

// parseLambdaExpression reads `x -> body`, `(x, y) -> body` and `() => body`.
// Parameters are plain names.
func (p *Parser) parseLambdaExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	var params []string
	switch node := left.(type) {
	case *ast.Identifier:
		params = []string{node.Value}
	case *ast.TupleLiteral:
		for _, elem := range node.Elements {
			ident, ok := elem.(*ast.Identifier)
			if !ok {
				p.errorf(elem.GetToken(), "lambda parameter must be a name, got %s", elem)
				return nil
			}
			params = append(params, ident.Value)
		}
	default:
		p.errorf(left.GetToken(), "lambda parameters must be names, got %s", left)
		return nil
	}
	p.nextToken()
	body := p.parseExpression(LAMBDA - 1)
	if body == nil {
		return nil
	}
	return &ast.Lambda{Token: tok, Params: ast.ParamsOf(params...), Body: ast.NewBlock(body)}
}
