package parser

import (
	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/token"
)

// parseExpressionList reads comma separated expressions up to end and
// consumes it. A trailing comma is allowed.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	for {
		p.nextToken()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		list = append(list, elem)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

// parseArrayLiteral reads `[a, b]` and `[elem; len]`.
func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return arr
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
		p.nextToken()
		length := p.parseExpression(LOWEST)
		if length == nil || !p.expectPeek(token.RBRACKET) {
			return nil
		}
		arr.Elements = []ast.Expression{first}
		arr.Length = length
		return arr
	}
	arr.Elements = []ast.Expression{first}
	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		rest := p.parseExpressionList(token.RBRACKET)
		if rest == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, rest...)
		return arr
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return arr
}

// parseBraceLiteral tells sets, dicts and records apart by what follows
// the first element: `{a, b}`, `{k: v}` or `{A = 1; B = 2}`. `{}` is the
// empty set.
func (p *Parser) parseBraceLiteral() ast.Expression {
	start := p.curToken
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.SetLiteral{Token: start, Elements: []ast.Expression{}}
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	switch {
	case p.peekTokenIs(token.ASSIGN):
		return p.parseRecordLiteral(start, first)
	case p.peekTokenIs(token.COLON):
		return p.parseDictLiteral(start, first)
	}
	set := &ast.SetLiteral{Token: start, Elements: []ast.Expression{first}}
	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		rest := p.parseExpressionList(token.RBRACE)
		if rest == nil {
			return nil
		}
		set.Elements = append(set.Elements, rest...)
		return set
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return set
}

func (p *Parser) parseDictLiteral(start token.Token, key ast.Expression) ast.Expression {
	dict := &ast.DictLiteral{Token: start}
	for {
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		dict.Entries = append(dict.Entries, ast.DictEntry{Key: key, Value: value})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		if key = p.parseExpression(LOWEST); key == nil {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return dict
}

func (p *Parser) parseRecordLiteral(start token.Token, lhs ast.Expression) ast.Expression {
	rec := &ast.NormalRecord{Token: start}
	for {
		def := p.parseDefinition(lhs)
		if def == nil {
			return nil
		}
		rec.Attrs = append(rec.Attrs, def)
		if !p.peekTokenIs(token.SEMI) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RBRACE) {
			break
		}
		p.nextToken()
		if lhs = p.parseExpression(LOWEST); lhs == nil {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return rec
}
