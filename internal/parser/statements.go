package parser

import (
	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/token"
)

// parseBlock reads chunks separated by `;` until end. Empty chunks are
// skipped.
func (p *Parser) parseBlock(end token.TokenType) *ast.Block {
	block := &ast.Block{Token: p.curToken}
	for !p.curTokenIs(end) {
		if p.curTokenIs(token.SEMI) {
			p.nextToken()
			continue
		}
		chunk := p.parseChunk()
		if chunk == nil {
			return nil
		}
		block.Exprs = append(block.Exprs, chunk)
		p.nextToken()
		if !p.curTokenIs(token.SEMI) && !p.curTokenIs(end) {
			p.errorf(p.curToken, "expected ; or %s, got %q", end, p.curToken.Lexeme)
			return nil
		}
	}
	return block
}

func (p *Parser) parseChunk() ast.Expression {
	lhs := p.parseExpression(LOWEST)
	if lhs == nil {
		return nil
	}
	if !p.peekTokenIs(token.ASSIGN) {
		return lhs
	}
	if def := p.parseDefinition(lhs); def != nil {
		return def
	}
	return nil
}

// parseDefinition turns `lhs = body` into a definition. The current token
// ends lhs and the peek token is `=`. A name defines a variable, a call
// with name arguments defines a subroutine.
func (p *Parser) parseDefinition(lhs ast.Expression) *ast.Def {
	var sig ast.Signature
	switch node := lhs.(type) {
	case *ast.Identifier:
		sig = &ast.VarSignature{Name: node}
	case *ast.Call:
		name, ok := node.Callee.(*ast.Identifier)
		if !ok || len(node.Args.Kw) > 0 {
			p.errorf(lhs.GetToken(), "cannot define %s", lhs)
			return nil
		}
		params := make([]string, 0, len(node.Args.Pos))
		for _, arg := range node.Args.Pos {
			ident, ok := arg.(*ast.Identifier)
			if !ok {
				p.errorf(arg.GetToken(), "parameter must be a name, got %s", arg)
				return nil
			}
			params = append(params, ident.Value)
		}
		sig = &ast.SubrSignature{Name: name, Params: ast.ParamsOf(params...)}
	default:
		p.errorf(lhs.GetToken(), "cannot define %s", lhs)
		return nil
	}
	p.nextToken()
	tok := p.curToken
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}
	return &ast.Def{Token: tok, Sig: sig, Body: ast.NewBlock(body)}
}
