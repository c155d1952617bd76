package ast

// constValidator walks an expression and records the first node that
// cannot be evaluated at compile time.
type constValidator struct {
	offender Expression
}

// ValidateConstBlock reports the first non-constant expression in b, or nil
// when the whole block is a valid constant block.
func ValidateConstBlock(b *Block) Expression {
	cv := &constValidator{}
	cv.VisitBlock(b)
	return cv.offender
}

// ValidateConstExpr is ValidateConstBlock for a single expression.
func ValidateConstExpr(e Expression) Expression {
	cv := &constValidator{}
	cv.visit(e)
	return cv.offender
}

func (cv *constValidator) visit(e Expression) {
	if cv.offender != nil || e == nil {
		return
	}
	e.Accept(cv)
}

func (cv *constValidator) reject(e Expression) {
	if cv.offender == nil {
		cv.offender = e
	}
}

func (cv *constValidator) visitAll(es []Expression) {
	for _, e := range es {
		cv.visit(e)
	}
}

func (cv *constValidator) VisitLiteral(*Literal)       {}
func (cv *constValidator) VisitIdentifier(*Identifier) {}
func (cv *constValidator) VisitAttribute(n *Attribute) { cv.visit(n.Obj) }
func (cv *constValidator) VisitTypeApp(n *TypeApp)     { cv.reject(n) }

func (cv *constValidator) VisitBinOp(n *BinOp) {
	cv.visit(n.Left)
	cv.visit(n.Right)
}

func (cv *constValidator) VisitUnaryOp(n *UnaryOp) { cv.visit(n.Operand) }

func (cv *constValidator) VisitCall(n *Call) {
	switch n.Callee.(type) {
	case *Identifier, *Attribute:
	default:
		cv.reject(n)
		return
	}
	cv.visit(n.Callee)
	cv.visitAll(n.Args.Pos)
	for _, kw := range n.Args.Kw {
		cv.visit(kw.Expr)
	}
}

func (cv *constValidator) VisitArrayLiteral(n *ArrayLiteral) {
	if n.IsWithLength() {
		cv.reject(n)
		return
	}
	cv.visitAll(n.Elements)
}

func (cv *constValidator) VisitSetLiteral(n *SetLiteral)     { cv.visitAll(n.Elements) }
func (cv *constValidator) VisitTupleLiteral(n *TupleLiteral) { cv.visitAll(n.Elements) }

func (cv *constValidator) VisitDictLiteral(n *DictLiteral) {
	for _, e := range n.Entries {
		cv.visit(e.Key)
		cv.visit(e.Value)
	}
}

func (cv *constValidator) VisitNormalRecord(n *NormalRecord) {
	for _, d := range n.Attrs {
		cv.VisitDef(d)
	}
}

func (cv *constValidator) VisitMixedRecord(n *MixedRecord) { cv.VisitNormalRecord(n.Desugar()) }

func (cv *constValidator) VisitLambda(n *Lambda) {
	if n.IsProcedural() {
		cv.reject(n)
		return
	}
	cv.VisitBlock(n.Body)
}

func (cv *constValidator) VisitDef(n *Def) {
	if n.Sig.Ident().IsProcedural() {
		cv.reject(n)
		return
	}
	cv.VisitBlock(n.Body)
}

func (cv *constValidator) VisitTypeAscription(n *TypeAscription) { cv.visit(n.Expr) }

func (cv *constValidator) VisitBlock(n *Block) {
	if n == nil {
		return
	}
	if len(n.Exprs) == 0 {
		cv.reject(n)
		return
	}
	cv.visitAll(n.Exprs)
}
