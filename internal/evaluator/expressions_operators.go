package evaluator

import (
	"fmt"
	"math"

	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

var tokenOps = map[token.TokenType]ts.OpKind{
	token.PLUS:        ts.OpAdd,
	token.MINUS:       ts.OpSub,
	token.ASTERISK:    ts.OpMul,
	token.SLASH:       ts.OpDiv,
	token.FLOOR_DIV:   ts.OpFloorDiv,
	token.POWER:       ts.OpPow,
	token.PERCENT:     ts.OpMod,
	token.EQ:          ts.OpEq,
	token.NOT_EQ:      ts.OpNe,
	token.LT:          ts.OpLt,
	token.GT:          ts.OpGt,
	token.LTE:         ts.OpLe,
	token.GTE:         ts.OpGe,
	token.AND:         ts.OpAnd,
	token.OR:          ts.OpOr,
	token.BIT_AND:     ts.OpBitAnd,
	token.BIT_XOR:     ts.OpBitXor,
	token.BIT_OR:      ts.OpBitOr,
	token.LSHIFT:      ts.OpShl,
	token.RSHIFT:      ts.OpShr,
	token.PRE_PLUS:    ts.OpPos,
	token.PRE_MINUS:   ts.OpNeg,
	token.PRE_BIT_NOT: ts.OpInvert,
	token.NOT:         ts.OpNot,
}

var binaryValueOps = map[ts.OpKind]func(l, r ts.Value) (ts.Value, bool){
	ts.OpAdd:      ts.TryAdd,
	ts.OpSub:      ts.TrySub,
	ts.OpMul:      ts.TryMul,
	ts.OpDiv:      ts.TryDiv,
	ts.OpFloorDiv: ts.TryFloorDiv,
	ts.OpMod:      ts.TryMod,
	ts.OpPow:      ts.TryPow,
	ts.OpShl:      ts.TryShl,
	ts.OpShr:      ts.TryShr,
	ts.OpLt:       ts.TryLt,
	ts.OpLe:       ts.TryLe,
	ts.OpGt:       ts.TryGt,
	ts.OpGe:       ts.TryGe,
	ts.OpEq:       ts.TryEq,
	ts.OpNe:       ts.TryNe,
}

func (e *Evaluator) opOf(tok token.Token) (ts.OpKind, error) {
	op, ok := tokenOps[tok.Type]
	if !ok {
		return 0, e.notConst(tok)
	}
	return op, nil
}

func (e *Evaluator) evalConstBin(bin *ast.BinOp) (ts.Value, error) {
	lhs, err := e.EvalConstExpr(bin.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := e.EvalConstExpr(bin.Right)
	if err != nil {
		return nil, err
	}
	op, err := e.opOf(bin.Token)
	if err != nil {
		return nil, err
	}
	return e.evalBin(op, lhs, rhs)
}

func (e *Evaluator) evalConstUnary(un *ast.UnaryOp) (ts.Value, error) {
	val, err := e.EvalConstExpr(un.Operand)
	if err != nil {
		return nil, err
	}
	op, err := e.opOf(un.Token)
	if err != nil {
		return nil, err
	}
	return e.evalUnary(op, val)
}

func (e *Evaluator) evalBin(op ts.OpKind, lhs, rhs ts.Value) (ts.Value, error) {
	if fn, ok := binaryValueOps[op]; ok {
		if v, ok := fn(lhs, rhs); ok {
			return v, nil
		}
		return nil, e.fail(diagnostics.Unreachable())
	}
	switch op {
	case ts.OpOr, ts.OpBitOr:
		switch l := lhs.(type) {
		case ts.BoolVal:
			if r, ok := rhs.(ts.BoolVal); ok {
				return l || r, nil
			}
		case ts.NatVal:
			if r, ok := rhs.(ts.NatVal); ok {
				return l | r, nil
			}
		case ts.IntVal:
			if r, ok := rhs.(ts.IntVal); ok {
				return l | r, nil
			}
		case ts.TypeVal:
			if r, ok := rhs.(ts.TypeVal); ok {
				return e.evalOrType(l.Obj, r.Obj), nil
			}
		}
	case ts.OpAnd, ts.OpBitAnd:
		switch l := lhs.(type) {
		case ts.BoolVal:
			if r, ok := rhs.(ts.BoolVal); ok {
				return l && r, nil
			}
		case ts.NatVal:
			if r, ok := rhs.(ts.NatVal); ok {
				return l & r, nil
			}
		case ts.IntVal:
			if r, ok := rhs.(ts.IntVal); ok {
				return l & r, nil
			}
		case ts.TypeVal:
			if r, ok := rhs.(ts.TypeVal); ok {
				return e.evalAndType(l.Obj, r.Obj), nil
			}
		}
	case ts.OpBitXor:
		switch l := lhs.(type) {
		case ts.BoolVal:
			if r, ok := rhs.(ts.BoolVal); ok {
				return ts.BoolVal(l != r), nil
			}
		case ts.NatVal:
			if r, ok := rhs.(ts.NatVal); ok {
				return l ^ r, nil
			}
		case ts.IntVal:
			if r, ok := rhs.(ts.IntVal); ok {
				return l ^ r, nil
			}
		}
	}
	return nil, e.fail(diagnostics.Unreachable())
}

func (e *Evaluator) evalUnary(op ts.OpKind, val ts.Value) (ts.Value, error) {
	switch op {
	case ts.OpNot:
		switch v := val.(type) {
		case ts.BoolVal:
			return !v, nil
		case ts.TypeVal:
			return e.evalNotType(v.Obj)
		}
	case ts.OpPos:
		switch val.(type) {
		case ts.NatVal, ts.IntVal, ts.FloatVal:
			return val, nil
		}
	case ts.OpNeg:
		switch v := val.(type) {
		case ts.NatVal:
			if v <= math.MaxInt64 {
				return ts.IntVal(-int64(v)), nil
			}
		case ts.IntVal:
			if v != math.MinInt64 {
				return -v, nil
			}
		case ts.FloatVal:
			return -v, nil
		case ts.InfVal:
			return ts.NegInfVal{}, nil
		case ts.NegInfVal:
			return ts.InfVal{}, nil
		}
	case ts.OpInvert:
		switch v := val.(type) {
		case ts.NatVal:
			if v <= math.MaxInt64 {
				return ts.IntVal(^int64(v)), nil
			}
		case ts.IntVal:
			return ^v, nil
		}
	}
	return nil, e.fail(diagnostics.Unreachable())
}

// evalOrType keeps the meta type when both operands are builtin objects
// of the same kind. Anything else becomes a generated union.
func (e *Evaluator) evalOrType(l, r ts.TypeObj) ts.Value {
	t := e.ctx.Union(l.Typ(), r.Typ())
	if v, ok := builtinLike(l, r, t); ok {
		return v
	}
	return ts.GenType(&ts.GenTypeObj{Kind: ts.GenUnion, T: t, Lhs: &l, Rhs: &r})
}

func (e *Evaluator) evalAndType(l, r ts.TypeObj) ts.Value {
	t := e.ctx.Intersection(l.Typ(), r.Typ())
	if v, ok := builtinLike(l, r, t); ok {
		return v
	}
	return ts.GenType(&ts.GenTypeObj{Kind: ts.GenIntersection, T: t, Lhs: &l, Rhs: &r})
}

func builtinLike(l, r ts.TypeObj, t ts.Type) (ts.Value, bool) {
	if l.Kind != ts.BuiltinTypeObj || r.Kind != ts.BuiltinTypeObj {
		return nil, false
	}
	lm, rm := l.MetaType(), r.MetaType()
	switch {
	case ts.EqType(lm, ts.ClassType) && ts.EqType(rm, ts.ClassType):
		return ts.BuiltinClass(t), true
	case ts.EqType(lm, ts.TraitType) && ts.EqType(rm, ts.TraitType):
		return ts.BuiltinTrait(t), true
	}
	return ts.BuiltinType(t), true
}

func (e *Evaluator) evalNotType(o ts.TypeObj) (ts.Value, error) {
	if o.Kind != ts.BuiltinTypeObj {
		return nil, e.feature(token.Token{}, "complement of generated type "+o.Typ().String())
	}
	t := e.ctx.Complement(o.Typ())
	switch {
	case ts.EqType(o.Meta, ts.ClassType):
		return ts.BuiltinClass(t), nil
	case ts.EqType(o.Meta, ts.TraitType):
		return ts.BuiltinTrait(t), nil
	}
	return ts.BuiltinType(t), nil
}

func opString(op ts.OpKind, l, r fmt.Stringer) string {
	return fmt.Sprintf("%s %s %s", l, op, r)
}
