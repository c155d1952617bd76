package typesystem

type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpPos
	OpNeg
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAs
	OpAnd
	OpOr
	OpNot
	OpInvert
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

var opSymbols = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpFloorDiv: "//",
	OpMod: "%", OpPow: "**", OpPos: "+", OpNeg: "-",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAs: "as", OpAnd: "and", OpOr: "or", OpNot: "not", OpInvert: "~",
	OpBitAnd: "&&", OpBitOr: "||", OpBitXor: "^^", OpShl: "<<", OpShr: ">>",
}

var opNames = [...]string{
	OpAdd: "__add__", OpSub: "__sub__", OpMul: "__mul__", OpDiv: "__div__",
	OpFloorDiv: "__floordiv__", OpMod: "__mod__", OpPow: "__pow__",
	OpPos: "__pos__", OpNeg: "__neg__",
	OpEq: "__eq__", OpNe: "__ne__", OpLt: "__lt__", OpLe: "__le__",
	OpGt: "__gt__", OpGe: "__ge__", OpAs: "__as__",
	OpAnd: "__and__", OpOr: "__or__", OpNot: "__not__", OpInvert: "__invert__",
	OpBitAnd: "__bitand__", OpBitOr: "__bitor__", OpBitXor: "__bitxor__",
	OpShl: "__shl__", OpShr: "__shr__",
}

func (op OpKind) String() string {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}
	return "?"
}

// MethodName is the dunder name of the operator, e.g. __add__.
func (op OpKind) MethodName() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "__unknown__"
}

func (op OpKind) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	}
	return false
}
