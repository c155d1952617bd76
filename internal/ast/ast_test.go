package ast

import (
	"testing"

	"github.com/funvibe/tycore/internal/token"
)

func TestString(t *testing.T) {
	tests := []struct {
		expr Expression
		want string
	}{
		{Bin(token.PLUS, NatLit(1), NatLit(2)), "(1 + 2)"},
		{Unary(token.PRE_MINUS, NatLit(1)), "(-1)"},
		{Unary(token.NOT, NewIdent("T")), "(not T)"},
		{CallOf(NewIdent("f"), NatLit(1), StrLit("a")), `f(1, "a")`},
		{Array(NatLit(1), NatLit(2)), "[1, 2]"},
		{Attr(NewIdent("Int"), "Output"), "Int.Output"},
		{SubrDef("F", []string{"x"}, NewIdent("x")), "F(x) = x"},
		{LambdaOf([]string{"x"}, NewIdent("x")), "(x) -> x"},
	}
	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestIdentifier(t *testing.T) {
	if !NewIdent("Nat").IsConst() || NewIdent("nat").IsConst() || NewIdent("").IsConst() {
		t.Error("IsConst misclassifies")
	}
	if !NewIdent("print!").IsProcedural() {
		t.Error("print! should be procedural")
	}
}

func TestDefKind(t *testing.T) {
	tests := []struct {
		def  *Def
		want DefKind
	}{
		{ConstDef("X", NatLit(1)), DefOther},
		{ConstDef("C", CallOf(NewIdent("Class"))), DefClass},
		{ConstDef("T", CallOf(NewIdent("Trait"))), DefTrait},
		{ConstDef("M", CallOf(NewIdent("import"), StrLit("m"))), DefImport},
		{ConstDef("Y", CallOf(NewIdent("f"))), DefOther},
	}
	for _, tt := range tests {
		if got := tt.def.Kind(); got != tt.want {
			t.Errorf("Kind(%s) = %d, want %d", tt.def, got, tt.want)
		}
	}
}

func TestDesugarMixedRecord(t *testing.T) {
	rec := &MixedRecord{Attrs: []RecordAttr{
		{Ident: NewIdent("x")},
		{Def: ConstDef("y", NatLit(2))},
	}}
	got := rec.Desugar()
	if len(got.Attrs) != 2 {
		t.Fatalf("len(Attrs) = %d, want 2", len(got.Attrs))
	}
	if s := got.String(); s != "{x = x; y = 2}" {
		t.Errorf("Desugar() = %s, want {x = x; y = 2}", s)
	}
}

func TestValidateConstBlock(t *testing.T) {
	withLen := &ArrayLiteral{Elements: []Expression{NatLit(0)}, Length: NatLit(3)}
	proc := &Lambda{Token: Op(token.FAT_PROC), Params: ParamsOf(), Body: NewBlock(NatLit(1))}
	tests := []struct {
		name  string
		block *Block
		bad   Expression
	}{
		{"arith", NewBlock(Bin(token.PLUS, NatLit(1), NatLit(2))), nil},
		{"def then use", NewBlock(ConstDef("X", NatLit(1)), NewIdent("X")), nil},
		{"with length", NewBlock(Array(withLen)), withLen},
		{"proc lambda", NewBlock(proc), proc},
		{"empty", &Block{}, nil},
	}
	for _, tt := range tests {
		got := ValidateConstBlock(tt.block)
		switch {
		case tt.name == "empty":
			if got == nil {
				t.Errorf("%s: empty block should be rejected", tt.name)
			}
		case got != tt.bad:
			t.Errorf("%s: offender = %v, want %v", tt.name, got, tt.bad)
		}
	}
}
