package evaluator

import (
	"testing"

	"github.com/funvibe/tycore/internal/config"
	"github.com/funvibe/tycore/internal/symbols"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

func TestSubstituteTypeParamsUndo(t *testing.T) {
	e, _ := newTestEvaluator()
	elem := ts.NamedTyVar("T")
	length := ts.NamedTPVar("N", ts.Nat)
	quant := ts.ArrayT(elem, length)
	open := ts.OpenTxns()

	txn, err := e.SubstituteTypeParams(quant, ts.ArrayT(ts.Int, ts.NatTP(3)))
	if err != nil {
		t.Fatalf("SubstituteTypeParams error: %v", err)
	}
	if got := quant.String(); got != "Array(Int, 3)" {
		t.Errorf("substituted = %s, want Array(Int, 3)", got)
	}
	if txn.Len() != 2 {
		t.Errorf("txn.Len() = %d, want 2", txn.Len())
	}
	txn.Undo()
	if got := quant.String(); got != "Array(?T, ?N)" {
		t.Errorf("after undo = %s, want Array(?T, ?N)", got)
	}
	if !elem.FV.IsGeneralized() || !length.FV.IsGeneralized() {
		t.Error("undo should restore generalized variables")
	}
	if got := ts.OpenTxns(); got != open {
		t.Errorf("open transactions = %d, want %d", got, open)
	}
}

func TestUndoSubstituteTypeParams(t *testing.T) {
	e, _ := newTestEvaluator()
	elem := ts.NamedTyVar("T")
	length := ts.NamedTPVar("N", ts.Nat)
	quant := ts.ArrayT(elem, length)

	txn, err := e.SubstituteTypeParams(quant, ts.ArrayT(ts.Str, ts.NatTP(1)))
	if err != nil {
		t.Fatalf("SubstituteTypeParams error: %v", err)
	}
	UndoSubstituteTypeParams(quant)
	if elem.FV.IsLinked() || length.FV.IsLinked() {
		t.Errorf("after structural undo = %s, want unbound parameters", quant)
	}
	// replaying the log afterwards is a no-op
	txn.Undo()
	if elem.FV.IsLinked() || length.FV.IsLinked() {
		t.Errorf("after txn undo = %s, want unbound parameters", quant)
	}
}

func TestSubstituteTypeParamsVacuous(t *testing.T) {
	e, _ := newTestEvaluator()
	elem := ts.NamedTyVar("T")
	quant := ts.ArrayT(elem, ts.NamedTPVar("N", ts.Nat))
	txn, err := e.SubstituteTypeParams(quant, ts.Int)
	if err != nil {
		t.Fatalf("SubstituteTypeParams error: %v", err)
	}
	defer txn.Undo()
	if txn.Len() != 0 || elem.FV.IsLinked() {
		t.Errorf("mismatched shapes should not link anything, got %s", quant)
	}
}

func TestSubstituteTypeParamsThroughLowerBound(t *testing.T) {
	e, _ := newTestEvaluator()
	elem := ts.NamedTyVar("T")
	quant := ts.ArrayT(elem, ts.NamedTPVar("N", ts.Nat))
	bounded := ts.NewTyVar("U", 1, ts.ArrayT(ts.Nat, ts.NatTP(2)), ts.Obj)
	txn, err := e.SubstituteTypeParams(quant, bounded)
	if err != nil {
		t.Fatalf("SubstituteTypeParams error: %v", err)
	}
	defer txn.Undo()
	if got := quant.String(); got != "Array(Nat, 2)" {
		t.Errorf("substituted = %s, want Array(Nat, 2)", got)
	}
}

func TestOverwriteTypeParams(t *testing.T) {
	e, _ := newTestEvaluator()
	elem := ts.NamedTyVar("T")
	length := ts.NamedTPVar("N", ts.Nat)
	quant := ts.ArrayT(elem, length)

	first, err := e.SubstituteTypeParams(quant, ts.ArrayT(ts.Int, ts.NatTP(1)))
	if err != nil {
		t.Fatalf("SubstituteTypeParams error: %v", err)
	}
	second, err := e.OverwriteTypeParams(quant, ts.ArrayT(ts.Str, ts.NatTP(2)))
	if err != nil {
		t.Fatalf("OverwriteTypeParams error: %v", err)
	}
	if got := quant.String(); got != "Array(Str, 2)" {
		t.Errorf("overwritten = %s, want Array(Str, 2)", got)
	}
	second.Undo()
	if got := quant.String(); got != "Array(Int, 1)" {
		t.Errorf("after undoing the overwrite = %s, want Array(Int, 1)", got)
	}
	first.Undo()
	if got := quant.String(); got != "Array(?T, ?N)" {
		t.Errorf("after undoing both = %s, want Array(?T, ?N)", got)
	}
}

func TestDetach(t *testing.T) {
	e, _ := newTestEvaluator()
	a := ts.NewTyVar("A", 1, ts.Never, ts.Obj)
	linked := ts.NewTyVar("L", 1, ts.Never, ts.Obj)
	linked.FV.Link(ts.Int)
	pair := ts.Poly{Name: "Pair", Params: []ts.TyParam{ts.TPType{T: a}, ts.TPType{T: a}, ts.TPType{T: linked}}}

	got := e.Detach(pair, symbols.NewTyVarCache(1))
	poly, ok := got.(ts.Poly)
	if !ok {
		t.Fatalf("Detach = %s, want a poly type", got)
	}
	first := poly.Params[0].(ts.TPType).T.(ts.TyVar)
	second := poly.Params[1].(ts.TPType).T.(ts.TyVar)
	if first.FV == a.FV {
		t.Error("Detach should replace unbound variables")
	}
	if first.FV != second.FV {
		t.Error("one name should map to one fresh variable")
	}
	if third := poly.Params[2].(ts.TPType).T; !ts.EqType(third, ts.Int) {
		t.Errorf("linked parameter = %s, want Int", third)
	}
}

func TestEvalBinTP(t *testing.T) {
	e, _ := newTestEvaluator()
	free := ts.NewTPVar("M", 1, ts.Nat)
	tests := []struct {
		name string
		op   ts.OpKind
		l, r ts.TyParam
		want string
	}{
		{"values", ts.OpAdd, ts.NatTP(2), ts.NatTP(3), "5"},
		{"compare with variable", ts.OpLe, free, ts.NatTP(3), "True"},
		{"variable on the right", ts.OpGt, ts.NatTP(3), free, "True"},
		{"pending arithmetic", ts.OpAdd, free, ts.NatTP(1), "?M + 1"},
		{"array concat", ts.OpAdd, ts.TPArray{Elems: []ts.TyParam{ts.NatTP(1)}}, ts.TPArray{Elems: []ts.TyParam{ts.NatTP(2)}}, "[1, 2]"},
		{"erased comparison", ts.OpLt, ts.TPErased{T: ts.Nat}, ts.NatTP(3), "True"},
	}
	for _, tt := range tests {
		got, err := e.EvalBinTP(tt.op, tt.l, tt.r)
		if err != nil {
			t.Errorf("%s: EvalBinTP error: %v", tt.name, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s: EvalBinTP = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestEvalApp(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		name string
		arg  ts.Value
		want string
	}{
		{config.SuccFuncName, ts.NatVal(3), "4"},
		{config.SuccFuncName, ts.BoolVal(true), "2"},
		{config.PredFuncName, ts.NatVal(0), "0"},
		{config.PredFuncName, ts.IntVal(-1), "-2"},
		{config.PredFuncName, ts.InfVal{}, "Inf"},
		{"abs", ts.IntVal(-7), "7"},
	}
	for _, tt := range tests {
		got, err := e.EvalApp(tt.name, []ts.TyParam{ts.TPValue{V: tt.arg}})
		if err != nil {
			t.Errorf("%s(%s) error: %v", tt.name, tt.arg, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s(%s) = %s, want %s", tt.name, tt.arg, got, tt.want)
		}
	}

	free := ts.NewTPVar("K", 1, ts.Nat)
	got, err := e.EvalApp(config.SuccFuncName, []ts.TyParam{free})
	if err != nil {
		t.Fatalf("succ(?K) error: %v", err)
	}
	if _, ok := got.(ts.TPApp); !ok {
		t.Errorf("succ(?K) = %s, want an unevaluated application", got)
	}
}

func TestGetTPType(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		tp   ts.TyParam
		want string
	}{
		{ts.NatTP(3), "{3}"},
		{ts.TPType{T: ts.Int}, "ClassType"},
		{ts.TPType{T: ts.Mono{Name: "Eq"}}, "TraitType"},
		{ts.TPErased{T: ts.Nat}, "Nat"},
		{ts.NewTPVar("X", 1, ts.Int), "Int"},
	}
	for _, tt := range tests {
		got, err := e.GetTPType(tt.tp)
		if err != nil {
			t.Errorf("GetTPType(%s) error: %v", tt.tp, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("GetTPType(%s) = %s, want %s", tt.tp, got, tt.want)
		}
	}
}

func TestConvertValueIntoArray(t *testing.T) {
	e, _ := newTestEvaluator()
	got, ok := e.ConvertValueIntoArray(ts.BuiltinClass(ts.ArrayT(ts.Int, ts.NatTP(2))))
	if !ok || len(got) != 2 || got[0].String() != "Int" {
		t.Errorf("ConvertValueIntoArray(Array(Int, 2)) = %v, %v; want [Int, Int]", got, ok)
	}
	arr := ts.ArrayVal{ts.NatVal(1)}
	got, ok = e.ConvertValueIntoArray(arr)
	if !ok || len(got) != 1 {
		t.Errorf("ConvertValueIntoArray([1]) = %v, %v", got, ok)
	}
	if _, ok := e.ConvertValueIntoArray(ts.NatVal(1)); ok {
		t.Error("a Nat is not an array")
	}
}

func TestConvertTPIntoType(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		tp   ts.TyParam
		want string
	}{
		{ts.TPType{T: ts.Int}, "Int"},
		{ts.TPTuple{Elems: []ts.TyParam{ts.TPType{T: ts.Int}, ts.TPType{T: ts.Str}}}, "Tuple(Int, Str)"},
		{ts.TPValue{V: ts.BuiltinClass(ts.Nat)}, "Nat"},
		{ts.TPMono{Name: "Foo"}, "Foo"},
	}
	for _, tt := range tests {
		got, ok := e.ConvertTPIntoType(tt.tp)
		if !ok {
			t.Errorf("ConvertTPIntoType(%s) failed", tt.tp)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ConvertTPIntoType(%s) = %s, want %s", tt.tp, got, tt.want)
		}
	}
	if _, ok := e.ConvertTPIntoType(ts.NatTP(1)); ok {
		t.Error("a Nat value is not a type")
	}
}
