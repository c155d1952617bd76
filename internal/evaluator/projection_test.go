package evaluator

import (
	"testing"

	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/symbols"
	"github.com/funvibe/tycore/internal/token"
	ts "github.com/funvibe/tycore/internal/typesystem"
)

// withArrayAdd registers `Array(T, N) impl Add(Array(T, N))` with
// Output = Array(T, N + N) on the builtin Array.
func withArrayAdd(t *testing.T, b *symbols.Context) (elem ts.Type, length ts.TyParam) {
	t.Helper()
	td, ok := b.RecGetType("Array")
	if !ok {
		t.Fatal("Array is a builtin type")
	}
	params := ts.Typarams(td.Type)
	elemTP, ok := params[0].(ts.TPType)
	if !ok {
		t.Fatalf("first Array parameter = %s, want a type", params[0])
	}
	arr := td.Type
	addT := ts.Poly{Name: "Add", Params: []ts.TyParam{ts.TPType{T: arr}}}
	def := symbols.ImplTraitDef(arr, addT)
	methods := symbols.NewMethods(def, td.Ctx)
	out := ts.ArrayT(elemTP.T, ts.TPBinOp{Op: ts.OpAdd, L: params[1], R: params[1]})
	methods.RegisterConst("Output", ts.BuiltinClass(out), symbols.Public)
	td.Ctx.AddMethods(def, methods)
	b.RegisterTraitImpl(arr, addT)
	return elemTP.T, params[1]
}

func TestEvalProjSubstitutesAndRestores(t *testing.T) {
	e, b := newTestEvaluator()
	elem, length := withArrayAdd(t, b)
	open := ts.OpenTxns()

	for i := 0; i < 2; i++ {
		got, err := e.EvalProj(ts.ArrayT(ts.Int, ts.NatTP(3)), "Output", 1, token.Token{})
		if err != nil {
			t.Fatalf("EvalProj #%d error: %v", i, err)
		}
		if got.String() != "Array(Int, 6)" {
			t.Errorf("EvalProj #%d = %s, want Array(Int, 6)", i, got)
		}
	}

	if !ts.IsUnboundVar(elem) || !ts.IsGeneralized(elem) {
		t.Errorf("T after projection = %s, want unbound and generalized", elem)
	}
	if !ts.TPIsUnboundVar(length) {
		t.Errorf("N after projection = %s, want unbound", length)
	}
	if got := ts.OpenTxns(); got != open {
		t.Errorf("open transactions = %d, want %d", got, open)
	}
}

func TestEvalProjBuiltinOutput(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		lhs  ts.Type
		want string
	}{
		{ts.Nat, "Nat"},
		{ts.Int, "Int"},
		{ts.Str, "Str"},
		{ts.Never, "Never"},
		{ts.Failure, "Failure"},
	}
	for _, tt := range tests {
		got, err := e.EvalProj(tt.lhs, "Output", 1, token.Token{})
		if err != nil {
			t.Errorf("EvalProj(%s.Output) error: %v", tt.lhs, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("EvalProj(%s.Output) = %s, want %s", tt.lhs, got, tt.want)
		}
	}
}

func TestEvalProjMissingTraitImpl(t *testing.T) {
	e, _ := newTestEvaluator()
	mulStr := ts.Poly{Name: "Mul", Params: []ts.TyParam{ts.TPType{T: ts.Str}}}
	tv := ts.NewTyVar("T", 1, ts.Str, mulStr)

	_, err := e.EvalProj(tv, "Output", 1, token.Token{})
	if !diagnostics.HasCode(err, diagnostics.ErrNoTraitImpl) {
		t.Fatalf("EvalProj error = %v, want %s", err, diagnostics.ErrNoTraitImpl)
	}
	if !tv.FV.IsLinked() || !ts.EqType(ts.Deref(tv), ts.Never) {
		t.Errorf("T after failure = %s, want Never", tv)
	}

	got, err := e.EvalProj(tv, "Output", 1, token.Token{})
	if err != nil {
		t.Errorf("second EvalProj error = %v, want nil", err)
	}
	if !ts.EqType(got, ts.Never) {
		t.Errorf("second EvalProj = %s, want Never", got)
	}
}

func TestEvalProjSelf(t *testing.T) {
	e, b := newTestEvaluator()
	td, ok := b.RecGetType("Str")
	if !ok {
		t.Fatal("Str is a builtin type")
	}
	methods := symbols.NewMethods(symbols.SimpleDef(td.Type), td.Ctx)
	pair := ts.ArrayT(ts.Mono{Name: "Self"}, ts.NatTP(2))
	methods.RegisterConst("Pair", ts.BuiltinClass(pair), symbols.Public)
	td.Ctx.AddMethods(symbols.SimpleDef(td.Type), methods)

	got, err := e.EvalProj(ts.Str, "Pair", 1, token.Token{})
	if err != nil {
		t.Fatalf("EvalProj(Str.Pair) error: %v", err)
	}
	if got.String() != "Array(Str, 2)" {
		t.Errorf("EvalProj(Str.Pair) = %s, want Array(Str, 2)", got)
	}
}

func TestEvalProjNoCandidate(t *testing.T) {
	e, _ := newTestEvaluator()
	_, err := e.EvalProj(ts.Int, "Missing", 1, token.Token{})
	if !diagnostics.HasCode(err, diagnostics.ErrNoCandidate) {
		t.Errorf("EvalProj(Int.Missing) error = %v, want %s", err, diagnostics.ErrNoCandidate)
	}
	_, err = e.EvalProj(ts.Mono{Name: "Nowhere"}, "Output", 1, token.Token{})
	if !diagnostics.HasCode(err, diagnostics.ErrTypeNotFound) {
		t.Errorf("EvalProj(Nowhere.Output) error = %v, want %s", err, diagnostics.ErrTypeNotFound)
	}
}

func TestEvalProjUnboundLowerBound(t *testing.T) {
	e, _ := newTestEvaluator()
	free := ts.NamedTyVar("T")
	got, err := e.EvalProj(free, "Output", 1, token.Token{})
	if err != nil {
		t.Fatalf("EvalProj(?T.Output) error: %v", err)
	}
	if got.String() != "?T.Output" {
		t.Errorf("EvalProj(?T.Output) = %s, want ?T.Output", got)
	}
}

func TestEvalTParamsProjection(t *testing.T) {
	e, _ := newTestEvaluator()
	fn := ts.FuncT([]ts.ParamTy{{Name: "x", Ty: ts.Proj{LHS: ts.Int, Attr: "Output"}}}, ts.Proj{LHS: ts.Nat, Attr: "Output"})
	got, err := e.EvalTParams(fn, 1, token.Token{})
	if err != nil {
		t.Fatalf("EvalTParams error: %v", err)
	}
	if got.String() != "(x: Int) -> Nat" {
		t.Errorf("EvalTParams = %s, want (x: Int) -> Nat", got)
	}

	bad := ts.FuncT(nil, ts.Proj{LHS: ts.Int, Attr: "Missing"})
	got, err = e.EvalTParams(bad, 1, token.Token{})
	if err == nil {
		t.Fatal("EvalTParams of an unresolvable return should fail")
	}
	if sub, ok := got.(ts.Subr); !ok || !ts.EqType(sub.Return, ts.Failure) {
		t.Errorf("EvalTParams = %s, want a Failure return", got)
	}
}

func TestEvalProjCall(t *testing.T) {
	e, b := newTestEvaluator()
	// the receiver Int is a class, so ClassType owns the call
	classCtx, ok := b.RecGetType("ClassType")
	if !ok {
		t.Fatal("ClassType is a builtin type")
	}
	double := &ts.BuiltinSubr{
		SubrName: "Double",
		Sig:      ts.FuncT([]ts.ParamTy{{Name: "n", Ty: ts.Nat}}, ts.TypeT),
		Fn: func(args ts.ValueArgs) (ts.Value, error) {
			n := args.Pos[0].(ts.NatVal)
			return ts.BuiltinClass(ts.ArrayT(ts.Int, ts.NatTP(uint64(n)*2))), nil
		},
	}
	classCtx.Ctx.RegisterConst("Double", ts.SubrVal{Subr: double}, symbols.Public)

	got, err := e.EvalProjCall(ts.TPType{T: ts.Int}, "Double", []ts.TyParam{ts.NatTP(2)}, 1, token.Token{})
	if err != nil {
		t.Fatalf("EvalProjCall error: %v", err)
	}
	if got.String() != "Array(Int, 4)" {
		t.Errorf("Int.Double(2) = %s, want Array(Int, 4)", got)
	}

	// a singleton type argument is passed as its value
	got, err = e.EvalProjCall(ts.TPType{T: ts.Int}, "Double", []ts.TyParam{ts.TPType{T: ts.VEnum(ts.NatVal(3))}}, 1, token.Token{})
	if err != nil {
		t.Fatalf("EvalProjCall({3}) error: %v", err)
	}
	if got.String() != "Array(Int, 6)" {
		t.Errorf("Int.Double({3}) = %s, want Array(Int, 6)", got)
	}

	_, err = e.EvalProjCall(ts.TPType{T: ts.Int}, "Missing", nil, 1, token.Token{})
	if !diagnostics.HasCode(err, diagnostics.ErrNoCandidate) {
		t.Errorf("Int.Missing() error = %v, want %s", err, diagnostics.ErrNoCandidate)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   ts.Type
		want string
	}{
		{ts.NewTyVar("A", 1, ts.Nat, ts.Obj), "Nat"},
		{ts.NewTyVar("B", 1, ts.Never, ts.Int), "Int"},
		{ts.NewTyVar("C", 1, ts.Never, ts.Obj), "?C"},
		{ts.ArrayT(ts.NewTyVar("D", 1, ts.Str, ts.Obj), ts.NatTP(1)), "Array(Str, 1)"},
		{ts.Int, "Int"},
	}
	for _, tt := range tests {
		if got := Coerce(tt.in); got.String() != tt.want {
			t.Errorf("Coerce(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
	v := ts.NewTyVar("E", 1, ts.Nat, ts.Obj)
	Coerce(v)
	if v.FV.IsLinked() {
		t.Error("Coerce should not link the variable")
	}
}

func TestConvertTPIntoValue(t *testing.T) {
	e, _ := newTestEvaluator()
	tests := []struct {
		in   ts.TyParam
		want string
	}{
		{ts.NatTP(2), "2"},
		{ts.TPType{T: ts.VEnum(ts.StrVal("a"))}, `"a"`},
		{ts.TPType{T: ts.Int}, "Int"},
		{ts.TPType{T: ts.VEnum(ts.NatVal(1), ts.NatVal(2))}, "{1, 2}"},
	}
	for _, tt := range tests {
		v, ok := e.ConvertTPIntoValue(tt.in)
		if !ok {
			t.Errorf("ConvertTPIntoValue(%s) failed", tt.in)
			continue
		}
		if v.String() != tt.want {
			t.Errorf("ConvertTPIntoValue(%s) = %s, want %s", tt.in, v, tt.want)
		}
	}
	if _, ok := e.ConvertSingularTypeIntoValue(ts.Int); ok {
		t.Error("Int has more than one value")
	}
}
