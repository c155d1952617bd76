package parser

import (
	"strings"
	"testing"

	"github.com/funvibe/tycore/internal/ast"
	"github.com/funvibe/tycore/internal/diagnostics"
	"github.com/funvibe/tycore/internal/token"
)

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"8 / 2 - 1", "((8 / 2) - 1)"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"1 < 2 and 3 > 4 or True", "(((1 < 2) and (3 > 4)) or True)"},
		{"not 1 == 2", "(not (1 == 2))"},
		{"not True and False", "((not True) and False)"},
		{"1 + 2 << 3", "((1 + 2) << 3)"},
		{"1 || 2 ^^ 3 && 4", "(1 || (2 ^^ (3 && 4)))"},
		{"~x.y", "(~x.y)"},
		{"Array(Int, 3).Output", "Array(Int, 3).Output"},
		{"f(x)(y)", "f(x)(y)"},
		{"len([1, 2,])", "len([1, 2])"},
		{`"a" + "b"`, `("a" + "b")`},
	}
	for _, tt := range tests {
		expr, err := ParseExpression(tt.input)
		if err != nil {
			t.Errorf("ParseExpression(%q) error: %v", tt.input, err)
			continue
		}
		if got := expr.String(); got != tt.expected {
			t.Errorf("ParseExpression(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestCollectionLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[]", "[]"},
		{"[0; 3]", "[0; 3]"},
		{"{}", "{}"},
		{"{1, 2}", "{1, 2}"},
		{`{"a": 1, "b": 2}`, `{"a": 1, "b": 2}`},
		{"{A = 1; B = 2}", "{A = 1; B = 2}"},
		{"()", "()"},
		{"(1,)", "(1)"},
		{"(1, 2)", "(1, 2)"},
	}
	for _, tt := range tests {
		expr, err := ParseExpression(tt.input)
		if err != nil {
			t.Errorf("ParseExpression(%q) error: %v", tt.input, err)
			continue
		}
		if got := expr.String(); got != tt.want {
			t.Errorf("ParseExpression(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestNodeShapes(t *testing.T) {
	expr, err := ParseExpression("(1,)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := expr.(*ast.TupleLiteral); !ok {
		t.Errorf("(1,) = %T, want a tuple", expr)
	}

	expr, err = ParseExpression("-3")
	if err != nil {
		t.Fatal(err)
	}
	un, ok := expr.(*ast.UnaryOp)
	if !ok || un.Token.Type != token.PRE_MINUS {
		t.Errorf("-3 = %#v, want a PRE_MINUS unary", expr)
	}

	expr, err = ParseExpression("F(n := 2, m := 3)")
	if err != nil {
		t.Fatal(err)
	}
	call, ok := expr.(*ast.Call)
	if !ok || len(call.Args.Kw) != 2 || call.Args.Kw[1].Keyword.Value != "m" {
		t.Errorf("keyword call = %s, want two keyword arguments", expr)
	}

	expr, err = ParseExpression(".Public")
	if err != nil {
		t.Fatal(err)
	}
	if ident, ok := expr.(*ast.Identifier); !ok || !ident.Public {
		t.Errorf(".Public = %s, want a public identifier", expr)
	}
}

func TestLambdas(t *testing.T) {
	tests := []struct {
		input      string
		params     int
		procedural bool
	}{
		{"x -> x + 1", 1, false},
		{"(x, y) -> x * y", 2, false},
		{"() => 7", 0, true},
	}
	for _, tt := range tests {
		expr, err := ParseExpression(tt.input)
		if err != nil {
			t.Errorf("ParseExpression(%q) error: %v", tt.input, err)
			continue
		}
		lam, ok := expr.(*ast.Lambda)
		if !ok {
			t.Errorf("ParseExpression(%q) = %T, want a lambda", tt.input, expr)
			continue
		}
		if lam.Params.Len() != tt.params {
			t.Errorf("%q has %d params, want %d", tt.input, lam.Params.Len(), tt.params)
		}
		if lam.IsProcedural() != tt.procedural {
			t.Errorf("%q procedural = %v, want %v", tt.input, lam.IsProcedural(), tt.procedural)
		}
	}
}

func TestParseProgram(t *testing.T) {
	block, err := ParseProgram("X = 1; F(n) = n + X;\nF(2)")
	if err != nil {
		t.Fatalf("ParseProgram error: %v", err)
	}
	if len(block.Exprs) != 3 {
		t.Fatalf("ParseProgram produced %d chunks, want 3", len(block.Exprs))
	}
	def, ok := block.Exprs[0].(*ast.Def)
	if !ok || def.IsSubr() || def.Sig.Ident().Value != "X" {
		t.Errorf("first chunk = %s, want the definition of X", block.Exprs[0])
	}
	def, ok = block.Exprs[1].(*ast.Def)
	if !ok || !def.IsSubr() {
		t.Errorf("second chunk = %s, want a subroutine definition", block.Exprs[1])
	}
	if _, ok := block.Exprs[2].(*ast.Call); !ok {
		t.Errorf("last chunk = %s, want a call", block.Exprs[2])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"", "unexpected end of input"},
		{"1 +", "unexpected end of input"},
		{"(1 + 2", "expected )"},
		{"1 2", "expected EOF"},
		{"[1, 2", "expected ]"},
		{"f(x := 1, 2)", "positional argument"},
		{"1 -> 2", "lambda parameters"},
		{"$", "unexpected character"},
		{`"open`, "unterminated string"},
	}
	for _, tt := range tests {
		_, err := ParseExpression(tt.input)
		if err == nil {
			t.Errorf("ParseExpression(%q) should fail", tt.input)
			continue
		}
		if !diagnostics.HasCode(err, diagnostics.ErrSyntax) {
			t.Errorf("ParseExpression(%q) error = %v, want %s", tt.input, err, diagnostics.ErrSyntax)
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("ParseExpression(%q) error = %v, want it to mention %q", tt.input, err, tt.msg)
		}
	}

	for _, src := range []string{"", ";", "1 = 2", "F(1) = 2", "X = 1 Y = 2"} {
		if _, err := ParseProgram(src); err == nil {
			t.Errorf("ParseProgram(%q) should fail", src)
		}
	}
}
