package diagnostics

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/tycore/internal/token"
)

func TestFromEmptyIsNil(t *testing.T) {
	if err := From(); err != nil {
		t.Errorf("From() = %v, want nil", err)
	}
	if err := Merge(nil, nil); err != nil {
		t.Errorf("Merge(nil, nil) = %v, want nil", err)
	}
}

func TestCollectedErrors(t *testing.T) {
	tok := token.Token{Type: token.IDENT_LOWER, Lexeme: "x", Line: 3, Column: 5}
	err := From(
		Uninitialized(tok, "<module>", "x"),
		Uninitialized(tok, "<module>", "y"),
	)
	codes := Codes(err)
	if len(codes) != 2 {
		t.Fatalf("len(Codes) = %d, want 2", len(codes))
	}
	for _, c := range codes {
		if c != ErrUninitialized {
			t.Errorf("code = %s, want %s", c, ErrUninitialized)
		}
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Error() = %q, want it to mention 2 errors", err.Error())
	}

	var single *DiagnosticError
	if !errors.As(err, &single) {
		t.Error("errors.As should reach the entries")
	}
}

func TestMerge(t *testing.T) {
	a := From(NotConstExpr(token.Token{}, "a"))
	b := From(NoVar(token.Token{}, "b", "foo", "for"))
	merged := Merge(a, b)
	if got := Codes(merged); len(got) != 2 || got[0] != ErrNotConstExpr || got[1] != ErrNoVar {
		t.Errorf("Codes(Merge) = %v, want [%s %s]", got, ErrNotConstExpr, ErrNoVar)
	}
	if !HasCode(merged, ErrNoVar) {
		t.Error("HasCode(ErrNoVar) = false, want true")
	}
}

func TestUnreachableNamesCaller(t *testing.T) {
	e := Unreachable()
	if e.Code != ErrUnreachable {
		t.Errorf("Code = %s, want %s", e.Code, ErrUnreachable)
	}
	if !strings.Contains(e.Func, "TestUnreachableNamesCaller") {
		t.Errorf("Func = %s, want the test function", e.Func)
	}
}

func TestErrorMessage(t *testing.T) {
	tok := token.Token{Line: 1, Column: 2}
	e := NoVar(tok, "<module>", "lenn", "len")
	msg := e.Error()
	for _, want := range []string{"E001", "lenn", "1:2", "<module>", "len?"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err  *DiagnosticError
		want string
	}{
		{NewError(ErrFeature, token.Token{}, "100%s literal"), "100%s literal"},
		{NewErrorf(ErrNoAttr, token.Token{}, "%s has no attribute %s", "Int", "x"), "Int has no attribute x"},
		{TypeMismatch(token.Token{}, "", "n", "Nat", "Str", ""), "n: expected Nat, found Str"},
		{NoTraitImpl(token.Token{}, "", "Str", "Add(Str)", ""), "Str does not implement Add(Str)"},
		{NotConstExpr(token.Token{}, ""), ""},
	}
	for _, tt := range tests {
		if tt.err.Message != tt.want {
			t.Errorf("Message = %q, want %q", tt.err.Message, tt.want)
		}
	}
	if u := Unreachable(); !strings.HasPrefix(u.Message, "reached in ") || u.Func == "" {
		t.Errorf("Unreachable() = %q, want the calling function", u.Message)
	}
}
