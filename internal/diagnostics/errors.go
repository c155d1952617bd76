package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/tycore/internal/token"
)

type ErrorCode string

const (
	ErrNoVar          ErrorCode = "E001" // No such variable
	ErrNotConstExpr   ErrorCode = "E002"
	ErrUninitialized  ErrorCode = "E003" // Declared but never defined
	ErrTypeMismatch   ErrorCode = "E004"
	ErrNoAttr         ErrorCode = "E005"
	ErrTypeNotFound   ErrorCode = "E006"
	ErrNoTraitImpl    ErrorCode = "E007"
	ErrNoCandidate    ErrorCode = "E008" // Unresolved projection
	ErrInvalidLiteral ErrorCode = "E009"
	ErrFeature        ErrorCode = "E010" // Not supported yet
	ErrNotAType       ErrorCode = "E011"
	ErrReassign       ErrorCode = "E012" // Constant defined twice
	ErrUnreachable    ErrorCode = "E999" // Gap in an evaluation table

	ErrSyntax ErrorCode = "P001" // Raised by the expression reader, never by checking
)

var codeNames = map[ErrorCode]string{
	ErrNoVar:          "no such variable",
	ErrNotConstExpr:   "not a constant expression",
	ErrUninitialized:  "uninitialized declaration",
	ErrTypeMismatch:   "type mismatch",
	ErrNoAttr:         "no attribute",
	ErrTypeNotFound:   "type not found",
	ErrNoTraitImpl:    "no trait implementation",
	ErrNoCandidate:    "no candidate found",
	ErrInvalidLiteral: "invalid literal",
	ErrFeature:        "feature not supported",
	ErrNotAType:       "not a type",
	ErrReassign:       "constant reassigned",
	ErrUnreachable:    "unreachable",
	ErrSyntax:         "syntax error",
}

func (c ErrorCode) Describe() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return string(c)
}

// DiagnosticError is one failure of the checking core. Only the kind
// and the payload fields are contractual; Error() is for logs.
type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	CausedBy string
	Message  string

	// Kind-specific payload. Unused fields stay empty.
	Name       string
	Expected   string
	Found      string
	Hint       string
	Suggestion string
	Sub        string
	Sup        string
	Func       string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func NewErrorf(code ErrorCode, tok token.Token, format string, args ...any) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", e.Code, e.Code.Describe())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if !e.Token.IsUnknown() {
		fmt.Fprintf(&sb, " at %d:%d", e.Token.Line, e.Token.Column)
	}
	if e.CausedBy != "" {
		fmt.Fprintf(&sb, " in %s", e.CausedBy)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (did you mean %s?)", e.Suggestion)
	}
	if e.Hint != "" {
		fmt.Fprintf(&sb, " hint: %s", e.Hint)
	}
	return sb.String()
}

// In sets the causal scope path.
func (e *DiagnosticError) In(causedBy string) *DiagnosticError {
	e.CausedBy = causedBy
	return e
}
