package diagnostics

import (
	"errors"
	"fmt"
	"strings"
)

// Errors is a collected list of failures. It is returned as a non-nil
// error only when it holds at least one entry.
type Errors []*DiagnosticError

func From(errs ...*DiagnosticError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(e))
	for _, err := range e {
		sb.WriteString("\n\t")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the entries to errors.Is and errors.As.
func (e Errors) Unwrap() []error {
	out := make([]error, len(e))
	for i, err := range e {
		out[i] = err
	}
	return out
}

// AsErrors flattens err into diagnostics. Foreign errors are dropped.
func AsErrors(err error) Errors {
	if err == nil {
		return nil
	}
	var list Errors
	if errors.As(err, &list) {
		return list
	}
	var single *DiagnosticError
	if errors.As(err, &single) {
		return Errors{single}
	}
	return nil
}

// Codes returns the error kinds in order, for tests and tooling.
func Codes(err error) []ErrorCode {
	list := AsErrors(err)
	out := make([]ErrorCode, len(list))
	for i, e := range list {
		out[i] = e.Code
	}
	return out
}

// HasCode reports whether any collected error is of the given kind.
func HasCode(err error, code ErrorCode) bool {
	for _, c := range Codes(err) {
		if c == code {
			return true
		}
	}
	return false
}

// Merge concatenates the diagnostics of several errors.
func Merge(errs ...error) error {
	var out Errors
	for _, err := range errs {
		out = append(out, AsErrors(err)...)
	}
	return From(out...)
}
