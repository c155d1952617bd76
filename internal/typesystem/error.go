package typesystem

import "fmt"

// UnifyError indicates that sub cannot stand where sup is expected.
type UnifyError struct {
	Sub string
	Sup string
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.Sub, e.Sup)
}

func NewUnifyError(sub, sup fmt.Stringer) *UnifyError {
	return &UnifyError{Sub: sub.String(), Sup: sup.String()}
}
