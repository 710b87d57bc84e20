package service

import (
	"errors"
	"fmt"
)

// Taksonomi kegagalan domain. Controller memetakan kind → HTTP status;
// engine tidak pernah mengembalikan error generic untuk pelanggaran aturan.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidTransition
	KindPreconditionUnmet
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidTransition:
		return "INVALID_TRANSITION"
	case KindPreconditionUnmet:
		return "PRECONDITION_UNMET"
	case KindConflict:
		return "CONCURRENCY_CONFLICT"
	}
	return "UNKNOWN"
}

type WorkflowError struct {
	Kind    ErrorKind
	Message string
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errNotFound(format string, args ...any) *WorkflowError {
	return &WorkflowError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func errInvalidTransition(format string, args ...any) *WorkflowError {
	return &WorkflowError{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func errPrecondition(format string, args ...any) *WorkflowError {
	return &WorkflowError{Kind: KindPreconditionUnmet, Message: fmt.Sprintf(format, args...)}
}

// AsWorkflowError meng-unwrap error transaksi menjadi *WorkflowError (atau nil).
// Pakai errors.As supaya pembungkusan %w di call site tidak memutus pemetaan kind.
func AsWorkflowError(err error) *WorkflowError {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we
	}
	return nil
}
