// Package apierror defines the error taxonomy surfaced to widget callers.
// Each error carries a stable Kind so tooling and tests can match on it
// without parsing messages.
package apierror

import (
	"errors"
	"fmt"
)

// Kind identifies a class of API error.
type Kind string

const (
	KindInvalidStepType            Kind = "InvalidStepType"
	KindStepOutOfRange             Kind = "StepOutOfRange"
	KindUnsupportedLabelVisibility Kind = "UnsupportedLabelVisibility"
	KindIdentityCollision          Kind = "IdentityCollision"
)

// Error is a caller-facing validation failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Is matches any *Error with the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || other == nil {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidStepType            = &Error{Kind: KindInvalidStepType, Message: "invalid step type"}
	ErrStepOutOfRange             = &Error{Kind: KindStepOutOfRange, Message: "step out of range"}
	ErrUnsupportedLabelVisibility = &Error{Kind: KindUnsupportedLabelVisibility, Message: "unsupported label visibility"}
	ErrIdentityCollision          = &Error{Kind: KindIdentityCollision, Message: "identity collision"}
)

// New builds an Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.Kind, true
	}
	return "", false
}
