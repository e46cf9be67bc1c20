package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable classification of a failure. Every error
// returned by a service operation carries exactly one Kind; the HTTP adapter
// maps Kind to a status code by exhaustive match.
type Kind string

const (
	KindInvalidArgument    Kind = "INVALID_ARGUMENT"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindFailedPrecondition Kind = "FAILED_PRECONDITION"
	KindUnavailable        Kind = "UNAVAILABLE"
	KindInternal           Kind = "INTERNAL"
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindFailedPrecondition:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

type DomainError interface {
	error
	Code() string
	Kind() Kind
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithMessagef(format string, args ...any) DomainError
}

type domainError struct {
	code    string
	kind    Kind
	message string
	cause   error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Kind() Kind {
	return e.kind
}

func (e *domainError) HTTPStatus() int {
	return e.kind.HTTPStatus()
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:    e.code,
		kind:    e.kind,
		message: e.message,
		cause:   cause,
	}
}

func (e *domainError) WithMessagef(format string, args ...any) DomainError {
	return &domainError{
		code:    e.code,
		kind:    e.kind,
		message: fmt.Sprintf(format, args...),
		cause:   e.cause,
	}
}

// Is makes errors.Is match any derived copy (WithCause, WithMessagef)
// against the original sentinel.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func NewDomainError(code string, kind Kind, message string) DomainError {
	return &domainError{
		code:    code,
		kind:    kind,
		message: message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if de, ok := AsDomainError(err); ok {
		return de.Kind()
	}
	return KindInternal
}
