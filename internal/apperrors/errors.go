package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthorized         Kind = "unauthorized"
	KindQuotaExceeded        Kind = "quota_exceeded"
	KindInvalidParameter     Kind = "invalid_parameter"
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindPayloadTooLarge      Kind = "payload_too_large"
	KindOutOfBounds          Kind = "out_of_bounds"
	KindUnsupportedFormat    Kind = "unsupported_format"
	KindDecode               Kind = "decode"
	KindEncode               Kind = "encode"
	KindNotFound             Kind = "not_found"
	KindTimeout              Kind = "timeout"
	KindInternal             Kind = "internal"
)

const internalMessage = "Internal server error"

type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Field names the offending request parameter, if any.
	Field string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// Wrap attaches a kind to err. An error that already carries a kind is returned unchanged.
func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

// InvalidField reports a request parameter that failed validation.
func InvalidField(op, field, message string) *Error {
	return &Error{
		Kind:    KindInvalidParameter,
		Op:      op,
		Message: message,
		Field:   field,
	}
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of the first typed error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindInternal
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindQuotaExceeded:
		return http.StatusTooManyRequests
	case KindInvalidParameter, KindOutOfBounds, KindUnsupportedFormat:
		return http.StatusBadRequest
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to return to API callers. Internal failures collapse to a
// generic message; codec failures keep their own message but never the underlying cause,
// which may carry storage paths.
func PublicMessage(err error) string {
	var typed *Error
	if !errors.As(err, &typed) || typed.Kind == KindInternal {
		return internalMessage
	}
	if typed.Message == "" {
		return internalMessage
	}
	return typed.Message
}
