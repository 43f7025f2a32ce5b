package response

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindMalformed:
		return "malformed"
	default:
		return "internal"
	}
}

// Error is the only error type handlers return to the client. Fields
// turn it into a fail envelope; Message alone into an error envelope.
// Err is the private cause and never leaves the process.
type Error struct {
	Kind    Kind
	Fields  map[string]string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Fields)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) envelope() (int, Envelope) {
	if e.Kind == KindInternal {
		return http.StatusInternalServerError, Envelope{Status: StatusError, Message: internalMessage}
	}
	if len(e.Fields) > 0 {
		return http.StatusOK, Envelope{Status: StatusFail, Data: e.Fields}
	}
	code := http.StatusBadRequest
	if e.Kind == KindNotFound {
		code = http.StatusNotFound
	}
	return code, Envelope{Status: StatusError, Message: e.Message}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

func Conflict(fields map[string]string) *Error {
	return &Error{Kind: KindConflict, Fields: fields}
}

func NotFound(field, message string) *Error {
	return &Error{Kind: KindNotFound, Fields: map[string]string{field: message}}
}

// RouteNotFound is the 404 error for unmatched paths.
func RouteNotFound() *Error {
	return &Error{Kind: KindNotFound, Message: "the requested resource was not found"}
}

func Unauthorized(field, message string) *Error {
	return &Error{Kind: KindUnauthorized, Fields: map[string]string{field: message}}
}

func Unauthenticated() *Error {
	return Unauthorized("authentication", "user is not authenticated")
}

// InvalidField reports a malformed path or form value as a fail.
func InvalidField(field, message string) *Error {
	return &Error{Kind: KindMalformed, Fields: map[string]string{field: message}}
}

func Malformed(message string) *Error {
	return &Error{Kind: KindMalformed, Message: message}
}

func Internal(err error) *Error {
	if err == nil {
		err = fmt.Errorf("unspecified internal error")
	}
	return &Error{Kind: KindInternal, Err: err}
}
