// Package goerror defines the structured error carried between the auth
// client layers. Every error that reaches the terminal is reduced to a
// user-facing message with Message.
package goerror

import (
	"errors"
	"net/http"
)

// Type classifies errors by who has to act on them.
type Type int

const (
	// TypeServer is a failure of the auth service or the transport. It is
	// the only retryable type.
	TypeServer Type = iota
	// TypeBusiness is a refusal by the auth service or a local gate.
	TypeBusiness
	// TypeValidation is input the user has to correct.
	TypeValidation
)

var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code is a stable identifier for the error cause.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	// CodeConflict includes a request that is already in flight.
	CodeConflict
	// CodeTooManyRequest includes a resend inside the cooldown.
	CodeTooManyRequest
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
)

var codeNames = map[Code]string{
	CodeInvalidFormat:  "ERROR_CODE_INVALID_FORMAT",
	CodeInvalidInput:   "ERROR_CODE_INVALID_INPUT",
	CodeNotFound:       "ERROR_CODE_NOT_FOUND",
	CodeConflict:       "ERROR_CODE_CONFLICT",
	CodeTooManyRequest: "ERROR_CODE_TOO_MANY_REQUESTS",
	CodeUnauthorized:   "ERROR_CODE_UNAUTHORIZED",
	CodeForbidden:      "ERROR_CODE_FORBIDDEN",
	CodeTimeout:        "ERROR_CODE_TIMEOUT",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "ERROR_CODE_INTERNAL"
}

// statusCodes maps auth service statuses; anything missing is a server error.
var statusCodes = map[int]struct {
	typ  Type
	code Code
}{
	http.StatusBadRequest:          {TypeValidation, CodeInvalidFormat},
	http.StatusUnprocessableEntity: {TypeValidation, CodeInvalidInput},
	http.StatusUnauthorized:        {TypeBusiness, CodeUnauthorized},
	http.StatusForbidden:           {TypeBusiness, CodeForbidden},
	http.StatusNotFound:            {TypeBusiness, CodeNotFound},
	http.StatusConflict:            {TypeBusiness, CodeConflict},
	http.StatusTooManyRequests:     {TypeBusiness, CodeTooManyRequest},
	http.StatusRequestTimeout:      {TypeServer, CodeTimeout},
	http.StatusGatewayTimeout:      {TypeServer, CodeTimeout},
}

// Error pairs an optional cause with the message shown to the user.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.errType == TypeValidation:
		return "Validation violation"
	case e.errType == TypeBusiness:
		return "Request refused"
	default:
		return "Internal error"
	}
}

// Msg returns the user-facing message, which may be empty.
func (e *Error) Msg() string { return e.msg }

func (e *Error) Type() Type { return e.errType }

func (e *Error) Code() Code { return e.code }

func (e *Error) Unwrap() error { return e.err }

// NewServer creates a server-type error. An empty msg becomes a generic one.
func NewServer(err error, msg string) error {
	if msg == "" {
		msg = "Internal server error"
	}
	return &Error{err: err, msg: msg, errType: TypeServer, code: CodeInternal}
}

func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewBusinessCause is NewBusiness with a cause that errors.Is can match, so a
// server-supplied message can travel together with a domain sentinel.
func NewBusinessCause(cause error, msg string, code Code) error {
	return &Error{err: cause, msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput wraps a validator failure. Per-field messages are taken
// from err when it exposes Values() map[string]string.
func NewInvalidInput(err error) error {
	e := &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}

	var fv interface{ Values() map[string]string }
	if errors.As(err, &fv) {
		e.fields = fv.Values()
	}

	return e
}

// FromStatus builds the error for a non-2xx response of the auth service.
func FromStatus(status int, msg string) error {
	m, ok := statusCodes[status]
	if !ok {
		return &Error{msg: msg, errType: TypeServer, code: CodeInternal}
	}
	return &Error{msg: msg, errType: m.typ, code: m.code}
}

// Message returns the text to show for err. Validation errors list the
// first field message when there is one.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	if e.errType == TypeValidation && len(e.fields) > 0 {
		return firstField(e.fields)
	}

	return e.Error()
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.code == code
}

// IsServer reports whether err is a server-type *Error or a plain error,
// i.e. something that may succeed when retried.
func IsServer(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return err != nil
	}
	return e.errType == TypeServer
}

// WithFallback guarantees err carries a user-facing message. An *Error that
// already has one is returned as is; an *Error without one gets msg and keeps
// its type and code; any other error becomes a server error with msg.
func WithFallback(err error, msg string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if !errors.As(err, &e) {
		return NewServer(err, msg)
	}
	if e.msg != "" {
		return err
	}

	return &Error{err: err, msg: msg, errType: e.errType, code: e.code, fields: e.fields}
}
