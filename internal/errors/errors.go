package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindDependency
)

// Error is a classified application error. Message is safe to show to clients
// for every kind except Internal and Dependency.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrUnauthenticated is returned when a request carries no resolved identity.
	ErrUnauthenticated = &Error{Kind: KindAuthentication, Message: "Unauthorized"}
	// ErrInvalidCredentials is returned for any failed login, whatever the cause.
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "Invalid credentials"}
	// ErrForbidden is returned when the identity lacks the required role or ownership.
	ErrForbidden = &Error{Kind: KindAuthorization, Message: "Forbidden"}
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "Not found"}
	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = &Error{Kind: KindConflict, Message: "Email already registered"}
)

// Validation reports malformed or missing input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound reports a missing resource with a specific message.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: ErrNotFound}
}

// Dependency wraps a data-store or cache failure.
func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Message: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

const serverErrorMessage = "Server error"

// StatusCode maps an error kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps application errors to HTTP errors. Internal details of
// dependency and unclassified errors never reach the message.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: serverErrorMessage}
	}
	status := StatusCode(e.Kind)
	if status >= http.StatusInternalServerError {
		return &HTTPError{StatusCode: status, Message: serverErrorMessage}
	}
	return &HTTPError{StatusCode: status, Message: e.Message}
}
