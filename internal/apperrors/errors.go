package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidParentReference indicates that a chosen parent account id does not
// resolve in the currently loaded record set. It blocks submission before any
// network call is made.
var ErrInvalidParentReference = errors.New("invalid parent account reference")

// ErrMalformedResponse indicates that the remote API answered but the payload
// did not have the expected shape (e.g. the account list was not an array).
var ErrMalformedResponse = errors.New("malformed response from server")

// ErrNetwork is matched by every NetworkError.
var ErrNetwork = errors.New("network error")

// ErrServerRejection is matched by every ServerRejectionError.
var ErrServerRejection = errors.New("server rejected the request")

// ErrViewClosed indicates that an operation targeted a view that was torn down.
var ErrViewClosed = errors.New("view closed")

// NetworkError reports that a remote call did not reach the server or no
// response arrived.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrNetwork.Error(), e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) match any NetworkError.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ServerRejectionError reports a non-success answer from the remote API.
// Message is shown to the operator verbatim.
type ServerRejectionError struct {
	StatusCode int
	Message    string
}

func (e *ServerRejectionError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", ErrServerRejection.Error(), e.StatusCode, msg)
}

// Is lets errors.Is(err, ErrServerRejection) match any ServerRejectionError.
func (e *ServerRejectionError) Is(target error) bool { return target == ErrServerRejection }

// NewNetworkError wraps err as a NetworkError for the named operation.
func NewNetworkError(operation string, err error) error {
	return &NetworkError{Operation: operation, Err: err}
}

// NewServerRejection builds a ServerRejectionError.
func NewServerRejection(statusCode int, message string) error {
	return &ServerRejectionError{StatusCode: statusCode, Message: message}
}

// AppError carries an HTTP status alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// UserMessage converts an error into the text of a user-visible notification.
// Server rejections are surfaced verbatim; everything else gets a fixed notice.
func UserMessage(err error) string {
	var rejection *ServerRejectionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rejection):
		if msg := strings.TrimSpace(rejection.Message); msg != "" {
			return msg
		}
		return "The server rejected the request."
	case errors.Is(err, ErrNetwork):
		return "Unable to reach the server. Check your connection and try again."
	case errors.Is(err, ErrInvalidParentReference):
		return "The selected parent account no longer exists. Reload and choose another parent."
	case errors.Is(err, ErrMalformedResponse):
		return "The server returned an unexpected response. Showing an empty chart of accounts."
	case errors.Is(err, ErrViewClosed):
		return "This view has been closed."
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
