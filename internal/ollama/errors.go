package ollama

import (
	"errors"
	"fmt"
)

// ErrorKind classifies inference failures.
type ErrorKind string

const (
	// KindTransport means the server could not be reached.
	KindTransport ErrorKind = "transport"
	// KindAPI means the server answered with a non-success status.
	KindAPI ErrorKind = "api"
	// KindParse means a success body did not have the expected shape.
	KindParse ErrorKind = "parse"
)

// Error is returned by Client for every failed call.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Status     string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oErr *Error
	return errors.As(err, &oErr) && oErr.Kind == kind
}

func transportError(message string, cause error) *Error {
	return &Error{Kind: KindTransport, Message: message, Cause: cause}
}

func apiError(statusCode int, status string) *Error {
	return &Error{
		Kind:       KindAPI,
		Message:    fmt.Sprintf("ollama API error: %s", status),
		StatusCode: statusCode,
		Status:     status,
	}
}

func parseError(cause error) *Error {
	return &Error{Kind: KindParse, Message: "failed to parse response", Cause: cause}
}
