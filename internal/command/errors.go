package command

import "errors"

var (
	// ErrUnknownMethod is returned for a command name that is not registered.
	ErrUnknownMethod = errors.New("unknown command")
	// ErrInvalidParams is returned when command params cannot be decoded.
	ErrInvalidParams = errors.New("invalid params")
)
