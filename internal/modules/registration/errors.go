package registration

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrEventNotFound = errors.New("event not found")
	ErrEventInactive = errors.New("event not active")
	ErrEventFull     = errors.New("event capacity exceeded")
	ErrNotFound      = errors.New("registration not found")
)
