package attendance

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrClientNotFound      = errors.New("client not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAlreadyCheckedIn    = errors.New("client already has an open session")
	ErrAlreadyClosed       = errors.New("attendance log already closed")
	ErrNotFound            = errors.New("attendance log not found")
)
