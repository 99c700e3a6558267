package appointment

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrSlotInvalid    = errors.New("start time not on the slot grid")
	ErrSlotTaken      = errors.New("slot already booked")
	ErrClientNotFound = errors.New("client not found")
	ErrNotFound       = errors.New("appointment not found")
)
