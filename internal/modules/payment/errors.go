package payment

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("payment or registration not found")

	// ErrNotPayable means the registration is free or already resolved, so no
	// order may be created for it.
	ErrNotPayable = errors.New("registration has nothing to pay")

	// ErrAmountMismatch is kept distinct from plain validation: a well-formed
	// amount that disagrees with the configured price can indicate tampering.
	ErrAmountMismatch = errors.New("amount does not match event price")

	// ErrInvalidSignature is a security event, not just a bad request.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrRegistrationMismatch means the callback names a registration the
	// order was never opened for. Nothing transitions on it.
	ErrRegistrationMismatch = errors.New("registration not linked to order")

	// ErrGateway wraps provider-side rejections with the provider's own
	// diagnostic detail preserved for operators.
	ErrGateway = errors.New("payment gateway error")
)
