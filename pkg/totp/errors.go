package totp

import "errors"

var (
	ErrEntropyUnavailable = errors.New("system random source unavailable")
	ErrInvalidSecret      = errors.New("invalid TOTP secret")
	ErrInvalidCode        = errors.New("invalid code format")
	ErrMissingAccountName = errors.New("missing account name")
	ErrMissingIssuer      = errors.New("missing issuer")
)
