package mfa

import "errors"

// Service errors.
var (
	ErrAlreadyEnrolled = errors.New("user already has an active MFA enrollment")
	ErrNotEnrolled     = errors.New("user has no MFA enrollment")
	ErrNotActive       = errors.New("MFA enrollment is not active")
	ErrInvalidCode     = errors.New("invalid MFA code")
)

// Storage errors. Implementations must return these sentinels (possibly
// wrapped) so the service can translate them.
var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrEnrollmentExists   = errors.New("enrollment already exists")
	ErrVersionConflict    = errors.New("enrollment was modified concurrently")
)
