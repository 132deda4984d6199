// Package totp implements the time-based one-time password algorithm
// (RFC 6238) on top of HMAC-based dynamic truncation (RFC 4226), together
// with Base32 secret generation and otpauth:// provisioning URIs for
// authenticator apps.
//
// All functions are pure and safe for concurrent use. Codes are 6 decimal
// digits over 30-second steps with HMAC-SHA1, the parameters virtually all
// authenticator applications assume.
//
// Verification accepts the code for the current step and the immediately
// preceding one. The backward-only window absorbs clock drift and network
// latency without widening the forward-guessing surface. Candidate codes
// are compared in constant time.
//
// The minimal enrollment flow:
//
//	secret, _ := totp.GenerateSecret()
//	uri, _ := totp.ProvisioningURI(secret, "alice@example.com", "Acme")
//	// render uri as a QR code, then later:
//	ok, _ := totp.ValidateCode(secret, userInput)
//
// Malformed input is reported as an error (ErrInvalidSecret, ErrInvalidCode)
// so callers can distinguish it from a plain mismatch in telemetry. Neither
// distinction should ever reach the end user.
package totp
