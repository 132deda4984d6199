// Package backupcode issues and consumes single-use recovery codes that
// back up a primary TOTP factor.
//
// Codes are short hexadecimal strings generated from the platform random
// source. The plaintext is shown to the user exactly once at generation
// time; storage keeps only a SHA-256 hash per code. Consume removes the
// matching hash from the stored set so a code can never be redeemed twice.
//
// All functions are pure. Persisting the shrunk hash set atomically is the
// caller's responsibility.
package backupcode
