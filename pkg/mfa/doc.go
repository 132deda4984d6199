// Package mfa orchestrates multi-factor authentication enrollment and
// verification on top of the totp and backupcode packages.
//
// The Service owns the per-user enrollment lifecycle: setup issues a fresh
// TOTP secret (returned once, stored only encrypted), a provisioning URI
// with its QR rendering, and a batch of single-use backup codes; verify
// checks a submitted code against the TOTP engine first and falls back to
// backup-code consumption; disable tears the enrollment down; regenerate
// replaces the backup-code batch.
//
// Collaborators are injected: Storage persists enrollment records with
// version-conditional updates, envelope.Encryptor protects secrets at rest,
// and an optional AttemptRecorder forwards failed-verification signals to
// an external lockout policy.
//
// Concurrency: the enrollment record is the unit of contention. Writes go
// through Storage.Update keyed on the record version, so two concurrent
// submissions of the same backup code cannot both succeed — the loser gets
// ErrVersionConflict and should retry the whole operation.
//
// Verification failures of any kind must be presented to end users as a
// single "invalid code" message; the distinct errors exist for internal
// telemetry only.
package mfa
