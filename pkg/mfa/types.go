package mfa

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/envelope"
)

// Method identifies how a verification was satisfied.
type Method string

const (
	MethodTOTP       Method = "totp"
	MethodBackupCode Method = "backup_code"
)

// Enrollment is the persisted MFA record, at most one per user. The TOTP
// secret only ever appears here in encrypted form; BackupCodeHashes holds
// the unconsumed codes' hashes and shrinks as codes are spent.
type Enrollment struct {
	UserID           uuid.UUID
	Method           Method
	Secret           envelope.EncryptedSecret
	BackupCodeHashes []string
	IsActive         bool
	Version          int64
	CreatedAt        time.Time
	LastVerifiedAt   time.Time // zero until the first successful verification
}

// Status is the caller-visible summary of a user's MFA state.
type Status struct {
	Enabled              bool
	Method               Method
	BackupCodesRemaining int
}

// SetupResult carries the artifacts of a fresh enrollment. Secret and
// BackupCodes are shown to the user exactly once and never recoverable
// afterwards.
type SetupResult struct {
	Secret          string
	ProvisioningURI string
	QRCode          []byte // PNG rendering of ProvisioningURI
	BackupCodes     []string
}

// VerifyResult reports which factor satisfied a verification.
type VerifyResult struct {
	Method Method
}
