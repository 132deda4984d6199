package mfa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/backupcode"
	"github.com/dmitrymomot/mfakit/pkg/envelope"
	"github.com/dmitrymomot/mfakit/pkg/qrcode"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

// Service defines the MFA orchestration operations.
type Service interface {
	// Setup enrolls a user, returning the one-time plaintext secret,
	// provisioning URI, QR rendering, and backup codes.
	Setup(ctx context.Context, userID uuid.UUID, accountName string) (*SetupResult, error)
	// Verify checks a submitted code against the TOTP factor, falling
	// back to backup-code consumption. sourceAddr feeds the external
	// lockout signal on failure.
	Verify(ctx context.Context, userID uuid.UUID, code, sourceAddr string) (*VerifyResult, error)
	// Status summarizes the user's MFA state.
	Status(ctx context.Context, userID uuid.UUID) (Status, error)
	// Disable removes the user's active enrollment.
	Disable(ctx context.Context, userID uuid.UUID) error
	// RegenerateBackupCodes atomically replaces the backup-code batch
	// and returns the new plaintext codes.
	RegenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Storage persists enrollment records keyed by user ID.
//
// Update must be conditional on Enrollment.Version: it fails with
// ErrVersionConflict when the stored version differs, and bumps the version
// on success (both in storage and on the passed record). Insert fails with
// ErrEnrollmentExists for a duplicate user; Get and Delete fail with
// ErrEnrollmentNotFound.
type Storage interface {
	Get(ctx context.Context, userID uuid.UUID) (*Enrollment, error)
	Insert(ctx context.Context, enrollment *Enrollment) error
	Update(ctx context.Context, enrollment *Enrollment) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// AttemptRecorder receives failed-verification signals for an external
// rate-limiting or lockout policy. Recorder failures are logged by the
// service and never affect the verification outcome.
type AttemptRecorder interface {
	RecordFailure(ctx context.Context, userID uuid.UUID, sourceAddr string) error
}

type service struct {
	storage         Storage
	encryptor       envelope.Encryptor
	recorder        AttemptRecorder
	logger          *slog.Logger
	issuer          string
	backupCodeCount int
	qrCodeSize      int
	now             func() time.Time
}

// Option configures the service during construction.
type Option func(*service)

// WithLogger sets the structured logger. Log lines never contain secrets
// or submitted codes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithIssuer sets the issuer shown in authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *service) {
		s.issuer = issuer
	}
}

// WithAttemptRecorder wires the external lockout signal.
func WithAttemptRecorder(recorder AttemptRecorder) Option {
	return func(s *service) {
		s.recorder = recorder
	}
}

// WithBackupCodeCount sets the number of backup codes per batch.
func WithBackupCodeCount(count int) Option {
	return func(s *service) {
		s.backupCodeCount = count
	}
}

// WithQRCodeSize sets the provisioning QR image edge length in pixels.
func WithQRCodeSize(size int) Option {
	return func(s *service) {
		s.qrCodeSize = size
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New constructs the MFA service with the given collaborators.
func New(storage Storage, encryptor envelope.Encryptor, opts ...Option) Service {
	s := &service{
		storage:         storage,
		encryptor:       encryptor,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		issuer:          "mfakit",
		backupCodeCount: backupcode.DefaultCount,
		qrCodeSize:      qrcode.DefaultSize,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Setup(ctx context.Context, userID uuid.UUID, accountName string) (*SetupResult, error) {
	existing, err := s.storage.Get(ctx, userID)
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, ErrAlreadyEnrolled
		}
		// Inactive leftover from an abandoned enrollment; replace it below.
	case errors.Is(err, ErrEnrollmentNotFound):
		existing = nil
	default:
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	secret, err := totp.GenerateSecret()
	if err != nil {
		return nil, err
	}

	// The record is only written after the secret is sealed; an encryption
	// failure aborts with no partial state.
	sealed, err := s.encryptor.Encrypt(ctx, secret)
	if err != nil {
		return nil, err
	}

	codes, err := backupcode.Generate(s.backupCodeCount)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = backupcode.Hash(code)
	}

	uri, err := totp.ProvisioningURI(secret, accountName, s.issuer)
	if err != nil {
		return nil, err
	}
	qr, err := qrcode.Render(uri, s.qrCodeSize)
	if err != nil {
		return nil, err
	}

	enrollment := &Enrollment{
		UserID:           userID,
		Method:           MethodTOTP,
		Secret:           sealed,
		BackupCodeHashes: hashes,
		IsActive:         true,
		CreatedAt:        s.now(),
	}

	if existing != nil {
		enrollment.Version = existing.Version
		err = s.storage.Update(ctx, enrollment)
	} else {
		err = s.storage.Insert(ctx, enrollment)
		if errors.Is(err, ErrEnrollmentExists) {
			return nil, ErrAlreadyEnrolled
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist enrollment: %w", err)
	}

	s.logger.InfoContext(ctx, "mfa enrollment created",
		"user_id", userID,
		"backup_codes", len(codes),
	)

	return &SetupResult{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCode:          qr,
		BackupCodes:     codes,
	}, nil
}

func (s *service) Verify(ctx context.Context, userID uuid.UUID, code, sourceAddr string) (*VerifyResult, error) {
	enrollment, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if !enrollment.IsActive {
		return nil, ErrNotActive
	}

	// The plaintext secret exists only for the scope of this call.
	secret, err := s.encryptor.Decrypt(ctx, enrollment.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt enrollment secret: %w", err)
	}

	totpOK, err := totp.ValidateCodeAt(secret, code, s.now())
	if err != nil && !errors.Is(err, totp.ErrInvalidCode) {
		// A stored secret that no longer decodes is data corruption, not
		// a bad submission.
		return nil, fmt.Errorf("failed to validate code: %w", err)
	}

	if totpOK {
		enrollment.LastVerifiedAt = s.now()
		if err := s.storage.Update(ctx, enrollment); err != nil {
			// The code itself was valid; losing the timestamp write to a
			// concurrent update is harmless.
			s.logger.WarnContext(ctx, "failed to record verification time",
				"user_id", userID, "error", err)
		}
		s.logger.InfoContext(ctx, "mfa verification succeeded",
			"user_id", userID, "method", MethodTOTP)
		return &VerifyResult{Method: MethodTOTP}, nil
	}

	// Fall back to backup codes. Consuming one must be serialized per
	// user: the version-conditional update guarantees two concurrent
	// submissions of the same code cannot both succeed.
	if consumed, remaining := backupcode.Consume(enrollment.BackupCodeHashes, code); consumed {
		enrollment.BackupCodeHashes = remaining
		enrollment.LastVerifiedAt = s.now()
		if err := s.storage.Update(ctx, enrollment); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return nil, ErrVersionConflict
			}
			return nil, fmt.Errorf("failed to consume backup code: %w", err)
		}
		s.logger.InfoContext(ctx, "mfa verification succeeded",
			"user_id", userID, "method", MethodBackupCode,
			"backup_codes_remaining", len(remaining))
		return &VerifyResult{Method: MethodBackupCode}, nil
	}

	s.recordFailure(ctx, userID, sourceAddr)
	s.logger.InfoContext(ctx, "mfa verification failed",
		"user_id", userID,
		"malformed", errors.Is(err, totp.ErrInvalidCode),
	)
	return nil, ErrInvalidCode
}

func (s *service) Status(ctx context.Context, userID uuid.UUID) (Status, error) {
	enrollment, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if !enrollment.IsActive {
		return Status{}, nil
	}

	return Status{
		Enabled:              true,
		Method:               enrollment.Method,
		BackupCodesRemaining: len(enrollment.BackupCodeHashes),
	}, nil
}

func (s *service) Disable(ctx context.Context, userID uuid.UUID) error {
	enrollment, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("failed to load enrollment: %w", err)
	}
	if !enrollment.IsActive {
		return ErrNotEnrolled
	}

	if err := s.storage.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			// Someone else disabled it first; the end state is the same.
			return nil
		}
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	s.logger.InfoContext(ctx, "mfa disabled", "user_id", userID)
	return nil
}

func (s *service) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	enrollment, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEnrollmentNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if !enrollment.IsActive {
		return nil, ErrNotEnrolled
	}

	codes, err := backupcode.Generate(s.backupCodeCount)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = backupcode.Hash(code)
	}

	enrollment.BackupCodeHashes = hashes
	if err := s.storage.Update(ctx, enrollment); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to replace backup codes: %w", err)
	}

	s.logger.InfoContext(ctx, "backup codes regenerated",
		"user_id", userID, "backup_codes", len(codes))
	return codes, nil
}

func (s *service) recordFailure(ctx context.Context, userID uuid.UUID, sourceAddr string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordFailure(ctx, userID, sourceAddr); err != nil {
		s.logger.ErrorContext(ctx, "failed to record verification failure",
			"user_id", userID, "error", err)
	}
}
