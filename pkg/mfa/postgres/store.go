// Package postgres implements mfa.Storage on PostgreSQL via pgx, using a
// version column for the conditional updates the service relies on to
// serialize backup-code consumption.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store persists enrollments in the mfa_enrollments table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		_ = db.Close()
	}(db)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*mfa.Enrollment, error) {
	const query = `
		SELECT user_id, method, secret_ciphertext, secret_wrapped_key, secret_algorithm,
		       backup_code_hashes, is_active, version, created_at, last_verified_at
		FROM mfa_enrollments
		WHERE user_id = $1`

	var (
		enrollment     mfa.Enrollment
		method         string
		lastVerifiedAt *time.Time
	)
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&enrollment.UserID,
		&method,
		&enrollment.Secret.Ciphertext,
		&enrollment.Secret.WrappedKey,
		&enrollment.Secret.Algorithm,
		&enrollment.BackupCodeHashes,
		&enrollment.IsActive,
		&enrollment.Version,
		&enrollment.CreatedAt,
		&lastVerifiedAt,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, mfa.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to query enrollment: %w", err)
	}

	enrollment.Method = mfa.Method(method)
	if lastVerifiedAt != nil {
		enrollment.LastVerifiedAt = *lastVerifiedAt
	}
	return &enrollment, nil
}

func (s *Store) Insert(ctx context.Context, enrollment *mfa.Enrollment) error {
	const query = `
		INSERT INTO mfa_enrollments
			(user_id, method, secret_ciphertext, secret_wrapped_key, secret_algorithm,
			 backup_code_hashes, is_active, version, created_at, last_verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		enrollment.UserID,
		string(enrollment.Method),
		enrollment.Secret.Ciphertext,
		enrollment.Secret.WrappedKey,
		enrollment.Secret.Algorithm,
		enrollment.BackupCodeHashes,
		enrollment.IsActive,
		enrollment.CreatedAt,
		nullableTime(enrollment.LastVerifiedAt),
	)
	if err != nil {
		if pg.IsDuplicateKey(err) {
			return mfa.ErrEnrollmentExists
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}

	enrollment.Version = 1
	return nil
}

func (s *Store) Update(ctx context.Context, enrollment *mfa.Enrollment) error {
	const query = `
		UPDATE mfa_enrollments
		SET method = $3,
		    secret_ciphertext = $4,
		    secret_wrapped_key = $5,
		    secret_algorithm = $6,
		    backup_code_hashes = $7,
		    is_active = $8,
		    last_verified_at = $9,
		    version = version + 1
		WHERE user_id = $1 AND version = $2`

	tag, err := s.pool.Exec(ctx, query,
		enrollment.UserID,
		enrollment.Version,
		string(enrollment.Method),
		enrollment.Secret.Ciphertext,
		enrollment.Secret.WrappedKey,
		enrollment.Secret.Algorithm,
		enrollment.BackupCodeHashes,
		enrollment.IsActive,
		nullableTime(enrollment.LastVerifiedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a lost race from a missing row for the caller.
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM mfa_enrollments WHERE user_id = $1)`,
			enrollment.UserID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check enrollment existence: %w", err)
		}
		if !exists {
			return mfa.ErrEnrollmentNotFound
		}
		return mfa.ErrVersionConflict
	}

	enrollment.Version++
	return nil
}

func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM mfa_enrollments WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return mfa.ErrEnrollmentNotFound
	}
	return nil
}

// nullableTime maps the zero time to SQL NULL so "never verified" stays
// distinguishable in the schema.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

var _ mfa.Storage = (*Store)(nil)
