// Package mongo implements mfa.Storage on MongoDB. Conditional updates
// filter on the stored version field, giving the same optimistic
// concurrency contract as the PostgreSQL store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/mfakit/pkg/envelope"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

// CollectionName is the default collection for enrollment documents.
const CollectionName = "mfa_enrollments"

// Store persists enrollments in a MongoDB collection keyed by user ID.
type Store struct {
	collection *mongo.Collection
}

// NewStore wraps a collection. Use db.Collection(CollectionName) unless a
// deployment needs its own naming.
func NewStore(collection *mongo.Collection) *Store {
	return &Store{collection: collection}
}

// enrollmentDoc is the BSON shape of an enrollment. User IDs are stored as
// their canonical string form so documents stay readable in shell tooling.
type enrollmentDoc struct {
	UserID           string     `bson:"_id"`
	Method           string     `bson:"method"`
	Ciphertext       []byte     `bson:"secret_ciphertext"`
	WrappedKey       []byte     `bson:"secret_wrapped_key"`
	Algorithm        string     `bson:"secret_algorithm"`
	BackupCodeHashes []string   `bson:"backup_code_hashes"`
	IsActive         bool       `bson:"is_active"`
	Version          int64      `bson:"version"`
	CreatedAt        time.Time  `bson:"created_at"`
	LastVerifiedAt   *time.Time `bson:"last_verified_at,omitempty"`
}

func toDoc(e *mfa.Enrollment) enrollmentDoc {
	doc := enrollmentDoc{
		UserID:           e.UserID.String(),
		Method:           string(e.Method),
		Ciphertext:       e.Secret.Ciphertext,
		WrappedKey:       e.Secret.WrappedKey,
		Algorithm:        e.Secret.Algorithm,
		BackupCodeHashes: e.BackupCodeHashes,
		IsActive:         e.IsActive,
		Version:          e.Version,
		CreatedAt:        e.CreatedAt,
	}
	if !e.LastVerifiedAt.IsZero() {
		t := e.LastVerifiedAt
		doc.LastVerifiedAt = &t
	}
	return doc
}

func fromDoc(doc enrollmentDoc) (*mfa.Enrollment, error) {
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored user id: %w", err)
	}

	enrollment := &mfa.Enrollment{
		UserID: userID,
		Method: mfa.Method(doc.Method),
		Secret: envelope.EncryptedSecret{
			Ciphertext: doc.Ciphertext,
			WrappedKey: doc.WrappedKey,
			Algorithm:  doc.Algorithm,
		},
		BackupCodeHashes: doc.BackupCodeHashes,
		IsActive:         doc.IsActive,
		Version:          doc.Version,
		CreatedAt:        doc.CreatedAt,
	}
	if doc.LastVerifiedAt != nil {
		enrollment.LastVerifiedAt = *doc.LastVerifiedAt
	}
	return enrollment, nil
}

func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*mfa.Enrollment, error) {
	var doc enrollmentDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mfa.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to query enrollment: %w", err)
	}
	return fromDoc(doc)
}

func (s *Store) Insert(ctx context.Context, enrollment *mfa.Enrollment) error {
	doc := toDoc(enrollment)
	doc.Version = 1

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return mfa.ErrEnrollmentExists
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}

	enrollment.Version = 1
	return nil
}

func (s *Store) Update(ctx context.Context, enrollment *mfa.Enrollment) error {
	doc := toDoc(enrollment)
	doc.Version = enrollment.Version + 1

	result, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": enrollment.UserID.String(), "version": enrollment.Version},
		doc,
	)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	if result.MatchedCount == 0 {
		count, err := s.collection.CountDocuments(ctx, bson.M{"_id": enrollment.UserID.String()})
		if err != nil {
			return fmt.Errorf("failed to check enrollment existence: %w", err)
		}
		if count == 0 {
			return mfa.ErrEnrollmentNotFound
		}
		return mfa.ErrVersionConflict
	}

	enrollment.Version++
	return nil
}

func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": userID.String()})
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if result.DeletedCount == 0 {
		return mfa.ErrEnrollmentNotFound
	}
	return nil
}

var _ mfa.Storage = (*Store)(nil)
