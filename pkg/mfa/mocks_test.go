package mfa

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/mfakit/pkg/envelope"
)

// MockStorage is a mock implementation of Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, userID uuid.UUID) (*Enrollment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Enrollment), args.Error(1)
}

func (m *MockStorage) Insert(ctx context.Context, enrollment *Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockStorage) Update(ctx context.Context, enrollment *Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockEncryptor is a mock implementation of envelope.Encryptor.
type MockEncryptor struct {
	mock.Mock
}

func (m *MockEncryptor) Encrypt(ctx context.Context, plaintext string) (envelope.EncryptedSecret, error) {
	args := m.Called(ctx, plaintext)
	return args.Get(0).(envelope.EncryptedSecret), args.Error(1)
}

func (m *MockEncryptor) Decrypt(ctx context.Context, sealed envelope.EncryptedSecret) (string, error) {
	args := m.Called(ctx, sealed)
	return args.String(0), args.Error(1)
}

// MockAttemptRecorder is a mock implementation of AttemptRecorder.
type MockAttemptRecorder struct {
	mock.Mock
}

func (m *MockAttemptRecorder) RecordFailure(ctx context.Context, userID uuid.UUID, sourceAddr string) error {
	args := m.Called(ctx, userID, sourceAddr)
	return args.Error(0)
}
