package mfa

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage is an in-process Storage implementation. It honors the
// same version-conditional update contract as the database-backed stores,
// which makes it suitable for tests and single-node deployments.
type MemoryStorage struct {
	mu          sync.RWMutex
	enrollments map[uuid.UUID]Enrollment
}

// NewMemoryStorage creates an empty in-memory enrollment store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		enrollments: make(map[uuid.UUID]Enrollment),
	}
}

func (m *MemoryStorage) Get(_ context.Context, userID uuid.UUID) (*Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.enrollments[userID]
	if !ok {
		return nil, ErrEnrollmentNotFound
	}
	enrollment := cloneEnrollment(stored)
	return &enrollment, nil
}

func (m *MemoryStorage) Insert(_ context.Context, enrollment *Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.enrollments[enrollment.UserID]; exists {
		return ErrEnrollmentExists
	}
	enrollment.Version = 1
	m.enrollments[enrollment.UserID] = cloneEnrollment(*enrollment)
	return nil
}

func (m *MemoryStorage) Update(_ context.Context, enrollment *Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.enrollments[enrollment.UserID]
	if !ok {
		return ErrEnrollmentNotFound
	}
	if stored.Version != enrollment.Version {
		return ErrVersionConflict
	}
	enrollment.Version++
	m.enrollments[enrollment.UserID] = cloneEnrollment(*enrollment)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.enrollments[userID]; !ok {
		return ErrEnrollmentNotFound
	}
	delete(m.enrollments, userID)
	return nil
}

// cloneEnrollment copies the record and its slices so callers never share
// mutable state with the store.
func cloneEnrollment(e Enrollment) Enrollment {
	e.BackupCodeHashes = append([]string(nil), e.BackupCodeHashes...)
	e.Secret.Ciphertext = append([]byte(nil), e.Secret.Ciphertext...)
	e.Secret.WrappedKey = append([]byte(nil), e.Secret.WrappedKey...)
	return e
}
